package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/oauth2"

	tea "github.com/charmbracelet/bubbletea"

	"runcoach/internal/auth"
	"runcoach/internal/coach"
	"runcoach/internal/config"
	"runcoach/internal/export"
	"runcoach/internal/sensor"
	"runcoach/internal/service"
	"runcoach/internal/signature"
	"runcoach/internal/snapshot"
	"runcoach/internal/store"
	"runcoach/internal/tui"
)

func main() {
	exportDir := flag.String("export", "", "export weekly history as CSV to this directory and exit")
	syncOnly := flag.Bool("sync", false, "sync from the sensor platform and exit")
	flag.Parse()

	if err := run(*exportDir, *syncOnly); err != nil {
		log.Fatal(err)
	}
}

func run(exportDir string, syncOnly bool) error {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if errors.Is(err, config.ErrNoConfig) {
		fmt.Println("No config file found. Creating example config...")
		if err := config.CreateExample(); err != nil {
			return fmt.Errorf("creating example config: %w", err)
		}
		configDir, _ := config.GetConfigDir()
		fmt.Printf("\nPlease edit the config file at:\n  %s/config.json\n\n", configDir)
		fmt.Println("You need to add your sensor platform API credentials.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Validate config
	if err := cfg.Validate(); err != nil {
		configDir, _ := config.GetConfigDir()
		fmt.Printf("Config validation failed: %v\n\n", err)
		fmt.Printf("Please edit the config file at:\n  %s/config.json\n", configDir)
		return nil
	}

	// Open database
	db, err := store.Open()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	// Check for existing auth
	storedAuth, err := db.GetAuth()
	if errors.Is(err, store.ErrNoAuth) {
		fmt.Println("No authentication found. Starting OAuth flow...")
		if err := authenticate(ctx, db, cfg); err != nil {
			return fmt.Errorf("authentication: %w", err)
		}
		storedAuth, err = db.GetAuth()
		if err != nil {
			return fmt.Errorf("fetching auth after login: %w", err)
		}
	} else if err != nil {
		return fmt.Errorf("checking auth: %w", err)
	}

	// Create token source for API calls (with auto-refresh)
	oauthCfg := newOAuthConfig(cfg)

	token := &oauth2.Token{
		AccessToken:  storedAuth.AccessToken,
		RefreshToken: storedAuth.RefreshToken,
		Expiry:       storedAuth.ExpiresAt,
	}

	tokenSource := auth.NewTokenSource(oauthCfg, token, func(newToken *oauth2.Token) error {
		return db.UpdateTokens(newToken.AccessToken, newToken.RefreshToken, newToken.Expiry)
	})

	// Test token is valid by getting a fresh one
	if _, err := tokenSource.Token(); err != nil {
		fmt.Println("Stored token is invalid or expired. Re-authenticating...")
		if err := authenticate(ctx, db, cfg); err != nil {
			return fmt.Errorf("re-authentication: %w", err)
		}
	}

	// Create services
	client := sensor.NewClient(cfg.Sensor.BaseURL, tokenSource)
	syncSvc := service.NewSyncService(client, db)
	builder := snapshot.NewBuilder(sensor.NewStoreSource(db), cfg.Thresholds())
	statsSvc := service.NewStatsService(db, builder)

	if syncOnly {
		return runSync(ctx, syncSvc)
	}
	if exportDir != "" {
		return runExport(ctx, exportDir, builder)
	}

	session := coach.NewSession(coach.NewClient(cfg.Coach.BaseURL), builder)

	// The TUI owns the terminal, so the standard logger writes to a file
	if err := redirectLog(); err != nil {
		return fmt.Errorf("setting up log file: %w", err)
	}

	app := tui.NewApp(db, session, statsSvc, syncSvc)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}

	return nil
}

// runSync performs a one-shot sync and prints a summary
func runSync(ctx context.Context, syncSvc *service.SyncService) error {
	fmt.Println("Syncing from the sensor platform...")

	result, err := syncSvc.SyncAll(ctx, nil)
	if err != nil {
		return fmt.Errorf("sync: %w", err)
	}

	fmt.Printf("Fetched %d workouts, stored %d, samples for %d.\n",
		result.WorkoutsFetched, result.WorkoutsStored, result.SamplesSynced)
	for _, e := range result.Errors {
		fmt.Printf("  warning: %v\n", e)
	}
	return nil
}

// exportWeeks is how many trailing weeks the CSV export covers
const exportWeeks = 104

// runExport writes the weekly history and per-session CSVs
func runExport(ctx context.Context, dir string, builder *snapshot.Builder) error {
	weeks := builder.BuildWeeks(ctx, exportWeeks, time.Now())

	sig, err := signature.Build(weeks)
	if err != nil {
		fmt.Printf("note: no signature (%v), exporting weeks only\n", err)
		sig = nil
	}

	if err := export.WriteAll(dir, weeks, sig); err != nil {
		return err
	}

	fmt.Printf("Exported %d weeks to %s\n", len(weeks), dir)
	return nil
}

// redirectLog sends the standard logger to ~/.runcoach/runcoach.log
func redirectLog() error {
	dir, err := config.GetConfigDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	f, err := os.OpenFile(filepath.Join(dir, "runcoach.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}
	log.SetOutput(f)
	return nil
}

func newOAuthConfig(cfg *config.Config) *oauth2.Config {
	return auth.NewOAuthConfig(cfg.Sensor.BaseURL, auth.Config{
		ClientID:     cfg.Sensor.ClientID,
		ClientSecret: cfg.Sensor.ClientSecret,
		RedirectURL:  fmt.Sprintf("http://localhost:%d/callback", auth.CallbackPort),
	})
}

func authenticate(ctx context.Context, db *store.DB, cfg *config.Config) error {
	result, err := auth.Authenticate(ctx, newOAuthConfig(cfg))
	if err != nil {
		return err
	}

	storedAuth := &store.Auth{
		AthleteID:    result.UserID,
		AccessToken:  result.Token.AccessToken,
		RefreshToken: result.Token.RefreshToken,
		ExpiresAt:    result.Token.Expiry,
	}

	if err := db.SaveAuth(storedAuth); err != nil {
		return fmt.Errorf("saving auth: %w", err)
	}

	fmt.Println()
	fmt.Printf("Successfully connected as user %d!\n", result.UserID)
	return nil
}
