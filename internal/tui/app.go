package tui

import (
	"strings"

	"runcoach/internal/coach"
	"runcoach/internal/service"
	"runcoach/internal/store"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Screen identifiers
type Screen int

const (
	ScreenChat Screen = iota
	ScreenStats
	ScreenSync
	ScreenHelp
)

// App is the root Bubble Tea model
type App struct {
	screen     Screen
	prevScreen Screen

	// Screen models
	chat       ChatModel
	stats      StatsModel
	syncScreen SyncModel
	help       HelpModel

	// Services
	db           *store.DB
	statsService *service.StatsService
	syncService  *service.SyncService

	// Window dimensions
	width  int
	height int

	// Status message
	status string
}

// NewApp creates a new App with all dependencies
func NewApp(db *store.DB, session *coach.Session, statsService *service.StatsService, syncService *service.SyncService) *App {
	return &App{
		screen:       ScreenChat,
		db:           db,
		statsService: statsService,
		syncService:  syncService,
		chat:         NewChatModel(session),
		stats:        NewStatsModel(statsService),
		syncScreen:   NewSyncModel(syncService),
		help:         NewHelpModel(),
	}
}

// Init initializes the app
func (a *App) Init() tea.Cmd {
	return a.chat.Init()
}

// Update handles messages
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Global keybindings. The chat screen owns most keys while its
		// input has focus, so only a few chords are global there.
		chatTyping := a.screen == ScreenChat && a.chat.Focused()
		syncing := a.screen == ScreenSync && a.syncScreen.syncing

		if !syncing {
			switch msg.String() {
			case "ctrl+c":
				return a, tea.Quit
			case "q":
				if !chatTyping {
					return a, tea.Quit
				}
			case "1":
				if !chatTyping {
					a.screen = ScreenChat
					return a, a.chat.Init()
				}
			case "2":
				if !chatTyping {
					a.screen = ScreenStats
					a.stats = NewStatsModel(a.statsService)
					return a, a.stats.Init()
				}
			case "3":
				if !chatTyping {
					if a.screen != ScreenSync {
						a.screen = ScreenSync
						return a, a.syncScreen.Init()
					}
				}
			case "?":
				if !chatTyping {
					a.prevScreen = a.screen
					a.screen = ScreenHelp
					return a, nil
				}
			case "esc":
				if a.screen == ScreenHelp {
					a.screen = a.prevScreen
					return a, nil
				}
			}
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

	case SyncCompleteMsg:
		// Refresh stats after sync
		a.screen = ScreenStats
		a.stats = NewStatsModel(a.statsService)
		return a, a.stats.Init()
	}

	// Delegate to current screen
	var cmd tea.Cmd
	switch a.screen {
	case ScreenChat:
		var m tea.Model
		m, cmd = a.chat.Update(msg)
		a.chat = m.(ChatModel)
	case ScreenStats:
		var m tea.Model
		m, cmd = a.stats.Update(msg)
		a.stats = m.(StatsModel)
	case ScreenSync:
		var m tea.Model
		m, cmd = a.syncScreen.Update(msg)
		a.syncScreen = m.(SyncModel)
	case ScreenHelp:
		var m tea.Model
		m, cmd = a.help.Update(msg)
		a.help = m.(HelpModel)
	}

	return a, cmd
}

// View renders the app
func (a *App) View() string {
	header := a.renderHeader()
	nav := a.renderNav()

	var content string
	switch a.screen {
	case ScreenChat:
		content = a.chat.View()
	case ScreenStats:
		content = a.stats.View()
	case ScreenSync:
		content = a.syncScreen.View()
	case ScreenHelp:
		content = a.help.View()
	}

	footer := a.renderFooter()

	return lipgloss.JoinVertical(lipgloss.Left, header, nav, content, footer)
}

func (a *App) renderHeader() string {
	return headerStyle.Render("Run Coach")
}

var navItems = []struct {
	key    string
	label  string
	screen Screen
}{
	{"1", "Coach", ScreenChat},
	{"2", "Stats", ScreenStats},
	{"3", "Sync", ScreenSync},
	{"?", "Help", ScreenHelp},
}

func (a *App) renderNav() string {
	entries := make([]string, 0, len(navItems)+1)
	for _, item := range navItems {
		style := navInactiveStyle
		if a.screen == item.screen {
			style = navActiveStyle
		}
		entries = append(entries, style.Render("["+item.key+"] "+item.label))
	}
	entries = append(entries, navInactiveStyle.Render("[ctrl+c] Quit"))

	return navStyle.Render(strings.Join(entries, "  "))
}

func (a *App) renderFooter() string {
	if a.status != "" {
		return statusStyle.Render(a.status)
	}
	return ""
}

// SyncCompleteMsg is sent when sync finishes
type SyncCompleteMsg struct{}
