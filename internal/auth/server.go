package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

const (
	// CallbackPort is the port for the OAuth callback server
	CallbackPort = 8089
	// Timeout is how long to wait for the user to complete auth
	Timeout = 5 * time.Minute
)

// callbackResult is what the local callback handler produced: either an
// authorization code or the reason the round trip failed.
type callbackResult struct {
	code string
	err  error
}

// Authenticate runs the authorization-code flow. It stands up a short-lived
// callback server on CallbackPort, prints the authorization URL for the user
// to open, and waits for the platform to redirect back with a code, which it
// then exchanges for a token.
func Authenticate(ctx context.Context, cfg *oauth2.Config) (*Result, error) {
	state, err := randomState()
	if err != nil {
		return nil, fmt.Errorf("generating state: %w", err)
	}

	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", CallbackPort))
	if err != nil {
		return nil, fmt.Errorf("starting callback server: %w", err)
	}

	results := make(chan callbackResult, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", handleCallback(state, results))
	server := &http.Server{Handler: mux}
	defer stopServer(server)

	go func() {
		if err := server.Serve(listener); !errors.Is(err, http.ErrServerClosed) {
			results <- callbackResult{err: fmt.Errorf("callback server: %w", err)}
		}
	}()

	fmt.Println()
	fmt.Println("To connect your sensor account, open this URL in your browser:")
	fmt.Println()
	fmt.Printf("  %s\n", cfg.AuthCodeURL(state, oauth2.AccessTypeOffline))
	fmt.Println()
	fmt.Println("Waiting for authorization...")

	var res callbackResult
	select {
	case res = <-results:
	case <-time.After(Timeout):
		return nil, fmt.Errorf("authentication timeout after %v", Timeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if res.err != nil {
		return nil, res.err
	}

	token, err := cfg.Exchange(ctx, res.code)
	if err != nil {
		return nil, fmt.Errorf("exchanging code for token: %w", err)
	}

	return &Result{
		Token:  token,
		UserID: ExtractUserID(token),
	}, nil
}

// handleCallback validates the redirect from the platform and forwards the
// authorization code. The state check comes first; a mismatch means the
// redirect did not originate from our own authorization URL.
func handleCallback(state string, results chan<- callbackResult) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		switch {
		case q.Get("state") != state:
			http.Error(w, "State mismatch", http.StatusBadRequest)
			results <- callbackResult{err: errors.New("state mismatch in callback")}
		case q.Get("error") != "":
			http.Error(w, "Authorization failed", http.StatusBadRequest)
			results <- callbackResult{err: fmt.Errorf("authorization denied: %s", q.Get("error"))}
		case q.Get("code") == "":
			http.Error(w, "No authorization code", http.StatusBadRequest)
			results <- callbackResult{err: errors.New("callback carried no code")}
		default:
			w.Header().Set("Content-Type", "text/html")
			fmt.Fprint(w, successPage)
			results <- callbackResult{code: q.Get("code")}
		}
	}
}

const successPage = `<!DOCTYPE html>
<html>
<head><title>Connected</title></head>
<body style="font-family: system-ui; display: flex; justify-content: center; align-items: center; height: 100vh; margin: 0;">
<div style="text-align: center;">
<h1 style="color: #10B981;">Connected!</h1>
<p>You can close this window and return to the terminal.</p>
</div>
</body>
</html>`

// randomState creates the CSRF token carried through the redirect
func randomState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func stopServer(server *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	server.Shutdown(ctx)
}
