// ABOUTME: Shared helpers for command tests
// ABOUTME: Builds an app backed by in-memory session storage and an httptest backend

package cmd

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/anuncia/anuncia-cli/internal/client"
	"github.com/anuncia/anuncia-cli/internal/config"
	"github.com/anuncia/anuncia-cli/internal/session"
)

// newTestApp wires an app against baseURL with a memory session store.
func newTestApp(t *testing.T, baseURL string) *app {
	t.Helper()
	log := discardLogger()
	store := session.New(session.NewMemoryStorage(), session.WithLogger(log))
	return &app{
		cfg:    &config.Config{APIURL: baseURL, SessionBackend: config.BackendMemory, HTTPTimeout: 5 * time.Second},
		store:  store,
		client: client.New(baseURL, client.WithTokenSource(store), client.WithLogger(log)),
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// loggedIn saves a session for profile on a.
func loggedIn(t *testing.T, a *app, profile session.Profile) {
	t.Helper()
	if !a.store.Save("test-token", profile) {
		t.Fatal("failed to save test session")
	}
}

// withJSONOutput enables --json for the duration of the test.
func withJSONOutput(t *testing.T) {
	t.Helper()
	jsonOutput = true
	t.Cleanup(func() { jsonOutput = false })
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
