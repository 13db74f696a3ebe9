// ABOUTME: Tests for the session status command
// ABOUTME: Verifies human and JSON output with and without an active session

package cmd

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/anuncia/anuncia-cli/internal/session"
)

func TestSessionStatus_NoSession(t *testing.T) {
	a := newTestApp(t, "http://unused")

	var buf bytes.Buffer
	if code := runSessionStatus(a, &buf, time.Now()); code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if !strings.Contains(buf.String(), "Nenhuma sessão ativa") {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestSessionStatus_OpaqueToken(t *testing.T) {
	a := newTestApp(t, "http://unused")
	loggedIn(t, a, session.Profile{Name: "Ana", Email: "a@x.com"})

	var buf bytes.Buffer
	runSessionStatus(a, &buf, time.Now())
	out := buf.String()
	if !strings.Contains(out, "Ana <a@x.com>") {
		t.Errorf("expected user line, got %q", out)
	}
	if !strings.Contains(out, "Token:      opaco") {
		t.Errorf("expected opaque token line, got %q", out)
	}
}

func TestSessionStatus_JSON(t *testing.T) {
	withJSONOutput(t)
	a := newTestApp(t, "http://unused")
	loggedIn(t, a, session.Profile{ID: 3, Name: "Ana", Email: "a@x.com"})

	var buf bytes.Buffer
	runSessionStatus(a, &buf, time.Now())

	var out sessionStatus
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if !out.Active || out.Backend != "memory" {
		t.Errorf("unexpected status %+v", out)
	}
	if out.ExpiresAt == nil || out.ExpiresAt.Before(time.Now()) {
		t.Errorf("expected future expiry, got %v", out.ExpiresAt)
	}
	if out.Token == nil || !out.Token.Opaque {
		t.Errorf("expected opaque token info, got %+v", out.Token)
	}
}
