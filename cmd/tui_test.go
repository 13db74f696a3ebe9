// ABOUTME: Tests for the tui command
// ABOUTME: Verifies configuration is checked before the screen is taken over

package cmd

import (
	"context"
	"errors"
	"testing"

	"github.com/anuncia/anuncia-cli/internal/client"
)

func TestRunTUI_RequiresAPIURL(t *testing.T) {
	t.Setenv("ANUNCIA_API_URL", "")
	configDir = t.TempDir()
	defer func() { configDir = "" }()

	err := runTUI(context.Background())
	if !errors.Is(err, client.ErrBaseURLNotConfigured) {
		t.Errorf("expected ErrBaseURLNotConfigured, got %v", err)
	}
}

func TestTUICommand_SilencesCobraErrors(t *testing.T) {
	if !tuiCmd.SilenceErrors {
		t.Error("expected tui errors to be printed once by main")
	}
}
