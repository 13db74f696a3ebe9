// ABOUTME: Test helpers for config tests
// ABOUTME: Provides utilities for environment variable management

package config

import (
	"os"
	"testing"
)

var managedVars = []string{
	"ANUNCIA_API_URL",
	"ANUNCIA_HTTP_TIMEOUT",
	"ANUNCIA_CONFIG_DIR",
	"ANUNCIA_SESSION_BACKEND",
	"ANUNCIA_LOG_LEVEL",
	"ANUNCIA_LOG_FORMAT",
	"XDG_CONFIG_HOME",
}

// withCleanEnv unsets every variable the loader reads, applies extra, and
// registers a cleanup that restores the original values.
func withCleanEnv(t *testing.T, extra map[string]string) {
	t.Helper()

	for _, key := range managedVars {
		if value, ok := os.LookupEnv(key); ok {
			t.Setenv(key, value) // registers restore
		}
		os.Unsetenv(key)
	}
	for key, value := range extra {
		t.Setenv(key, value)
	}
}
