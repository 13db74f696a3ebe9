// ABOUTME: Session status command
// ABOUTME: Reports the cached profile, the client-side expiry and unverified token claims

package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/anuncia/anuncia-cli/internal/session"
	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Inspect the local session",
}

var sessionStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether a session is active",
	Long: `Show whether a session is active. An expired session is cleared.

Token claims are decoded without verifying the signature and are shown
for information only.`,
	Run: func(cmd *cobra.Command, args []string) {
		runCommand(func(_ context.Context, a *app, w io.Writer) int {
			return runSessionStatus(a, w, time.Now())
		})
	},
}

func init() {
	sessionCmd.AddCommand(sessionStatusCmd)
	rootCmd.AddCommand(sessionCmd)
}

// sessionStatus is the JSON shape of session status.
type sessionStatus struct {
	Active    bool             `json:"active"`
	Backend   string           `json:"backend"`
	Profile   *session.Profile `json:"profile,omitempty"`
	ExpiresAt *time.Time       `json:"expires_at,omitempty"`
	Token     *tokenStatus     `json:"token,omitempty"`
}

type tokenStatus struct {
	Opaque    bool       `json:"opaque"`
	Subject   string     `json:"subject,omitempty"`
	IssuedAt  *time.Time `json:"issued_at,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// runSessionStatus never fails: an absent session is a valid answer.
func runSessionStatus(a *app, w io.Writer, now time.Time) int {
	status := sessionStatus{Active: a.store.IsValid(), Backend: a.cfg.SessionBackend}
	if status.Active {
		status.Profile = a.store.Read()
		if exp, ok := a.store.ExpiresAt(); ok {
			status.ExpiresAt = &exp
		}
		info := session.Inspect(a.store.Token())
		status.Token = &tokenStatus{
			Opaque:    info.Opaque,
			Subject:   info.Subject,
			IssuedAt:  timePtr(info.IssuedAt),
			ExpiresAt: timePtr(info.ExpiresAt),
		}
	}

	if IsJSONOutput() {
		printJSON(w, status)
		return exitOK
	}
	fmt.Fprintln(w, formatSessionHuman(status, now))
	return exitOK
}

func formatSessionHuman(s sessionStatus, now time.Time) string {
	if !s.Active {
		return "Nenhuma sessão ativa. Use \"anuncia login\" para entrar."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Sessão:     ativa (%s)\n", s.Backend)
	if s.Profile != nil {
		fmt.Fprintf(&b, "Usuário:    %s <%s>\n", displayName(s.Profile), s.Profile.Email)
	}
	if s.ExpiresAt != nil {
		fmt.Fprintf(&b, "Expira em:  %s (%s)\n", s.ExpiresAt.Local().Format("02/01/2006 15:04"), s.ExpiresAt.Sub(now).Round(time.Minute))
	} else {
		fmt.Fprintln(&b, "Expira em:  -")
	}
	switch {
	case s.Token == nil:
	case s.Token.Opaque:
		fmt.Fprint(&b, "Token:      opaco")
	default:
		fmt.Fprintf(&b, "Token:      JWT, sub=%s", orDash(s.Token.Subject))
		if s.Token.ExpiresAt != nil {
			fmt.Fprintf(&b, ", exp=%s", s.Token.ExpiresAt.Local().Format("02/01/2006 15:04"))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
