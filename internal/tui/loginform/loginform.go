// ABOUTME: Login screen as a bubbletea model
// ABOUTME: Collects e-mail and password and blocks resubmission while a login is in flight

package loginform

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/anuncia/anuncia-cli/internal/tui/styles"
	"github.com/anuncia/anuncia-cli/internal/validation"
)

// SubmitMsg carries the credentials to log in with
type SubmitMsg struct {
	Email    string
	Password string
}

// CancelledMsg is sent when the user leaves the login screen
type CancelledMsg struct{}

// Form is the login screen
type Form struct {
	form     *huh.Form
	email    string
	password string
	busy     bool
	err      string
}

// New creates a login form, prefilled with email when known
func New(email string) *Form {
	f := &Form{email: email}
	f.form = f.newForm()
	return f
}

func (f *Form) newForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("E-mail").
				Placeholder("voce@exemplo.com").
				Value(&f.email).
				Validate(func(s string) error {
					return validation.Var(strings.TrimSpace(s), "required,email")
				}),
			huh.NewInput().
				Title("Senha").
				EchoMode(huh.EchoModePassword).
				Value(&f.password).
				Validate(func(s string) error {
					return validation.Var(s, "required")
				}),
		).Title("Entrar").
			Description("Acesse sua conta de vendedor"),
	).WithTheme(styles.FormTheme())
}

// Init implements tea.Model
func (f *Form) Init() tea.Cmd {
	return f.form.Init()
}

// Update implements tea.Model
func (f *Form) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		if f.busy {
			return f, nil
		}
		if key.String() == "esc" {
			return f, func() tea.Msg { return CancelledMsg{} }
		}
	}

	form, cmd := f.form.Update(msg)
	if hf, ok := form.(*huh.Form); ok {
		f.form = hf
	}

	if f.form.State == huh.StateCompleted && !f.busy {
		f.busy = true
		f.err = ""
		submit := SubmitMsg{Email: strings.TrimSpace(f.email), Password: f.password}
		return f, func() tea.Msg { return submit }
	}
	return f, cmd
}

// Busy reports whether a login request is in flight
func (f *Form) Busy() bool {
	return f.busy
}

// SetError shows msg and reopens the form for another attempt.
// The e-mail is kept, the password is cleared.
func (f *Form) SetError(msg string) tea.Cmd {
	f.err = msg
	f.busy = false
	f.password = ""
	f.form = f.newForm()
	return f.form.Init()
}

// View implements tea.Model
func (f *Form) View() string {
	var b strings.Builder
	if f.busy {
		b.WriteString(styles.Help.Render("Entrando..."))
	} else {
		b.WriteString(f.form.View())
	}
	if f.err != "" {
		b.WriteString("\n")
		b.WriteString(styles.Error.Render(f.err))
	}
	return b.String()
}
