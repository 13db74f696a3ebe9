// ABOUTME: Profile screen with a read-only view and an edit form
// ABOUTME: Only name, phone and CEP are editable; blank fields are left untouched

package profile

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/anuncia/anuncia-cli/internal/client"
	"github.com/anuncia/anuncia-cli/internal/tui/icons"
	"github.com/anuncia/anuncia-cli/internal/tui/styles"
	"github.com/anuncia/anuncia-cli/internal/validation"
)

// SaveMsg asks the root model to send the update
type SaveMsg struct {
	Request client.UpdateUserRequest
}

// BackMsg is sent when the user leaves the screen
type BackMsg struct{}

const msgNothingToSave = "Informe ao menos um campo para atualizar."

// Model is the profile screen
type Model struct {
	user    *client.User
	form    *huh.Form
	editing bool
	busy    bool
	err     string
	notice  string

	name  string
	phone string
	cep   string
}

// New creates the screen for user
func New(user *client.User) *Model {
	return &Model{user: user}
}

// Editing reports whether the edit form is open
func (m *Model) Editing() bool {
	return m.editing
}

func (m *Model) newForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Nome").
				Value(&m.name),
			huh.NewInput().
				Title("Telefone").
				Value(&m.phone),
			huh.NewInput().
				Title("CEP").
				Description("8 dígitos").
				Value(&m.cep).
				Validate(func(s string) error {
					return validation.Var(strings.TrimSpace(s), "omitempty,cep")
				}),
		).Title("Editar perfil").
			Description("Deixe em branco para manter o valor atual"),
	).WithTheme(styles.FormTheme())
}

// startEdit opens the form prefilled with the current values.
func (m *Model) startEdit() tea.Cmd {
	m.editing = true
	m.err = ""
	m.notice = ""
	if m.user != nil {
		m.name, m.phone, m.cep = m.user.Name, m.user.Phone, m.user.CEP
	}
	m.form = m.newForm()
	return m.form.Init()
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		if m.busy {
			return m, nil
		}
		if !m.editing {
			switch key.String() {
			case "e":
				return m, m.startEdit()
			case "b", "esc":
				return m, func() tea.Msg { return BackMsg{} }
			}
			return m, nil
		}
		if key.String() == "esc" {
			m.editing = false
			m.form = nil
			return m, nil
		}
	}

	if !m.editing || m.form == nil {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	if m.form.State == huh.StateCompleted {
		return m, m.submit()
	}
	return m, cmd
}

// submit sends only the fields that differ from the loaded profile.
func (m *Model) submit() tea.Cmd {
	req := client.UpdateUserRequest{
		Name:  changed(m.name, m.user, func(u *client.User) string { return u.Name }),
		Phone: changed(m.phone, m.user, func(u *client.User) string { return u.Phone }),
		CEP:   changed(validation.Digits(m.cep), m.user, func(u *client.User) string { return validation.Digits(u.CEP) }),
	}
	if req.Name == "" && req.Phone == "" && req.CEP == "" {
		m.err = msgNothingToSave
		m.form = m.newForm()
		return m.form.Init()
	}
	m.busy = true
	m.err = ""
	return func() tea.Msg { return SaveMsg{Request: req} }
}

func changed(value string, u *client.User, current func(*client.User) string) string {
	value = strings.TrimSpace(value)
	if u != nil && value == current(u) {
		return ""
	}
	return value
}

// SetUser shows the saved profile and closes the form
func (m *Model) SetUser(user *client.User, notice string) {
	m.user = user
	m.editing = false
	m.busy = false
	m.form = nil
	m.err = ""
	m.notice = notice
}

// SetError shows msg and reopens the form with the entered values
func (m *Model) SetError(msg string) tea.Cmd {
	m.err = msg
	m.busy = false
	if !m.editing {
		return nil
	}
	m.form = m.newForm()
	return m.form.Init()
}

// View implements tea.Model
func (m *Model) View() string {
	var b strings.Builder

	switch {
	case m.busy:
		b.WriteString(styles.Help.Render("Salvando..."))
	case m.editing && m.form != nil:
		b.WriteString(m.form.View())
	default:
		b.WriteString(m.renderUser())
	}

	if m.err != "" {
		b.WriteString("\n")
		b.WriteString(styles.Error.Render(m.err))
	} else if m.notice != "" {
		b.WriteString("\n")
		b.WriteString(styles.Success.Render(icons.CheckOK.String() + " " + m.notice))
	}
	return b.String()
}

func (m *Model) renderUser() string {
	var b strings.Builder
	b.WriteString(styles.Title.Render(icons.User.String() + " Meu perfil"))
	b.WriteString("\n")
	if m.user == nil {
		b.WriteString(styles.Help.Render("Perfil não carregado."))
		return b.String()
	}
	u := m.user
	b.WriteString(strings.Join([]string{
		styles.Field("Nome", u.Name),
		styles.Field("E-mail", u.Email),
		styles.Field("Telefone", u.Phone),
		styles.Field("CPF/CNPJ", u.CPFCNPJ),
		styles.Field("Endereço", u.Address()),
	}, "\n"))
	return b.String()
}
