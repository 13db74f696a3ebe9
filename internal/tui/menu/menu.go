// ABOUTME: Home screen action menu
// ABOUTME: Embeds a huh select and reports the chosen action to the root model

package menu

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/anuncia/anuncia-cli/internal/tui/icons"
	"github.com/anuncia/anuncia-cli/internal/tui/styles"
)

// Action is a home screen choice
type Action int

const (
	ActionListings Action = iota
	ActionNewListing
	ActionProfile
	ActionRefresh
	ActionLogout
	ActionQuit
)

// Actions lists every action in display order.
var Actions = []Action{ActionListings, ActionNewListing, ActionProfile, ActionRefresh, ActionLogout, ActionQuit}

// String returns the menu label for the action
func (a Action) String() string {
	switch a {
	case ActionListings:
		return "Meus anúncios"
	case ActionNewListing:
		return "Novo anúncio"
	case ActionProfile:
		return "Meu perfil"
	case ActionRefresh:
		return "Atualizar"
	case ActionLogout:
		return "Sair da conta"
	case ActionQuit:
		return "Fechar"
	default:
		return "desconhecido"
	}
}

func (a Action) icon() icons.Icon {
	switch a {
	case ActionListings:
		return icons.Listing
	case ActionNewListing:
		return icons.New
	case ActionProfile:
		return icons.User
	case ActionRefresh:
		return icons.Refresh
	case ActionLogout:
		return icons.Logout
	default:
		return icons.Quit
	}
}

// SelectedMsg is sent when an action is chosen
type SelectedMsg struct {
	Action Action
}

// Menu is the home action menu
type Menu struct {
	form   *huh.Form
	choice Action
}

// New creates the menu with the first action highlighted
func New() *Menu {
	m := &Menu{}
	m.form = m.newForm()
	return m
}

func (m *Menu) newForm() *huh.Form {
	options := make([]huh.Option[Action], 0, len(Actions))
	for _, a := range Actions {
		options = append(options, huh.NewOption(a.icon().String()+" "+a.String(), a))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[Action]().
				Title("O que deseja fazer?").
				Options(options...).
				Value(&m.choice),
		),
	).WithTheme(styles.FormTheme()).WithShowHelp(false)
}

// Init implements tea.Model
func (m *Menu) Init() tea.Cmd {
	return m.form.Init()
}

// Update implements tea.Model
func (m *Menu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		choice := m.choice
		// a fresh form keeps the menu usable when the user returns home
		m.form = m.newForm()
		return m, tea.Batch(m.form.Init(), Select(choice))
	}
	return m, cmd
}

// Select returns a command that reports a as chosen
func Select(a Action) tea.Cmd {
	return func() tea.Msg { return SelectedMsg{Action: a} }
}

// View implements tea.Model
func (m *Menu) View() string {
	return m.form.View()
}
