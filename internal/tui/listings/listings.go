// ABOUTME: Listings screen: a table of the user's listings with row actions
// ABOUTME: Status changes are checked locally before any request is made

package listings

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/anuncia/anuncia-cli/internal/client"
	"github.com/anuncia/anuncia-cli/internal/tui/styles"
	"github.com/anuncia/anuncia-cli/internal/tui/widgets"
)

// ActionKind is a row action triggered from the table
type ActionKind int

const (
	ActionSold ActionKind = iota
	ActionDeactivate
	ActionEdit
	ActionImage
	ActionNew
	ActionRefresh
)

// ActionMsg asks the root model to perform an action. Listing is the
// zero value for ActionNew and ActionRefresh.
type ActionMsg struct {
	Kind    ActionKind
	Listing client.Listing
}

// BackMsg is sent when the user leaves the screen
type BackMsg struct{}

const minTableHeight = 5

// Model is the listings screen
type Model struct {
	table    table.Model
	listings []client.Listing
	busy     bool
	err      string
	notice   string
}

var columns = []table.Column{
	{Title: "ID", Width: 6},
	{Title: "Nome", Width: 28},
	{Title: "Status", Width: 12},
	{Title: "Preço", Width: 14},
	{Title: "Categoria", Width: 26},
}

// New creates the screen for the given listings
func New(listings []client.Listing) *Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.Muted).
		BorderBottom(true).
		Bold(true).
		Foreground(styles.Accent)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(styles.Primary).
		Bold(false)
	t.SetStyles(s)

	m := &Model{table: t}
	m.SetListings(listings)
	return m
}

// SetListings replaces the table contents, keeping the cursor in range
func (m *Model) SetListings(listings []client.Listing) {
	m.listings = listings
	rows := make([]table.Row, 0, len(listings))
	for _, l := range listings {
		rows = append(rows, table.Row{
			"#" + strconv.FormatInt(l.ID, 10),
			l.Name,
			widgets.StatusText(l.Status),
			client.FormatPrice(l.Price),
			l.Category.Label(),
		})
	}
	m.table.SetRows(rows)
	if c := m.table.Cursor(); c >= len(rows) && len(rows) > 0 {
		m.table.SetCursor(len(rows) - 1)
	}
	m.busy = false
}

// SetSize fits the table into the available content height
func (m *Model) SetSize(width, height int) {
	// header, detail panel and help take about 12 lines
	h := height - 12
	if h < minTableHeight {
		h = minTableHeight
	}
	m.table.SetHeight(h)
	m.table.SetWidth(width)
}

// SetBusy marks a request as in flight
func (m *Model) SetBusy(busy bool) {
	m.busy = busy
	if busy {
		m.err = ""
		m.notice = ""
	}
}

// SetError shows msg under the table and clears the busy state
func (m *Model) SetError(msg string) {
	m.err = msg
	m.busy = false
}

// SetNotice shows a success message under the table
func (m *Model) SetNotice(msg string) {
	m.notice = msg
	m.err = ""
}

// Selected returns the listing under the cursor
func (m *Model) Selected() (client.Listing, bool) {
	c := m.table.Cursor()
	if c < 0 || c >= len(m.listings) {
		return client.Listing{}, false
	}
	return m.listings[c], true
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "b", "esc":
		return m, func() tea.Msg { return BackMsg{} }
	case "s":
		return m, m.transition(ActionSold, client.StatusSold)
	case "d":
		return m, m.transition(ActionDeactivate, client.StatusInactive)
	case "e":
		return m, m.rowAction(ActionEdit)
	case "i":
		return m, m.rowAction(ActionImage)
	case "n":
		return m, m.action(ActionMsg{Kind: ActionNew})
	case "r":
		return m, m.action(ActionMsg{Kind: ActionRefresh})
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(key)
	return m, cmd
}

func (m *Model) action(msg ActionMsg) tea.Cmd {
	if m.busy {
		return nil
	}
	m.err = ""
	m.notice = ""
	return func() tea.Msg { return msg }
}

func (m *Model) rowAction(kind ActionKind) tea.Cmd {
	l, ok := m.Selected()
	if !ok {
		return nil
	}
	return m.action(ActionMsg{Kind: kind, Listing: l})
}

// transition emits the action only when the listing may move to target.
func (m *Model) transition(kind ActionKind, target client.Status) tea.Cmd {
	l, ok := m.Selected()
	if !ok || m.busy {
		return nil
	}
	if !l.Status.CanTransitionTo(target) {
		m.err = client.TransitionBlockedMessage(l.ID, l.Status)
		return nil
	}
	return m.action(ActionMsg{Kind: kind, Listing: l})
}

// View implements tea.Model
func (m *Model) View() string {
	var b strings.Builder

	counts := client.CountByStatus(m.listings)
	b.WriteString(styles.Title.Render(fmt.Sprintf("Meus anúncios (%d)", len(m.listings))))
	b.WriteString("\n")
	b.WriteString(styles.Subtitle.Render(fmt.Sprintf("%d ativos, %d vendidos, %d inativos",
		counts[client.StatusActive], counts[client.StatusSold], counts[client.StatusInactive])))
	b.WriteString("\n")

	if len(m.listings) == 0 {
		b.WriteString(styles.Help.Render("Você ainda não tem anúncios. Pressione n para criar um."))
	} else {
		b.WriteString(m.table.View())
		if l, ok := m.Selected(); ok {
			b.WriteString("\n\n")
			b.WriteString(renderDetail(l))
		}
	}

	switch {
	case m.busy:
		b.WriteString("\n")
		b.WriteString(styles.Help.Render("Aguarde..."))
	case m.err != "":
		b.WriteString("\n")
		b.WriteString(styles.Error.Render(m.err))
	case m.notice != "":
		b.WriteString("\n")
		b.WriteString(styles.Success.Render(m.notice))
	}
	return b.String()
}

func renderDetail(l client.Listing) string {
	lines := []string{
		widgets.StatusBadge(l.Status) + " " + styles.Value.Render(l.Name),
		styles.Field("Preço", client.FormatPrice(l.Price)),
		styles.Field("Condição", l.Condition.Label()),
		styles.Field("Categoria", l.Category.Label()),
		styles.Field("Publicado", l.PublishedAt),
		styles.Field("Imagem", l.Image),
	}
	if d := strings.TrimSpace(l.Description); d != "" {
		lines = append(lines, styles.Field("Descrição", truncate(d, 60)))
	}
	return strings.Join(lines, "\n")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
