// ABOUTME: Two-step listing wizard as a bubbletea model
// ABOUTME: Creates new listings or edits existing ones with a progress indicator

package listingform

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/anuncia/anuncia-cli/internal/client"
	"github.com/anuncia/anuncia-cli/internal/tui/icons"
	"github.com/anuncia/anuncia-cli/internal/tui/styles"
	"github.com/anuncia/anuncia-cli/internal/validation"
)

// CompleteMsg is sent when both steps are filled in. ID is zero for a new
// listing, in which case Create is set; otherwise Update is set.
type CompleteMsg struct {
	ID     int64
	Create *client.CreateListingRequest
	Update *client.UpdateListingRequest
}

// CancelledMsg is sent when the wizard is cancelled
type CancelledMsg struct{}

var stepNames = []string{"Produto", "Classificação"}

// Wizard collects listing fields over two steps
type Wizard struct {
	id    int64
	form  *huh.Form
	step  int
	width int
	busy  bool
	err   string

	name            string
	description     string
	price           string
	condition       client.Condition
	category        client.Category
	characteristics string
}

// New creates a wizard for a new listing
func New() *Wizard {
	w := &Wizard{
		step:      1,
		condition: client.ConditionUsed,
		category:  client.Categories[0],
	}
	w.form = w.createStep1Form()
	return w
}

// NewEdit creates a wizard prefilled from an existing listing
func NewEdit(l client.Listing) *Wizard {
	w := &Wizard{
		id:              l.ID,
		step:            1,
		name:            l.Name,
		description:     l.Description,
		price:           formatPriceInput(l.Price),
		condition:       l.Condition,
		category:        l.Category,
		characteristics: formatCharacteristics(l.Characteristics),
	}
	w.form = w.createStep1Form()
	return w
}

// Editing reports whether the wizard edits an existing listing
func (w *Wizard) Editing() bool {
	return w.id != 0
}

func (w *Wizard) title() string {
	if w.Editing() {
		return fmt.Sprintf("Editar anúncio #%d", w.id)
	}
	return "Novo anúncio"
}

func (w *Wizard) createStep1Form() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Nome").
				CharLimit(120).
				Value(&w.name).
				Validate(func(s string) error {
					return validation.Var(strings.TrimSpace(s), "required,max=120")
				}),
			huh.NewText().
				Title("Descrição").
				CharLimit(2000).
				Lines(4).
				Value(&w.description),
			huh.NewInput().
				Title("Preço (R$)").
				Placeholder("1.500,00").
				Value(&w.price).
				Validate(validatePrice),
		).Title("Passo 1: "+stepNames[0]).
			Description(w.title()),
	).WithTheme(styles.FormTheme())
}

func (w *Wizard) createStep2Form() *huh.Form {
	conditions := make([]huh.Option[client.Condition], 0, len(client.Conditions))
	for _, c := range client.Conditions {
		conditions = append(conditions, huh.NewOption(c.Label(), c))
	}
	categories := make([]huh.Option[client.Category], 0, len(client.Categories))
	for _, c := range client.Categories {
		categories = append(categories, huh.NewOption(c.Label(), c))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[client.Condition]().
				Title("Condição").
				Options(conditions...).
				Value(&w.condition),
			huh.NewSelect[client.Category]().
				Title("Categoria").
				Options(categories...).
				Value(&w.category),
			huh.NewText().
				Title("Características").
				Description("Uma por linha, no formato chave=valor").
				Lines(4).
				Value(&w.characteristics).
				Validate(func(s string) error {
					_, err := parseCharacteristics(s)
					return err
				}),
		).Title("Passo 2: "+stepNames[1]).
			Description(w.title()),
	).WithTheme(styles.FormTheme())
}

// Init implements tea.Model
func (w *Wizard) Init() tea.Cmd {
	return w.form.Init()
}

// Update implements tea.Model
func (w *Wizard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w.width = msg.Width
	case tea.KeyMsg:
		if w.busy {
			return w, nil
		}
		if msg.String() == "esc" {
			return w, func() tea.Msg { return CancelledMsg{} }
		}
	}

	form, cmd := w.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		w.form = f
	}

	if w.form.State == huh.StateCompleted && !w.busy {
		return w.advanceStep()
	}
	return w, cmd
}

func (w *Wizard) advanceStep() (tea.Model, tea.Cmd) {
	if w.step == 1 {
		w.step = 2
		w.form = w.createStep2Form()
		return w, w.form.Init()
	}

	msg, err := w.build()
	if err != nil {
		return w, w.SetError(err.Error())
	}
	w.busy = true
	w.err = ""
	return w, func() tea.Msg { return msg }
}

// build turns the collected strings into a request.
func (w *Wizard) build() (CompleteMsg, error) {
	price, err := parsePrice(w.price)
	if err != nil {
		return CompleteMsg{}, err
	}
	chars, err := parseCharacteristics(w.characteristics)
	if err != nil {
		return CompleteMsg{}, err
	}

	if w.Editing() {
		return CompleteMsg{ID: w.id, Update: &client.UpdateListingRequest{
			Name:            strings.TrimSpace(w.name),
			Description:     strings.TrimSpace(w.description),
			Condition:       w.condition,
			Price:           &price,
			Category:        w.category,
			Characteristics: chars,
		}}, nil
	}
	return CompleteMsg{Create: &client.CreateListingRequest{
		Name:            strings.TrimSpace(w.name),
		Description:     strings.TrimSpace(w.description),
		Condition:       w.condition,
		Price:           price,
		Category:        w.category,
		Characteristics: chars,
	}}, nil
}

// SetError shows msg and reopens the last step with the entered values
func (w *Wizard) SetError(msg string) tea.Cmd {
	w.err = msg
	w.busy = false
	w.form = w.createStep2Form()
	return w.form.Init()
}

// View implements tea.Model
func (w *Wizard) View() string {
	var sb strings.Builder
	sb.WriteString(w.renderProgress())
	sb.WriteString("\n\n")
	if w.busy {
		sb.WriteString(styles.Help.Render("Salvando..."))
	} else {
		sb.WriteString(w.form.View())
	}
	if w.err != "" {
		sb.WriteString("\n")
		sb.WriteString(styles.Error.Render(w.err))
	}
	return sb.String()
}

// renderProgress renders the step indicator box
func (w *Wizard) renderProgress() string {
	width := w.width - 1
	if width < 60 {
		width = 60
	}

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	titleStyle := lipgloss.NewStyle().Foreground(styles.Primary)

	var steps []string
	for i, name := range stepNames {
		n := i + 1
		var indicator string
		var nameStyle lipgloss.Style
		switch {
		case n < w.step:
			indicator = lipgloss.NewStyle().Foreground(styles.Secondary).Render(icons.CheckOK.String())
			nameStyle = lipgloss.NewStyle().Foreground(styles.Muted)
		case n == w.step:
			indicator = lipgloss.NewStyle().Foreground(styles.Primary).Bold(true).Render("●")
			nameStyle = lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
		default:
			indicator = lipgloss.NewStyle().Foreground(styles.Muted).Render("○")
			nameStyle = lipgloss.NewStyle().Foreground(styles.Muted)
		}
		steps = append(steps, indicator+" "+nameStyle.Render(name))
	}
	stepsLine := strings.Join(steps, "    ")

	barWidth := width - 5
	filled := (w.step * barWidth) / len(stepNames)
	bar := lipgloss.NewStyle().Foreground(styles.Primary).Render(strings.Repeat("━", filled)) +
		lipgloss.NewStyle().Foreground(styles.Surface).Render(strings.Repeat("─", barWidth-filled))

	heading := w.title()
	top := "┌─ " + titleStyle.Render(heading) + " " + strings.Repeat("─", max(0, width-5-lipgloss.Width(heading))) + "┐"
	middle := "│ " + stepsLine + strings.Repeat(" ", max(0, width-4-lipgloss.Width(stepsLine))) + " │"
	progress := "│  " + bar + " │"
	bottom := "└" + strings.Repeat("─", width-2) + "┘"

	return borderStyle.Render(strings.Join([]string{top, middle, progress, bottom}, "\n"))
}

var errPrice = errors.New("Informe um preço maior que zero.")

func validatePrice(s string) error {
	_, err := parsePrice(s)
	return err
}

// parsePrice accepts "1500.5", "1.500,50" and "R$ 1.500,50".
func parsePrice(s string) (float64, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "R$"))
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) || v <= 0 {
		return 0, errPrice
	}
	return v, nil
}

func formatPriceInput(v float64) string {
	if v <= 0 {
		return ""
	}
	return strings.Replace(strconv.FormatFloat(v, 'f', 2, 64), ".", ",", 1)
}

// parseCharacteristics reads one key=value pair per line. Blank lines are skipped.
func parseCharacteristics(s string) (map[string]any, error) {
	out := map[string]any{}
	for i, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("Linha %d: use o formato chave=valor.", i+1)
		}
		out[key] = strings.TrimSpace(value)
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

func formatCharacteristics(m map[string]any) string {
	lines := make([]string, 0, len(m))
	for _, k := range slices.Sorted(maps.Keys(m)) {
		lines = append(lines, fmt.Sprintf("%s=%v", k, m[k]))
	}
	return strings.Join(lines, "\n")
}
