// ABOUTME: Image picker TUI component for choosing a listing image
// ABOUTME: Shows recently uploaded images and a path input

package imagepicker

import (
	"errors"
	"os"
	"strings"

	"github.com/anuncia/anuncia-cli/internal/client"
	"github.com/anuncia/anuncia-cli/internal/tui/styles"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type state int

const (
	stateList state = iota
	stateInput
)

// ImageSelectedMsg is sent when a readable image path is chosen
type ImageSelectedMsg struct {
	Path string
}

// CancelledMsg is sent when the user backs out
type CancelledMsg struct{}

// Picker is the image selection component
type Picker struct {
	title     string
	recent    []string
	cursor    int
	state     state
	textInput textinput.Model
	err       string
	width     int
}

// New creates a picker for the given listing title
func New(title string, recent []string) *Picker {
	ti := textinput.New()
	ti.Placeholder = "~/Imagens/produto.jpg"
	ti.CharLimit = 512
	ti.Width = 60

	return &Picker{
		title:     title,
		recent:    recent,
		textInput: ti,
	}
}

// Init implements tea.Model
func (p *Picker) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (p *Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		return p, nil

	case tea.KeyMsg:
		p.err = ""
		if p.state == stateInput {
			return p.updateInput(msg)
		}
		return p.updateList(msg)
	}
	return p, nil
}

func (p *Picker) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(p.recent) {
			p.cursor++
		}
	case "enter":
		if p.cursor < len(p.recent) {
			return p.choose(p.recent[p.cursor])
		}
		p.state = stateInput
		p.textInput.Focus()
		return p, textinput.Blink
	case "esc", "b":
		return p, func() tea.Msg { return CancelledMsg{} }
	}
	return p, nil
}

func (p *Picker) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		p.state = stateList
		p.textInput.SetValue("")
		p.textInput.Blur()
		return p, nil
	case "enter":
		path := strings.TrimSpace(p.textInput.Value())
		if path == "" {
			p.err = "Informe o caminho da imagem."
			return p, nil
		}
		return p.choose(path)
	}

	var cmd tea.Cmd
	p.textInput, cmd = p.textInput.Update(msg)
	return p, cmd
}

// choose validates path and emits ImageSelectedMsg.
func (p *Picker) choose(path string) (tea.Model, tea.Cmd) {
	expanded := expandPath(path)
	if !client.IsImagePath(expanded) {
		p.err = "Formato não suportado. Use JPG, PNG ou WEBP."
		return p, nil
	}

	info, err := os.Stat(expanded)
	switch {
	case errors.Is(err, os.ErrNotExist):
		p.err = "Arquivo não encontrado: " + path
		return p, nil
	case errors.Is(err, os.ErrPermission):
		p.err = "Sem permissão para ler o arquivo."
		return p, nil
	case err != nil:
		p.err = "Erro ao ler o arquivo: " + err.Error()
		return p, nil
	case info.IsDir():
		p.err = "O caminho informado é um diretório."
		return p, nil
	}

	return p, func() tea.Msg { return ImageSelectedMsg{Path: expanded} }
}

// expandPath expands ~ to the home directory
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return home + path[1:]
		}
	} else if path == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			return home
		}
	}
	return path
}

// SetError shows msg under the picker
func (p *Picker) SetError(msg string) {
	p.err = msg
}

// View implements tea.Model
func (p *Picker) View() string {
	var b strings.Builder
	b.WriteString(styles.Title.Render("Imagem do anúncio: " + p.title))
	b.WriteString("\n")

	if p.state == stateInput {
		b.WriteString(styles.Help.Render("Caminho do arquivo:"))
		b.WriteString("\n")
		b.WriteString(p.textInput.View())
	} else {
		if len(p.recent) > 0 {
			b.WriteString(styles.Help.Render("Imagens recentes:"))
			b.WriteString("\n")
			for i, path := range p.recent {
				b.WriteString(p.item(i, p.shorten(path)))
			}
			b.WriteString("\n")
		}
		b.WriteString(p.item(len(p.recent), "Digitar caminho..."))
	}

	if p.err != "" {
		b.WriteString("\n")
		b.WriteString(styles.Error.Render("Erro: " + p.err))
	}
	return b.String()
}

func (p *Picker) item(i int, label string) string {
	if i == p.cursor {
		return "> " + styles.Selected.Render(label) + "\n"
	}
	return "  " + styles.Normal.Render(label) + "\n"
}

// shorten keeps the tail of long paths visible
func (p *Picker) shorten(path string) string {
	limit := p.width - 10
	if p.width <= 20 || len(path) <= limit {
		return path
	}
	return "..." + path[len(path)-(limit-3):]
}
