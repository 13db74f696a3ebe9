// ABOUTME: Tests for the listings screen
// ABOUTME: Verifies row actions, local status guards and busy blocking

package listings

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/anuncia/anuncia-cli/internal/client"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func sample() []client.Listing {
	return []client.Listing{
		{ID: 1, Name: "Bicicleta", Price: 850, Status: client.StatusActive, Category: client.CategoryHome, Condition: client.ConditionUsed},
		{ID: 2, Name: "Geladeira", Price: 1500.5, Status: client.StatusSold, Category: client.CategoryAppliances, Condition: client.ConditionNew},
	}
}

func TestRowsRendered(t *testing.T) {
	m := New(sample())
	view := m.View()
	for _, want := range []string{"Meus anúncios (2)", "Bicicleta", "R$ 850,00", "1 ativos, 1 vendidos, 0 inativos"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected %q in view", want)
		}
	}
}

func TestEmptyListings(t *testing.T) {
	m := New(nil)
	if !strings.Contains(m.View(), "Você ainda não tem anúncios.") {
		t.Errorf("expected empty message, got %q", m.View())
	}
	if _, cmd := m.Update(runes("e")); cmd != nil {
		t.Error("expected edit to do nothing without a selection")
	}
	_, cmd := m.Update(runes("n"))
	if cmd == nil {
		t.Fatal("expected new listing action")
	}
	if msg := cmd().(ActionMsg); msg.Kind != ActionNew {
		t.Errorf("expected ActionNew, got %v", msg.Kind)
	}
}

func TestSoldOnActiveListing(t *testing.T) {
	m := New(sample())
	_, cmd := m.Update(runes("s"))
	if cmd == nil {
		t.Fatal("expected an action")
	}
	msg := cmd().(ActionMsg)
	if msg.Kind != ActionSold || msg.Listing.ID != 1 {
		t.Errorf("unexpected action %+v", msg)
	}
}

func TestTransitionBlockedLocally(t *testing.T) {
	m := New(sample())
	m.Update(tea.KeyMsg{Type: tea.KeyDown})

	if l, _ := m.Selected(); l.ID != 2 {
		t.Fatalf("expected second row selected, got %d", l.ID)
	}
	_, cmd := m.Update(runes("d"))
	if cmd != nil {
		t.Error("expected no action for a sold listing")
	}
	if !strings.Contains(m.View(), "Apenas anúncios ativos podem ser alterados.") {
		t.Errorf("expected inline error, got %q", m.View())
	}
}

func TestBusyBlocksActions(t *testing.T) {
	m := New(sample())
	m.SetBusy(true)
	for _, k := range []string{"s", "d", "e", "i", "n", "r"} {
		if _, cmd := m.Update(runes(k)); cmd != nil {
			t.Errorf("expected %q to be ignored while busy", k)
		}
	}
	m.SetError("falhou")
	if _, cmd := m.Update(runes("r")); cmd == nil {
		t.Error("expected actions after the error clears busy")
	}
}

func TestBack(t *testing.T) {
	m := New(sample())
	_, cmd := m.Update(runes("b"))
	if cmd == nil {
		t.Fatal("expected a command")
	}
	if _, ok := cmd().(BackMsg); !ok {
		t.Error("expected BackMsg")
	}
}

func TestSetListingsClampsCursor(t *testing.T) {
	m := New(sample())
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m.SetListings(sample()[:1])
	l, ok := m.Selected()
	if !ok || l.ID != 1 {
		t.Errorf("expected cursor clamped to first row, got %+v", l)
	}
}
