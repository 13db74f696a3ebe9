// ABOUTME: Tests for the listing wizard
// ABOUTME: Validates prefill, request building and input parsing

package listingform

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/anuncia/anuncia-cli/internal/client"
)

func TestNewDefaults(t *testing.T) {
	w := New()
	if w.Editing() {
		t.Error("expected create mode")
	}
	if w.step != 1 {
		t.Errorf("expected step 1, got %d", w.step)
	}
	if w.condition != client.ConditionUsed {
		t.Errorf("expected default condition USADO, got %s", w.condition)
	}
	if w.category != client.Categories[0] {
		t.Errorf("expected first category, got %s", w.category)
	}
}

func TestNewEditPrefill(t *testing.T) {
	w := NewEdit(client.Listing{
		ID:              9,
		Name:            "Geladeira",
		Price:           1500.5,
		Condition:       client.ConditionNew,
		Category:        client.CategoryAppliances,
		Characteristics: map[string]any{"voltagem": "220V", "cor": "branca"},
	})

	if !w.Editing() {
		t.Fatal("expected edit mode")
	}
	if w.price != "1500,50" {
		t.Errorf("expected price 1500,50, got %q", w.price)
	}
	if w.characteristics != "cor=branca\nvoltagem=220V" {
		t.Errorf("unexpected characteristics %q", w.characteristics)
	}
	if !strings.Contains(w.View(), "Editar anúncio #9") {
		t.Error("expected edit title in view")
	}
}

func TestBuildCreate(t *testing.T) {
	w := New()
	w.name = "  Bicicleta "
	w.price = "R$ 850,00"
	w.characteristics = "aro=29\n\nmarca = Caloi"

	msg, err := w.build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg.Create == nil || msg.Update != nil || msg.ID != 0 {
		t.Fatalf("expected a create request, got %+v", msg)
	}
	if msg.Create.Name != "Bicicleta" {
		t.Errorf("expected trimmed name, got %q", msg.Create.Name)
	}
	if msg.Create.Price != 850 {
		t.Errorf("expected price 850, got %v", msg.Create.Price)
	}
	if msg.Create.Characteristics["marca"] != "Caloi" || len(msg.Create.Characteristics) != 2 {
		t.Errorf("unexpected characteristics %v", msg.Create.Characteristics)
	}
}

func TestBuildUpdate(t *testing.T) {
	w := NewEdit(client.Listing{ID: 3, Name: "Camisa", Price: 40, Condition: client.ConditionNew, Category: client.CategoryFashion})
	msg, err := w.build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg.ID != 3 || msg.Update == nil || msg.Create != nil {
		t.Fatalf("expected an update request, got %+v", msg)
	}
	if msg.Update.Price == nil || *msg.Update.Price != 40 {
		t.Errorf("expected price 40, got %v", msg.Update.Price)
	}
	if msg.Update.Characteristics != nil {
		t.Errorf("expected no characteristics, got %v", msg.Update.Characteristics)
	}
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"1500.5", 1500.5, false},
		{"1.500,50", 1500.5, false},
		{"R$ 1.500,50", 1500.5, false},
		{"99", 99, false},
		{"0", 0, true},
		{"-5", 0, true},
		{"abc", 0, true},
		{"Inf", 0, true},
		{"NaN", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parsePrice(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseCharacteristicsInvalidLine(t *testing.T) {
	_, err := parseCharacteristics("cor=azul\nsem separador")
	if err == nil || !strings.Contains(err.Error(), "Linha 2") {
		t.Errorf("expected line 2 error, got %v", err)
	}
}

func TestBusyBlocksKeysAndErrorReopens(t *testing.T) {
	w := New()
	w.step = 2
	w.busy = true
	if _, cmd := w.Update(tea.KeyMsg{Type: tea.KeyEsc}); cmd != nil {
		t.Error("expected keys ignored while busy")
	}
	if !strings.Contains(w.View(), "Salvando...") {
		t.Error("expected saving indicator")
	}

	w.SetError("Preço inválido.")
	if w.busy {
		t.Error("expected busy cleared")
	}
	if !strings.Contains(w.View(), "Preço inválido.") {
		t.Error("expected error in view")
	}
}

func TestEscCancels(t *testing.T) {
	w := New()
	_, cmd := w.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("expected a command")
	}
	if _, ok := cmd().(CancelledMsg); !ok {
		t.Error("expected CancelledMsg")
	}
}
