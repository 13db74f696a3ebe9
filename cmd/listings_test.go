// ABOUTME: Tests for listing commands
// ABOUTME: Verifies status transition guards, payloads and table formatting

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/anuncia/anuncia-cli/internal/client"
	"github.com/anuncia/anuncia-cli/internal/session"
	"github.com/anuncia/anuncia-cli/internal/tui/recentfiles"
	"github.com/anuncia/anuncia-cli/internal/validation"
)

func TestListingsList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/produtos/usuario/7" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		writeJSON(w, http.StatusOK, []client.Listing{
			{ID: 1, Name: "Geladeira Frost Free", Status: client.StatusActive, Price: 1500, Category: client.CategoryAppliances},
		})
	}))
	defer server.Close()

	a := newTestApp(t, server.URL)
	loggedIn(t, a, session.Profile{ID: 7, Name: "Ana", Email: "a@x.com"})

	var buf bytes.Buffer
	if code := runListingsList(context.Background(), a, &buf); code != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", code, buf.String())
	}
	out := buf.String()
	if !strings.Contains(out, "Geladeira Frost Free") || !strings.Contains(out, "R$ 1.500,00") {
		t.Errorf("unexpected table %q", out)
	}
}

func TestListingsList_Empty(t *testing.T) {
	if got := formatListingsHuman(nil); got != "Você ainda não tem anúncios." {
		t.Errorf("unexpected empty output %q", got)
	}
}

func TestListingCreate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/produtos/usuario/7" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		chars, _ := body["caracteristicas"].(map[string]any)
		if chars["cor"] != "azul" {
			t.Errorf("expected characteristics in payload, got %v", body)
		}
		writeJSON(w, http.StatusCreated, client.Listing{ID: 12, Name: "Camisa", Status: client.StatusActive, Price: 50})
	}))
	defer server.Close()

	a := newTestApp(t, server.URL)
	loggedIn(t, a, session.Profile{ID: 7, Name: "Ana", Email: "a@x.com"})

	input := &client.CreateListingRequest{
		Name:            "Camisa",
		Condition:       client.ConditionNew,
		Price:           50,
		Category:        client.CategoryFashion,
		Characteristics: characteristics(map[string]string{"cor": "azul"}),
	}
	var buf bytes.Buffer
	if code := runListingCreate(context.Background(), a, &buf, input); code != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", code, buf.String())
	}
	if !strings.Contains(buf.String(), "Anúncio #12 publicado.") {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestListingCreate_InvalidInput(t *testing.T) {
	a := newTestApp(t, "http://unused")
	loggedIn(t, a, session.Profile{ID: 7, Name: "Ana", Email: "a@x.com"})

	input := &client.CreateListingRequest{Name: "Camisa", Condition: "SEMINOVO", Price: 0, Category: client.CategoryFashion}
	var buf bytes.Buffer
	if code := runListingCreate(context.Background(), a, &buf, input); code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
	out := buf.String()
	if !strings.Contains(out, "condicao") || !strings.Contains(out, "preco") {
		t.Errorf("expected condicao and preco errors, got %q", out)
	}
}

func TestListingCreate_InfinitePrice(t *testing.T) {
	var called atomic.Bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called.Store(true)
	}))
	defer server.Close()

	a := newTestApp(t, server.URL)
	loggedIn(t, a, session.Profile{ID: 7, Name: "Ana", Email: "a@x.com"})

	input := &client.CreateListingRequest{Name: "Camisa", Condition: client.ConditionUsed, Price: math.Inf(1), Category: client.CategoryFashion}
	var buf bytes.Buffer
	if code := runListingCreate(context.Background(), a, &buf, input); code != 1 {
		t.Fatalf("expected exit code 1, got %d (%s)", code, buf.String())
	}
	if !strings.Contains(buf.String(), validation.MsgNumber) {
		t.Errorf("expected number message, got %q", buf.String())
	}
	if called.Load() {
		t.Error("expected no request to be sent")
	}
}

func TestListingTransition_OnlyFromActive(t *testing.T) {
	tests := []struct {
		name     string
		current  client.Status
		target   client.Status
		wantCode int
		wantPUT  bool
	}{
		{"active to sold", client.StatusActive, client.StatusSold, 0, true},
		{"active to inactive", client.StatusActive, client.StatusInactive, 0, true},
		{"sold to inactive", client.StatusSold, client.StatusInactive, 1, false},
		{"inactive to sold", client.StatusInactive, client.StatusSold, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var put atomic.Bool
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				switch r.Method {
				case http.MethodGet:
					writeJSON(w, http.StatusOK, client.Listing{ID: 5, Status: tt.current})
				case http.MethodPut:
					put.Store(true)
					writeJSON(w, http.StatusOK, client.Listing{ID: 5, Status: tt.target})
				}
			}))
			defer server.Close()

			a := newTestApp(t, server.URL)
			loggedIn(t, a, session.Profile{ID: 7, Name: "Ana", Email: "a@x.com"})

			var buf bytes.Buffer
			code := runListingTransition(context.Background(), a, &buf, "5", tt.target)
			if code != tt.wantCode {
				t.Errorf("expected exit code %d, got %d: %s", tt.wantCode, code, buf.String())
			}
			if put.Load() != tt.wantPUT {
				t.Errorf("expected PUT sent = %v, got %v", tt.wantPUT, put.Load())
			}
		})
	}
}

func TestListingEdit_InvalidID(t *testing.T) {
	a := newTestApp(t, "http://unused")
	loggedIn(t, a, session.Profile{ID: 7, Name: "Ana", Email: "a@x.com"})

	var buf bytes.Buffer
	if code := runListingEdit(context.Background(), a, &buf, "abc", &client.UpdateListingRequest{}); code != 1 {
		t.Errorf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(buf.String(), "ID de anúncio inválido") {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestListingImage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/produtos/5/imagem" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, header, err := r.FormFile(client.ImageFormField)
		if err != nil {
			t.Errorf("expected image field: %v", err)
		} else if header.Filename != "capa.png" {
			t.Errorf("expected base filename, got %q", header.Filename)
		}
		writeJSON(w, http.StatusOK, client.ImageUploadResponse{Image: "https://cdn/capa.png"})
	}))
	defer server.Close()

	path := filepath.Join(t.TempDir(), "capa.png")
	if err := os.WriteFile(path, []byte("png"), 0600); err != nil {
		t.Fatal(err)
	}

	a := newTestApp(t, server.URL)
	a.cfg.ConfigDir = t.TempDir()
	loggedIn(t, a, session.Profile{ID: 7, Name: "Ana", Email: "a@x.com"})

	var buf bytes.Buffer
	if code := runListingImage(context.Background(), a, &buf, "5", path); code != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", code, buf.String())
	}
	if !strings.Contains(buf.String(), "https://cdn/capa.png") {
		t.Errorf("unexpected output %q", buf.String())
	}

	recent, err := recentfiles.New(a.cfg.ConfigDir).Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 1 || recent[0] != path {
		t.Errorf("expected uploaded image in recent list, got %v", recent)
	}
}

func TestListingImage_RejectsUnsupportedFile(t *testing.T) {
	a := newTestApp(t, "http://unused")
	loggedIn(t, a, session.Profile{ID: 7, Name: "Ana", Email: "a@x.com"})

	var buf bytes.Buffer
	if code := runListingImage(context.Background(), a, &buf, "5", "manual.pdf"); code != 1 {
		t.Errorf("expected exit code 1, got %d", code)
	}
}

func TestParseListingID(t *testing.T) {
	if id, err := parseListingID("#42"); err != nil || id != 42 {
		t.Errorf("expected 42, got %d (%v)", id, err)
	}
	for _, raw := range []string{"", "0", "-1", "x"} {
		if _, err := parseListingID(raw); err == nil {
			t.Errorf("expected error for %q", raw)
		}
	}
}
