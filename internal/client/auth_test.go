// ABOUTME: Tests for authentication endpoints
// ABOUTME: Covers login, registration, verification and password recovery payloads

package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLogin_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/auth/login" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["email"] != "ana@example.com" || body["senha"] != "Segura@123" {
			t.Errorf("unexpected login body: %v", body)
		}
		writeJSON(w, http.StatusOK, map[string]string{"token": "jwt", "nomeUsuario": "Ana"})
	}))
	defer server.Close()

	c := New(server.URL)
	auth, err := c.Login(context.Background(), "ana@example.com", "Segura@123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if auth.Token != "jwt" || auth.DisplayName != "Ana" {
		t.Errorf("unexpected auth response: %+v", auth)
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	c := New(server.URL)
	_, err := c.Login(context.Background(), "ana@example.com", "wrong")
	if err == nil || err.Error() != MsgBadCredentials {
		t.Errorf("expected bad credentials message, got %v", err)
	}
}

func TestRegisterVendor_PassesServerMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/register/vendedor" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Email já cadastrado"})
	}))
	defer server.Close()

	c := New(server.URL)
	_, err := c.RegisterVendor(context.Background(), &RegisterVendorRequest{Email: "ana@example.com"})
	if err == nil || err.Error() != "Email já cadastrado" {
		t.Errorf("expected server message, got %v", err)
	}
}

func TestRegisterVendor_OmitsOptionalFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		for _, key := range []string{"dataNascimento", "complemento", "isMei"} {
			if _, ok := body[key]; ok {
				t.Errorf("expected %s to be omitted", key)
			}
		}
		if body["cpfCnpj"] != "11222333000181" {
			t.Errorf("unexpected cpfCnpj %v", body["cpfCnpj"])
		}
		writeJSON(w, http.StatusCreated, map[string]string{"token": "jwt", "nomeUsuario": "Loja"})
	}))
	defer server.Close()

	c := New(server.URL)
	auth, err := c.RegisterVendor(context.Background(), &RegisterVendorRequest{
		Name:    "Loja",
		Email:   "loja@example.com",
		CPFCNPJ: "11222333000181",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if auth.Token != "jwt" {
		t.Errorf("expected token jwt, got %q", auth.Token)
	}
}

func TestVerifyEmail(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    string
		wantErr string
	}{
		{"no content", http.StatusNoContent, "", MsgAccountActivated, ""},
		{"server message", http.StatusOK, `{"message":"Conta ativada"}`, "Conta ativada", ""},
		{"plain text", http.StatusOK, "ok", MsgAccountActivated, ""},
		{"invalid code", http.StatusBadRequest, "", "", "Código de verificação inválido."},
		{"unknown code", http.StatusNotFound, "nope", "", "Código de verificação não encontrado."},
		{"server reason", http.StatusBadRequest, `{"message":"Código expirado"}`, "", "Código expirado"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/api/auth/verify" || r.URL.Query().Get("codigo") != "XYZ" {
					t.Errorf("unexpected request %s", r.URL.String())
				}
				if tt.body != "" && tt.body[0] == '{' {
					w.Header().Set("Content-Type", "application/json")
				} else {
					w.Header().Set("Content-Type", "text/plain")
				}
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			c := New(server.URL)
			msg, err := c.VerifyEmail(context.Background(), "XYZ")
			if tt.wantErr != "" {
				if err == nil || err.Error() != tt.wantErr {
					t.Fatalf("expected error %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if msg.Message != tt.want {
				t.Errorf("expected %q, got %q", tt.want, msg.Message)
			}
		})
	}
}

func TestRequestPasswordReset(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/esqueci-senha" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["email"] != "ana@example.com" {
			t.Errorf("unexpected body %v", body)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c := New(server.URL)
	msg, err := c.RequestPasswordReset(context.Background(), "ana@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg != "" {
		t.Errorf("expected empty message for empty body, got %q", msg)
	}
}

func TestResetPassword(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/resetar-senha" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["token"] != "tok" || body["novaSenha"] != "Nova@1234" {
			t.Errorf("unexpected body %v", body)
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "Senha alterada"})
	}))
	defer server.Close()

	c := New(server.URL)
	msg, err := c.ResetPassword(context.Background(), "tok", "Nova@1234")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg != "Senha alterada" {
		t.Errorf("expected server message, got %q", msg)
	}
}
