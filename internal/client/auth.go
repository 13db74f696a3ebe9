// ABOUTME: Authentication endpoints: registration, login, email verification, password recovery
// ABOUTME: Thin typed wrappers over Client.Do with fixed paths and payloads

package client

import (
	"context"
	"net/http"
	"net/url"
)

// MsgAccountActivated is returned when verification succeeds without a message.
const MsgAccountActivated = "Sua conta foi ativada com sucesso!"

// Verification-specific fallbacks for unparsable error bodies.
var verifyFallbackMessages = map[int]string{
	http.StatusBadRequest: "Código de verificação inválido.",
	http.StatusNotFound:   "Código de verificação não encontrado.",
}

// RegisterVendorRequest is the vendor sign-up payload.
type RegisterVendorRequest struct {
	Name     string `json:"nome" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"senha" validate:"required,strongpassword"`
	CPFCNPJ  string `json:"cpfCnpj" validate:"required,cpfcnpj"`
	Phone    string `json:"telefone" validate:"required"`
	// BirthDate is dd/MM/yyyy and only required for individuals.
	BirthDate  string `json:"dataNascimento,omitempty" validate:"omitempty,brdate"`
	CEP        string `json:"cep" validate:"required,cep"`
	Street     string `json:"logradouro" validate:"required"`
	Number     string `json:"numero" validate:"required"`
	City       string `json:"cidade,omitempty"`
	State      string `json:"uf,omitempty" validate:"omitempty,len=2"`
	District   string `json:"bairro,omitempty"`
	Complement string `json:"complemento,omitempty"`
	IsMEI      *bool  `json:"isMei,omitempty"`
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"senha" validate:"required"`
}

// AuthResponse is returned by login and registration.
type AuthResponse struct {
	Token       string `json:"token"`
	DisplayName string `json:"nomeUsuario"`
}

// MessageResponse carries a server-provided message.
type MessageResponse struct {
	Message string `json:"message"`
}

// ResetPasswordRequest completes a password reset.
type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"novaSenha" validate:"required,strongpassword"`
}

// RegisterVendor calls POST /api/auth/register/vendedor
func (c *Client) RegisterVendor(ctx context.Context, input *RegisterVendorRequest) (*AuthResponse, error) {
	var auth AuthResponse
	if err := c.fetch(ctx, Request{
		Method: http.MethodPost,
		Path:   "/api/auth/register/vendedor",
		Body:   input,
	}, &auth); err != nil {
		return nil, err
	}
	return &auth, nil
}

// Login calls POST /api/auth/login
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	var auth AuthResponse
	if err := c.fetch(ctx, Request{
		Method: http.MethodPost,
		Path:   "/api/auth/login",
		Body:   LoginRequest{Email: email, Password: password},
	}, &auth); err != nil {
		return nil, err
	}
	return &auth, nil
}

// RequestPasswordReset calls POST /api/auth/esqueci-senha. Any 2xx is a
// success; the server message is returned when there is one.
func (c *Client) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	resp, err := c.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   "/api/auth/esqueci-senha",
		Body:   map[string]string{"email": email},
	})
	if err != nil {
		return "", err
	}
	var msg MessageResponse
	resp.Decode(&msg)
	return msg.Message, nil
}

// ResetPassword calls POST /api/auth/resetar-senha
func (c *Client) ResetPassword(ctx context.Context, token, newPassword string) (string, error) {
	resp, err := c.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   "/api/auth/resetar-senha",
		Body:   ResetPasswordRequest{Token: token, NewPassword: newPassword},
	})
	if err != nil {
		return "", err
	}
	var msg MessageResponse
	resp.Decode(&msg)
	return msg.Message, nil
}

// VerifyEmail calls GET /api/auth/verify?codigo={code}. An empty or
// non-JSON success body counts as activation.
func (c *Client) VerifyEmail(ctx context.Context, code string) (*MessageResponse, error) {
	resp, err := c.Do(ctx, Request{
		Method:           http.MethodGet,
		Path:             "/api/auth/verify",
		Query:            url.Values{"codigo": []string{code}},
		FallbackMessages: verifyFallbackMessages,
	})
	if err != nil {
		return nil, err
	}

	var msg MessageResponse
	if !resp.Decode(&msg) || msg.Message == "" {
		return &MessageResponse{Message: MsgAccountActivated}, nil
	}
	return &msg, nil
}
