// ABOUTME: Current-user endpoints with response normalization
// ABOUTME: Flattens nested address data and reconciles camelCase/snake_case field names

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/anuncia/anuncia-cli/internal/session"
)

// User is the normalized profile of the logged-in user.
type User struct {
	ID         int64  `json:"id,omitempty"`
	Name       string `json:"nome"`
	Email      string `json:"email"`
	Phone      string `json:"telefone,omitempty"`
	CPFCNPJ    string `json:"cpfCnpj,omitempty"`
	BirthDate  string `json:"dataNascimento,omitempty"`
	IsMEI      *bool  `json:"isMei,omitempty"`
	CEP        string `json:"cep,omitempty"`
	Street     string `json:"logradouro,omitempty"`
	Number     string `json:"numero,omitempty"`
	City       string `json:"cidade,omitempty"`
	State      string `json:"estado,omitempty"`
	District   string `json:"bairro,omitempty"`
	Complement string `json:"complemento,omitempty"`
}

// Snapshot returns the subset cached in the session store.
func (u *User) Snapshot() session.Profile {
	return session.Profile{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Phone: u.Phone,
		City:  u.City,
		State: u.State,
	}
}

// Address joins the address parts that are present.
func (u *User) Address() string {
	var parts []string
	street := u.Street
	if street != "" && u.Number != "" {
		street += ", " + u.Number
	}
	if street != "" {
		parts = append(parts, street)
	}
	if u.District != "" {
		parts = append(parts, u.District)
	}
	place := u.City
	if u.State != "" {
		if place != "" {
			place += "/"
		}
		place += u.State
	}
	if place != "" {
		parts = append(parts, place)
	}
	if u.CEP != "" {
		parts = append(parts, "CEP "+u.CEP)
	}
	return strings.Join(parts, " - ")
}

// UpdateUserRequest holds the editable profile fields. Empty fields are
// left untouched on the server.
type UpdateUserRequest struct {
	Name  string `json:"nome,omitempty"`
	Phone string `json:"telefone,omitempty"`
	CEP   string `json:"cep,omitempty" validate:"omitempty,cep"`
}

// payload drops empty fields.
func (r UpdateUserRequest) payload() map[string]string {
	out := map[string]string{}
	for key, value := range map[string]string{
		"nome":     r.Name,
		"telefone": r.Phone,
		"cep":      r.CEP,
	} {
		if strings.TrimSpace(value) != "" {
			out[key] = value
		}
	}
	return out
}

// flexString accepts a JSON string or number.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

type rawAddress struct {
	CEP        string     `json:"cep"`
	Street     string     `json:"logradouro"`
	Number     flexString `json:"numero"`
	City       string     `json:"cidade"`
	State      string     `json:"estado"`
	UF         string     `json:"uf"`
	District   string     `json:"bairro"`
	Complement string     `json:"complemento"`
}

// rawUser mirrors every shape the backend has been seen to emit.
type rawUser struct {
	ID             int64       `json:"id"`
	Name           string      `json:"nome"`
	Email          string      `json:"email"`
	Phone          string      `json:"telefone"`
	CPFCNPJ        string      `json:"cpfCnpj"`
	CPFCNPJSnake   string      `json:"cpf_cnpj"`
	BirthDate      string      `json:"dataNascimento"`
	BirthDateSnake string      `json:"data_nascimento"`
	IsMEI          *bool       `json:"isMei"`
	IsMEISnake     *bool       `json:"is_mei"`
	Address        *rawAddress `json:"endereco"`
	// top-level address fields
	rawAddress
}

// normalize applies field precedence: nested address over flat fields,
// estado over uf, camelCase over snake_case.
func (r *rawUser) normalize() *User {
	nested := rawAddress{}
	if r.Address != nil {
		nested = *r.Address
	}

	return &User{
		ID:         r.ID,
		Name:       r.Name,
		Email:      r.Email,
		Phone:      r.Phone,
		CPFCNPJ:    firstNonEmpty(r.CPFCNPJ, r.CPFCNPJSnake),
		BirthDate:  firstNonEmpty(r.BirthDate, r.BirthDateSnake),
		IsMEI:      firstBool(r.IsMEI, r.IsMEISnake),
		CEP:        firstNonEmpty(nested.CEP, r.CEP),
		Street:     firstNonEmpty(nested.Street, r.Street),
		Number:     firstNonEmpty(string(nested.Number), string(r.Number)),
		City:       firstNonEmpty(nested.City, r.City),
		State:      firstNonEmpty(nested.State, nested.UF, r.State, r.UF),
		District:   firstNonEmpty(nested.District, r.District),
		Complement: firstNonEmpty(nested.Complement, r.Complement),
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstBool(values ...*bool) *bool {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}

// GetCurrentUser calls GET /api/usuarios/me
func (c *Client) GetCurrentUser(ctx context.Context) (*User, error) {
	var raw rawUser
	if err := c.fetch(ctx, Request{
		Method: http.MethodGet,
		Path:   "/api/usuarios/me",
	}, &raw); err != nil {
		return nil, err
	}
	return raw.normalize(), nil
}

// UpdateCurrentUser calls PUT /api/usuarios/me with the non-empty fields,
// then re-reads the profile; the PUT response itself is ignored.
func (c *Client) UpdateCurrentUser(ctx context.Context, input UpdateUserRequest) (*User, error) {
	if payload := input.payload(); len(payload) > 0 {
		if _, err := c.Do(ctx, Request{
			Method: http.MethodPut,
			Path:   "/api/usuarios/me",
			Body:   payload,
		}); err != nil {
			return nil, err
		}
	}
	return c.GetCurrentUser(ctx)
}
