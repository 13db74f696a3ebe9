// ABOUTME: Listing resource types and enums
// ABOUTME: Condition, category and lifecycle status with the allowed status transitions

package client

import (
	"fmt"
	"strconv"
	"strings"
)

// Condition of the advertised item.
type Condition string

const (
	ConditionNew  Condition = "NOVO"
	ConditionUsed Condition = "USADO"
)

// Conditions lists every condition in display order.
var Conditions = []Condition{ConditionNew, ConditionUsed}

// Label returns a human-readable name.
func (c Condition) Label() string {
	switch c {
	case ConditionNew:
		return "Novo"
	case ConditionUsed:
		return "Usado"
	default:
		return string(c)
	}
}

// Category is the fixed set of listing categories.
type Category string

const (
	CategoryPhones     Category = "CELULAR_TELEFONIA"
	CategoryAppliances Category = "ELETRODOMESTICOS"
	CategoryHome       Category = "CASA_DECORACAO_UTENSILIOS"
	CategoryFashion    Category = "MODA"
)

// Categories lists every category in display order.
var Categories = []Category{CategoryPhones, CategoryAppliances, CategoryHome, CategoryFashion}

// Label returns a human-readable name.
func (c Category) Label() string {
	switch c {
	case CategoryPhones:
		return "Celular e telefonia"
	case CategoryAppliances:
		return "Eletrodomésticos"
	case CategoryHome:
		return "Casa, decoração e utensílios"
	case CategoryFashion:
		return "Moda"
	default:
		return string(c)
	}
}

// Status is the listing lifecycle state.
type Status string

const (
	StatusActive   Status = "ATIVO"
	StatusSold     Status = "VENDIDO"
	StatusInactive Status = "INATIVO"
)

// Label returns a human-readable name.
func (s Status) Label() string {
	switch s {
	case StatusActive:
		return "Ativo"
	case StatusSold:
		return "Vendido"
	case StatusInactive:
		return "Inativo"
	default:
		return string(s)
	}
}

// CanTransitionTo reports whether the client may request the move from s
// to next. Only active listings can be sold or deactivated; nothing leaves
// SOLD or INACTIVE.
func (s Status) CanTransitionTo(next Status) bool {
	return s == StatusActive && (next == StatusSold || next == StatusInactive)
}

// TransitionBlockedMessage explains why listing id in state s cannot change.
func TransitionBlockedMessage(id int64, s Status) string {
	return fmt.Sprintf("O anúncio #%d está %s. Apenas anúncios ativos podem ser alterados.",
		id, strings.ToLower(s.Label()))
}

// Seller is the listing owner as embedded in listing responses.
type Seller struct {
	ID   int64  `json:"id"`
	Name string `json:"nome"`
}

// Listing is a product advertisement.
type Listing struct {
	ID              int64          `json:"id,omitempty"`
	Name            string         `json:"nome"`
	Description     string         `json:"descricao,omitempty"`
	Condition       Condition      `json:"condicao"`
	Price           float64        `json:"preco"`
	PublishedAt     string         `json:"dataPublicacao,omitempty"`
	Status          Status         `json:"status"`
	Category        Category       `json:"categoriaProduto"`
	Characteristics map[string]any `json:"caracteristicas,omitempty"`
	Image           string         `json:"imagem,omitempty"`
	Seller          *Seller        `json:"vendedor,omitempty"`
}

// CreateListingRequest is the payload for a new listing.
type CreateListingRequest struct {
	Name            string         `json:"nome" validate:"required,max=120"`
	Description     string         `json:"descricao,omitempty" validate:"max=2000"`
	Condition       Condition      `json:"condicao" validate:"required,oneof=NOVO USADO"`
	Price           float64        `json:"preco" validate:"finite,gt=0"`
	Category        Category       `json:"categoriaProduto" validate:"required,oneof=CELULAR_TELEFONIA ELETRODOMESTICOS CASA_DECORACAO_UTENSILIOS MODA"`
	Characteristics map[string]any `json:"caracteristicas,omitempty"`
}

// UpdateListingRequest changes listing fields. Zero values are omitted.
// Status is deliberately absent: transitions go through their own endpoints.
type UpdateListingRequest struct {
	Name            string         `json:"nome,omitempty" validate:"max=120"`
	Description     string         `json:"descricao,omitempty" validate:"max=2000"`
	Condition       Condition      `json:"condicao,omitempty" validate:"omitempty,oneof=NOVO USADO"`
	Price           *float64       `json:"preco,omitempty" validate:"omitempty,finite,gt=0"`
	Category        Category       `json:"categoriaProduto,omitempty" validate:"omitempty,oneof=CELULAR_TELEFONIA ELETRODOMESTICOS CASA_DECORACAO_UTENSILIOS MODA"`
	Characteristics map[string]any `json:"caracteristicas,omitempty"`
}

// ImageUploadResponse is returned after an image upload.
type ImageUploadResponse struct {
	Image string `json:"imagem"`
}

// FormatPrice renders a price as Brazilian reais.
func FormatPrice(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	intPart, frac, _ := strings.Cut(s, ".")
	neg := strings.HasPrefix(intPart, "-")
	intPart = strings.TrimPrefix(intPart, "-")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	out := "R$ " + b.String() + "," + frac
	if neg {
		out = "-" + out
	}
	return out
}

// CountByStatus tallies listings per status.
func CountByStatus(listings []Listing) map[Status]int {
	counts := make(map[Status]int, 3)
	for _, l := range listings {
		counts[l.Status]++
	}
	return counts
}
