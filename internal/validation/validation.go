// ABOUTME: Client-side input validation on top of go-playground/validator
// ABOUTME: Registers Brazilian document, date and password rules and renders Portuguese messages

package validation

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// DateLayout is the dd/MM/yyyy format used by the backend.
const DateLayout = "02/01/2006"

// PasswordMinLength is the minimum accepted password length.
const PasswordMinLength = 8

// Messages for the custom rules.
const (
	MsgRequired       = "Campo obrigatório."
	MsgEmail          = "Informe um e-mail válido."
	MsgDate           = "Informe uma data válida (dd/mm/aaaa)."
	MsgPassword       = "A senha não atende aos requisitos."
	MsgCPFCNPJ        = "Informe um CPF (11 dígitos) ou CNPJ (14 dígitos)."
	MsgCEP            = "Informe um CEP com 8 dígitos."
	MsgNumber         = "Informe um número válido."
	MsgInvalidDefault = "Valor inválido."
)

// FieldError is a single failed rule.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors is the list of failed fields, in struct order.
type Errors []FieldError

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		if fe.Field == "" {
			parts = append(parts, fe.Message)
			continue
		}
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return strings.Join(parts, "; ")
}

// For returns the message for field, or "".
func (e Errors) For(field string) string {
	for _, fe := range e {
		if fe.Field == field {
			return fe.Message
		}
	}
	return ""
}

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return strings.ToLower(fld.Name)
		}
		return name
	})

	mustRegister(v, "strongpassword", func(fl validator.FieldLevel) bool {
		return CheckPassword(fl.Field().String()).Valid()
	})
	mustRegister(v, "brdate", func(fl validator.FieldLevel) bool {
		return IsDate(fl.Field().String())
	})
	mustRegister(v, "cpfcnpj", func(fl validator.FieldLevel) bool {
		n := len(Digits(fl.Field().String()))
		return n == 11 || n == 14
	})
	mustRegister(v, "cep", func(fl validator.FieldLevel) bool {
		return len(Digits(fl.Field().String())) == 8
	})
	mustRegister(v, "finite", func(fl validator.FieldLevel) bool {
		switch fl.Field().Kind() {
		case reflect.Float32, reflect.Float64:
			f := fl.Field().Float()
			return !math.IsInf(f, 0) && !math.IsNaN(f)
		default:
			return true
		}
	})

	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s: %v", tag, err))
	}
}

// Struct validates s against its validate tags. Rule failures come back
// as Errors; anything else is returned unchanged.
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := make(Errors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return out
}

// Var validates a single value against tag. The returned Errors has one
// entry with no field name, so Error() is just the message; that is the
// shape huh field validators expect.
func Var(value any, tag string) error {
	err := validate.Var(value, tag)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return Errors{{Message: message(verrs[0])}}
	}
	return err
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return MsgRequired
	case "email":
		return MsgEmail
	case "brdate":
		return MsgDate
	case "strongpassword":
		return MsgPassword
	case "cpfcnpj":
		return MsgCPFCNPJ
	case "cep":
		return MsgCEP
	case "numeric", "number", "finite":
		return MsgNumber
	case "gt":
		return fmt.Sprintf("Deve ser maior que %s.", fe.Param())
	case "gte":
		return fmt.Sprintf("Deve ser maior ou igual a %s.", fe.Param())
	case "min":
		return fmt.Sprintf("Mínimo de %s caracteres.", fe.Param())
	case "max":
		return fmt.Sprintf("Máximo de %s caracteres.", fe.Param())
	case "len":
		return fmt.Sprintf("Deve ter %s caracteres.", fe.Param())
	case "oneof":
		return fmt.Sprintf("Valor inválido. Opções: %s.", strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return MsgInvalidDefault
	}
}

// Digits strips everything but ASCII digits.
func Digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsDate reports whether s is a real calendar date in dd/mm/yyyy form.
func IsDate(s string) bool {
	if len(s) != len(DateLayout) {
		return false
	}
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// PasswordRules is the per-rule result shown next to password inputs.
type PasswordRules struct {
	MinLength bool `json:"minLength"`
	Upper     bool `json:"upper"`
	Lower     bool `json:"lower"`
	Digit     bool `json:"digit"`
	Special   bool `json:"special"`
}

// Valid reports whether every rule passes.
func (r PasswordRules) Valid() bool {
	return r.MinLength && r.Upper && r.Lower && r.Digit && r.Special
}

// Checklist returns the rules with their labels in display order.
func (r PasswordRules) Checklist() []Rule {
	return []Rule{
		{Label: fmt.Sprintf("Pelo menos %d caracteres", PasswordMinLength), OK: r.MinLength},
		{Label: "Uma letra maiúscula", OK: r.Upper},
		{Label: "Uma letra minúscula", OK: r.Lower},
		{Label: "Um número", OK: r.Digit},
		{Label: "Um caractere especial", OK: r.Special},
	}
}

// Rule is one labelled checklist entry.
type Rule struct {
	Label string
	OK    bool
}

// CheckPassword evaluates p against each password rule.
func CheckPassword(p string) PasswordRules {
	rules := PasswordRules{MinLength: len([]rune(p)) >= PasswordMinLength}
	for _, r := range p {
		switch {
		case unicode.IsUpper(r):
			rules.Upper = true
		case unicode.IsLower(r):
			rules.Lower = true
		case unicode.IsDigit(r):
			rules.Digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			rules.Special = true
		}
	}
	return rules
}
