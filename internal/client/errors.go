// ABOUTME: Typed API error and the message tables used to normalize failures
// ABOUTME: Every non-2xx response and transport failure becomes an *APIError

package client

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrBaseURLNotConfigured is returned by the first call made without a base URL.
var ErrBaseURLNotConfigured = errors.New("API URL is not configured: set ANUNCIA_API_URL or pass --api-url")

// Kind classifies an APIError.
type Kind int

const (
	KindHTTP Kind = iota
	KindTransport
	KindTimeout
	KindCanceled
	KindInvalidResponse
	KindInvalidRequest
)

func (k Kind) String() string {
	switch k {
	case KindHTTP:
		return "http"
	case KindTransport:
		return "transport"
	case KindTimeout:
		return "timeout"
	case KindCanceled:
		return "canceled"
	case KindInvalidResponse:
		return "invalid_response"
	case KindInvalidRequest:
		return "invalid_request"
	default:
		return "unknown"
	}
}

// User-facing messages.
const (
	MsgBadRequest      = "Requisição inválida. Verifique os dados informados."
	MsgBadCredentials  = "E-mail ou senha incorretos. Verifique suas credenciais."
	MsgNotFound        = "Recurso não encontrado."
	MsgInternal        = "Erro interno do servidor. Tente novamente mais tarde."
	MsgConnection      = "Erro de conexão. Verifique sua internet e tente novamente."
	MsgTimeout         = "A requisição expirou. Tente novamente."
	MsgCanceled        = "Requisição cancelada."
	MsgInvalidResponse = "Resposta inválida do servidor."
	MsgInvalidRequest  = "Não foi possível montar a requisição. Verifique os dados informados."
)

// APIError is the only error shape returned for failed API calls.
type APIError struct {
	Message string
	// Status is the HTTP status code, or 0 when no response was received.
	Status int
	Kind   Kind
	err    error
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.err
}

// AsAPIError extracts an *APIError from err.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsStatus reports whether err is an APIError with the given status.
func IsStatus(err error, status int) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.Status == status
}

// StatusMessage returns the generic message for an HTTP status. statusText
// is the response's reason phrase; when empty the standard text is used.
func StatusMessage(status int, statusText string) string {
	switch status {
	case http.StatusBadRequest:
		return MsgBadRequest
	case http.StatusUnauthorized, http.StatusForbidden:
		return MsgBadCredentials
	case http.StatusNotFound:
		return MsgNotFound
	case http.StatusInternalServerError:
		return MsgInternal
	default:
		if statusText == "" {
			statusText = http.StatusText(status)
		}
		return fmt.Sprintf("Erro %d: %s", status, statusText)
	}
}

// errorBody is the subset of error payloads the backend is known to send.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}
