// ABOUTME: HTTP request layer for the marketplace REST API
// ABOUTME: Adds JSON, bearer and request-id headers and normalizes every failure into *APIError

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	RequestIDHeader     = "X-Request-ID"
	AuthorizationHeader = "Authorization"
	ContentTypeHeader   = "Content-Type"
	ContentTypeJSON     = "application/json"
)

// DefaultTimeout bounds a single round trip.
const DefaultTimeout = 30 * time.Second

// TokenSource supplies the bearer token. An empty string means no token.
type TokenSource interface {
	Token() string
}

// Client is the API client for the marketplace backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	log        *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout on the default http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithTokenSource enables bearer token injection.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New creates a new API client. An empty baseURL is accepted; calls will
// fail with ErrBaseURLNotConfigured.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		log: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Request describes a single API call.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	// Body is encoded as JSON. Ignored when RawBody is set.
	Body any
	// RawBody is sent as-is; set Content-Type in Header.
	RawBody io.Reader
	// Header entries override the defaults, including Content-Type
	// and Authorization.
	Header http.Header
	// FallbackMessages replaces the generic status message for specific
	// statuses when the error body carries no usable message.
	FallbackMessages map[int]string
}

// Response is a successful (2xx) response with its body fully read.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// Decode unmarshals a JSON body into out. It returns false when the body is
// empty, the content type is not JSON, or the JSON does not parse; whether
// that is acceptable is up to the caller.
func (r *Response) Decode(out any) bool {
	if r.Status == http.StatusNoContent || len(bytes.TrimSpace(r.Body)) == 0 {
		return false
	}
	if ct := r.Header.Get(ContentTypeHeader); ct != "" && !strings.Contains(strings.ToLower(ct), "json") {
		return false
	}
	return json.Unmarshal(r.Body, out) == nil
}

// Do sends the request. Non-2xx responses and transport failures are
// returned as *APIError; the session is never touched here.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	if c.baseURL == "" {
		return nil, ErrBaseURLNotConfigured
	}

	endpoint := c.baseURL + req.Path
	if len(req.Query) > 0 {
		endpoint += "?" + req.Query.Encode()
	}

	var body io.Reader
	switch {
	case req.RawBody != nil:
		body = req.RawBody
	case req.Body != nil:
		data, err := json.Marshal(req.Body)
		if err != nil {
			c.log.Debug("encoding request body failed", "method", req.Method, "path", req.Path, "error", err)
			return nil, &APIError{Message: MsgInvalidRequest, Kind: KindInvalidRequest, err: err}
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, endpoint, body)
	if err != nil {
		return nil, &APIError{Message: MsgInvalidRequest, Kind: KindInvalidRequest, err: err}
	}

	httpReq.Header.Set(ContentTypeHeader, ContentTypeJSON)
	for key, values := range req.Header {
		httpReq.Header.Del(key)
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}
	if httpReq.Header.Get(AuthorizationHeader) == "" && c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			httpReq.Header.Set(AuthorizationHeader, "Bearer "+token)
		}
	}
	requestID := uuid.NewString()
	httpReq.Header.Set(RequestIDHeader, requestID)

	start := time.Now()
	log := c.log.With("method", req.Method, "path", req.Path, "request_id", requestID)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		apiErr := c.handleRequestError(ctx, err)
		log.Debug("request failed", "kind", apiErr.Kind.String(), "error", err)
		return nil, apiErr
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		apiErr := c.handleRequestError(ctx, err)
		log.Debug("reading response failed", "kind", apiErr.Kind.String(), "error", err)
		return nil, apiErr
	}

	log.Debug("request completed", "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, handleErrorResponse(resp.StatusCode, reasonPhrase(resp), data, req.FallbackMessages)
	}

	return &Response{Status: resp.StatusCode, Header: resp.Header, Body: data}, nil
}

// fetch issues req and requires a decodable JSON body.
func (c *Client) fetch(ctx context.Context, req Request, out any) error {
	resp, err := c.Do(ctx, req)
	if err != nil {
		return err
	}
	if !resp.Decode(out) {
		return &APIError{Message: MsgInvalidResponse, Status: resp.Status, Kind: KindInvalidResponse}
	}
	return nil
}

// handleRequestError converts transport errors to user-facing messages.
func (c *Client) handleRequestError(ctx context.Context, err error) *APIError {
	if errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
		return &APIError{Message: MsgCanceled, Kind: KindCanceled, err: err}
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &APIError{Message: MsgTimeout, Kind: KindTimeout, err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &APIError{Message: MsgTimeout, Kind: KindTimeout, err: err}
	}
	return &APIError{Message: MsgConnection, Kind: KindTransport, err: err}
}

// handleErrorResponse picks the message for a non-2xx response: the body's
// message field, then its error field, then the status fallback.
func handleErrorResponse(status int, statusText string, body []byte, fallback map[int]string) *APIError {
	var errBody errorBody
	if err := json.Unmarshal(body, &errBody); err == nil {
		if msg := strings.TrimSpace(errBody.Message); msg != "" {
			return &APIError{Message: msg, Status: status, Kind: KindHTTP}
		}
		if msg := strings.TrimSpace(errBody.Error); msg != "" {
			return &APIError{Message: msg, Status: status, Kind: KindHTTP}
		}
	}

	if msg, ok := fallback[status]; ok {
		return &APIError{Message: msg, Status: status, Kind: KindHTTP}
	}
	return &APIError{Message: StatusMessage(status, statusText), Status: status, Kind: KindHTTP}
}

// reasonPhrase returns the status text sent by the server, without the code.
func reasonPhrase(resp *http.Response) string {
	text := strings.TrimSpace(resp.Status)
	if code := strconv.Itoa(resp.StatusCode); strings.HasPrefix(text, code) {
		text = strings.TrimSpace(strings.TrimPrefix(text, code))
	}
	return text
}
