// ABOUTME: Session store holding the bearer token, profile snapshot and advisory expiry
// ABOUTME: Never returns storage errors to callers; faults degrade to false or nil

package session

import (
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"
)

// Storage keys
const (
	KeyToken   = "authToken"
	KeyProfile = "userData"
	KeyExpiry  = "tokenExpiry"
)

// ErrNoSession is returned by callers that require a valid session.
var ErrNoSession = errors.New("Sessão expirada. Faça login novamente.")

// TTL is the client-computed session lifetime. It is a UX heuristic and
// says nothing about the token's real validity on the server.
const TTL = 24 * time.Hour

// ExpiryLayout is ISO-8601 in UTC with milliseconds.
const ExpiryLayout = "2006-01-02T15:04:05.000Z07:00"

// Profile is the cached snapshot of the logged-in user.
type Profile struct {
	ID    int64  `json:"id,omitempty"`
	Name  string `json:"nome"`
	Email string `json:"email"`
	Phone string `json:"telefone,omitempty"`
	City  string `json:"cidade,omitempty"`
	State string `json:"estado,omitempty"`
}

// Store is the single entry point for reading and writing session state.
type Store struct {
	storage Storage
	now     func() time.Time
	log     *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the logger used to report storage faults.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// New creates a Store over the given storage.
func New(storage Storage, opts ...Option) *Store {
	s := &Store{
		storage: storage,
		now:     time.Now,
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save writes the token, the serialized profile and an expiry of now+TTL.
func (s *Store) Save(token string, profile Profile) bool {
	data, err := json.Marshal(profile)
	if err != nil {
		s.log.Warn("session save: encode profile", "error", err)
		return false
	}

	expiry := s.now().Add(TTL).UTC().Format(ExpiryLayout)
	if err := s.storage.Set(map[string]string{
		KeyToken:   token,
		KeyProfile: string(data),
		KeyExpiry:  expiry,
	}); err != nil {
		s.log.Warn("session save failed", "error", err)
		return false
	}
	return true
}

// UpdateProfile replaces the cached profile and keeps token and expiry.
// It fails when no token is stored.
func (s *Store) UpdateProfile(profile Profile) bool {
	if s.Token() == "" {
		return false
	}
	data, err := json.Marshal(profile)
	if err != nil {
		s.log.Warn("session update: encode profile", "error", err)
		return false
	}
	if err := s.storage.Set(map[string]string{KeyProfile: string(data)}); err != nil {
		s.log.Warn("session update failed", "error", err)
		return false
	}
	return true
}

// Read returns the cached profile, or nil when the token or profile is
// missing or the profile cannot be decoded.
func (s *Store) Read() *Profile {
	token, ok := s.get(KeyToken)
	if !ok || token == "" {
		return nil
	}
	raw, ok := s.get(KeyProfile)
	if !ok || raw == "" {
		return nil
	}

	var profile *Profile
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		s.log.Debug("session read: corrupt profile treated as absent", "error", err)
		return nil
	}
	return profile
}

// Clear removes all session keys.
func (s *Store) Clear() bool {
	if err := s.storage.Remove(KeyToken, KeyProfile, KeyExpiry); err != nil {
		s.log.Warn("session clear failed", "error", err)
		return false
	}
	return true
}

// IsValid reports whether a token is present and not past its recorded
// expiry. Invalid sessions are cleared. A token without a recorded expiry
// is treated as valid.
func (s *Store) IsValid() bool {
	token, ok := s.get(KeyToken)
	if !ok || token == "" {
		s.Clear()
		return false
	}

	raw, ok := s.get(KeyExpiry)
	if !ok || raw == "" {
		return true
	}

	expiry, ok := parseExpiry(raw)
	if !ok || !expiry.After(s.now()) {
		s.Clear()
		return false
	}
	return true
}

// Token returns the stored bearer token, or "" when absent.
func (s *Store) Token() string {
	token, _ := s.get(KeyToken)
	return token
}

// ExpiresAt returns the recorded expiry, if any.
func (s *Store) ExpiresAt() (time.Time, bool) {
	raw, ok := s.get(KeyExpiry)
	if !ok {
		return time.Time{}, false
	}
	return parseExpiry(raw)
}

// parseExpiry accepts the ISO-8601 shapes a stored expiry may take: full
// timestamps, timestamps without a zone (local time) and bare dates (UTC).
func parseExpiry(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t, true
	}
	for _, layout := range []string{"2006-01-02T15:04:05.999999999", "2006-01-02T15:04"} {
		if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return t, true
		}
	}
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return t, true
	}
	return time.Time{}, false
}

func (s *Store) get(key string) (string, bool) {
	value, ok, err := s.storage.Get(key)
	if err != nil {
		s.log.Warn("session storage read failed", "key", key, "error", err)
		return "", false
	}
	return value, ok
}
