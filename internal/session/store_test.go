// ABOUTME: Tests for the session store
// ABOUTME: Covers save/read round trips, corrupt data, expiry rules and storage faults

package session

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

var fixedNow = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestStore(storage Storage) *Store {
	return New(storage, WithClock(func() time.Time { return fixedNow }))
}

// faultyStorage fails every operation, like a full or read-only disk.
type faultyStorage struct{}

func (faultyStorage) Get(string) (string, bool, error) { return "", false, errors.New("disk gone") }
func (faultyStorage) Set(map[string]string) error { return errors.New("quota exceeded") }
func (faultyStorage) Remove(...string) error { return errors.New("disk gone") }

func TestSaveThenRead(t *testing.T) {
	profiles := []Profile{
		{Name: "Maria", Email: "maria@example.com"},
		{ID: 42, Name: "João da Silva", Email: "joao@example.com", Phone: "11999999999", City: "São Paulo", State: "SP"},
		{Name: "", Email: ""},
	}

	for _, p := range profiles {
		s := newTestStore(NewMemoryStorage())
		if !s.Save("token-123", p) {
			t.Fatalf("expected save to succeed for %+v", p)
		}
		got := s.Read()
		if got == nil {
			t.Fatalf("expected profile after save, got nil")
		}
		if !reflect.DeepEqual(*got, p) {
			t.Errorf("expected %+v, got %+v", p, *got)
		}
	}
}

func TestSave_WritesExpiry24hAhead(t *testing.T) {
	storage := NewMemoryStorage()
	s := newTestStore(storage)
	s.Save("tok", Profile{Name: "A", Email: "a@b.co"})

	raw, ok, _ := storage.Get(KeyExpiry)
	if !ok {
		t.Fatal("expected tokenExpiry to be written")
	}
	if raw != "2024-03-11T12:00:00.000Z" {
		t.Errorf("expected ISO expiry one day ahead, got %s", raw)
	}

	expiry, ok := s.ExpiresAt()
	if !ok || !expiry.Equal(fixedNow.Add(TTL)) {
		t.Errorf("expected ExpiresAt %v, got %v (ok=%v)", fixedNow.Add(TTL), expiry, ok)
	}
}

func TestRead_MalformedProfile(t *testing.T) {
	malformed := []string{"{", "not json", `{"nome": 12}`, `[1,2`}

	for _, raw := range malformed {
		storage := NewMemoryStorage()
		storage.Set(map[string]string{KeyToken: "tok", KeyProfile: raw})
		s := newTestStore(storage)

		if got := s.Read(); got != nil {
			t.Errorf("expected nil for malformed profile %q, got %+v", raw, got)
		}
	}
}

func TestRead_RequiresToken(t *testing.T) {
	storage := NewMemoryStorage()
	storage.Set(map[string]string{KeyProfile: `{"nome":"A","email":"a@b.co"}`})
	s := newTestStore(storage)

	if got := s.Read(); got != nil {
		t.Errorf("expected nil without token, got %+v", got)
	}
}

func TestIsValid_NoToken(t *testing.T) {
	storage := NewMemoryStorage()
	storage.Set(map[string]string{KeyProfile: `{"nome":"A"}`, KeyExpiry: "2099-01-01T00:00:00.000Z"})
	s := newTestStore(storage)

	if s.IsValid() {
		t.Error("expected invalid session without token")
	}
	assertCleared(t, storage)
}

func TestIsValid_Expired(t *testing.T) {
	storage := NewMemoryStorage()
	yesterday := fixedNow.Add(-24 * time.Hour).Format(ExpiryLayout)
	storage.Set(map[string]string{KeyToken: "tok", KeyProfile: `{"nome":"A"}`, KeyExpiry: yesterday})
	s := newTestStore(storage)

	if s.IsValid() {
		t.Error("expected expired session to be invalid")
	}
	assertCleared(t, storage)
}

func TestIsValid_NoExpiryIsValid(t *testing.T) {
	storage := NewMemoryStorage()
	storage.Set(map[string]string{KeyToken: "tok"})
	s := newTestStore(storage)

	if !s.IsValid() {
		t.Error("expected token without expiry to be valid")
	}
	if s.Token() != "tok" {
		t.Error("expected token to be kept")
	}
}

func TestIsValid_FutureExpiry(t *testing.T) {
	storage := NewMemoryStorage()
	inOneHour := fixedNow.Add(time.Hour).Format(ExpiryLayout)
	storage.Set(map[string]string{KeyToken: "tok", KeyExpiry: inOneHour})
	s := newTestStore(storage)

	if !s.IsValid() {
		t.Error("expected session with future expiry to be valid")
	}
}

func TestIsValid_UnparsableExpiry(t *testing.T) {
	storage := NewMemoryStorage()
	storage.Set(map[string]string{KeyToken: "tok", KeyExpiry: "amanhã"})
	s := newTestStore(storage)

	if s.IsValid() {
		t.Error("expected unparsable expiry to invalidate the session")
	}
	assertCleared(t, storage)
}

func TestIsValid_DateOnlyExpiry(t *testing.T) {
	tests := []struct {
		name   string
		expiry string
		want   bool
	}{
		{"future date", "2024-03-15", true},
		{"yesterday", "2024-03-09", false},
		{"today at midnight", "2024-03-10", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage := NewMemoryStorage()
			storage.Set(map[string]string{KeyToken: "tok", KeyExpiry: tt.expiry})
			s := newTestStore(storage)

			if got := s.IsValid(); got != tt.want {
				t.Errorf("IsValid with expiry %q = %v, want %v", tt.expiry, got, tt.want)
			}
			if tt.want && s.Token() != "tok" {
				t.Error("expected token to be kept")
			}
			if !tt.want {
				assertCleared(t, storage)
			}
		})
	}
}

func TestIsValid_ExpiryVariants(t *testing.T) {
	for _, expiry := range []string{
		"2024-03-11T12:00:00Z",
		"2024-03-11T12:00:00.123456-03:00",
		"2024-03-11T12:00:00",
	} {
		storage := NewMemoryStorage()
		storage.Set(map[string]string{KeyToken: "tok", KeyExpiry: expiry})
		s := newTestStore(storage)

		if !s.IsValid() {
			t.Errorf("expected expiry %q to keep the session", expiry)
		}
		if _, ok := s.ExpiresAt(); !ok {
			t.Errorf("expected ExpiresAt to parse %q", expiry)
		}
	}
}

func TestRead_NullProfileIsAbsent(t *testing.T) {
	storage := NewMemoryStorage()
	storage.Set(map[string]string{KeyToken: "tok", KeyProfile: "null"})
	s := newTestStore(storage)

	if got := s.Read(); got != nil {
		t.Errorf("expected nil for null profile, got %+v", got)
	}
}

func TestClear(t *testing.T) {
	storage := NewMemoryStorage()
	s := newTestStore(storage)
	s.Save("tok", Profile{Name: "A"})

	if !s.Clear() {
		t.Fatal("expected clear to succeed")
	}
	assertCleared(t, storage)
	if s.Read() != nil {
		t.Error("expected no profile after clear")
	}
}

func TestUpdateProfile_KeepsExpiry(t *testing.T) {
	storage := NewMemoryStorage()
	s := newTestStore(storage)
	s.Save("tok", Profile{Name: "Old"})
	before, _, _ := storage.Get(KeyExpiry)

	later := New(storage, WithClock(func() time.Time { return fixedNow.Add(5 * time.Hour) }))
	if !later.UpdateProfile(Profile{ID: 7, Name: "New", Email: "new@example.com"}) {
		t.Fatal("expected update to succeed")
	}

	after, _, _ := storage.Get(KeyExpiry)
	if before != after {
		t.Errorf("expected expiry unchanged, got %s -> %s", before, after)
	}
	if got := later.Read(); got == nil || got.Name != "New" || got.ID != 7 {
		t.Errorf("expected updated profile, got %+v", got)
	}
}

func TestUpdateProfile_WithoutToken(t *testing.T) {
	s := newTestStore(NewMemoryStorage())
	if s.UpdateProfile(Profile{Name: "X"}) {
		t.Error("expected update without session to fail")
	}
}

func TestStorageFaultsDegrade(t *testing.T) {
	s := newTestStore(faultyStorage{})

	if s.Save("tok", Profile{Name: "A"}) {
		t.Error("expected save to report failure")
	}
	if s.Read() != nil {
		t.Error("expected nil read on storage fault")
	}
	if s.Clear() {
		t.Error("expected clear to report failure")
	}
	if s.IsValid() {
		t.Error("expected invalid session on storage fault")
	}
	if s.Token() != "" {
		t.Error("expected empty token on storage fault")
	}
}

func assertCleared(t *testing.T, storage Storage) {
	t.Helper()
	for _, key := range []string{KeyToken, KeyProfile, KeyExpiry} {
		if _, ok, _ := storage.Get(key); ok {
			t.Errorf("expected %s to be cleared", key)
		}
	}
}
