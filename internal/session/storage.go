// ABOUTME: Key-value storage drivers backing the session store
// ABOUTME: JSON file in the config dir (default) and an in-memory map for tests

package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Storage is a string-keyed persistent map. Set and Remove apply all
// given keys or none of them.
type Storage interface {
	Get(key string) (string, bool, error)
	Set(values map[string]string) error
	Remove(keys ...string) error
}

// FileStorage keeps all keys in a single JSON object on disk.
type FileStorage struct {
	path string
	mu   sync.Mutex
}

var _ Storage = (*FileStorage)(nil)

// NewFileStorage stores data in session.json inside configDir.
func NewFileStorage(configDir string) *FileStorage {
	return &FileStorage{path: filepath.Join(configDir, "session.json")}
}

// Path returns the backing file path.
func (fs *FileStorage) Path() string {
	return fs.path
}

// load reads the file. A missing or corrupt file is an empty map.
func (fs *FileStorage) load() (map[string]string, error) {
	data, err := os.ReadFile(fs.path)
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, err
	}

	values := map[string]string{}
	if err := json.Unmarshal(data, &values); err != nil {
		// Invalid JSON, start fresh
		return map[string]string{}, nil
	}
	return values, nil
}

// write replaces the file atomically via a temp file and rename.
func (fs *FileStorage) write(values map[string]string) error {
	dir := filepath.Dir(fs.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".session-*.json")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), fs.path)
}

// Get implements Storage.
func (fs *FileStorage) Get(key string) (string, bool, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	values, err := fs.load()
	if err != nil {
		return "", false, fmt.Errorf("read %s: %w", fs.path, err)
	}
	value, ok := values[key]
	return value, ok, nil
}

// Set implements Storage.
func (fs *FileStorage) Set(values map[string]string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	current, err := fs.load()
	if err != nil {
		return fmt.Errorf("read %s: %w", fs.path, err)
	}
	for k, v := range values {
		current[k] = v
	}
	if err := fs.write(current); err != nil {
		return fmt.Errorf("write %s: %w", fs.path, err)
	}
	return nil
}

// Remove implements Storage.
func (fs *FileStorage) Remove(keys ...string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	current, err := fs.load()
	if err != nil {
		return fmt.Errorf("read %s: %w", fs.path, err)
	}
	changed := false
	for _, k := range keys {
		if _, ok := current[k]; ok {
			delete(current, k)
			changed = true
		}
	}
	if !changed {
		return nil
	}
	if err := fs.write(current); err != nil {
		return fmt.Errorf("write %s: %w", fs.path, err)
	}
	return nil
}

// MemoryStorage is a process-local Storage.
type MemoryStorage struct {
	mu     sync.Mutex
	values map[string]string
}

var _ Storage = (*MemoryStorage)(nil)

// NewMemoryStorage returns an empty MemoryStorage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: map[string]string{}}
}

// Get implements Storage.
func (ms *MemoryStorage) Get(key string) (string, bool, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	value, ok := ms.values[key]
	return value, ok, nil
}

// Set implements Storage.
func (ms *MemoryStorage) Set(values map[string]string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	for k, v := range values {
		ms.values[k] = v
	}
	return nil
}

// Remove implements Storage.
func (ms *MemoryStorage) Remove(keys ...string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	for _, k := range keys {
		delete(ms.values, k)
	}
	return nil
}
