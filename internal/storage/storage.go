package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

var (
	// ErrClosed is returned by operations on a closed storage.
	ErrClosed = errors.New("storage closed")
	// ErrCorrupt is returned when the backing file cannot be parsed.
	ErrCorrupt = errors.New("storage corrupt")
)

// Storage is a durable string-valued key-value store.
type Storage interface {
	// Get returns the value for key. ok is false when the key is absent.
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	// Remove deletes key. Removing an absent key is not an error.
	Remove(key string) error
	Close() error
}

// JSONStorage implements Storage as a single JSON object file.
type JSONStorage struct {
	path string

	mu     sync.Mutex
	closed bool
}

// NewJSONStorage creates a new JSONStorage with the given file path.
func NewJSONStorage(path string) *JSONStorage {
	return &JSONStorage{path: path}
}

// Path returns the storage file path.
func (s *JSONStorage) Path() string {
	return s.path
}

// Get implements Storage.
func (s *JSONStorage) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return "", false, ErrClosed
	}

	entries, err := s.read()
	if err != nil {
		return "", false, err
	}
	value, ok := entries[key]
	return value, ok, nil
}

// Set implements Storage.
func (s *JSONStorage) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	entries, _, err := s.readRepairing()
	if err != nil {
		return err
	}
	entries[key] = value
	return s.write(entries)
}

// Remove implements Storage.
func (s *JSONStorage) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	entries, repaired, err := s.readRepairing()
	if err != nil {
		return err
	}
	if _, ok := entries[key]; !ok && !repaired {
		return nil
	}
	delete(entries, key)
	return s.write(entries)
}

// Close implements Storage.
func (s *JSONStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// read loads all entries. A missing file is an empty store.
func (s *JSONStorage) read() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, err
	}

	entries := map[string]string{}
	if len(data) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse %s: %w: %w", s.path, ErrCorrupt, err)
	}
	return entries, nil
}

// readRepairing is read for writers. A corrupt file is moved aside to
// path+".corrupt" and the store starts over empty; repaired reports that
// the caller must write even if nothing else changed.
func (s *JSONStorage) readRepairing() (entries map[string]string, repaired bool, err error) {
	entries, err = s.read()
	if !errors.Is(err, ErrCorrupt) {
		return entries, false, err
	}
	if err := os.Rename(s.path, s.path+".corrupt"); err != nil {
		return nil, false, err
	}
	return map[string]string{}, true, nil
}

// write replaces the file atomically: temp file in the same directory, then
// rename. Creates the directory if it doesn't exist.
func (s *JSONStorage) write(entries map[string]string) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, s.path)
}

// DefaultDataDir returns the default data directory: ~/.config/linkdeck
func DefaultDataDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "linkdeck"), nil
}

// OpenStorage opens the backend selected by cfg.
// With an empty Backend it prefers SQLite if the database file exists,
// otherwise falls back to JSON.
func OpenStorage(cfg Config) (Storage, error) {
	dir := cfg.DataPath
	if dir == "" {
		var err error
		dir, err = DefaultDataDir()
		if err != nil {
			return nil, err
		}
	}

	sqlitePath := filepath.Join(dir, "linkdeck.db")
	jsonPath := filepath.Join(dir, "linkdeck.json")

	switch cfg.Backend {
	case BackendSQLite:
		return NewSQLiteStorage(sqlitePath)
	case BackendJSON:
		return NewJSONStorage(jsonPath), nil
	case "":
		if _, err := os.Stat(sqlitePath); err == nil {
			return NewSQLiteStorage(sqlitePath)
		}
		return NewJSONStorage(jsonPath), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
