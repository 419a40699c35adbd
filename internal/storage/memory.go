package storage

import "sync"

// MemoryStorage is an in-process Storage. Errors can be injected to
// exercise failure paths.
type MemoryStorage struct {
	mu      sync.Mutex
	entries map[string]string
	closed  bool

	// SetErr, when non-nil, is returned by Set instead of storing.
	SetErr error
	// GetErr, when non-nil, is returned by Get.
	GetErr error

	sets int
}

// NewMemoryStorage creates an empty MemoryStorage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{entries: map[string]string{}}
}

// Get implements Storage.
func (m *MemoryStorage) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return "", false, ErrClosed
	}
	if m.GetErr != nil {
		return "", false, m.GetErr
	}
	v, ok := m.entries[key]
	return v, ok, nil
}

// Set implements Storage.
func (m *MemoryStorage) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	m.sets++
	if m.SetErr != nil {
		return m.SetErr
	}
	m.entries[key] = value
	return nil
}

// Remove implements Storage.
func (m *MemoryStorage) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	delete(m.entries, key)
	return nil
}

// Close implements Storage.
func (m *MemoryStorage) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Sets returns how many times Set was called, failed calls included.
func (m *MemoryStorage) Sets() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sets
}
