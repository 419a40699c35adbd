package storage_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/nikbrunner/linkdeck/internal/storage"
)

// backends returns every Storage implementation on fresh temp locations.
func backends(t *testing.T) map[string]storage.Storage {
	t.Helper()
	tmpDir := t.TempDir()

	sqlite, err := storage.NewSQLiteStorage(filepath.Join(tmpDir, "kv.db"))
	if err != nil {
		t.Fatalf("failed to create sqlite storage: %v", err)
	}
	t.Cleanup(func() { sqlite.Close() })

	return map[string]storage.Storage{
		"json":   storage.NewJSONStorage(filepath.Join(tmpDir, "kv.json")),
		"sqlite": sqlite,
		"memory": storage.NewMemoryStorage(),
	}
}

func TestStorage_SetGetRemove(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if _, ok, err := s.Get("tree.v2"); err != nil || ok {
				t.Fatalf("expected absent key, got ok=%v err=%v", ok, err)
			}

			if err := s.Set("tree.v2", `[{"id":"c1"}]`); err != nil {
				t.Fatalf("failed to set: %v", err)
			}
			if err := s.Set("theme.v1", "dark"); err != nil {
				t.Fatalf("failed to set: %v", err)
			}

			got, ok, err := s.Get("tree.v2")
			if err != nil || !ok {
				t.Fatalf("expected key present, got ok=%v err=%v", ok, err)
			}
			if got != `[{"id":"c1"}]` {
				t.Errorf("unexpected value %q", got)
			}

			// Overwrite
			if err := s.Set("tree.v2", "[]"); err != nil {
				t.Fatalf("failed to overwrite: %v", err)
			}
			got, _, _ = s.Get("tree.v2")
			if got != "[]" {
				t.Errorf("expected overwritten value, got %q", got)
			}

			if err := s.Remove("tree.v2"); err != nil {
				t.Fatalf("failed to remove: %v", err)
			}
			if _, ok, _ := s.Get("tree.v2"); ok {
				t.Error("expected key to be removed")
			}
			if err := s.Remove("tree.v2"); err != nil {
				t.Errorf("removing absent key should not fail: %v", err)
			}

			// Other keys survive
			theme, ok, _ := s.Get("theme.v1")
			if !ok || theme != "dark" {
				t.Errorf("expected theme to survive, got %q ok=%v", theme, ok)
			}
		})
	}
}

func TestJSONStorage_PersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "linkdeck.json")

	first := storage.NewJSONStorage(path)
	if err := first.Set("k", "v"); err != nil {
		t.Fatalf("failed to set: %v", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatal("storage file was not created in nested directory")
	}

	second := storage.NewJSONStorage(path)
	got, ok, err := second.Get("k")
	if err != nil || !ok || got != "v" {
		t.Errorf("expected v from fresh instance, got %q ok=%v err=%v", got, ok, err)
	}

	// No temp files left behind
	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("expected only the storage file, found %d entries", len(entries))
	}
}

func TestJSONStorage_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "linkdeck.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	s := storage.NewJSONStorage(path)
	if _, _, err := s.Get("k"); !errors.Is(err, storage.ErrCorrupt) {
		t.Errorf("expected ErrCorrupt, got %v", err)
	}
}

func TestJSONStorage_SetRecoversCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "linkdeck.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	s := storage.NewJSONStorage(path)
	if err := s.Set("k", "v"); err != nil {
		t.Fatalf("failed to set over corrupt file: %v", err)
	}

	value, ok, err := s.Get("k")
	if err != nil || !ok || value != "v" {
		t.Errorf("Get(k) = %q, %v, %v; want v, true, nil", value, ok, err)
	}

	backup, err := os.ReadFile(path + ".corrupt")
	if err != nil {
		t.Fatalf("expected corrupt backup: %v", err)
	}
	if string(backup) != "{not json" {
		t.Errorf("backup = %q, want original contents", backup)
	}
}

func TestJSONStorage_RemoveRewritesCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "linkdeck.json")
	if err := os.WriteFile(path, []byte("garbage"), 0644); err != nil {
		t.Fatal(err)
	}

	s := storage.NewJSONStorage(path)
	if err := s.Remove("absent"); err != nil {
		t.Fatalf("failed to remove from corrupt file: %v", err)
	}
	if _, _, err := s.Get("absent"); err != nil {
		t.Errorf("expected a readable file after Remove, got %v", err)
	}
}

func TestStorage_Closed(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if err := s.Close(); err != nil {
				t.Fatalf("failed to close: %v", err)
			}
			if err := s.Set("k", "v"); err == nil {
				t.Error("expected error after close")
			}
		})
	}
}

func TestMemoryStorage_InjectedErrors(t *testing.T) {
	boom := errors.New("quota exceeded")
	m := storage.NewMemoryStorage()
	m.SetErr = boom

	if err := m.Set("k", "v"); !errors.Is(err, boom) {
		t.Errorf("expected injected error, got %v", err)
	}
	if m.Sets() != 1 {
		t.Errorf("expected 1 set attempt, got %d", m.Sets())
	}
	if _, ok, _ := m.Get("k"); ok {
		t.Error("failed set must not store the value")
	}
}

func TestOpenStorage(t *testing.T) {
	dir := t.TempDir()

	s, err := storage.OpenStorage(storage.Config{DataPath: dir})
	if err != nil {
		t.Fatalf("failed to open: %v", err)
	}
	if _, ok := s.(*storage.JSONStorage); !ok {
		t.Errorf("expected JSON storage without a database file, got %T", s)
	}

	s, err = storage.OpenStorage(storage.Config{DataPath: dir, Backend: storage.BackendSQLite})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	s.Close()

	// Database now exists, auto mode prefers it
	s, err = storage.OpenStorage(storage.Config{DataPath: dir})
	if err != nil {
		t.Fatalf("failed to open: %v", err)
	}
	defer s.Close()
	if _, ok := s.(*storage.SQLiteStorage); !ok {
		t.Errorf("expected SQLite storage when database exists, got %T", s)
	}

	if _, err := storage.OpenStorage(storage.Config{DataPath: dir, Backend: "redis"}); err == nil {
		t.Error("expected error for unknown backend")
	}
}
