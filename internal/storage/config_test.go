package storage_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nikbrunner/linkdeck/internal/storage"
)

func TestLoadConfig_CreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg, err := storage.LoadConfig(path)
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}

	if time.Duration(cfg.SaveDelay) != 750*time.Millisecond {
		t.Errorf("expected 750ms save delay, got %v", time.Duration(cfg.SaveDelay))
	}
	if time.Duration(cfg.SavingFloor) != 300*time.Millisecond {
		t.Errorf("expected 300ms saving floor, got %v", time.Duration(cfg.SavingFloor))
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected config file to be created: %v", err)
	}
}

func TestLoadConfig_AppliesDefaultsForMissingFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{"backend": "sqlite", "saveDelay": "2s"}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := storage.LoadConfig(path)
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}

	if cfg.Backend != storage.BackendSQLite {
		t.Errorf("expected sqlite backend, got %q", cfg.Backend)
	}
	if time.Duration(cfg.SaveDelay) != 2*time.Second {
		t.Errorf("expected 2s save delay, got %v", time.Duration(cfg.SaveDelay))
	}
	if time.Duration(cfg.SavingFloor) != 300*time.Millisecond {
		t.Errorf("expected default saving floor, got %v", time.Duration(cfg.SavingFloor))
	}
	if len(cfg.CullExcludeDomains) != 2 {
		t.Errorf("expected default exclude domains, got %v", cfg.CullExcludeDomains)
	}
	if cfg.ServeAddr == "" {
		t.Error("expected default serve address")
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"malformed json", `{"backend": `},
		{"bad duration", `{"saveDelay": "soon"}`},
		{"numeric duration", `{"saveDelay": 750}`},
		{"unknown backend", `{"backend": "redis"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.json")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := storage.LoadConfig(path); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestConfig_ResolvedLogPath(t *testing.T) {
	cfg := storage.Config{DataPath: "/data"}
	got, err := cfg.ResolvedLogPath()
	if err != nil {
		t.Fatal(err)
	}
	if got != filepath.Join("/data", "linkdeck.log") {
		t.Errorf("unexpected log path %q", got)
	}

	cfg.LogPath = "/tmp/custom.log"
	got, _ = cfg.ResolvedLogPath()
	if got != "/tmp/custom.log" {
		t.Errorf("expected explicit log path, got %q", got)
	}
}
