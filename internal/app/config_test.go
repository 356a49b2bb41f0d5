package app

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig_Values(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.ServerURL != "http://localhost:8000" {
		t.Fatalf("ServerURL = %q", cfg.ServerURL)
	}
	if cfg.Theme != "porcelain" {
		t.Fatalf("Theme = %q", cfg.Theme)
	}
	if cfg.MaxUploadMiB != 20 {
		t.Fatalf("MaxUploadMiB = %d", cfg.MaxUploadMiB)
	}
	if cfg.DefaultScope != "all" {
		t.Fatalf("DefaultScope = %q", cfg.DefaultScope)
	}
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "config.yml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestLoadConfig_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte("theme: midnight\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Theme != "midnight" {
		t.Fatalf("Theme = %q", cfg.Theme)
	}
	if cfg.ServerURL != "http://localhost:8000" || cfg.MaxUploadMiB != 20 {
		t.Fatalf("defaults lost: %+v", cfg)
	}
}

func TestLoadConfig_EnvOverridesServerURL(t *testing.T) {
	t.Setenv("COGNI_SERVER_URL", "https://api.example.com/")
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "config.yml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.ServerURL != "https://api.example.com" {
		t.Fatalf("ServerURL = %q, want trailing slash trimmed", cfg.ServerURL)
	}
}

func TestSaveConfig_Roundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yml")
	want := Config{ServerURL: "http://10.0.0.2:8000", Theme: "midnight", MaxUploadMiB: 5, DefaultScope: "team"}
	if err := SaveConfig(want, path); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}
	got, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if got != want {
		t.Fatalf("roundtrip = %+v, want %+v", got, want)
	}
}
