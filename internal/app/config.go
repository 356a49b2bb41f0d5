package app

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	ServerURL    string `yaml:"server_url"`
	Theme        string `yaml:"theme"`
	MaxUploadMiB int64  `yaml:"max_upload_mib"`
	DefaultScope string `yaml:"default_scope"` // all|personal|team
}

func DefaultConfig() Config {
	return Config{
		ServerURL:    "http://localhost:8000",
		Theme:        "porcelain",
		MaxUploadMiB: 20,
		DefaultScope: "all",
	}
}

func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = DefaultConfigPath()
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return cfg, err
		}
		if err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, err
			}
		}
	}

	if v := strings.TrimSpace(os.Getenv("COGNI_SERVER_URL")); v != "" {
		cfg.ServerURL = v
	}
	if cfg.ServerURL == "" {
		cfg.ServerURL = "http://localhost:8000"
	}
	cfg.ServerURL = strings.TrimRight(cfg.ServerURL, "/")
	if cfg.MaxUploadMiB <= 0 {
		cfg.MaxUploadMiB = 20
	}
	if cfg.DefaultScope == "" {
		cfg.DefaultScope = "all"
	}
	return cfg, nil
}

func SaveConfig(cfg Config, path string) error {
	if path == "" {
		path = DefaultConfigPath()
	}
	if path == "" {
		return errors.New("no path provided for config")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func DefaultConfigPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(base, "cogni", "config.yml")
}

// DefaultDataRoot is where durable client state lives. The only entry today
// is the credential file, plus the local log.
func DefaultDataRoot() string {
	if base := strings.TrimSpace(os.Getenv("XDG_DATA_HOME")); base != "" {
		return filepath.Join(base, "cogni")
	}
	if base, err := os.UserHomeDir(); err == nil && base != "" {
		return filepath.Join(base, ".local", "share", "cogni")
	}
	return filepath.Join(os.TempDir(), "cogni")
}
