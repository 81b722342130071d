package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/devicelab-dev/patrol-runner/pkg/core"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	content := `
server:
  socket: /tmp/uia2.sock
  port: 8200
  timeoutMs: 5000
logFile: run.log
logLevel: debug
include:
  - "app_test.dart *"
  - "*Login*"
format: json
`
	path := writeConfig(t, t.TempDir(), "config.yaml", content)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Socket != "/tmp/uia2.sock" {
		t.Errorf("expected socket /tmp/uia2.sock, got %s", cfg.Server.Socket)
	}
	if cfg.Server.Port != 8200 {
		t.Errorf("expected port 8200, got %d", cfg.Server.Port)
	}
	if cfg.Server.TimeoutMs != 5000 {
		t.Errorf("expected timeoutMs 5000, got %d", cfg.Server.TimeoutMs)
	}
	if cfg.LogFile != "run.log" || cfg.LogLevel != "debug" {
		t.Errorf("unexpected logging config %q %q", cfg.LogFile, cfg.LogLevel)
	}
	if len(cfg.Include) != 2 || cfg.Include[0] != "app_test.dart *" {
		t.Errorf("unexpected include %v", cfg.Include)
	}
	if cfg.OutputFormat() != FormatJSON {
		t.Errorf("expected json format, got %s", cfg.OutputFormat())
	}
}

func TestLoad_NonExistentFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", `include: [invalid yaml`)

	_, err := Load(path)
	if !errors.Is(err, core.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestLoad_EmptyConfig(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", ``)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Include) != 0 {
		t.Errorf("expected empty include, got %v", cfg.Include)
	}
	if cfg.OutputFormat() != FormatText {
		t.Errorf("expected default text format, got %s", cfg.OutputFormat())
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		cfg       Config
		wantField string
	}{
		{"zero value", Config{}, ""},
		{"text format", Config{Format: "text"}, ""},
		{"unknown format", Config{Format: "xml"}, "format"},
		{"valid level", Config{LogLevel: "warning"}, ""},
		{"unknown level", Config{LogLevel: "loud"}, "logLevel"},
		{"port too high", Config{Server: ServerConfig{Port: 70000}}, "server.port"},
		{"negative port", Config{Server: ServerConfig{Port: -1}}, "server.port"},
		{"negative timeout", Config{Server: ServerConfig{TimeoutMs: -5}}, "server.timeoutMs"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}

			var execErr *core.ExecutionError
			if !errors.As(err, &execErr) {
				t.Fatalf("expected ExecutionError, got %v", err)
			}
			if execErr.Code != core.ErrInvalidConfig.Code {
				t.Errorf("Code = %s, want %s", execErr.Code, core.ErrInvalidConfig.Code)
			}
			if execErr.Details["field"] != tt.wantField {
				t.Errorf("field = %v, want %s", execErr.Details["field"], tt.wantField)
			}
		})
	}
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.yaml", `format: csv`)

	if _, err := Load(path); !errors.Is(err, core.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestLoadFromDir_ConfigYaml(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.yaml", `logLevel: info`)

	cfg, err := LoadFromDir(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected logLevel info, got %s", cfg.LogLevel)
	}
}

func TestLoadFromDir_ConfigYml(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.yml", `logLevel: warn`)

	cfg, err := LoadFromDir(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("expected logLevel warn, got %s", cfg.LogLevel)
	}
}

func TestLoadFromDir_NoConfig(t *testing.T) {
	cfg, err := LoadFromDir(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.LogLevel != "" || len(cfg.Include) != 0 {
		t.Errorf("expected empty config, got %+v", cfg)
	}
}

func TestLoadFromDir_PrefersYamlOverYml(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.yaml", `logLevel: debug`)
	writeConfig(t, dir, "config.yml", `logLevel: error`)

	cfg, err := LoadFromDir(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected logLevel debug (from config.yaml), got %s", cfg.LogLevel)
	}
}
