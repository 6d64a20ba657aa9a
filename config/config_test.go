package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestLoadValidConfig(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
log:
  level: debug
  format: json
auth:
  passcode: secret123
  jwt_secret: topsecret
  token_expire_hours: 2
inbox:
  csv_url: https://example.com/export.csv
template:
  path: /opt/templates/template.xlsm
  archive: true
store:
  max_sessions: 50
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("Unexpected log config: %+v", cfg.Log)
	}
	if cfg.Auth.Passcode != "secret123" {
		t.Errorf("Passcode = %q, want secret123", cfg.Auth.Passcode)
	}
	if cfg.Auth.TokenExpireHours != 2 {
		t.Errorf("TokenExpireHours = %d, want 2", cfg.Auth.TokenExpireHours)
	}
	if cfg.Inbox.CSVURL != "https://example.com/export.csv" {
		t.Errorf("CSVURL = %q", cfg.Inbox.CSVURL)
	}
	if cfg.Template.Path != "/opt/templates/template.xlsm" {
		t.Errorf("Template path = %q", cfg.Template.Path)
	}
	if !cfg.Template.Archive {
		t.Error("Expected archive enabled")
	}
	if cfg.Store.MaxSessions != 50 {
		t.Errorf("MaxSessions = %d, want 50", cfg.Store.MaxSessions)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "{}"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Default port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Auth.TokenExpireHours != 24 {
		t.Errorf("Default token expiry = %d, want 24", cfg.Auth.TokenExpireHours)
	}
	if cfg.Template.Path != "template.xlsm" {
		t.Errorf("Default template path = %q", cfg.Template.Path)
	}
	if cfg.Store.MaxSessions != 100 {
		t.Errorf("Default max sessions = %d, want 100", cfg.Store.MaxSessions)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load failed for missing file: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Default port = %d, want 8080", cfg.Server.Port)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	if _, err := Load(writeConfig(t, "server: [not: valid")); err == nil {
		t.Error("Expected error for invalid YAML")
	}
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("APP_PASSCODE", "env-pass")
	t.Setenv("SHEET_CSV_URL", "https://env.example.com/sheet.csv")
	t.Setenv("JWT_SECRET", "env-secret")

	cfg, err := Load(writeConfig(t, `
auth:
  passcode: file-pass
inbox:
  csv_url: https://file.example.com/sheet.csv
`))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Auth.Passcode != "env-pass" {
		t.Errorf("Passcode = %q, want environment value", cfg.Auth.Passcode)
	}
	if cfg.Inbox.CSVURL != "https://env.example.com/sheet.csv" {
		t.Errorf("CSVURL = %q, want environment value", cfg.Inbox.CSVURL)
	}
	if cfg.Auth.JWTSecret != "env-secret" {
		t.Errorf("JWTSecret = %q, want environment value", cfg.Auth.JWTSecret)
	}
}
