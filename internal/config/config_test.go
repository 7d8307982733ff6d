package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIBase != defaultAPIBase {
		t.Fatalf("APIBase = %q, want %q", cfg.APIBase, defaultAPIBase)
	}
	if cfg.RequestTimeout != defaultRequestTimeout || cfg.SearchDebounce != defaultSearchDebounce {
		t.Fatalf("durations = %v/%v, want defaults", cfg.RequestTimeout, cfg.SearchDebounce)
	}
	if cfg.RateLimit != defaultRateLimit {
		t.Fatalf("RateLimit = %v, want %v", cfg.RateLimit, defaultRateLimit)
	}

	wantDB, err := expandPath(defaultDatabasePath)
	if err != nil {
		t.Fatalf("expandPath(defaultDatabasePath) returned error: %v", err)
	}
	if cfg.DatabasePath != wantDB {
		t.Fatalf("DatabasePath = %q, want %q", cfg.DatabasePath, wantDB)
	}
	if !strings.HasPrefix(cfg.LogFile, home) {
		t.Fatalf("LogFile = %q, want it under HOME %q", cfg.LogFile, home)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
api_base = "  http://localhost:8080/api  "
request_timeout = "3s"
rate_limit = 0
database_path = "  ~/data/portal.db  "
log_file = "-"
log_level = "DEBUG"
search_debounce = "150ms"
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIBase != "http://localhost:8080/api" {
		t.Fatalf("APIBase = %q", cfg.APIBase)
	}
	if cfg.RequestTimeout != 3*time.Second || cfg.SearchDebounce != 150*time.Millisecond {
		t.Fatalf("durations = %v/%v, want 3s/150ms", cfg.RequestTimeout, cfg.SearchDebounce)
	}
	if cfg.RateLimit != 0 {
		t.Fatalf("RateLimit = %v, want 0 (explicitly disabled)", cfg.RateLimit)
	}
	if cfg.DatabasePath != filepath.Join(home, "data/portal.db") {
		t.Fatalf("DatabasePath = %q, want it under HOME %q", cfg.DatabasePath, home)
	}
	if cfg.LogFile != StderrLog {
		t.Fatalf("LogFile = %q, want -", cfg.LogFile)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("LogLevel = %q, want debug", cfg.LogLevel)
	}
}

func TestLoad_EmptyValuesUseDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
api_base = "   "
request_timeout = ""
log_level = ""
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("Load = %#v, want defaults %#v", cfg, Default())
	}
}

func TestLoad_InvalidTOMLFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`api_base = [`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	_, err := Load(path)
	if err == nil {
		t.Fatalf("Load returned nil error, want parse error")
	}
	if !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("Load error = %q, want it to mention parse config", err.Error())
	}
}

func TestLoad_InvalidDurationFails(t *testing.T) {
	for _, body := range []string{`request_timeout = "soon"`, `search_debounce = "-1s"`} {
		path := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
		if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "parse config") {
			t.Fatalf("Load(%s) error = %v, want parse config error", body, err)
		}
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := ExpandPath("~/a/b")
	if err != nil {
		t.Fatalf("ExpandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("ExpandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := expandPath("   "); err == nil {
		t.Fatalf("expandPath returned nil error, want error")
	}
}
