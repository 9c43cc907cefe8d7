package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFileMissing(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if *cfg != *Default() {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[display]
page_size = 40

[fetcher]
timeout_seconds = 5

[bookmarks]
path = "/tmp/marks"

[session]
restore = true

[log]
verbosity = 2
`)
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if cfg.Display.PageSize != 40 {
		t.Errorf("expected page size 40, got %d", cfg.Display.PageSize)
	}
	if cfg.Display.Prompt != "*" {
		t.Errorf("expected default prompt, got %q", cfg.Display.Prompt)
	}
	if cfg.Fetcher.TimeoutSeconds != 5 {
		t.Errorf("expected timeout 5, got %d", cfg.Fetcher.TimeoutSeconds)
	}
	if cfg.Fetcher.MaxRedirects != 5 {
		t.Errorf("expected default max redirects, got %d", cfg.Fetcher.MaxRedirects)
	}
	if cfg.Bookmarks.Path != "/tmp/marks" {
		t.Errorf("unexpected bookmarks path %q", cfg.Bookmarks.Path)
	}
	if !cfg.Session.Restore {
		t.Error("expected session restore")
	}
	if cfg.Log.Verbosity != 2 {
		t.Errorf("expected verbosity 2, got %d", cfg.Log.Verbosity)
	}
}

func TestLoadFileErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"syntax", "[display\n", "parsing config TOML"},
		{"unknown key", "[display]\ncolour = true\n", "unknown config keys"},
		{"wrong type", "[display]\npage_size = \"big\"\n", "parsing config TOML"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFile(writeConfig(t, tt.content))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}
