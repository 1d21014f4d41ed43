package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadValidConfig(t *testing.T) {
	path := writeConfig(t, `
version: 1
server:
  base_url: http://localhost:8080
  timeout_seconds: 30
cache:
  data_root: /tmp/tradmin
ui:
  page_size: 10
`)
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if c.Server.BaseURL != "http://localhost:8080" {
		t.Fatalf("unexpected base_url: %s", c.Server.BaseURL)
	}
	if got := c.APIPrefix(); got != "/api/v1" {
		t.Fatalf("expected default api prefix, got %s", got)
	}
	if got := c.SessionPath(); got != filepath.Join("/tmp/tradmin", "session.json") {
		t.Fatalf("unexpected session path: %s", got)
	}
	if got := c.DownloadDir(); got != filepath.Join("/tmp/tradmin", "downloads") {
		t.Fatalf("unexpected download dir: %s", got)
	}
}

func TestLoadExpandsEnv(t *testing.T) {
	t.Setenv("TRADMIN_TEST_BASE", "http://museum.example.org")
	path := writeConfig(t, `
version: 1
server:
  base_url: ${TRADMIN_TEST_BASE}
cache:
  data_root: /tmp/tradmin
`)
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if c.Server.BaseURL != "http://museum.example.org" {
		t.Fatalf("env not expanded: %s", c.Server.BaseURL)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"bad version", "version: 2\nserver:\n  base_url: http://x\ncache:\n  data_root: /tmp/t\n"},
		{"missing base_url", "version: 1\ncache:\n  data_root: /tmp/t\n"},
		{"bad base_url", "version: 1\nserver:\n  base_url: not-a-url\ncache:\n  data_root: /tmp/t\n"},
		{"missing data_root", "version: 1\nserver:\n  base_url: http://x\n"},
		{"bad page size", "version: 1\nserver:\n  base_url: http://x\ncache:\n  data_root: /tmp/t\nui:\n  page_size: 7\n"},
		{"bad log level", "version: 1\nserver:\n  base_url: http://x\ncache:\n  data_root: /tmp/t\nlogging:\n  level: loud\n"},
		{"bad api prefix", "version: 1\nserver:\n  base_url: http://x\n  api_version: v1\ncache:\n  data_root: /tmp/t\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tc.body)); err == nil {
				t.Fatalf("expected error for %s", tc.name)
			}
		})
	}
}
