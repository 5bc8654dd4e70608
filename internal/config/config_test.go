package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, _, exists, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("Load should report missing file")
	}
	if cfg.Paths.Bind != defaultBind {
		t.Errorf("bind = %q, want default %q", cfg.Paths.Bind, defaultBind)
	}
	if cfg.Douban.BaseURL != defaultDoubanBaseURL {
		t.Errorf("base url = %q, want default %q", cfg.Douban.BaseURL, defaultDoubanBaseURL)
	}
	if !filepath.IsAbs(cfg.Paths.CacheDB) {
		t.Errorf("cache db %q should be expanded to an absolute path", cfg.Paths.CacheDB)
	}
}

func TestLoadParsesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
cache_db = "` + filepath.Join(dir, "cache.db") + `"
bind = "127.0.0.1:9999"
webroot = "http://media.local:9999/"

[douban]
base_url = "https://mirror.example/v2/"
timeout_seconds = 3

[logging]
format = "json"
level = "debug"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("resolved = %q exists = %v", resolved, exists)
	}
	if cfg.Paths.Bind != "127.0.0.1:9999" {
		t.Errorf("bind = %q", cfg.Paths.Bind)
	}
	if cfg.Paths.Webroot != "http://media.local:9999" {
		t.Errorf("webroot should be trimmed of trailing slash, got %q", cfg.Paths.Webroot)
	}
	if cfg.Douban.BaseURL != "https://mirror.example/v2" {
		t.Errorf("base url should be trimmed of trailing slash, got %q", cfg.Douban.BaseURL)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"empty bind", func(c *Config) { c.Paths.Bind = "" }, "paths.bind"},
		{"relative webroot", func(c *Config) { c.Paths.Webroot = "media.local" }, "paths.webroot"},
		{"empty base url", func(c *Config) { c.Douban.BaseURL = "" }, "douban.base_url"},
		{"zero timeout", func(c *Config) { c.Douban.TimeoutSeconds = 0 }, "douban.timeout_seconds"},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			if err := cfg.normalize(); err != nil {
				t.Fatalf("normalize: %v", err)
			}
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q should mention %s", err, tc.want)
			}
		})
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	if _, _, exists, err := Load(path); err != nil || !exists {
		t.Fatalf("sample config should load cleanly: exists=%v err=%v", exists, err)
	}
}

func TestExpandPathTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	got, err := ExpandPath("~/cache.db")
	if err != nil {
		t.Fatalf("ExpandPath: %v", err)
	}
	if got != filepath.Join(home, "cache.db") {
		t.Errorf("ExpandPath = %q", got)
	}
}
