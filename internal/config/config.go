package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config mirrors the YAML schema. All values should be supplied via YAML; we avoid hard-coded defaults.
// Minimal validation occurs in Validate().
type Config struct {
	Version   int       `yaml:"version"`
	Server    Server    `yaml:"server"`
	Auth      Auth      `yaml:"auth"`
	Cache     Cache     `yaml:"cache"`
	Downloads Downloads `yaml:"downloads"`
	Logging   Logging   `yaml:"logging"`
	Metrics   Metrics   `yaml:"metrics"`
	UI        UIOptions `yaml:"ui"`
}

type Server struct {
	BaseURL        string `yaml:"base_url"`
	APIVersion     string `yaml:"api_version"` // path prefix, default /api/v1
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	TLSSkipVerify  bool   `yaml:"tls_skip_verify"`
	UserAgent      string `yaml:"user_agent"`
}

type Auth struct {
	// SessionFile is where the logged-in session (token + identity) is persisted.
	SessionFile string `yaml:"session_file"`
}

type Cache struct {
	DataRoot        string `yaml:"data_root"`
	PreviewTTLHours int    `yaml:"preview_ttl_hours"`
}

type Downloads struct {
	Dir string `yaml:"dir"`
}

type Logging struct {
	Level  string  `yaml:"level"`  // debug|info|warn|error
	Format string  `yaml:"format"` // human|json
	File   LogFile `yaml:"file"`
}

type LogFile struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

type Metrics struct {
	PrometheusTextfile PromTextfile `yaml:"prometheus_textfile"`
}

type PromTextfile struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

type UIOptions struct {
	// RefreshHz controls the TUI refresh frequency (ticks per second). If 0, defaults to 4.
	// Values above 10 are clamped to 10 to avoid excessive CPU usage.
	RefreshHz int `yaml:"refresh_hz"`
	// PageSize is the initial list page size. Must be one of 5, 10, 20, 50 when set.
	PageSize int `yaml:"page_size"`
	// DebounceMS is the search debounce delay in milliseconds. If 0, defaults to 500.
	DebounceMS int `yaml:"debounce_ms"`
}

// Load reads, parses, expands, and validates a YAML config file.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}
	expanded, err := expandTilde(path)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(expanded)
	if err != nil {
		return nil, err
	}
	// Expand ${ENV} placeholders before unmarshalling
	b = []byte(os.ExpandEnv(string(b)))
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	if err := c.expandPaths(); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) expandPaths() error {
	var err error
	if c.Auth.SessionFile, err = expandTilde(c.Auth.SessionFile); err != nil {
		return err
	}
	if c.Cache.DataRoot, err = expandTilde(c.Cache.DataRoot); err != nil {
		return err
	}
	if c.Downloads.Dir, err = expandTilde(c.Downloads.Dir); err != nil {
		return err
	}
	if c.Logging.File.Path, err = expandTilde(c.Logging.File.Path); err != nil {
		return err
	}
	if c.Metrics.PrometheusTextfile.Path, err = expandTilde(c.Metrics.PrometheusTextfile.Path); err != nil {
		return err
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Version != 1 {
		return fmt.Errorf("unsupported config version: %d", c.Version)
	}
	if c.Server.BaseURL == "" {
		return errors.New("server.base_url is required")
	}
	u, err := url.Parse(c.Server.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("server.base_url invalid: %s", c.Server.BaseURL)
	}
	if c.Server.APIVersion != "" && !strings.HasPrefix(c.Server.APIVersion, "/") {
		return fmt.Errorf("server.api_version must start with /: %s", c.Server.APIVersion)
	}
	if c.Cache.DataRoot == "" {
		return errors.New("cache.data_root is required")
	}
	if c.Cache.PreviewTTLHours < 0 {
		return errors.New("cache.preview_ttl_hours must be >= 0")
	}
	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level invalid: %s", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", "human", "json":
	default:
		return fmt.Errorf("logging.format invalid: %s", c.Logging.Format)
	}
	if c.UI.RefreshHz < 0 {
		return errors.New("ui.refresh_hz must be >= 0")
	}
	switch c.UI.PageSize {
	case 0, 5, 10, 20, 50:
	default:
		return fmt.Errorf("ui.page_size must be one of 5, 10, 20, 50: %d", c.UI.PageSize)
	}
	if c.UI.DebounceMS < 0 {
		return errors.New("ui.debounce_ms must be >= 0")
	}
	return nil
}

// SessionPath returns the configured session file, or the default under data_root.
func (c *Config) SessionPath() string {
	if c.Auth.SessionFile != "" {
		return c.Auth.SessionFile
	}
	return filepath.Join(c.Cache.DataRoot, "session.json")
}

// DownloadDir returns the configured download directory, or the default under data_root.
func (c *Config) DownloadDir() string {
	if c.Downloads.Dir != "" {
		return c.Downloads.Dir
	}
	return filepath.Join(c.Cache.DataRoot, "downloads")
}

// APIPrefix returns the API version prefix, defaulting to /api/v1.
func (c *Config) APIPrefix() string {
	if c.Server.APIVersion != "" {
		return c.Server.APIVersion
	}
	return "/api/v1"
}

func expandTilde(p string) (string, error) {
	if p == "" {
		return "", nil
	}
	if p[0] != '~' {
		return p, nil
	}
	h, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	if p == "~" {
		return h, nil
	}
	return filepath.Join(h, p[2:]), nil
}

// EnsureDir creates path (and parents) if it does not exist.
func EnsureDir(path string) error {
	if path == "" {
		return nil
	}
	return os.MkdirAll(path, 0o755)
}
