// Package config loads mailassist settings from file, environment and flags.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. MAILASSIST_TUI_THEME.
const EnvPrefix = "MAILASSIST"

// EnvConfigFile names the environment variable holding an explicit config path.
const EnvConfigFile = "MAILASSIST_CONFIG_FILE"

// Preference backends.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendMemory = "memory"
)

// Clipboard modes.
const (
	ClipboardAuto   = "auto"
	ClipboardSystem = "system"
	ClipboardOSC52  = "osc52"
)

// Themes.
const (
	ThemeDefault      = "default"
	ThemeHighContrast = "high-contrast"
)

// DefaultBaseURL is the origin and path shareable links point to.
const DefaultBaseURL = "https://mailassist.app/"

// Config is the resolved application configuration.
type Config struct {
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	Link      LinkConfig      `mapstructure:"link"`
	Prefs     PrefsConfig     `mapstructure:"prefs"`
	Clipboard ClipboardConfig `mapstructure:"clipboard"`
	TUI       TUIConfig       `mapstructure:"tui"`
	Logging   LoggingConfig   `mapstructure:"logging"`

	// Path is the config file that was read, empty when none was found.
	Path string `mapstructure:"-"`
}

// CatalogConfig selects where templates come from.
type CatalogConfig struct {
	// Source is a file path, an http(s) URL, "builtin", or empty for the search paths.
	Source string `mapstructure:"source"`
}

// LinkConfig controls shareable links.
type LinkConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

// PrefsConfig controls preference persistence.
type PrefsConfig struct {
	Backend string `mapstructure:"backend"`
	Path    string `mapstructure:"path"`
}

// ClipboardConfig controls how text reaches the clipboard.
type ClipboardConfig struct {
	Mode string `mapstructure:"mode"`
}

// TUIConfig holds terminal UI settings.
type TUIConfig struct {
	Theme     string        `mapstructure:"theme"`
	Preview   bool          `mapstructure:"preview"`
	CopiedFor time.Duration `mapstructure:"copied_for"`
}

// LoggingConfig holds log settings.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() *Config {
	return &Config{
		Link:      LinkConfig{BaseURL: DefaultBaseURL},
		Prefs:     PrefsConfig{Backend: BackendSQLite, Path: filepath.Join(DataDir(), "mailassist.db")},
		Clipboard: ClipboardConfig{Mode: ClipboardAuto},
		TUI:       TUIConfig{Theme: ThemeDefault, Preview: true, CopiedFor: 2 * time.Second},
		Logging:   LoggingConfig{Level: "info", File: filepath.Join(StateDir(), "mailassist.log")},
	}
}

// SetDefaults registers every default with v so env overrides resolve.
func SetDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("catalog.source", d.Catalog.Source)
	v.SetDefault("link.base_url", d.Link.BaseURL)
	v.SetDefault("prefs.backend", d.Prefs.Backend)
	v.SetDefault("prefs.path", d.Prefs.Path)
	v.SetDefault("clipboard.mode", d.Clipboard.Mode)
	v.SetDefault("tui.theme", d.TUI.Theme)
	v.SetDefault("tui.preview", d.TUI.Preview)
	v.SetDefault("tui.copied_for", d.TUI.CopiedFor)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.file", d.Logging.File)
}

// New returns a viper instance wired for mailassist: defaults, env prefix and config file.
// explicitPath wins over MAILASSIST_CONFIG_FILE, which wins over the default location.
func New(explicitPath string) *viper.Viper {
	v := viper.New()
	SetDefaults(v)

	switch {
	case explicitPath != "":
		v.SetConfigFile(explicitPath)
	case os.Getenv(EnvConfigFile) != "":
		v.SetConfigFile(os.Getenv(EnvConfigFile))
	default:
		v.AddConfigPath(ConfigDir())
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the config file (if any) and decodes v into a validated Config.
// A missing default config file is not an error; a missing explicit one is.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.Path = v.ConfigFileUsed()
	cfg.Prefs.Path = expandHome(cfg.Prefs.Path)
	cfg.Logging.File = expandHome(cfg.Logging.File)
	if cfg.Catalog.Source != "" && !strings.Contains(cfg.Catalog.Source, "://") {
		cfg.Catalog.Source = expandHome(cfg.Catalog.Source)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate rejects values the application cannot act on.
func (c *Config) Validate() error {
	switch c.Prefs.Backend {
	case BackendSQLite, BackendFile, BackendMemory:
	default:
		return fmt.Errorf("prefs.backend %q must be one of sqlite, file, memory", c.Prefs.Backend)
	}
	if c.Prefs.Backend != BackendMemory && strings.TrimSpace(c.Prefs.Path) == "" {
		return fmt.Errorf("prefs.path is required for the %s backend", c.Prefs.Backend)
	}

	switch c.Clipboard.Mode {
	case ClipboardAuto, ClipboardSystem, ClipboardOSC52:
	default:
		return fmt.Errorf("clipboard.mode %q must be one of auto, system, osc52", c.Clipboard.Mode)
	}

	switch c.TUI.Theme {
	case ThemeDefault, ThemeHighContrast:
	default:
		return fmt.Errorf("tui.theme %q must be default or high-contrast", c.TUI.Theme)
	}
	if c.TUI.CopiedFor <= 0 {
		return fmt.Errorf("tui.copied_for must be positive, got %s", c.TUI.CopiedFor)
	}

	base, err := url.Parse(c.Link.BaseURL)
	if err != nil || !base.IsAbs() || base.Host == "" {
		return fmt.Errorf("link.base_url %q must be an absolute URL", c.Link.BaseURL)
	}

	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "error", "disabled":
	default:
		return fmt.Errorf("logging.level %q is not a known level", c.Logging.Level)
	}
	return nil
}

// ConfigDir is the directory holding config.yaml.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "mailassist")
	}
	return filepath.Join(homeDir(), ".config", "mailassist")
}

// DataDir is the directory holding the preference store.
func DataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "mailassist")
	}
	return filepath.Join(homeDir(), ".local", "share", "mailassist")
}

// StateDir is the directory holding the log file.
func StateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "mailassist")
	}
	return filepath.Join(homeDir(), ".local", "state", "mailassist")
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return os.TempDir()
	}
	return home
}

func expandHome(path string) string {
	if path == "~" {
		return homeDir()
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(homeDir(), path[2:])
	}
	return path
}
