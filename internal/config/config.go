package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig
	UI       UIConfig
	Journal  JournalConfig
	Log      LogConfig
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string
}

// UIConfig holds presentation settings.
type UIConfig struct {
	Prompt        string
	Timezone      string
	Scrollback    int
	HistorySize   int    `mapstructure:"history_size"`
	CursorBlink   bool   `mapstructure:"cursor_blink"`
	Keybindings   string // path to keybindings.toml; empty uses the defaults
	MarkdownStyle string `mapstructure:"markdown_style"` // glamour standard style for read
}

// JournalConfig holds journal command settings.
type JournalConfig struct {
	RecentLimit int `mapstructure:"recent_limit"`
}

// LogConfig controls the file logger. The terminal belongs to the TUI, so
// logs never go to stdout.
type LogConfig struct {
	Path  string
	Level string
}

const envPrefix = "TERMJOURNAL"

func home() string {
	if h, err := os.UserHomeDir(); err == nil {
		return h
	}
	return os.Getenv("HOME")
}

// DefaultPath is where Load looks for config.toml when no path is given.
func DefaultPath() string {
	if p := os.Getenv(envPrefix + "_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(home(), ".config", "termjournal", "config.toml")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.path", filepath.Join(home(), ".local", "share", "termjournal", "journal.db"))
	v.SetDefault("ui.prompt", "user@journal:~$")
	v.SetDefault("ui.timezone", "Local")
	v.SetDefault("ui.scrollback", 1000)
	v.SetDefault("ui.history_size", 500)
	v.SetDefault("ui.cursor_blink", true)
	v.SetDefault("ui.keybindings", filepath.Join(home(), ".config", "termjournal", "keybindings.toml"))
	v.SetDefault("ui.markdown_style", "dark")
	v.SetDefault("journal.recent_limit", 15)
	v.SetDefault("log.path", filepath.Join(home(), ".local", "state", "termjournal", "termjournal.log"))
	v.SetDefault("log.level", "info")
}

// Load reads configuration from file and env. Env var overrides use prefix
// TERMJOURNAL_. An empty path falls back to DefaultPath; a missing file is
// not an error.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("toml")
	if path == "" {
		path = DefaultPath()
	}
	v.SetConfigFile(path)

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, statErr := os.Stat(path); statErr == nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	normalize(&c)
	return c, nil
}

func normalize(c *Config) {
	if strings.TrimSpace(c.UI.Prompt) == "" {
		c.UI.Prompt = "user@journal:~$"
	}
	if c.UI.Scrollback <= 0 {
		c.UI.Scrollback = 1000
	}
	if c.UI.HistorySize <= 0 {
		c.UI.HistorySize = 500
	}
	if strings.TrimSpace(c.UI.MarkdownStyle) == "" {
		c.UI.MarkdownStyle = "dark"
	}
	if c.Journal.RecentLimit <= 0 {
		c.Journal.RecentLimit = 15
	}
}

// Location resolves ui.timezone. An empty value or "Local" is the
// machine's zone.
func (c Config) Location() (*time.Location, error) {
	name := strings.TrimSpace(c.UI.Timezone)
	if name == "" || strings.EqualFold(name, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.Local, fmt.Errorf("ui.timezone %q: %w", name, err)
	}
	return loc, nil
}

// Save writes the provided config to path (DefaultPath when empty), creating
// the config directory if needed.
func Save(path string, cfg Config) error {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database.path", cfg.Database.Path)
	v.Set("ui.prompt", cfg.UI.Prompt)
	v.Set("ui.timezone", cfg.UI.Timezone)
	v.Set("ui.scrollback", cfg.UI.Scrollback)
	v.Set("ui.history_size", cfg.UI.HistorySize)
	v.Set("ui.cursor_blink", cfg.UI.CursorBlink)
	v.Set("ui.keybindings", cfg.UI.Keybindings)
	v.Set("ui.markdown_style", cfg.UI.MarkdownStyle)
	v.Set("journal.recent_limit", cfg.Journal.RecentLimit)
	v.Set("log.path", cfg.Log.Path)
	v.Set("log.level", cfg.Log.Level)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
