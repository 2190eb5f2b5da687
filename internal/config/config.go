package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds all messmate configuration.
type Config struct {
	General GeneralConfig `toml:"general"`
	Report  ReportConfig  `toml:"report"`
	Daemon  DaemonConfig  `toml:"daemon"`
	Log     LogConfig     `toml:"log"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	DataDir  string `toml:"data_dir,omitempty"`
	Currency string `toml:"currency"`
}

// ReportConfig holds export settings.
type ReportConfig struct {
	OutputDir string `toml:"output_dir,omitempty"`
	Format    string `toml:"format"` // xlsx or text
}

// DaemonConfig holds local API settings.
type DaemonConfig struct {
	Addr         string `toml:"addr"`
	EventsBuffer int    `toml:"events_buffer"`
	Metrics      bool   `toml:"metrics"`
}

// LogConfig holds structured logging settings.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			Currency: "INR",
		},
		Report: ReportConfig{
			Format: "xlsx",
		},
		Daemon: DaemonConfig{
			Addr:         "127.0.0.1:8787",
			EventsBuffer: 200,
			Metrics:      true,
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "messmate")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "messmate")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// DataDir resolves where the tracker database lives. MESSMATE_DATA_DIR wins,
// then the config file, then the XDG data directory.
func DataDir(cfg Config) string {
	if dir := os.Getenv("MESSMATE_DATA_DIR"); dir != "" {
		return dir
	}
	if cfg.General.DataDir != "" {
		return cfg.General.DataDir
	}
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "messmate")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "messmate")
}

// DatabasePath returns the SQLite file inside dir.
func DatabasePath(dir string) string {
	return filepath.Join(dir, "messmate.db")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Validate rejects values no component can work with.
func (c Config) Validate() error {
	if _, ok := LookupCurrency(c.General.Currency); !ok {
		return fmt.Errorf("config: unknown currency %q", c.General.Currency)
	}
	switch c.Report.Format {
	case "xlsx", "text":
	default:
		return fmt.Errorf("config: report format %q (want xlsx or text)", c.Report.Format)
	}
	if c.Daemon.EventsBuffer < 1 {
		return fmt.Errorf("config: daemon events_buffer must be positive")
	}
	return nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(ConfigPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}
