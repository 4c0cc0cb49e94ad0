package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// BackendConfig identifies the hosted backend project this client
// talks to.
type BackendConfig struct {
	// URL is the project root, e.g. https://abc.supabase.co.
	URL string `mapstructure:"url" yaml:"url"`

	// AnonKey is the public API key sent with every request.
	AnonKey string `mapstructure:"anon_key" yaml:"anon_key"`

	// Bucket is the storage bucket that holds ticket attachments.
	Bucket string `mapstructure:"bucket" yaml:"bucket"`
}

// DisplayConfig holds UI/rendering preferences.
type DisplayConfig struct {
	Theme    string `mapstructure:"theme" yaml:"theme"`
	PageSize int    `mapstructure:"page_size" yaml:"page_size"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Backend BackendConfig `mapstructure:"backend" yaml:"backend"`
	Display DisplayConfig `mapstructure:"display" yaml:"display"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/issuelane/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "issuelane", "config.yaml")
}

// DefaultDataPath returns the default path for the local cache database.
func DefaultDataPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "issuelane.db")
	}
	return filepath.Join(home, ".local", "share", "issuelane", "issuelane.db")
}

func defaultAppConfig() *AppConfig {
	return &AppConfig{
		Backend: BackendConfig{Bucket: "attachments"},
		Display: DisplayConfig{
			Theme:    "default",
			PageSize: 5,
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using
// Viper. If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetDefault("backend.bucket", "attachments")
	v.SetDefault("display.theme", "default")
	v.SetDefault("display.page_size", 5)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaultAppConfig(), nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaultAppConfig(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("backend", cfg.Backend)
	v.Set("display", cfg.Display)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
