package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/hvu/timeblock/internal/model"
)

// DisplayConfig holds timeline rendering preferences.
type DisplayConfig struct {
	// DayStartHour and DayEndHour bound the visible day window.
	DayStartHour int `mapstructure:"day_start_hour" yaml:"day_start_hour"`
	DayEndHour   int `mapstructure:"day_end_hour" yaml:"day_end_hour"`

	// GridMinutes is the snap quantum for user-set times.
	GridMinutes int `mapstructure:"grid_minutes" yaml:"grid_minutes"`

	// HourHeight is the default zoom level in rows per hour.
	HourHeight float64 `mapstructure:"hour_height" yaml:"hour_height"`

	// DefaultColor is applied to newly created blocks.
	DefaultColor string `mapstructure:"default_color" yaml:"default_color"`

	// Use24Hour switches the hour gutter to a 24-hour clock.
	Use24Hour bool `mapstructure:"use_24_hour" yaml:"use_24_hour"`

	// RefreshIntervalSec is how often the active-block watcher
	// re-samples the wall clock.
	RefreshIntervalSec int `mapstructure:"refresh_interval_sec" yaml:"refresh_interval_sec"`
}

// UpdateConfig holds the release-feed check settings.
type UpdateConfig struct {
	FeedURL string `mapstructure:"feed_url" yaml:"feed_url"`
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	// DataDir holds one markdown document per day.
	DataDir string `mapstructure:"data_dir" yaml:"data_dir"`

	Display DisplayConfig `mapstructure:"display" yaml:"display"`
	Update  UpdateConfig  `mapstructure:"update" yaml:"update"`
}

// DefaultConfigPath returns ~/.config/timeblock/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "timeblock", "config.yaml")
}

// DefaultDataDir returns ~/.local/share/timeblock/days.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "days")
	}
	return filepath.Join(home, ".local", "share", "timeblock", "days")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		DataDir: DefaultDataDir(),
		Display: DisplayConfig{
			DayStartHour:       6,
			DayEndHour:         23,
			GridMinutes:        15,
			HourHeight:         4,
			DefaultColor:       model.DefaultColor,
			RefreshIntervalSec: 5,
		},
		Update: UpdateConfig{
			FeedURL: "https://api.github.com/repos/hvu/timeblock/releases/latest",
			Enabled: true,
		},
	}
}

// Load reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func Load(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	defaults := defaultAppConfig()
	v.SetDefault("data_dir", defaults.DataDir)
	v.SetDefault("display.day_start_hour", defaults.Display.DayStartHour)
	v.SetDefault("display.day_end_hour", defaults.Display.DayEndHour)
	v.SetDefault("display.grid_minutes", defaults.Display.GridMinutes)
	v.SetDefault("display.hour_height", defaults.Display.HourHeight)
	v.SetDefault("display.default_color", defaults.Display.DefaultColor)
	v.SetDefault("display.refresh_interval_sec", defaults.Display.RefreshIntervalSec)
	v.SetDefault("update.feed_url", defaults.Update.FeedURL)
	v.SetDefault("update.enabled", defaults.Update.Enabled)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaults, nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaults, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	// Reject an inverted or degenerate day window.
	if cfg.Display.DayStartHour < 0 || cfg.Display.DayEndHour > 24 ||
		cfg.Display.DayStartHour >= cfg.Display.DayEndHour {
		cfg.Display.DayStartHour = defaults.Display.DayStartHour
		cfg.Display.DayEndHour = defaults.Display.DayEndHour
	}
	if cfg.Display.GridMinutes <= 0 {
		cfg.Display.GridMinutes = defaults.Display.GridMinutes
	}

	return cfg, nil
}

// Save writes the configuration to a YAML file at path, creating parent
// directories if needed.
func Save(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("data_dir", cfg.DataDir)
	v.Set("display", cfg.Display)
	v.Set("update", cfg.Update)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
