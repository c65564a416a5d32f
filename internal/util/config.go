package util

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds runtime settings and flags.
type Config struct {
	DSN           string
	Theme         string
	SeedText      string
	ExportDir     string
	LogFile       string
	LogLevel      string
	HerokuApp     string
	HerokuBin     string
	CapacityHours float64
}

// ConfigPath returns TIMEKIT_CONFIG or $HOME/.config/timekit/config.toml.
func ConfigPath() string {
	if p := os.Getenv("TIMEKIT_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "timekit", "config.toml")
}

// Load reads configuration from file and env. Env var overrides use prefix TIMEKIT_.
// DATABASE_URL is honoured for the DSN when TIMEKIT_DATABASE_DSN is unset.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("database.dsn", "")
	v.SetDefault("ui.theme", "catppuccin")
	v.SetDefault("ui.seed", "")
	v.SetDefault("export.dir", filepath.Join(os.Getenv("HOME"), ".timekit", "exports"))
	v.SetDefault("log.file", filepath.Join(os.Getenv("HOME"), ".timekit", "timekit.log"))
	v.SetDefault("log.level", "info")
	v.SetDefault("heroku.app", "")
	v.SetDefault("heroku.bin", "heroku")
	v.SetDefault("capacity.hours", 40.0)

	v.SetConfigType("toml")
	v.SetConfigFile(ConfigPath())

	v.SetEnvPrefix("TIMEKIT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	_ = v.BindEnv("database.dsn", "TIMEKIT_DATABASE_DSN", "DATABASE_URL")

	// A missing file is fine; a present but broken one is not.
	if err := v.ReadInConfig(); err != nil && fileExists(ConfigPath()) {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	c := Config{
		DSN:           v.GetString("database.dsn"),
		Theme:         v.GetString("ui.theme"),
		SeedText:      v.GetString("ui.seed"),
		ExportDir:     v.GetString("export.dir"),
		LogFile:       v.GetString("log.file"),
		LogLevel:      v.GetString("log.level"),
		HerokuApp:     v.GetString("heroku.app"),
		HerokuBin:     v.GetString("heroku.bin"),
		CapacityHours: v.GetFloat64("capacity.hours"),
	}
	if !(c.CapacityHours > 0 && c.CapacityHours <= 168) {
		return Config{}, fmt.Errorf("capacity.hours must be in (0, 168], got %v", c.CapacityHours)
	}
	return c, nil
}

func fileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
