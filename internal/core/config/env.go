package config

import (
	"fmt"
	"path/filepath"

	"github.com/caarlos0/env/v11"

	"github.com/hexaengine/hexa/internal/core/observability/log"
)

// Env is the bootstrap configuration read from the process environment
// before the Initialization stage runs.
type Env struct {
	LogLevel      log.Level `env:"HEXA_LOG_LEVEL" envDefault:"info"`
	Root          string    `env:"HEXA_ROOT" envDefault:"."`
	ModsDir       string    `env:"HEXA_MODS_DIR" envDefault:"mods"`
	SavesDir      string    `env:"HEXA_SAVES_DIR" envDefault:"saves"`
	SettingsFile  string    `env:"HEXA_SETTINGS_FILE" envDefault:"settings.json"`
	HotReload     bool      `env:"HEXA_HOT_RELOAD" envDefault:"false"`
	InspectorAddr string    `env:"HEXA_INSPECTOR_ADDR"`
	TableWorkers  int       `env:"HEXA_TABLE_WORKERS" envDefault:"4"`
}

// DefaultEnv returns the values LoadEnv produces with an empty environment.
func DefaultEnv() Env {
	return Env{
		LogLevel:     log.LevelInfo,
		Root:         ".",
		ModsDir:      "mods",
		SavesDir:     "saves",
		SettingsFile: "settings.json",
		TableWorkers: 4,
	}
}

// LoadEnv parses Env from environment variables.
func LoadEnv() (Env, error) {
	var cfg Env
	if err := env.Parse(&cfg); err != nil {
		return Env{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Env{}, err
	}
	return cfg, nil
}

func (e Env) Validate() error {
	if e.Root == "" {
		return fmt.Errorf("%w: HEXA_ROOT is empty", ErrInvalidConfig)
	}
	if e.TableWorkers < 1 {
		return fmt.Errorf("%w: HEXA_TABLE_WORKERS must be positive, got %d", ErrInvalidConfig, e.TableWorkers)
	}
	return nil
}

// Resolve joins a relative path onto Root; absolute paths are returned unchanged.
func (e Env) Resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(e.Root, p)
}
