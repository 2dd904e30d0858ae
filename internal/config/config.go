// Package config loads sqlcontainer settings from defaults, a config file,
// the environment and an optional .env file.
//
// Precedence, highest first: command-line flags (applied by the caller),
// SQLCONTAINER_* environment variables, the config file, defaults.
// Variables from .env never override ones already set in the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	envPrefix    = "SQLCONTAINER"
	maxWalkDepth = 25
)

// configNames are searched for in the working directory and its parents.
var configNames = []string{"sqlcontainer.yaml", "sqlcontainer.yml"}

// Config is the resolved configuration.
type Config struct {
	// Driver is the JDBC driver identifier used to pick a dialect.
	Driver string `mapstructure:"driver"`

	// Dialect names a dialect directly ("postgresql", "mysql", ...) and is
	// used when Driver is empty.
	Dialect string `mapstructure:"dialect"`

	// BestEffort falls back to the Default generator for unknown drivers
	// instead of failing.
	BestEffort bool `mapstructure:"best_effort"`

	// DSN is the connection string for the query command.
	DSN string `mapstructure:"dsn"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `mapstructure:"log_level"`
}

// Load discovers and loads configuration.
//
// explicitPath, when set, must name an existing file. Otherwise
// sqlcontainer.yaml or sqlcontainer.yml is searched for from the working
// directory upwards. envFiles default to ".env"; missing env files are
// ignored.
//
// Returns the config and the path of the config file used ("" if none).
func Load(explicitPath string, envFiles ...string) (*Config, string, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, "", fmt.Errorf("loading %s: %w", f, err)
		}
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	configPath, err := findConfigFile(explicitPath)
	if err != nil {
		return nil, "", err
	}
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, configPath, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, configPath, fmt.Errorf("unmarshaling config: %w", err)
	}
	if _, err := cfg.SlogLevel(); err != nil {
		return nil, configPath, err
	}
	return &cfg, configPath, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("driver", "")
	v.SetDefault("dialect", "")
	v.SetDefault("best_effort", false)
	v.SetDefault("dsn", "")
	v.SetDefault("log_level", "warn")
}

// SlogLevel parses LogLevel.
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if c.LogLevel == "" {
		return slog.LevelWarn, nil
	}
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

// findConfigFile returns explicitPath after checking it exists, or walks up
// from the working directory looking for a config file, stopping at a .git
// directory or after maxWalkDepth levels.
func findConfigFile(explicitPath string) (string, error) {
	if explicitPath != "" {
		if _, err := os.Stat(explicitPath); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicitPath)
		}
		return explicitPath, nil
	}

	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting cwd: %w", err)
	}
	for i := 0; i < maxWalkDepth; i++ {
		for _, name := range configNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
		}
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", nil
}
