// Package config loads runtime settings from defaults, an optional YAML
// file and RISKTRACKER_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/awsbudi/risk-tracker/internal/access"
	"github.com/awsbudi/risk-tracker/internal/validate"
)

const envPrefix = "RISKTRACKER"

// Config holds every setting the binary reads.
type Config struct {
	DB       string
	User     string // default acting username for the CLI
	Log      LogConfig
	Schedule ScheduleConfig
	Access   AccessConfig
	Generate GenerateConfig
}

type LogConfig struct {
	Level  string
	Format string
	// Calls enables per-use-case log lines on stderr.
	Calls bool
}

type ScheduleConfig struct {
	DependencyBoundary string
}

type AccessConfig struct {
	// Hierarchy maps a parent group to the sub-groups its admins may see.
	// Empty means the built-in table.
	Hierarchy map[string][]string
}

type GenerateConfig struct {
	LockFile string
}

// DefaultDir is ~/.risktracker, or the working directory when no home
// directory is known.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".risktracker"
	}
	return filepath.Join(home, ".risktracker")
}

func setDefaults(v *viper.Viper, dir string) {
	v.SetDefault("db", filepath.Join(dir, "risktracker.db"))
	v.SetDefault("user", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.calls", false)
	v.SetDefault("schedule.dependency_boundary", string(validate.BoundarySameDay))
	v.SetDefault("generate.lock_file", filepath.Join(dir, "generate.lock"))
}

// Load reads configuration. An explicit path must exist; otherwise
// config.yaml in DefaultDir is used when present.
func Load(path string) (*Config, error) {
	v := viper.New()
	dir := DefaultDir()
	setDefaults(v, dir)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(dir)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	cfg := &Config{
		DB:   v.GetString("db"),
		User: v.GetString("user"),
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Calls:  v.GetBool("log.calls"),
		},
		Schedule: ScheduleConfig{DependencyBoundary: v.GetString("schedule.dependency_boundary")},
		Access:   AccessConfig{Hierarchy: v.GetStringMapStringSlice("access.hierarchy")},
		Generate: GenerateConfig{LockFile: v.GetString("generate.lock_file")},
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the binary cannot act on.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DB) == "" {
		return fmt.Errorf("config: db path is empty")
	}
	if _, err := validate.ParseBoundary(c.Schedule.DependencyBoundary); err != nil {
		return fmt.Errorf("config: schedule.dependency_boundary: %w", err)
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("config: log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

func (c *Config) LogLevel() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("config: log.level: %w", err)
	}
	return l, nil
}

// Boundary returns the parsed dependency boundary. Call after Validate.
func (c *Config) Boundary() validate.Boundary {
	b, _ := validate.ParseBoundary(c.Schedule.DependencyBoundary)
	return b
}

// Hierarchy returns the configured table, or the built-in one.
func (c *Config) Hierarchy() access.Hierarchy {
	if len(c.Access.Hierarchy) == 0 {
		return access.DefaultHierarchy()
	}
	return access.Hierarchy(c.Access.Hierarchy)
}
