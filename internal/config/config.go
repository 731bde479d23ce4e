// Package config loads environment-variable defaults for the
// scheduler CLI. Command-line flags (cmd/resident-scheduler/commands)
// take precedence over
// everything here; this only supplies the defaults a flag falls back
// to when unset.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config is the scheduler CLI's full configuration surface.
type Config struct {
	App       AppConfig       `yaml:"app"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// AppConfig is process-wide, not solve-specific.
type AppConfig struct {
	Name      string `yaml:"name"`
	Env       string `yaml:"env"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// SchedulerConfig holds the generate command's Phase A/B defaults;
// --iterations and --parallel-runs override MaxIterations and
// ParallelRuns.
type SchedulerConfig struct {
	DefaultTimeout     time.Duration `yaml:"default_timeout"`
	MaxIterations      int           `yaml:"max_iterations"`
	ParallelRuns       int           `yaml:"parallel_runs"`
	MaxBacktrackPerDay int           `yaml:"max_backtrack_per_day"`
}

// Load reads configuration from environment variables, falling back
// to the defaults a fresh checkout ships with.
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:      getEnv("APP_NAME", "resident-scheduler"),
			Env:       getEnv("APP_ENV", "development"),
			LogLevel:  getEnv("APP_LOG_LEVEL", "info"),
			LogFormat: getEnv("APP_LOG_FORMAT", "console"),
		},
		Scheduler: SchedulerConfig{
			DefaultTimeout:     getEnvDuration("SCHEDULER_TIMEOUT", 30*time.Second),
			MaxIterations:      getEnvInt("SCHEDULER_MAX_ITERATIONS", 20000),
			ParallelRuns:       getEnvInt("SCHEDULER_PARALLEL_RUNS", 4),
			MaxBacktrackPerDay: getEnvInt("SCHEDULER_MAX_BACKTRACK_PER_DAY", 25),
		},
	}

	return cfg, nil
}

// IsDevelopment reports whether the process is running in a dev
// environment (APP_ENV is "development").
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
