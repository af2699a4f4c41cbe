package config

import (
	"os"

	"github.com/joho/godotenv"

	"git.home.luguber.info/inful/contentmigrate/internal/foundation/errors"
)

// Environment variables read by Load.
const (
	EnvInput           = "CONTENTMIGRATE_INPUT"
	EnvOutput          = "CONTENTMIGRATE_OUTPUT"
	EnvOverwriteSet    = "CONTENTMIGRATE_SET"
	EnvMetricsTextfile = "CONTENTMIGRATE_METRICS_TEXTFILE"
	EnvLogLevel        = "CONTENTMIGRATE_LOG_LEVEL"
)

// envFiles are loaded in order; values already in the environment win, so an
// earlier file takes precedence over a later one.
var envFiles = []string{".env", ".env.local"}

func loadEnvFiles() error {
	for _, path := range envFiles {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return errors.WrapError(err, errors.CategoryConfig, "cannot load environment file").
				Fatal().
				UserAction().
				WithContext("path", path).
				Build()
		}
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvInput); v != "" {
		cfg.Input = v
	}
	if v := os.Getenv(EnvOutput); v != "" {
		cfg.Output = v
	}
	if v := os.Getenv(EnvOverwriteSet); v != "" {
		cfg.OverwriteSet = v
	}
	if v := os.Getenv(EnvMetricsTextfile); v != "" {
		cfg.Metrics.Textfile = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = LogLevel(v)
	}
}
