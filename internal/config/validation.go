package config

import (
	"git.home.luguber.info/inful/contentmigrate/internal/foundation/errors"
	"git.home.luguber.info/inful/contentmigrate/internal/verify"
)

// configurationValidator normalizes and validates a Config in place.
type configurationValidator struct {
	config *Config
}

func newValidator(config *Config) *configurationValidator {
	return &configurationValidator{config: config}
}

func (cv *configurationValidator) validate() error {
	if err := cv.validatePaths(); err != nil {
		return err
	}
	if err := cv.validateOutputFormat(); err != nil {
		return err
	}
	if err := cv.validateLocales(); err != nil {
		return err
	}
	if err := cv.validateLogging(); err != nil {
		return err
	}
	return cv.validateWatch()
}

func (cv *configurationValidator) validatePaths() error {
	if cv.config.Input == "" {
		return invalid("input", "input path cannot be empty", cv.config.Input)
	}
	if cv.config.Output == "" {
		return invalid("output", "output path cannot be empty", cv.config.Output)
	}
	if cv.config.OverwriteSet == "" {
		return invalid("overwrite_set", "overwrite set cannot be empty", cv.config.OverwriteSet)
	}
	return nil
}

func (cv *configurationValidator) validateOutputFormat() error {
	if cv.config.Indent < 0 || cv.config.Indent > MaxIndent {
		return invalid("indent", "indent must be between 0 and 8", cv.config.Indent)
	}
	return nil
}

func (cv *configurationValidator) validateLocales() error {
	tags, err := verify.ParseLocales(cv.config.Locales)
	if err != nil {
		return errors.WrapError(err, errors.CategoryConfig, "invalid locales").
			Fatal().
			UserAction().
			WithContext("field", "locales").
			Build()
	}
	canonical := make([]string, 0, len(tags))
	for _, tag := range tags {
		canonical = append(canonical, tag.String())
	}
	cv.config.Locales = canonical
	return nil
}

func (cv *configurationValidator) validateLogging() error {
	cv.config.Logging.Level = NormalizeLogLevel(string(cv.config.Logging.Level))
	if cv.config.Logging.Level == "" {
		cv.config.Logging.Level = LogLevelInfo
	}
	if _, ok := logLevels[cv.config.Logging.Level]; !ok {
		return invalid("logging.level", "log level must be one of debug, info, warn, error", cv.config.Logging.Level)
	}

	cv.config.Logging.Format = NormalizeLogFormat(string(cv.config.Logging.Format))
	switch cv.config.Logging.Format {
	case "":
		cv.config.Logging.Format = LogFormatText
	case LogFormatText, LogFormatJSON:
	default:
		return invalid("logging.format", "log format must be text or json", cv.config.Logging.Format)
	}
	return nil
}

func (cv *configurationValidator) validateWatch() error {
	if cv.config.Watch.Debounce <= 0 {
		return invalid("watch.debounce", "watch debounce must be positive", cv.config.Watch.Debounce)
	}
	return nil
}

func invalid(field, msg string, value any) error {
	return errors.ConfigError(msg).
		WithContext("field", field).
		WithContext("value", value).
		Build()
}
