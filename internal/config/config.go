package config

import (
	"bytes"
	stderrors "errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/contentmigrate/internal/document"
	"git.home.luguber.info/inful/contentmigrate/internal/foundation/errors"
	"git.home.luguber.info/inful/contentmigrate/internal/overwrite"
	"git.home.luguber.info/inful/contentmigrate/internal/verify"
)

// DefaultPath is the configuration file looked up when --config is not given.
const DefaultPath = "contentmigrate.yaml"

const (
	DefaultInput    = "data/content.json"
	DefaultOutput   = "new-content.json"
	DefaultDebounce = 500 * time.Millisecond
	MaxIndent       = 8
)

// Config is the contentmigrate configuration file.
type Config struct {
	// Input is the content document to update.
	Input string `yaml:"input"`
	// Output is where the updated document is written. Empty means
	// new-content.json next to Input.
	Output string `yaml:"output,omitempty"`
	// OverwriteSet is a built-in set name or the path of a JSON set file.
	OverwriteSet string        `yaml:"overwrite_set"`
	Indent       int           `yaml:"indent"`
	Locales      []string      `yaml:"locales"`
	Logging      LoggingConfig `yaml:"logging"`
	Metrics      MetricsConfig `yaml:"metrics"`
	Watch        WatchConfig   `yaml:"watch"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// MetricsConfig represents metrics export configuration
type MetricsConfig struct {
	// Textfile is a node-exporter textfile collector path; empty disables export.
	Textfile string `yaml:"textfile"`
}

// WatchConfig represents input watching configuration
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

// Overrides carries values given on the command line. Empty fields are ignored.
type Overrides struct {
	Input           string
	Output          string
	OverwriteSet    string
	MetricsTextfile string
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Input:        DefaultInput,
		OverwriteSet: overwrite.DefaultSet,
		Indent:       document.DefaultIndent,
		Locales:      []string{"fr", "en"},
		Logging:      LoggingConfig{Level: LogLevelInfo, Format: LogFormatText},
		Watch:        WatchConfig{Debounce: DefaultDebounce},
	}
}

// Load builds the effective configuration: defaults, then the YAML file at
// path, then CONTENTMIGRATE_* environment variables (including those from
// .env files), then overrides.
//
// A missing file is only an error when required is set, i.e. when the user
// named the file explicitly.
func Load(path string, required bool, o Overrides) (*Config, error) {
	if err := loadEnvFiles(); err != nil {
		return nil, err
	}

	cfg := Default()
	// #nosec G304 - the config path is chosen by the operator
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := decode(data, cfg); err != nil {
			return nil, errors.WrapError(err, errors.CategoryConfig, "invalid configuration file").
				Fatal().
				UserAction().
				WithContext("path", path).
				Build()
		}
	case stderrors.Is(err, fs.ErrNotExist) && !required:
	case stderrors.Is(err, fs.ErrNotExist):
		return nil, errors.WrapError(err, errors.CategoryConfig, "configuration file not found").
			Fatal().
			UserAction().
			WithContext("path", path).
			Build()
	default:
		return nil, errors.WrapError(err, errors.CategoryConfig, "cannot read configuration file").
			Fatal().
			WithContext("path", path).
			Build()
	}

	applyEnv(cfg)
	cfg.apply(o)
	if err := cfg.Finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(data []byte, cfg *Config) error {
	// Expand environment variables in the YAML content
	expanded := os.ExpandEnv(string(data))

	dec := yaml.NewDecoder(bytes.NewReader([]byte(expanded)))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !stderrors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (c *Config) apply(o Overrides) {
	if o.Input != "" {
		c.Input = o.Input
	}
	if o.Output != "" {
		c.Output = o.Output
	}
	if o.OverwriteSet != "" {
		c.OverwriteSet = o.OverwriteSet
	}
	if o.MetricsTextfile != "" {
		c.Metrics.Textfile = o.MetricsTextfile
	}
}

// Finalize normalizes the configuration, fills derived values and validates it.
func (c *Config) Finalize() error {
	if c.Output == "" && c.Input != "" {
		c.Output = filepath.Join(filepath.Dir(c.Input), DefaultOutput)
	}
	return newValidator(c).validate()
}

// LocaleTags returns the configured locales as language tags.
func (c *Config) LocaleTags() []language.Tag {
	tags, err := verify.ParseLocales(c.Locales)
	if err != nil {
		return nil
	}
	return tags
}

// Init writes an example configuration file holding the defaults.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return errors.ConfigError("configuration file already exists (use --force to overwrite)").
			WithContext("path", path).
			Build()
	}

	example := Default()

	var buf bytes.Buffer
	buf.WriteString("# contentmigrate configuration\n")
	buf.WriteString("# output defaults to " + DefaultOutput + " next to input; set it to write elsewhere.\n")
	buf.WriteString("# output: " + filepath.Join(filepath.Dir(DefaultInput), DefaultOutput) + "\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(example); err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "cannot encode example configuration").Fatal().Build()
	}
	if err := enc.Close(); err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "cannot encode example configuration").Fatal().Build()
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return errors.WriteError("cannot write configuration file").
			WithCause(err).
			WithContext("path", path).
			Build()
	}
	return nil
}
