package commands

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/contentmigrate/internal/config"
	"git.home.luguber.info/inful/contentmigrate/internal/foundation/errors"
	"git.home.luguber.info/inful/contentmigrate/internal/metrics"
	"git.home.luguber.info/inful/contentmigrate/internal/version"
)

// Global is shared with every command.
type Global struct {
	Logger *slog.Logger
	Stdout io.Writer
	Stderr io.Writer
}

// NewGlobal returns a Global writing to the process streams.
func NewGlobal() *Global {
	return &Global{Stdout: os.Stdout, Stderr: os.Stderr}
}

// CLI definition & global flags - used by commands that need access to root config.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path (default: ${default_config}, optional)" placeholder:"FILE"`
	Verbose bool             `short:"v" help:"Enable verbose logging and full error chains"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Apply  ApplyCmd  `cmd:"" default:"withargs" help:"Apply the overwrite set and write the updated document (default)"`
	Plan   PlanCmd   `cmd:"" help:"Show what the overwrite set would change without writing anything"`
	Verify VerifyCmd `cmd:"" help:"Check a content document for missing blocks and translations"`
	Watch  WatchCmd  `cmd:"" help:"Re-run the update whenever the input document changes"`
	Init   InitCmd   `cmd:"" help:"Write an example configuration file"`
}

// AfterApply runs after flag parsing; sets up logging until the
// configuration is loaded.
func (c *CLI) AfterApply(g *Global) error {
	g.Logger = config.LoggingConfig{Level: config.LogLevelInfo, Format: config.LogFormatText}.NewLogger(g.Stderr, c.Verbose)
	slog.SetDefault(g.Logger)
	return nil
}

// configPath returns the configuration file to read and whether it must exist.
func (c *CLI) configPath() (string, bool) {
	if c.Config == "" {
		return config.DefaultPath, false
	}
	return c.Config, true
}

// LoadConfig loads the configuration with o applied on top and switches the
// process logger to the configured level and format.
func (c *CLI) LoadConfig(g *Global, o config.Overrides) (*config.Config, error) {
	path, required := c.configPath()
	cfg, err := config.Load(path, required, o)
	if err != nil {
		return nil, err
	}
	g.Logger = cfg.Logging.NewLogger(g.Stderr, c.Verbose)
	slog.SetDefault(g.Logger)
	return cfg, nil
}

// newRecorder returns the recorder for cfg and a flush function writing the
// metrics textfile, a no-op when metrics are disabled.
func newRecorder(cfg *config.Config) (metrics.Recorder, func() error) {
	if cfg.Metrics.Textfile == "" {
		return metrics.NoopRecorder{}, func() error { return nil }
	}
	reg := prom.NewRegistry()
	recorder := metrics.NewPrometheusRecorder(reg)
	return recorder, func() error {
		return metrics.WriteTextfile(reg, cfg.Metrics.Textfile)
	}
}

// Execute parses args and runs the selected command.
func Execute(ctx context.Context, g *Global, args []string, options ...kong.Option) (*CLI, error) {
	cli := &CLI{}
	opts := append([]kong.Option{
		kong.Name("contentmigrate"),
		kong.Description("Apply literal overwrites to a portfolio content document."),
		kong.Vars{
			"version":        version.String(),
			"default_config": config.DefaultPath,
		},
		kong.Writers(g.Stdout, g.Stderr),
		kong.Bind(g),
		kong.BindTo(ctx, (*context.Context)(nil)),
	}, options...)

	parser, err := kong.New(cli, opts...)
	if err != nil {
		return cli, errors.WrapError(err, errors.CategoryInternal, "cannot build command line parser").Fatal().Build()
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		return cli, errors.WrapError(err, errors.CategoryValidation, "invalid command line").
			UserAction().
			WithContext("reason", err.Error()).
			Build()
	}
	return cli, kctx.Run(g, cli)
}
