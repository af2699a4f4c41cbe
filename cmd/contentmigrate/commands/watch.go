package commands

import (
	"context"
	"log/slog"
	"path/filepath"

	"git.home.luguber.info/inful/contentmigrate/internal/config"
	"git.home.luguber.info/inful/contentmigrate/internal/foundation/errors"
	"git.home.luguber.info/inful/contentmigrate/internal/logfields"
	"git.home.luguber.info/inful/contentmigrate/internal/migrate"
	"git.home.luguber.info/inful/contentmigrate/internal/overwrite"
	"git.home.luguber.info/inful/contentmigrate/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Input  string `short:"i" help:"Content document to watch" placeholder:"FILE"`
	Output string `short:"o" help:"Where to write the updated document" placeholder:"FILE"`
	Set    string `short:"s" help:"Built-in overwrite set name or path to a JSON set file" placeholder:"SET"`
}

func (w *WatchCmd) Run(ctx context.Context, g *Global, root *CLI) error {
	cfg, err := root.LoadConfig(g, config.Overrides{Input: w.Input, Output: w.Output, OverwriteSet: w.Set})
	if err != nil {
		return err
	}
	if err := checkDistinct(cfg.Input, cfg.Output); err != nil {
		return err
	}
	set, err := overwrite.Load(cfg.OverwriteSet)
	if err != nil {
		return err
	}

	recorder, flush := newRecorder(cfg)
	updater := migrate.NewUpdater(g.Stdout).WithRecorder(recorder).WithIndent(cfg.Indent)
	req := migrate.Request{Input: cfg.Input, Output: cfg.Output, Set: set}

	watcher, err := watch.New(cfg.Input, cfg.Watch.Debounce, func(ctx context.Context) error {
		_, runErr := updater.Run(ctx, req)
		if err := flush(); err != nil {
			slog.Warn("Failed to write metrics textfile", logfields.Error(err))
		}
		return runErr
	})
	if err != nil {
		return err
	}
	return watcher.Run(ctx)
}

// checkDistinct rejects writing the output over the watched input, which
// would trigger a run for every run.
func checkDistinct(input, output string) error {
	in, err := filepath.Abs(input)
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "cannot resolve input path").WithContext("path", input).Build()
	}
	out, err := filepath.Abs(output)
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "cannot resolve output path").WithContext("path", output).Build()
	}
	if in == out {
		return errors.ValidationError("watch output must differ from its input").
			WithContext("path", input).
			Build()
	}
	return nil
}
