package commands

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/contentmigrate/internal/config"
	"git.home.luguber.info/inful/contentmigrate/internal/logfields"
	"git.home.luguber.info/inful/contentmigrate/internal/migrate"
	"git.home.luguber.info/inful/contentmigrate/internal/overwrite"
)

// ApplyCmd implements the default 'apply' command.
type ApplyCmd struct {
	Input           string `short:"i" help:"Content document to update (default: data/content.json)" placeholder:"FILE"`
	Output          string `short:"o" help:"Where to write the updated document (default: new-content.json next to the input)" placeholder:"FILE"`
	Set             string `short:"s" help:"Built-in overwrite set name or path to a JSON set file (default: part1)" placeholder:"SET"`
	MetricsTextfile string `name:"metrics-textfile" help:"Write Prometheus metrics to this textfile after the run" placeholder:"FILE"`
}

func (a *ApplyCmd) Run(ctx context.Context, g *Global, root *CLI) error {
	cfg, err := root.LoadConfig(g, config.Overrides{
		Input:           a.Input,
		Output:          a.Output,
		OverwriteSet:    a.Set,
		MetricsTextfile: a.MetricsTextfile,
	})
	if err != nil {
		return err
	}
	set, err := overwrite.Load(cfg.OverwriteSet)
	if err != nil {
		return err
	}

	recorder, flush := newRecorder(cfg)
	updater := migrate.NewUpdater(g.Stdout).WithRecorder(recorder).WithIndent(cfg.Indent)
	_, runErr := updater.Run(ctx, migrate.Request{Input: cfg.Input, Output: cfg.Output, Set: set})

	if err := flush(); err != nil {
		if runErr != nil {
			slog.Warn("Failed to write metrics textfile", logfields.Error(err))
			return runErr
		}
		return err
	}
	return runErr
}
