package commands

import (
	"context"

	"git.home.luguber.info/inful/contentmigrate/internal/config"
	"git.home.luguber.info/inful/contentmigrate/internal/migrate"
	"git.home.luguber.info/inful/contentmigrate/internal/overwrite"
)

// PlanCmd implements the 'plan' command.
type PlanCmd struct {
	Input string `short:"i" help:"Content document to inspect" placeholder:"FILE"`
	Set   string `short:"s" help:"Built-in overwrite set name or path to a JSON set file" placeholder:"SET"`
}

func (p *PlanCmd) Run(ctx context.Context, g *Global, root *CLI) error {
	cfg, err := root.LoadConfig(g, config.Overrides{Input: p.Input, OverwriteSet: p.Set})
	if err != nil {
		return err
	}
	set, err := overwrite.Load(cfg.OverwriteSet)
	if err != nil {
		return err
	}

	outcomes, planErr := migrate.NewUpdater(nil).Plan(ctx, cfg.Input, set)
	if err := migrate.WritePlan(g.Stdout, outcomes); err != nil {
		return err
	}
	return planErr
}
