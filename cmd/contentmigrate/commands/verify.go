package commands

import (
	"fmt"
	"path/filepath"

	"git.home.luguber.info/inful/contentmigrate/internal/config"
	"git.home.luguber.info/inful/contentmigrate/internal/document"
	"git.home.luguber.info/inful/contentmigrate/internal/verify"
)

// VerifyCmd implements the 'verify' command.
type VerifyCmd struct {
	File string `arg:"" optional:"" help:"Content document to check (default: the configured input)" placeholder:"FILE"`
}

func (v *VerifyCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig(g, config.Overrides{Input: v.File})
	if err != nil {
		return err
	}
	doc, err := document.Load(cfg.Input)
	if err != nil {
		return err
	}

	issues := verify.Check(doc, cfg.LocaleTags())
	for _, issue := range issues {
		_, _ = fmt.Fprintln(g.Stdout, issue.String())
	}
	if len(issues) == 0 {
		_, _ = fmt.Fprintf(g.Stdout, "✅ %s looks good\n", filepath.Base(cfg.Input))
	}
	return verify.Error(issues)
}
