package migrate

import (
	"context"
	"fmt"
	"io"

	"git.home.luguber.info/inful/contentmigrate/internal/document"
	"git.home.luguber.info/inful/contentmigrate/internal/foundation/errors"
	"git.home.luguber.info/inful/contentmigrate/internal/overwrite"
)

// Plan loads input and reports what applying set would do, without writing
// anything. The returned error is non-nil when the document cannot be loaded
// or when an overwrite target is missing; in the latter case the outcomes are
// still returned.
func (u *Updater) Plan(ctx context.Context, input string, set *overwrite.Set) ([]overwrite.Outcome, error) {
	if set == nil {
		return nil, errors.ValidationError("no overwrite set given").Build()
	}
	if err := checkCanceled(ctx); err != nil {
		return nil, err
	}
	doc, err := document.Load(input)
	if err != nil {
		return nil, err
	}

	outcomes := overwrite.Plan(doc, set)
	for _, o := range outcomes {
		if o.Err != nil {
			return outcomes, o.Err
		}
	}
	return outcomes, nil
}

// WritePlan prints one line per outcome: the action, the path and, for a
// missing target, where resolution stopped.
func WritePlan(w io.Writer, outcomes []overwrite.Outcome) error {
	for _, o := range outcomes {
		line := fmt.Sprintf("%-9s %s", o.Action, o.Path)
		if classified, ok := errors.AsClassified(o.Err); ok {
			line += fmt.Sprintf(" (%v at %v)", classified.Context()["reason"], classified.Context()["segment"])
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return reportError(err)
		}
	}
	return nil
}
