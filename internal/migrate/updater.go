package migrate

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/contentmigrate/internal/document"
	"git.home.luguber.info/inful/contentmigrate/internal/foundation/errors"
	"git.home.luguber.info/inful/contentmigrate/internal/logfields"
	"git.home.luguber.info/inful/contentmigrate/internal/metrics"
	"git.home.luguber.info/inful/contentmigrate/internal/observability"
	"git.home.luguber.info/inful/contentmigrate/internal/overwrite"
)

// Status is the final state of a run.
type Status string

const (
	StatusSuccess  Status = "success"
	StatusFailed   Status = "failed"
	StatusCanceled Status = "canceled"
)

// Request names the document to update, where to write it and what to apply.
type Request struct {
	Input  string
	Output string
	Set    *overwrite.Set
}

// Result describes a finished run, successful or not.
type Result struct {
	RunID    string
	Status   Status
	Input    string
	Output   string
	Set      string
	Outcomes []overwrite.Outcome
	// Bytes is the size of the written output; zero when nothing was written.
	Bytes     int
	StartTime time.Time
	Duration  time.Duration
}

// Updater runs the load, apply, write and report steps.
type Updater struct {
	recorder metrics.Recorder
	indent   int
	out      io.Writer
}

// NewUpdater returns an updater that prints its report to out. A nil out
// disables the report.
func NewUpdater(out io.Writer) *Updater {
	return &Updater{
		recorder: metrics.NoopRecorder{},
		indent:   document.DefaultIndent,
		out:      out,
	}
}

// WithRecorder sets the metrics recorder.
func (u *Updater) WithRecorder(r metrics.Recorder) *Updater {
	if r == nil {
		r = metrics.NoopRecorder{}
	}
	u.recorder = r
	return u
}

// WithIndent sets the number of spaces per nesting level in the output.
func (u *Updater) WithIndent(n int) *Updater {
	u.indent = n
	return u
}

// Run updates req.Input into req.Output.
//
// Nothing is written unless every overwrite applied, so a failed run leaves
// an existing output untouched and never creates a new one.
func (u *Updater) Run(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()
	result := &Result{
		RunID:     uuid.NewString(),
		Input:     req.Input,
		Output:    req.Output,
		StartTime: start,
	}
	if req.Set == nil {
		return u.finish(ctx, result, errors.ValidationError("no overwrite set given").Build())
	}
	result.Set = req.Set.Name

	ctx = observability.WithRunID(ctx, result.RunID)
	ctx = observability.WithOverwriteSet(ctx, req.Set.Name)
	observability.DebugContext(ctx, "Starting content update",
		logfields.Input(req.Input),
		logfields.Output(req.Output))

	if err := checkCanceled(ctx); err != nil {
		return u.finish(ctx, result, err)
	}

	ctx = observability.WithStage(ctx, "load")
	doc, err := document.Load(req.Input)
	if err != nil {
		return u.finish(ctx, result, err)
	}

	ctx = observability.WithStage(ctx, "apply")
	outcomes, err := overwrite.Apply(doc, req.Set)
	result.Outcomes = outcomes
	for _, o := range outcomes {
		u.recorder.IncOverwrite(req.Set.Name, string(o.Action))
		if o.Err == nil {
			observability.DebugContext(ctx, "Applied overwrite",
				logfields.Path(o.Path.String()),
				logfields.Action(string(o.Action)))
		}
	}
	if err != nil {
		return u.finish(ctx, result, err)
	}

	if err := checkCanceled(ctx); err != nil {
		return u.finish(ctx, result, err)
	}

	ctx = observability.WithStage(ctx, "write")
	n, err := document.WriteFile(req.Output, doc, document.EncodeOptions{Indent: u.indent})
	if err != nil {
		return u.finish(ctx, result, err)
	}
	result.Bytes = n
	u.recorder.SetOutputBytes(n)

	if u.out != nil {
		if err := WriteReport(u.out, req.Output, req.Set); err != nil {
			return u.finish(ctx, result, err)
		}
	}
	return u.finish(ctx, result, nil)
}

func (u *Updater) finish(ctx context.Context, result *Result, err error) (*Result, error) {
	result.Duration = time.Since(result.StartTime)
	u.recorder.ObserveRunDuration(result.Set, result.Duration)

	switch {
	case err == nil:
		result.Status = StatusSuccess
		u.recorder.IncRunOutcome(result.Set, metrics.OutcomeSuccess)
		counts := overwrite.Count(result.Outcomes)
		observability.InfoContext(ctx, "Content updated",
			logfields.Output(result.Output),
			logfields.Count(len(result.Outcomes)),
			slog.Int("created", counts[overwrite.ActionCreate]),
			slog.Int("updated", counts[overwrite.ActionUpdate]),
			slog.Int("unchanged", counts[overwrite.ActionUnchanged]),
			logfields.Bytes(result.Bytes),
			logfields.DurationMS(float64(result.Duration.Milliseconds())))
	case errors.HasCategory(err, errors.CategoryRuntime) && ctx.Err() != nil:
		result.Status = StatusCanceled
		u.recorder.IncRunOutcome(result.Set, metrics.OutcomeCanceled)
		observability.WarnContext(ctx, "Content update canceled")
	default:
		result.Status = StatusFailed
		u.recorder.IncRunOutcome(result.Set, metrics.OutcomeFailed)
		observability.DebugContext(ctx, "Content update failed", logfields.Error(err))
	}
	return result, err
}

func checkCanceled(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return errors.WrapError(err, errors.CategoryRuntime, "content update canceled").Build()
	}
	return nil
}
