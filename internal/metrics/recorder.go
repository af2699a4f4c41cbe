package metrics

import "time"

// OutcomeLabel enumerates final run states for counters.
type OutcomeLabel string

const (
	OutcomeSuccess  OutcomeLabel = "success"
	OutcomeFailed   OutcomeLabel = "failed"
	OutcomeCanceled OutcomeLabel = "canceled"
)

// Recorder defines observability hooks for updater runs. Implementations may
// forward to Prometheus or any other backend.
type Recorder interface {
	ObserveRunDuration(set string, d time.Duration)
	IncRunOutcome(set string, outcome OutcomeLabel)
	// IncOverwrite counts one overwrite by its action (create|update|unchanged|missing).
	IncOverwrite(set, action string)
	SetOutputBytes(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveRunDuration(string, time.Duration) {}
func (NoopRecorder) IncRunOutcome(string, OutcomeLabel)       {}
func (NoopRecorder) IncOverwrite(string, string)              {}
func (NoopRecorder) SetOutputBytes(int)                       {}
