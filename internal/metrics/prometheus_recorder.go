package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/contentmigrate/internal/foundation/errors"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	runDuration *prom.HistogramVec
	runOutcome  *prom.CounterVec
	overwrites  *prom.CounterVec
	outputBytes prom.Gauge
}

// NewPrometheusRecorder constructs the updater metrics and registers them on reg.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		runDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "contentmigrate",
			Name:      "run_duration_seconds",
			Help:      "Duration of content updater runs",
			Buckets:   prom.DefBuckets,
		}, []string{"set"}),
		runOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "contentmigrate",
			Name:      "run_outcomes_total",
			Help:      "Updater runs by final status",
		}, []string{"set", "outcome"}),
		overwrites: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "contentmigrate",
			Name:      "overwrites_total",
			Help:      "Overwrites processed by set and action",
		}, []string{"set", "action"}),
		outputBytes: prom.NewGauge(prom.GaugeOpts{
			Namespace: "contentmigrate",
			Name:      "output_bytes",
			Help:      "Size of the last written output document",
		}),
	}
	reg.MustRegister(pr.runDuration, pr.runOutcome, pr.overwrites, pr.outputBytes)
	return pr
}

func (p *PrometheusRecorder) ObserveRunDuration(set string, d time.Duration) {
	if p == nil || p.runDuration == nil {
		return
	}
	p.runDuration.WithLabelValues(set).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncRunOutcome(set string, outcome OutcomeLabel) {
	if p == nil || p.runOutcome == nil {
		return
	}
	p.runOutcome.WithLabelValues(set, string(outcome)).Inc()
}

func (p *PrometheusRecorder) IncOverwrite(set, action string) {
	if p == nil || p.overwrites == nil {
		return
	}
	p.overwrites.WithLabelValues(set, action).Inc()
}

func (p *PrometheusRecorder) SetOutputBytes(n int) {
	if p == nil || p.outputBytes == nil {
		return
	}
	p.outputBytes.Set(float64(n))
}

// WriteTextfile writes everything gathered from g to path in the text
// exposition format, replacing the file atomically.
func WriteTextfile(g prom.Gatherer, path string) error {
	if err := prom.WriteToTextfile(path, g); err != nil {
		return errors.WriteError("cannot write metrics textfile").
			WithCause(err).
			WithContext("path", path).
			Build()
	}
	return nil
}
