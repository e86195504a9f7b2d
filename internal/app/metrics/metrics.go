package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"meeting-recap/internal/app/model"
)

const namespace = "recap"

// Metrics collects per-unit outcomes for one process. Batch runs write them
// to a node_exporter textfile; nothing is served over HTTP.
type Metrics struct {
	registry     *prometheus.Registry
	units        *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	audioSeconds prometheus.Counter
	lastRun      *prometheus.GaugeVec
}

// New creates a Metrics instance with its own registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		units: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "units_total",
			Help:      "Units processed, by stage and outcome.",
		}, []string{"stage", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "unit_duration_seconds",
			Help:      "Wall time spent on units that called an external capability.",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800},
		}, []string{"stage"}),
		audioSeconds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audio_seconds_total",
			Help:      "Seconds of audio transcribed.",
		}),
		lastRun: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time a stage last finished.",
		}, []string{"stage"}),
	}

	m.registry.MustRegister(m.units, m.duration, m.audioSeconds, m.lastRun)
	return m
}

// Observe counts one ledger record.
func (m *Metrics) Observe(rec *model.UnitRecord) {
	m.units.WithLabelValues(string(rec.Stage), string(rec.Outcome)).Inc()

	if rec.Outcome == model.OutcomeDone || rec.Outcome == model.OutcomeFailed {
		m.duration.WithLabelValues(string(rec.Stage)).Observe(rec.Duration.Seconds())
	}
	if rec.Stage == model.StageTranscribe && rec.Outcome == model.OutcomeDone && rec.AudioSeconds > 0 {
		m.audioSeconds.Add(rec.AudioSeconds)
	}
}

// StageFinished stamps the completion time of a stage.
func (m *Metrics) StageFinished(stage model.Stage, at time.Time) {
	m.lastRun.WithLabelValues(string(stage)).Set(float64(at.Unix()))
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes all metrics in the text exposition format. An empty
// path is a no-op.
func (m *Metrics) WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}
