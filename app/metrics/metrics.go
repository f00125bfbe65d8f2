// Package metrics provides Prometheus collectors for import runs.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "blogmigrate"

// Recorder is what the importer and poster report into.
type Recorder interface {
	ImportFinished(result string)
	PostAttempt(outcome string)
	PostImported()
	Backoff(delay time.Duration)
}

type Prometheus struct {
	importsTotal      *prometheus.CounterVec
	postAttemptsTotal *prometheus.CounterVec
	postsImported     prometheus.Counter
	backoffSeconds    prometheus.Counter
}

// NewPrometheus creates the collectors and registers them with registerer.
func NewPrometheus(registerer prometheus.Registerer) *Prometheus {
	m := &Prometheus{
		importsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "imports_total",
				Help:      "Total number of import runs by final result",
			},
			[]string{"result"},
		),
		postAttemptsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "post_attempts_total",
				Help:      "Total number of write API attempts by outcome",
			},
			[]string{"outcome"},
		),
		postsImported: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "posts_imported_total",
				Help:      "Total number of posts created on the destination",
			},
		),
		backoffSeconds: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "backoff_seconds_total",
				Help:      "Total time spent waiting before write API attempts",
			},
		),
	}

	registerer.MustRegister(m.importsTotal, m.postAttemptsTotal, m.postsImported, m.backoffSeconds)

	return m
}

func (m *Prometheus) ImportFinished(result string) {
	m.importsTotal.WithLabelValues(result).Inc()
}

func (m *Prometheus) PostAttempt(outcome string) {
	m.postAttemptsTotal.WithLabelValues(outcome).Inc()
}

func (m *Prometheus) PostImported() {
	m.postsImported.Inc()
}

func (m *Prometheus) Backoff(delay time.Duration) {
	m.backoffSeconds.Add(delay.Seconds())
}

type Nop struct{}

func (Nop) ImportFinished(string) {}
func (Nop) PostAttempt(string)    {}
func (Nop) PostImported()         {}
func (Nop) Backoff(time.Duration) {}

var _ Recorder = (*Prometheus)(nil)
var _ Recorder = Nop{}
