// Package prompush pushes boleta metrics to a Prometheus Pushgateway.
//
// Collectors are registered on a private registry; job is the Pushgateway
// grouping key, so it is not repeated as a label.
package prompush

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"github.com/JosueFrayreGarcia777/ScrapSystem/internal/metrics"
)

// Backend is a Prometheus Pushgateway metrics backend.
type Backend struct {
	gatewayURL string
	jobName    string
	reg        *prometheus.Registry

	stepCounter   *prometheus.CounterVec
	stepDuration  *prometheus.SummaryVec
	recordCounter *prometheus.CounterVec
	batchCounter  prometheus.Counter
	pageCounter   prometheus.Counter
}

// NewBackend constructs a Pushgateway backend. jobName defaults to "boleta".
func NewBackend(jobName, gatewayURL string) (*Backend, error) {
	if gatewayURL == "" {
		return nil, fmt.Errorf("prompush: gateway URL is required")
	}
	if jobName == "" {
		jobName = "boleta"
	}

	b := &Backend{
		gatewayURL: gatewayURL,
		jobName:    jobName,
		reg:        prometheus.NewRegistry(),
		stepCounter: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: metrics.StepTotal,
			Help: "Report and import step executions by step and status.",
		}, []string{"step", "status"}),
		stepDuration: prometheus.NewSummaryVec(prometheus.SummaryOpts{
			Name:       metrics.StepDurationSeconds,
			Help:       "Step duration in seconds by step and status.",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		}, []string{"step", "status"}),
		recordCounter: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: metrics.RecordsTotal,
			Help: "Record counts by kind (loaded, parse_errors, report_rows, inserted, ...).",
		}, []string{"kind"}),
		batchCounter: prometheus.NewCounter(prometheus.CounterOpts{
			Name: metrics.BatchesTotal,
			Help: "Storage batches flushed.",
		}),
		pageCounter: prometheus.NewCounter(prometheus.CounterOpts{
			Name: metrics.PagesTotal,
			Help: "Boleta pages laid out.",
		}),
	}

	for _, c := range []prometheus.Collector{b.stepCounter, b.stepDuration, b.recordCounter, b.batchCounter, b.pageCounter} {
		if err := b.reg.Register(c); err != nil {
			return nil, fmt.Errorf("prompush: register collector: %w", err)
		}
	}
	return b, nil
}

func (b *Backend) IncCounter(name string, delta float64, labels metrics.Labels) {
	switch name {
	case metrics.StepTotal:
		b.stepCounter.WithLabelValues(labels["step"], labels["status"]).Add(delta)
	case metrics.RecordsTotal:
		b.recordCounter.WithLabelValues(labels["kind"]).Add(delta)
	case metrics.BatchesTotal:
		b.batchCounter.Add(delta)
	case metrics.PagesTotal:
		b.pageCounter.Add(delta)
	}
}

func (b *Backend) ObserveHistogram(name string, value float64, labels metrics.Labels) {
	if name != metrics.StepDurationSeconds {
		return
	}
	b.stepDuration.WithLabelValues(labels["step"], labels["status"]).Observe(value)
}

// Flush pushes the current registry to the Pushgateway.
func (b *Backend) Flush() error {
	return push.New(b.gatewayURL, b.jobName).
		Gatherer(b.reg).
		Push()
}
