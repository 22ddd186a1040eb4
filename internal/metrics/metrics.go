// Package metrics records operational metrics for report runs and imports
// through a pluggable global Backend.
//
// The default backend is a no-op, so every Record* call is safe without
// configuration. Concrete systems live in subpackages (prompush, datadog)
// and are installed with SetBackend.
package metrics

import (
	"sync"
	"time"
)

// Metric names shared by all backends.
const (
	StepTotal           = "boleta_step_total"
	StepDurationSeconds = "boleta_step_duration_seconds"
	RecordsTotal        = "boleta_records_total"
	BatchesTotal        = "boleta_batches_total"
	PagesTotal          = "boleta_pages_total"
)

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal interface for metrics backends.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveHistogram records a latency/duration style value.
	ObserveHistogram(name string, value float64, labels Labels)
	// Flush pushes buffered metrics, if the backend needs it.
	Flush() error
}

type nopBackend struct{}

func (nopBackend) IncCounter(string, float64, Labels)       {}
func (nopBackend) ObserveHistogram(string, float64, Labels) {}
func (nopBackend) Flush() error                             { return nil }

var (
	mu      sync.RWMutex
	backend Backend = nopBackend{}
)

// SetBackend installs b and returns the previous backend. Passing nil
// restores the no-op backend.
func SetBackend(b Backend) Backend {
	if b == nil {
		b = nopBackend{}
	}
	mu.Lock()
	defer mu.Unlock()
	prev := backend
	backend = b
	return prev
}

func current() Backend {
	mu.RLock()
	defer mu.RUnlock()
	return backend
}

// Flush delegates to the current backend.
func Flush() error {
	return current().Flush()
}

// RecordStep counts one execution of a named step and observes its duration.
// Steps are "load", "filter", "aggregate", "paginate", "render", "import".
func RecordStep(job, step string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	lbls := Labels{"job": job, "step": step, "status": status}
	b := current()
	b.IncCounter(StepTotal, 1, lbls)
	b.ObserveHistogram(StepDurationSeconds, d.Seconds(), lbls)
}

// RecordRow increments a record-level counter. Kinds include "loaded",
// "parse_errors", "anomalies", "filtered", "report_rows" and "inserted".
func RecordRow(job, kind string, delta int64) {
	if delta <= 0 {
		return
	}
	current().IncCounter(RecordsTotal, float64(delta), Labels{"job": job, "kind": kind})
}

// RecordBatches increments the count of storage batches flushed.
func RecordBatches(job string, delta int64) {
	if delta <= 0 {
		return
	}
	current().IncCounter(BatchesTotal, float64(delta), Labels{"job": job})
}

// RecordPages increments the count of pages laid out.
func RecordPages(job string, delta int64) {
	if delta <= 0 {
		return
	}
	current().IncCounter(PagesTotal, float64(delta), Labels{"job": job})
}
