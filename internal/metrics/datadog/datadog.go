// Package datadog sends boleta metrics to a DogStatsD agent. Labels become
// "key:value" tags.
package datadog

import (
	"fmt"
	"slices"

	"github.com/DataDog/datadog-go/v5/statsd"

	"github.com/JosueFrayreGarcia777/ScrapSystem/internal/metrics"
)

// Config holds Datadog backend configuration.
type Config struct {
	// Addr is the DogStatsD address, e.g. "127.0.0.1:8125" or "unix:///path/to/socket".
	Addr string
	// Namespace prefixes every metric name; defaults to none.
	Namespace string
	// GlobalTags are applied to every metric, e.g. "env:planta".
	GlobalTags []string
}

// Backend is a Datadog implementation of metrics.Backend.
type Backend struct {
	client statsd.ClientInterface
}

// NewBackend creates a DogStatsD client. Addr is required.
func NewBackend(cfg Config) (*Backend, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("datadog: Addr is required")
	}
	var opts []statsd.Option
	if cfg.Namespace != "" {
		opts = append(opts, statsd.WithNamespace(cfg.Namespace))
	}
	if len(cfg.GlobalTags) > 0 {
		opts = append(opts, statsd.WithTags(cfg.GlobalTags))
	}
	c, err := statsd.New(cfg.Addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("datadog: create client: %w", err)
	}
	return &Backend{client: c}, nil
}

// IncCounter sends a Count; fractional deltas are truncated.
func (b *Backend) IncCounter(name string, delta float64, labels metrics.Labels) {
	_ = b.client.Count(name, int64(delta), labelsToTags(labels), 1)
}

func (b *Backend) ObserveHistogram(name string, value float64, labels metrics.Labels) {
	_ = b.client.Histogram(name, value, labelsToTags(labels), 1)
}

// Flush flushes buffered metrics and closes the client. Call it once, at exit.
func (b *Backend) Flush() error {
	return b.client.Close()
}

// labelsToTags converts labels into sorted "key:value" tags.
func labelsToTags(lbls metrics.Labels) []string {
	if len(lbls) == 0 {
		return nil
	}
	out := make([]string, 0, len(lbls))
	for k, v := range lbls {
		out = append(out, k+":"+v)
	}
	slices.Sort(out)
	return out
}
