// Package observe provides OpenTelemetry metric instruments for the analysis
// pipeline.
//
// Instruments are created from a [metric.MeterProvider]. Without an explicit
// provider the global one from [otel.GetMeterProvider] is used, which is a
// no-op until the host application installs an SDK provider. Tests should
// pass their own provider to [NewMetrics] to avoid cross-test pollution.
package observe

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name used for all pipeline metrics.
const meterName = "github.com/cwbudde/algo-stft"

// Status values recorded on the runs counter.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Metrics holds the pipeline's metric instruments. All fields are safe for
// concurrent use.
type Metrics struct {
	// Runs counts analysis runs. Use with attributes:
	//   attribute.String("status", ...), attribute.String("backend", ...)
	Runs metric.Int64Counter

	// Frames counts spectral frames produced.
	Frames metric.Int64Counter

	// RunDuration tracks wall time of a whole run in seconds.
	RunDuration metric.Float64Histogram
}

// durationBuckets covers runs from sub-millisecond single frames up to
// multi-second offline batches.
var durationBuckets = []float64{
	0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10,
}

// NewMetrics creates the instruments using mp. Returns an error if any
// instrument creation fails.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.Runs, err = m.Int64Counter("stft.runs",
		metric.WithDescription("Number of analysis runs."),
	); err != nil {
		return nil, err
	}
	if met.Frames, err = m.Int64Counter("stft.frames",
		metric.WithDescription("Number of spectral frames produced."),
	); err != nil {
		return nil, err
	}
	if met.RunDuration, err = m.Float64Histogram("stft.run.duration",
		metric.WithDescription("Wall time of one analysis run."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBuckets...),
	); err != nil {
		return nil, err
	}

	return met, nil
}

var (
	defaultOnce    sync.Once
	defaultMetrics *Metrics
)

// DefaultMetrics returns instruments bound to the global meter provider,
// created on first use. If creation fails, instruments from a no-op provider
// are returned instead.
func DefaultMetrics() *Metrics {
	defaultOnce.Do(func() {
		m, err := NewMetrics(otel.GetMeterProvider())
		if err != nil {
			m = noopMetrics()
		}
		defaultMetrics = m
	})
	return defaultMetrics
}

// RecordRun records one finished run.
func (m *Metrics) RecordRun(ctx context.Context, backend string, frames int, elapsed time.Duration, err error) {
	status := StatusOK
	if err != nil {
		status = StatusError
	}
	attrs := metric.WithAttributes(
		attribute.String("status", status),
		attribute.String("backend", backend),
	)

	m.Runs.Add(ctx, 1, attrs)
	if frames > 0 {
		m.Frames.Add(ctx, int64(frames), metric.WithAttributes(attribute.String("backend", backend)))
	}
	m.RunDuration.Record(ctx, elapsed.Seconds(), attrs)
}
