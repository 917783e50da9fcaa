package observe

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// newTestMetrics returns a Metrics instance backed by a ManualReader for
// programmatic metric inspection.
func newTestMetrics(t *testing.T) (*Metrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	m, err := NewMetrics(mp)
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}
	return m, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect: %v", err)
	}
	return rm
}

func findMetric(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

func TestRecordRun(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordRun(ctx, "algofft", 44, 3*time.Millisecond, nil)
	m.RecordRun(ctx, "algofft", 0, time.Millisecond, errors.New("boom"))

	rm := collect(t, reader)

	runs := findMetric(rm, "stft.runs")
	if runs == nil {
		t.Fatal("stft.runs not found")
	}
	sum, ok := runs.Data.(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("stft.runs data type = %T", runs.Data)
	}
	byStatus := map[string]int64{}
	for _, dp := range sum.DataPoints {
		status, _ := dp.Attributes.Value(attribute.Key("status"))
		byStatus[status.AsString()] += dp.Value
	}
	if byStatus[StatusOK] != 1 || byStatus[StatusError] != 1 {
		t.Fatalf("runs by status = %v", byStatus)
	}

	frames := findMetric(rm, "stft.frames")
	if frames == nil {
		t.Fatal("stft.frames not found")
	}
	fsum := frames.Data.(metricdata.Sum[int64])
	var total int64
	for _, dp := range fsum.DataPoints {
		total += dp.Value
	}
	if total != 44 {
		t.Fatalf("frames = %d, want 44", total)
	}

	dur := findMetric(rm, "stft.run.duration")
	if dur == nil {
		t.Fatal("stft.run.duration not found")
	}
	hist := dur.Data.(metricdata.Histogram[float64])
	var count uint64
	for _, dp := range hist.DataPoints {
		count += dp.Count
	}
	if count != 2 {
		t.Fatalf("duration observations = %d, want 2", count)
	}
}

func TestDefaultMetricsUsable(t *testing.T) {
	m := DefaultMetrics()
	if m == nil || m != DefaultMetrics() {
		t.Fatal("DefaultMetrics should return a stable non-nil instance")
	}
	m.RecordRun(context.Background(), "gonum", 1, time.Microsecond, nil)

	if noopMetrics() == nil {
		t.Fatal("noopMetrics returned nil")
	}
}
