package stft

import (
	"fmt"
	"io"
	"runtime"

	"github.com/cwbudde/algo-stft/dsp/core"
	"github.com/cwbudde/algo-stft/dsp/fft"
	"github.com/cwbudde/algo-stft/dsp/window"
	"github.com/cwbudde/algo-stft/internal/observe"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/metric"
)

// Option configures an [Analyzer].
type Option func(*config)

type config struct {
	window    window.Type
	normalize bool
	workers   int
	cache     *fft.Cache
	logger    logrus.FieldLogger
	meter     metric.MeterProvider

	// err holds the first invalid option; New reports it.
	err error
}

func defaultConfig() config {
	return config{
		window:  window.TypeHann,
		workers: runtime.GOMAXPROCS(0),
	}
}

func (c *config) fail(err error) {
	if c.err == nil {
		c.err = err
	}
}

// WithWindow selects the taper applied to every frame. Default is Hann.
func WithWindow(t window.Type) Option {
	return func(c *config) {
		c.window = t
	}
}

// WithNormalization divides every intensity by the window size.
func WithNormalization() Option {
	return func(c *config) {
		c.normalize = true
	}
}

// WithWorkers sets the number of concurrent frame workers. n must be >= 1.
// Default is GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(c *config) {
		if n < 1 {
			c.fail(fmt.Errorf("workers must be >= 1: %d: %w", n, core.ErrInvalidParameter))
			return
		}
		c.workers = n
	}
}

// WithBackend selects the FFT implementation. Default is [fft.Default].
func WithBackend(b fft.Backend) Option {
	return func(c *config) {
		if b == nil {
			c.fail(fmt.Errorf("nil fft backend: %w", core.ErrInvalidParameter))
			return
		}
		c.cache = fft.NewCache(b)
	}
}

// WithCache shares a transformer cache between analyzers so plans are built
// once per size.
func WithCache(cache *fft.Cache) Option {
	return func(c *config) {
		if cache == nil {
			c.fail(fmt.Errorf("nil fft cache: %w", core.ErrInvalidParameter))
			return
		}
		c.cache = cache
	}
}

// WithLogger sets the logger for run diagnostics. Default discards output.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMeterProvider records run metrics through mp instead of the global
// provider.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(c *config) {
		if mp != nil {
			c.meter = mp
		}
	}
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func (c *config) metrics() (*observe.Metrics, error) {
	if c.meter == nil {
		return observe.DefaultMetrics(), nil
	}
	return observe.NewMetrics(c.meter)
}
