package stft

import (
	"context"
	"fmt"
	"time"

	"github.com/cwbudde/algo-stft/dsp/core"
	"github.com/cwbudde/algo-stft/dsp/fft"
	"github.com/cwbudde/algo-stft/dsp/frame"
	"github.com/cwbudde/algo-stft/dsp/spectrum"
	"github.com/cwbudde/algo-stft/dsp/window"
	"github.com/cwbudde/algo-stft/internal/observe"
	"github.com/cwbudde/algo-stft/stats/frequency"
	"github.com/sirupsen/logrus"
)

// Analyzer holds the validated configuration of one analysis setup.
type Analyzer struct {
	windowSize int
	overlap    float64
	step       int
	normalize  bool
	workers    int

	taper   *window.Taper
	cache   *fft.Cache
	logger  logrus.FieldLogger
	metrics *observe.Metrics
}

// Result bundles everything [Analyzer.Summarize] computes.
type Result struct {
	Frames  []spectrum.Frame
	Average frequency.Spectrum
	Peak    frequency.PeakBin
	// HasPeak is false when there were no frames to take a peak from.
	HasPeak bool
}

// New validates windowSize and overlap, builds the taper and checks that the
// FFT backend can plan windowSize.
//
// It fails with [core.ErrInvalidParameter] for windowSize <= 0, overlap
// outside [0, 1), a derived step below one sample or an invalid option, and
// with [core.ErrUnsupportedSize] when the backend rejects windowSize. Sizes
// are never padded or rounded.
func New(windowSize int, overlap float64, opts ...Option) (*Analyzer, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.err != nil {
		return nil, fmt.Errorf("stft: %w", cfg.err)
	}

	step, err := frame.Step(windowSize, overlap)
	if err != nil {
		return nil, fmt.Errorf("stft: %w", err)
	}

	taper, err := window.NewTaper(cfg.window, windowSize)
	if err != nil {
		return nil, fmt.Errorf("stft: %w", err)
	}

	if cfg.cache == nil {
		cfg.cache = fft.NewCache(fft.Default())
	}
	sized, err := cfg.cache.Get(windowSize)
	if err != nil {
		return nil, fmt.Errorf("stft: %w", err)
	}
	cfg.cache.Put(sized)

	if cfg.logger == nil {
		cfg.logger = discardLogger()
	}
	met, err := cfg.metrics()
	if err != nil {
		return nil, fmt.Errorf("stft: metrics: %w", err)
	}

	return &Analyzer{
		windowSize: windowSize,
		overlap:    overlap,
		step:       step,
		normalize:  cfg.normalize,
		workers:    cfg.workers,
		taper:      taper,
		cache:      cfg.cache,
		logger:     cfg.logger,
		metrics:    met,
	}, nil
}

// WindowSize returns the frame length in samples.
func (a *Analyzer) WindowSize() int { return a.windowSize }

// Overlap returns the configured overlap fraction.
func (a *Analyzer) Overlap() float64 { return a.overlap }

// Step returns the hop between frame starts in samples.
func (a *Analyzer) Step() int { return a.step }

// Workers returns the maximum number of concurrent frame workers.
func (a *Analyzer) Workers() int { return a.workers }

// Window returns the taper type.
func (a *Analyzer) Window() window.Type { return a.taper.Type() }

// Backend returns the FFT backend name.
func (a *Analyzer) Backend() string { return a.cache.Backend().Name() }

// Bins returns the number of bins per spectral frame (windowSize/2).
func (a *Analyzer) Bins() int { return a.windowSize / 2 }

// FrameCount returns the number of frames a buffer of n samples yields.
func (a *Analyzer) FrameCount(n int) int { return frame.Count(n, a.windowSize, a.step) }

// Frames returns one spectral frame per analysis window of buf, in time
// order. A buffer shorter than the window size yields no frames and no error.
func (a *Analyzer) Frames(ctx context.Context, buf core.SampleBuffer) (frames []spectrum.Frame, err error) {
	start := time.Now()
	defer func() { a.finish(ctx, "frames", len(frames), start, err) }()

	p, err := a.prepare(buf)
	if err != nil {
		return nil, err
	}

	out := make([]spectrum.Frame, len(p.frames))
	err = a.execute(ctx, p, func(_, k int, f spectrum.Frame) error {
		out[k] = f
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Average returns the per-bin mean intensity over all frames of buf without
// retaining the frames. No frames yields an empty spectrum.
func (a *Analyzer) Average(ctx context.Context, buf core.SampleBuffer) (avg frequency.Spectrum, err error) {
	start := time.Now()
	n := 0
	defer func() { a.finish(ctx, "average", n, start, err) }()

	p, err := a.prepare(buf)
	if err != nil {
		return frequency.Spectrum{}, err
	}
	n = len(p.frames)

	partial := make([]frequency.Accumulator, p.workers)
	err = a.execute(ctx, p, func(w, _ int, f spectrum.Frame) error {
		return partial[w].Add(f)
	})
	if err != nil {
		return frequency.Spectrum{}, err
	}

	var total frequency.Accumulator
	for w := range partial {
		if err := total.Merge(&partial[w]); err != nil {
			return frequency.Spectrum{}, err
		}
	}
	return total.Spectrum(), nil
}

// Peak returns the strongest bin over all frames of buf without retaining
// the frames. It fails with [core.ErrEmptyInput] when buf yields no frames.
func (a *Analyzer) Peak(ctx context.Context, buf core.SampleBuffer) (peak frequency.PeakBin, err error) {
	start := time.Now()
	n := 0
	defer func() { a.finish(ctx, "peak", n, start, err) }()

	p, err := a.prepare(buf)
	if err != nil {
		return frequency.PeakBin{}, err
	}
	n = len(p.frames)

	partial := make([]frequency.PeakTracker, p.workers)
	err = a.execute(ctx, p, func(w, k int, f spectrum.Frame) error {
		return partial[w].Add(k, f)
	})
	if err != nil {
		return frequency.PeakBin{}, err
	}

	var total frequency.PeakTracker
	for w := range partial {
		if err := total.Merge(&partial[w]); err != nil {
			return frequency.PeakBin{}, err
		}
	}
	return total.Result()
}

// Summarize returns the frames of buf together with their average and peak.
func (a *Analyzer) Summarize(ctx context.Context, buf core.SampleBuffer) (*Result, error) {
	frames, err := a.Frames(ctx, buf)
	if err != nil {
		return nil, err
	}

	avg, err := frequency.Average(frames)
	if err != nil {
		return nil, err
	}

	res := &Result{Frames: frames, Average: avg}
	if len(frames) > 0 && a.Bins() > 0 {
		if res.Peak, err = frequency.Peak(frames); err != nil {
			return nil, err
		}
		res.HasPeak = true
	}
	return res, nil
}

// Analyze is a one-shot [Analyzer.Frames] for callers that do not reuse
// the configuration.
func Analyze(buf core.SampleBuffer, windowSize int, overlap float64, opts ...Option) ([]spectrum.Frame, error) {
	a, err := New(windowSize, overlap, opts...)
	if err != nil {
		return nil, err
	}
	return a.Frames(context.Background(), buf)
}

func (a *Analyzer) finish(ctx context.Context, op string, frames int, start time.Time, err error) {
	elapsed := time.Since(start)
	a.metrics.RecordRun(ctx, a.Backend(), frames, elapsed, err)

	entry := a.logger.WithFields(logrus.Fields{
		"op":          op,
		"window_size": a.windowSize,
		"step":        a.step,
		"frames":      frames,
		"workers":     a.workers,
		"backend":     a.Backend(),
		"elapsed":     elapsed,
	})
	if err != nil {
		entry.WithError(err).Warn("stft run failed")
		return
	}
	entry.Debug("stft run finished")
}
