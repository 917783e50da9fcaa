package stft

import (
	"context"
	"fmt"

	"github.com/cwbudde/algo-stft/dsp/core"
	"github.com/cwbudde/algo-stft/dsp/frame"
	"github.com/cwbudde/algo-stft/dsp/spectrum"
	"golang.org/x/sync/errgroup"
)

// runPlan is the per-call state shared read-only by all workers.
type runPlan struct {
	sampleRate int
	frames     []frame.Frame
	extractor  *spectrum.Extractor
	workers    int
}

// visitFunc receives frame k as processed by worker w. Calls for the same w
// never overlap; calls for different w run concurrently.
type visitFunc func(w, k int, f spectrum.Frame) error

func (a *Analyzer) prepare(buf core.SampleBuffer) (*runPlan, error) {
	if err := buf.Validate(); err != nil {
		return nil, fmt.Errorf("stft: %w", err)
	}

	var opts []spectrum.Option
	if a.normalize {
		opts = append(opts, spectrum.WithNormalization())
	}
	extractor, err := spectrum.NewExtractor(buf.SampleRate, a.windowSize, opts...)
	if err != nil {
		return nil, fmt.Errorf("stft: %w", err)
	}

	frames, err := frame.SegmentStep(buf.Samples, a.windowSize, a.step)
	if err != nil {
		return nil, fmt.Errorf("stft: %w", err)
	}

	return &runPlan{
		sampleRate: buf.SampleRate,
		frames:     frames,
		extractor:  extractor,
		workers:    max(1, min(a.workers, len(frames))),
	}, nil
}

// execute processes every frame of p, worker w taking frames w, w+W, w+2W...
func (a *Analyzer) execute(ctx context.Context, p *runPlan, visit visitFunc) error {
	if len(p.frames) == 0 {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < p.workers; w++ {
		g.Go(func() error {
			return a.work(gctx, p, w, visit)
		})
	}
	return g.Wait()
}

func (a *Analyzer) work(ctx context.Context, p *runPlan, w int, visit visitFunc) error {
	tr, err := a.cache.Get(a.windowSize)
	if err != nil {
		return fmt.Errorf("stft: %w", err)
	}
	defer a.cache.Put(tr)

	// Scratch is sized on first use and reused for every frame of this worker.
	var tapered []float64
	var spec []complex128

	for k := w; k < len(p.frames); k += p.workers {
		if err := ctx.Err(); err != nil {
			return err
		}

		if tapered, err = a.taper.Apply(tapered, p.frames[k].Samples); err != nil {
			return fmt.Errorf("stft: frame %d: %w", k, err)
		}
		spec = core.EnsureComplexLen(spec, len(tapered))
		if err := tr.Forward(spec, tapered); err != nil {
			return fmt.Errorf("stft: frame %d: %w", k, err)
		}

		f, err := p.extractor.Extract(spec, frame.TimeOffset(k, a.step, p.sampleRate))
		if err != nil {
			return fmt.Errorf("stft: frame %d: %w", k, err)
		}
		if err := visit(w, k, f); err != nil {
			return fmt.Errorf("stft: frame %d: %w", k, err)
		}
	}
	return nil
}
