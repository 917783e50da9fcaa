package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/cwbudde/algo-stft/dsp/capture"
	"github.com/cwbudde/algo-stft/dsp/core"
	"github.com/cwbudde/algo-stft/dsp/fft"
	"github.com/cwbudde/algo-stft/dsp/stft"
	"github.com/cwbudde/algo-stft/dsp/window"
	"github.com/cwbudde/algo-stft/internal/config"
	"github.com/cwbudde/algo-stft/stats/level"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	streamDepth = 16
	blockFrames = 4096
)

// run reads all PCM from in, analyzes it as cfg describes and writes the
// report to out. cfg must be valid.
func run(ctx context.Context, cfg *config.Config, in io.Reader, out io.Writer, logger logrus.FieldLogger) error {
	buf, err := readInput(ctx, cfg.Input, in)
	if err != nil {
		return err
	}
	lvl := level.Measure(buf.Samples)
	entry := logger.WithFields(logrus.Fields{
		"samples":     buf.Len(),
		"sample_rate": buf.SampleRate,
		"duration":    buf.Duration(),
		"rms_dbfs":    fmt.Sprintf("%.2f", lvl.RMSdB()),
		"peak_dbfs":   fmt.Sprintf("%.2f", lvl.PeakdB()),
		"dc":          lvl.DC,
	})
	if lvl.Silent() {
		entry.Warn("Input is silent")
	} else {
		entry.Info("Input loaded")
	}

	a, err := newAnalyzer(cfg.Analysis, logger)
	if err != nil {
		return err
	}

	p := printer{w: out, db: cfg.Output.DB}
	switch cfg.Output.Mode {
	case config.ModeAverage:
		avg, err := a.Average(ctx, buf)
		if err != nil {
			return err
		}
		return p.average(avg)
	case config.ModePeak:
		peak, err := a.Peak(ctx, buf)
		if err != nil {
			return err
		}
		return p.peak(peak)
	case config.ModeFrames:
		frames, err := a.Frames(ctx, buf)
		if err != nil {
			return err
		}
		return p.frames(frames)
	case config.ModeJSON:
		frames, err := a.Frames(ctx, buf)
		if err != nil {
			return err
		}
		return p.json(frames)
	default:
		return fmt.Errorf("unknown output mode %q: %w", cfg.Output.Mode, core.ErrInvalidParameter)
	}
}

// readInput pumps in through a capture stream and returns the mono buffer.
func readInput(ctx context.Context, ic config.InputConfig, in io.Reader) (core.SampleBuffer, error) {
	format, err := capture.ParseFormat(ic.Format)
	if err != nil {
		return core.SampleBuffer{}, err
	}
	stream, err := capture.NewStream(streamDepth, ic.Channels)
	if err != nil {
		return core.SampleBuffer{}, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return capture.Pump(gctx, in, format, blockFrames, stream)
	})

	buf, derr := stream.Drain(gctx, ic.SampleRate)
	if err := g.Wait(); err != nil {
		return core.SampleBuffer{}, fmt.Errorf("read input: %w", err)
	}
	if derr != nil {
		return core.SampleBuffer{}, fmt.Errorf("read input: %w", derr)
	}
	return buf, nil
}

func newAnalyzer(ac config.AnalysisConfig, logger logrus.FieldLogger) (*stft.Analyzer, error) {
	wt, err := window.ParseType(ac.Window)
	if err != nil {
		return nil, err
	}
	backend, err := fft.ParseBackend(ac.Backend)
	if err != nil {
		return nil, err
	}

	opts := []stft.Option{
		stft.WithWindow(wt),
		stft.WithBackend(backend),
		stft.WithLogger(logger),
	}
	if ac.Normalize {
		opts = append(opts, stft.WithNormalization())
	}
	if ac.Workers > 0 {
		opts = append(opts, stft.WithWorkers(ac.Workers))
	}

	a, err := stft.New(ac.WindowSize, ac.Overlap, opts...)
	if errors.Is(err, core.ErrUnsupportedSize) {
		return nil, fmt.Errorf("backend %s cannot transform %d samples: %w", backend.Name(), ac.WindowSize, err)
	}
	return a, err
}
