package capture

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/cwbudde/algo-stft/dsp/core"
)

// ErrClosed is returned when writing to a closed [Stream].
var ErrClosed = errors.New("capture: stream closed")

// Stream is a bounded queue of interleaved sample blocks.
//
// Exactly one goroutine writes and calls Close; exactly one goroutine drains.
// Written blocks are owned by the stream and must not be modified afterwards.
type Stream struct {
	blocks   chan []float64
	channels int

	closed  atomic.Bool
	dropped atomic.Int64
	written atomic.Int64
}

// NewStream returns a stream holding at most depth pending blocks of
// interleaved audio with the given channel count.
func NewStream(depth, channels int) (*Stream, error) {
	if depth < 1 {
		return nil, fmt.Errorf("capture: stream depth must be >= 1: %d: %w", depth, core.ErrInvalidParameter)
	}
	if channels < 1 {
		return nil, fmt.Errorf("capture: channels must be >= 1: %d: %w", channels, core.ErrInvalidParameter)
	}
	return &Stream{
		blocks:   make(chan []float64, depth),
		channels: channels,
	}, nil
}

// Channels returns the interleaved channel count.
func (s *Stream) Channels() int { return s.channels }

// Write enqueues block, blocking while the stream is full.
func (s *Stream) Write(ctx context.Context, block []float64) error {
	if s.closed.Load() {
		return ErrClosed
	}
	select {
	case s.blocks <- block:
		s.written.Add(1)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TryWrite enqueues block if there is room and reports whether it did.
// A rejected block is counted in [Stream.Dropped].
func (s *Stream) TryWrite(block []float64) bool {
	if s.closed.Load() {
		s.dropped.Add(1)
		return false
	}
	select {
	case s.blocks <- block:
		s.written.Add(1)
		return true
	default:
		// Full: drop rather than stall the producer.
		s.dropped.Add(1)
		return false
	}
}

// Close marks the end of input. Pending blocks remain drainable.
// Close is idempotent.
func (s *Stream) Close() {
	if s.closed.CompareAndSwap(false, true) {
		close(s.blocks)
	}
}

// Dropped returns the number of blocks rejected by TryWrite.
func (s *Stream) Dropped() int64 { return s.dropped.Load() }

// Written returns the number of blocks accepted.
func (s *Stream) Written() int64 { return s.written.Load() }

// Drain consumes blocks in write order until the stream is closed and
// empty, then downmixes them into a mono buffer at sampleRate.
func (s *Stream) Drain(ctx context.Context, sampleRate int) (core.SampleBuffer, error) {
	if err := core.ValidateSampleRate(sampleRate); err != nil {
		return core.SampleBuffer{}, fmt.Errorf("capture: %w", err)
	}

	var interleaved []float64
	for {
		select {
		case block, ok := <-s.blocks:
			if !ok {
				mono, err := Downmix(interleaved, s.channels)
				if err != nil {
					return core.SampleBuffer{}, err
				}
				return core.NewSampleBuffer(mono, sampleRate)
			}
			interleaved = append(interleaved, block...)
		case <-ctx.Done():
			return core.SampleBuffer{}, ctx.Err()
		}
	}
}

// Pump reads raw PCM of format f from r in blocks of blockFrames frames,
// writes them to s and closes s when r is exhausted or an error occurs.
// A trailing partial frame is ignored.
func Pump(ctx context.Context, r io.Reader, f Format, blockFrames int, s *Stream) error {
	defer s.Close()

	if blockFrames < 1 {
		return fmt.Errorf("capture: block frames must be >= 1: %d: %w", blockFrames, core.ErrInvalidParameter)
	}
	width := f.BytesPerSample()
	if width == 0 {
		return fmt.Errorf("capture: unknown pcm format %q: %w", string(f), core.ErrInvalidParameter)
	}

	frameBytes := width * s.channels
	raw := make([]byte, blockFrames*frameBytes)
	for {
		n, err := io.ReadFull(r, raw)
		if whole := n - n%frameBytes; whole > 0 {
			block, derr := Decode(nil, raw[:whole], f)
			if derr != nil {
				return derr
			}
			if werr := s.Write(ctx, block); werr != nil {
				return werr
			}
		}
		switch {
		case err == nil:
		case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
			return nil
		default:
			return fmt.Errorf("capture: read pcm: %w", err)
		}
	}
}
