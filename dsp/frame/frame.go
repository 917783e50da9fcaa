package frame

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-stft/dsp/core"
)

// Frame is a window of consecutive samples and its starting sample index.
//
// Samples aliases the segmented input and has capacity equal to its length,
// so appending to it never clobbers the next frame. Treat it as read-only.
type Frame struct {
	Index   int
	Start   int
	Samples []float64
}

// Len returns the number of samples in the frame.
func (f Frame) Len() int { return len(f.Samples) }

// Step returns the hop size for windowSize and overlap.
//
// It fails with [core.ErrInvalidParameter] for windowSize <= 0, overlap
// outside [0, 1), or a derived step below one sample.
func Step(windowSize int, overlap float64) (int, error) {
	if err := core.ValidateWindowSize(windowSize); err != nil {
		return 0, err
	}
	if err := core.ValidateOverlap(overlap); err != nil {
		return 0, err
	}

	step := int(math.Floor(float64(windowSize) * (1 - overlap)))
	if step < 1 {
		return 0, fmt.Errorf("window size %d with overlap %v yields step %d: %w",
			windowSize, overlap, step, core.ErrInvalidParameter)
	}
	return step, nil
}

// Count returns the number of whole frames that fit into n samples.
// It returns 0 when n < windowSize or the parameters are not positive.
func Count(n, windowSize, step int) int {
	if windowSize <= 0 || step <= 0 || n < windowSize {
		return 0
	}
	return (n-windowSize)/step + 1
}

// Segment splits samples into frames of windowSize samples advancing by the
// step derived from overlap. Empty or short input yields an empty, non-nil
// result and no error.
func Segment(samples []float64, windowSize int, overlap float64) ([]Frame, error) {
	step, err := Step(windowSize, overlap)
	if err != nil {
		return nil, err
	}
	return SegmentStep(samples, windowSize, step)
}

// SegmentStep is [Segment] with an explicit hop size in samples.
func SegmentStep(samples []float64, windowSize, step int) ([]Frame, error) {
	if err := core.ValidateWindowSize(windowSize); err != nil {
		return nil, err
	}
	if step < 1 {
		return nil, fmt.Errorf("step must be >= 1: %d: %w", step, core.ErrInvalidParameter)
	}

	n := Count(len(samples), windowSize, step)
	frames := make([]Frame, n)
	for k := range frames {
		off := k * step
		frames[k] = Frame{
			Index:   k,
			Start:   off,
			Samples: samples[off : off+windowSize : off+windowSize],
		}
	}
	return frames, nil
}

// TimeOffset returns the start time of frame k in milliseconds:
// k * step * 1000 / sampleRate.
func TimeOffset(k, step, sampleRate int) float64 {
	if sampleRate <= 0 {
		return 0
	}
	return float64(k) * float64(step) * 1000 / float64(sampleRate)
}
