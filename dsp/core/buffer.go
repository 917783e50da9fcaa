package core

import (
	"fmt"
	"time"
)

// SampleBuffer is a normalized mono sample sequence with its sample rate.
//
// Samples are expected in roughly [-1, 1]. The buffer is owned by the caller;
// analysis stages only read it.
type SampleBuffer struct {
	Samples    []float64
	SampleRate int
}

// NewSampleBuffer returns a SampleBuffer after validating the sample rate.
func NewSampleBuffer(samples []float64, sampleRate int) (SampleBuffer, error) {
	if err := ValidateSampleRate(sampleRate); err != nil {
		return SampleBuffer{}, err
	}
	return SampleBuffer{Samples: samples, SampleRate: sampleRate}, nil
}

// Len returns the number of samples.
func (b SampleBuffer) Len() int { return len(b.Samples) }

// Duration returns the playback length of the buffer.
// A buffer with a non-positive sample rate reports zero.
func (b SampleBuffer) Duration() time.Duration {
	if b.SampleRate <= 0 {
		return 0
	}
	return time.Duration(len(b.Samples)) * time.Second / time.Duration(b.SampleRate)
}

// Validate checks the sample rate. An empty sample slice is valid.
func (b SampleBuffer) Validate() error {
	if err := ValidateSampleRate(b.SampleRate); err != nil {
		return fmt.Errorf("sample buffer: %w", err)
	}
	return nil
}

// EnsureLen returns a slice with the requested length, reusing buf capacity if possible.
func EnsureLen(buf []float64, n int) []float64 {
	if n <= 0 {
		return buf[:0]
	}
	if cap(buf) >= n {
		return buf[:n]
	}
	return make([]float64, n)
}

// EnsureComplexLen is the complex128 counterpart of [EnsureLen].
func EnsureComplexLen(buf []complex128, n int) []complex128 {
	if n <= 0 {
		return buf[:0]
	}
	if cap(buf) >= n {
		return buf[:n]
	}
	return make([]complex128, n)
}
