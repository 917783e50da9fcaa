package capture

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"

	"github.com/cwbudde/algo-stft/dsp/core"
)

// Format is a raw little-endian PCM sample encoding.
type Format string

const (
	// FormatS16LE is signed 16-bit little-endian PCM.
	FormatS16LE Format = "s16le"
	// FormatF32LE is IEEE-754 32-bit little-endian float PCM.
	FormatF32LE Format = "f32le"
)

// ParseFormat maps a format name to its Format. Matching is case-insensitive.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case FormatS16LE, FormatF32LE:
		return f, nil
	default:
		return "", fmt.Errorf("capture: unknown pcm format %q: %w", name, core.ErrInvalidParameter)
	}
}

// BytesPerSample returns the encoded width of one sample, or 0 for an
// unknown format.
func (f Format) BytesPerSample() int {
	switch f {
	case FormatS16LE:
		return 2
	case FormatF32LE:
		return 4
	default:
		return 0
	}
}

// Decode converts raw bytes of format f into samples in [-1, 1],
// reusing the capacity of dst. Trailing bytes that do not form a whole sample are ignored.
func Decode(dst []float64, raw []byte, f Format) ([]float64, error) {
	width := f.BytesPerSample()
	if width == 0 {
		return dst[:0], fmt.Errorf("capture: unknown pcm format %q: %w", string(f), core.ErrInvalidParameter)
	}

	n := len(raw) / width
	dst = core.EnsureLen(dst, n)
	switch f {
	case FormatS16LE:
		for i := range n {
			dst[i] = int16Sample(int16(binary.LittleEndian.Uint16(raw[i*2:])))
		}
	case FormatF32LE:
		for i := range n {
			v := math.Float32frombits(binary.LittleEndian.Uint32(raw[i*4:]))
			if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
				return dst[:i], fmt.Errorf("capture: non-finite sample %v at index %d: %w", v, i, core.ErrInvalidParameter)
			}
			dst[i] = float64(v)
		}
	}
	return dst, nil
}

// Int16ToFloat scales 16-bit samples into [-1, 1).
func Int16ToFloat(dst []float64, src []int16) []float64 {
	dst = core.EnsureLen(dst, len(src))
	for i, v := range src {
		dst[i] = int16Sample(v)
	}
	return dst
}

// Float32ToFloat widens 32-bit float samples.
func Float32ToFloat(dst []float64, src []float32) []float64 {
	dst = core.EnsureLen(dst, len(src))
	for i, v := range src {
		dst[i] = float64(v)
	}
	return dst
}

func int16Sample(v int16) float64 {
	return float64(v) / 32768
}

// Downmix averages interleaved multi-channel samples into mono. A trailing
// partial frame is dropped. One channel returns a copy of the input.
func Downmix(interleaved []float64, channels int) ([]float64, error) {
	if channels < 1 {
		return nil, fmt.Errorf("capture: channels must be >= 1: %d: %w", channels, core.ErrInvalidParameter)
	}

	frames := len(interleaved) / channels
	out := make([]float64, frames)
	if channels == 1 {
		copy(out, interleaved)
		return out, nil
	}

	scale := 1 / float64(channels)
	for i := range out {
		var sum float64
		for _, v := range interleaved[i*channels : (i+1)*channels] {
			sum += v
		}
		out[i] = sum * scale
	}
	return out, nil
}
