package window

import (
	"fmt"

	"github.com/cwbudde/algo-stft/dsp/core"
	"github.com/cwbudde/algo-vecmath"
)

// Taper is the WindowFunction stage for one analysis run. Type and length are
// fixed at construction so every frame of a run is tapered identically.
//
// A Taper is immutable after construction and safe for concurrent use.
type Taper struct {
	typ    Type
	coeffs []float64
}

// NewTaper precomputes periodic coefficients of type t for frames of size n.
func NewTaper(t Type, n int) (*Taper, error) {
	if err := validateLength(n); err != nil {
		return nil, err
	}
	if _, ok := metadataByType[t]; !ok {
		return nil, fmt.Errorf("window type %d: %w", int(t), errUnknownType)
	}
	return &Taper{typ: t, coeffs: Generate(t, n)}, nil
}

// Type returns the window type.
func (tp *Taper) Type() Type { return tp.typ }

// Len returns the frame length the taper was built for.
func (tp *Taper) Len() int { return len(tp.coeffs) }

// Coefficients returns a copy of the taper coefficients.
func (tp *Taper) Coefficients() []float64 {
	return append([]float64(nil), tp.coeffs...)
}

// Apply writes the mean-removed, tapered frame into dst and returns it.
// dst is grown if needed and may be nil; frame is not modified.
func (tp *Taper) Apply(dst, frame []float64) ([]float64, error) {
	if len(frame) != len(tp.coeffs) {
		return nil, fmt.Errorf("frame length %d, taper length %d: %w", len(frame), len(tp.coeffs), errMismatchedLength)
	}

	dst = core.EnsureLen(dst, len(frame))
	RemoveDC(dst, frame)
	vecmath.MulBlockInPlace(dst, tp.coeffs)
	return dst, nil
}

// RemoveDC writes src minus its arithmetic mean into dst. dst and src may
// alias; dst must be at least len(src) long.
func RemoveDC(dst, src []float64) {
	mean := core.Mean(src)
	for i, v := range src {
		dst[i] = v - mean
	}
}
