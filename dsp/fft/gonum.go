package fft

import (
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

// Gonum uses gonum's real-input FFT. It produces the N/2+1 non-redundant
// bins and fills the upper half from the conjugate mirror.
type Gonum struct{}

// Name implements [Backend].
func (Gonum) Name() string { return "gonum" }

// NewTransformer implements [Backend].
func (Gonum) NewTransformer(n int) (Transformer, error) {
	if n <= 0 {
		return nil, unsupported("gonum", n, nil)
	}
	return &gonumTransformer{
		fft:  fourier.NewFFT(n),
		half: make([]complex128, n/2+1),
	}, nil
}

type gonumTransformer struct {
	fft  *fourier.FFT
	half []complex128
}

func (t *gonumTransformer) Len() int { return t.fft.Len() }

func (t *gonumTransformer) Forward(dst []complex128, src []float64) error {
	n := t.fft.Len()
	if err := checkLengths(n, dst, src); err != nil {
		return err
	}

	half := t.fft.Coefficients(t.half, src)
	copy(dst, half)
	for k := len(half); k < n; k++ {
		dst[k] = cmplx.Conj(dst[n-k])
	}
	return nil
}
