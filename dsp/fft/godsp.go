package fft

import (
	dspfft "github.com/mjibson/go-dsp/fft"
)

// GoDSP uses mjibson/go-dsp, which handles any length (Bluestein for
// non powers of two) and caches twiddle factors internally.
type GoDSP struct{}

// Name implements [Backend].
func (GoDSP) Name() string { return "godsp" }

// NewTransformer implements [Backend].
func (GoDSP) NewTransformer(n int) (Transformer, error) {
	if n <= 0 {
		return nil, unsupported("godsp", n, nil)
	}
	return godspTransformer(n), nil
}

type godspTransformer int

func (t godspTransformer) Len() int { return int(t) }

func (t godspTransformer) Forward(dst []complex128, src []float64) error {
	if err := checkLengths(int(t), dst, src); err != nil {
		return err
	}
	copy(dst, dspfft.FFTReal(src))
	return nil
}
