package fft

import (
	algofft "github.com/MeKo-Christian/algo-fft"
)

// AlgoFFT plans complex transforms with algo-fft. Real input is promoted to
// complex before the forward transform.
type AlgoFFT struct{}

// Name implements [Backend].
func (AlgoFFT) Name() string { return "algofft" }

// NewTransformer implements [Backend].
func (AlgoFFT) NewTransformer(n int) (Transformer, error) {
	if n <= 0 {
		return nil, unsupported("algofft", n, nil)
	}
	plan, err := algofft.NewPlan64(n)
	if err != nil {
		return nil, unsupported("algofft", n, err)
	}
	return &algoTransformer{plan: plan, in: make([]complex128, n)}, nil
}

type algoTransformer struct {
	plan *algofft.Plan[complex128]
	in   []complex128
}

func (t *algoTransformer) Len() int { return len(t.in) }

func (t *algoTransformer) Forward(dst []complex128, src []float64) error {
	if err := checkLengths(len(t.in), dst, src); err != nil {
		return err
	}
	for i, v := range src {
		t.in[i] = complex(v, 0)
	}
	return t.plan.Forward(dst, t.in)
}
