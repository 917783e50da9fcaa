package window

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-stft/dsp/core"
)

// Response describes the measured frequency response of a window.
// Widths are in bins of the window length.
type Response struct {
	CoherentGain      float64
	ENBW              float64
	Bandwidth3dB      float64
	FirstNullBins     float64
	HighestSidelobedB float64
	ScallopLossdB     float64
}

// scanSteps is the scan resolution in points per bin.
const scanSteps = 8

// Measure evaluates the window's DTFT on [0, 0.5] cycles/sample and reports
// its main-lobe and sidelobe properties. The cost is O(N^2).
func Measure(coeffs []float64) (Response, error) {
	n := len(coeffs)
	if n < 2 {
		return Response{}, fmt.Errorf("measure needs at least 2 coefficients, got %d: %w", n, core.ErrInvalidParameter)
	}

	enbw, err := EquivalentNoiseBandwidth(coeffs)
	if err != nil {
		return Response{}, err
	}

	sum := 0.0
	for _, c := range coeffs {
		sum += c
	}
	dc := sum * sum
	rel := func(f float64) float64 { return powerAt(coeffs, f) / dc }

	step := 1 / float64(scanSteps*n)
	null := firstNull(rel, step)

	return Response{
		CoherentGain:      sum / float64(n),
		ENBW:              enbw,
		Bandwidth3dB:      2 * halfPower(rel, null) * float64(n),
		FirstNullBins:     null * float64(n),
		HighestSidelobedB: 10 * math.Log10(highestSidelobe(rel, null, step)),
		ScallopLossdB:     10 * math.Log10(rel(0.5/float64(n))),
	}, nil
}

// powerAt returns |W(f)|^2 for f in cycles/sample.
func powerAt(coeffs []float64, f float64) float64 {
	re, im := 0.0, 0.0
	for i, c := range coeffs {
		s, co := math.Sincos(2 * math.Pi * f * float64(i))
		re += c * co
		im -= c * s
	}
	return re*re + im*im
}

// halfPower bisects the main lobe for the -3 dB point.
func halfPower(rel func(float64) float64, null float64) float64 {
	lo, hi := 0.0, null
	for range 60 {
		mid := (lo + hi) / 2
		if rel(mid) > 0.5 {
			lo = mid
		} else {
			hi = mid
		}
	}
	return lo
}

// firstNull walks out of the main lobe until the response has dropped below
// a tenth of DC and starts rising again, then refines the minimum.
func firstNull(rel func(float64) float64, step float64) float64 {
	prev := rel(0)
	for f := step; f <= 0.5; f += step {
		v := rel(f)
		if prev < 0.1 && v > prev {
			return refine(rel, f-2*step, f, false)
		}
		prev = v
	}
	return 0.5
}

func highestSidelobe(rel func(float64) float64, null, step float64) float64 {
	best, at := 0.0, null
	for f := null + step; f <= 0.5; f += step {
		if v := rel(f); v > best {
			best, at = v, f
		}
	}
	if at == null {
		return math.SmallestNonzeroFloat64
	}
	lo := math.Max(null, at-step)
	hi := math.Min(0.5, at+step)
	f := refine(rel, lo, hi, true)
	return math.Max(best, rel(f))
}

// refine runs a golden-section search for the extremum of rel on [lo, hi].
func refine(rel func(float64) float64, lo, hi float64, maximize bool) float64 {
	const invPhi = 0.6180339887498949
	better := func(a, b float64) bool {
		if maximize {
			return a > b
		}
		return a < b
	}

	a := hi - invPhi*(hi-lo)
	b := lo + invPhi*(hi-lo)
	fa, fb := rel(a), rel(b)
	for range 40 {
		if better(fa, fb) {
			hi, b, fb = b, a, fa
			a = hi - invPhi*(hi-lo)
			fa = rel(a)
		} else {
			lo, a, fa = a, b, fb
			b = lo + invPhi*(hi-lo)
			fb = rel(b)
		}
	}
	return (lo + hi) / 2
}
