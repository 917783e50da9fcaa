package frequency

import (
	"fmt"
	"math"
	"sort"

	"github.com/cwbudde/algo-stft/dsp/core"
	"github.com/cwbudde/algo-stft/dsp/spectrum"
	"github.com/cwbudde/algo-vecmath"
)

// Spectrum is the per-bin average intensity over a set of frames, ordered
// ascending by frequency with one entry per bin.
type Spectrum struct {
	Frequencies []float64
	Intensities []float64
	Frames      int // number of frames averaged
}

// Len returns the number of bins.
func (s Spectrum) Len() int { return len(s.Intensities) }

// Bins returns the spectrum as (frequency, intensity) pairs.
func (s Spectrum) Bins() []spectrum.Bin {
	out := make([]spectrum.Bin, s.Len())
	for i := range out {
		out[i] = spectrum.Bin{Frequency: s.Frequencies[i], Intensity: s.Intensities[i]}
	}
	return out
}

// labelEpsilon is the relative tolerance for matching bin frequencies.
const labelEpsilon = 1e-9

// Lookup returns the average intensity of the bin labelled hz, allowing for
// rounding in the label.
func (s Spectrum) Lookup(hz float64) (float64, bool) {
	i := sort.SearchFloat64s(s.Frequencies, hz)
	for _, j := range [2]int{i, i - 1} {
		if j >= 0 && j < len(s.Frequencies) && core.NearlyEqual(s.Frequencies[j], hz, labelEpsilon) {
			return s.Intensities[j], true
		}
	}
	return 0, false
}

// Max returns the strongest bin; ties resolve to the lowest frequency.
func (s Spectrum) Max() (spectrum.Bin, bool) {
	best := s.maxIndex()
	if best < 0 {
		return spectrum.Bin{}, false
	}
	return spectrum.Bin{Frequency: s.Frequencies[best], Intensity: s.Intensities[best]}, true
}

func (s Spectrum) maxIndex() int {
	best := -1
	for i, v := range s.Intensities {
		if best < 0 || v > s.Intensities[best] {
			best = i
		}
	}
	return best
}

// Centroid returns the intensity-weighted mean frequency in Hz.
//
//	centroid = sum(f_i * I_i) / sum(I_i)
//
// It returns 0 when the total intensity is zero.
func (s Spectrum) Centroid() float64 {
	sum := 0.0
	weighted := 0.0
	for i, v := range s.Intensities {
		sum += v
		weighted += s.Frequencies[i] * v
	}
	if sum == 0 || math.IsNaN(sum) {
		return 0
	}
	return weighted / sum
}

// Spread returns the intensity-weighted standard deviation of frequency
// around [Spectrum.Centroid], in Hz.
func (s Spectrum) Spread() float64 {
	centroid := s.Centroid()
	sum := 0.0
	weighted := 0.0
	for i, v := range s.Intensities {
		d := s.Frequencies[i] - centroid
		sum += v
		weighted += d * d * v
	}
	if sum == 0 || math.IsNaN(sum) {
		return 0
	}
	return math.Sqrt(weighted / sum)
}

// Flatness returns the ratio of geometric to arithmetic mean intensity,
// skipping the DC bin. It is near 1 for noise-like spectra and near 0 for
// tonal ones. Any silent bin makes it 0.
func (s Spectrum) Flatness() float64 {
	if s.Len() < 2 {
		return 0
	}

	bins := s.Intensities[1:]
	logSum := 0.0
	sum := 0.0
	for _, v := range bins {
		if !(v > 0) {
			return 0
		}
		logSum += math.Log(v)
		sum += v
	}

	n := float64(len(bins))
	return math.Exp(logSum/n) / (sum / n)
}

// Rolloff returns the lowest bin frequency below which fraction of the
// spectral energy (sum of squared intensities) lies. fraction must be in
// (0, 1].
func (s Spectrum) Rolloff(fraction float64) (float64, error) {
	if !(fraction > 0 && fraction <= 1) {
		return 0, fmt.Errorf("frequency: rolloff fraction must be in (0, 1], got %v: %w", fraction, core.ErrInvalidParameter)
	}
	if s.Len() < 2 {
		return 0, nil
	}

	total := 0.0
	for _, v := range s.Intensities {
		total += v * v
	}
	if total == 0 || math.IsNaN(total) {
		return 0, nil
	}

	target := fraction * total
	cum := 0.0
	for i, v := range s.Intensities {
		cum += v * v
		if cum >= target {
			return s.Frequencies[i], nil
		}
	}
	return s.Frequencies[s.Len()-1], nil
}

// Bandwidth returns the -3 dB width in Hz of the lobe around the strongest
// bin, interpolating the crossings linearly. A lobe that never falls below
// the threshold extends to the spectrum edge.
func (s Spectrum) Bandwidth() float64 {
	n := s.Len()
	if n < 2 {
		return 0
	}
	peak := s.maxIndex()
	m := s.Intensities
	if !(m[peak] > 0) {
		return 0
	}
	threshold := m[peak] / math.Sqrt2

	lower := s.Frequencies[0]
	for i := peak; i > 0; i-- {
		if m[i-1] <= threshold && m[i] > threshold {
			lower = s.crossing(i-1, i, threshold)
			break
		}
	}

	upper := s.Frequencies[n-1]
	for i := peak; i < n-1; i++ {
		if m[i+1] <= threshold && m[i] > threshold {
			upper = s.crossing(i+1, i, threshold)
			break
		}
	}

	return math.Max(upper-lower, 0)
}

// crossing interpolates the frequency where intensity reaches threshold
// between bin below (at or under threshold) and bin above.
func (s Spectrum) crossing(below, above int, threshold float64) float64 {
	lo, hi := s.Intensities[below], s.Intensities[above]
	if hi == lo {
		return (s.Frequencies[below] + s.Frequencies[above]) / 2
	}
	t := (threshold - lo) / (hi - lo)
	return s.Frequencies[below] + t*(s.Frequencies[above]-s.Frequencies[below])
}

// sameLabels reports whether two frames carry the same bin frequencies.
func sameLabels(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 || &a[0] == &b[0] {
		return true
	}
	for i := range a {
		if !core.NearlyEqual(a[i], b[i], labelEpsilon) {
			return false
		}
	}
	return true
}

// Accumulator sums intensities bin by bin. The zero value is ready to use;
// the first added frame fixes the bin frequencies. Not safe for concurrent use:
// give each worker its own and combine them with [Accumulator.Merge].
type Accumulator struct {
	frequencies []float64
	sum         []float64
	count       int
}

// Count returns the number of frames accumulated.
func (a *Accumulator) Count() int { return a.count }

// Add includes f in the running sums.
func (a *Accumulator) Add(f spectrum.Frame) error {
	if len(f.Frequencies) != len(f.Intensities) {
		return fmt.Errorf("frequency: frame has %d labels for %d bins: %w",
			len(f.Frequencies), len(f.Intensities), core.ErrInconsistentFrames)
	}

	if a.count == 0 {
		a.frequencies = f.Frequencies
		a.sum = append(a.sum[:0], f.Intensities...)
		a.count = 1
		return nil
	}

	if len(f.Intensities) != len(a.sum) {
		return fmt.Errorf("frequency: frame has %d bins, expected %d: %w",
			len(f.Intensities), len(a.sum), core.ErrInconsistentFrames)
	}
	if !sameLabels(f.Frequencies, a.frequencies) {
		return fmt.Errorf("frequency: frame bin frequencies differ from the first frame: %w",
			core.ErrInconsistentFrames)
	}

	if len(a.sum) > 0 {
		vecmath.AddBlockInPlace(a.sum, f.Intensities)
	}
	a.count++
	return nil
}

// Merge folds the sums of other into a. other is left unchanged.
func (a *Accumulator) Merge(other *Accumulator) error {
	if other == nil || other.count == 0 {
		return nil
	}

	if a.count == 0 {
		a.frequencies = other.frequencies
		a.sum = append(a.sum[:0], other.sum...)
		a.count = other.count
		return nil
	}

	if len(other.sum) != len(a.sum) {
		return fmt.Errorf("frequency: merging %d bins into %d: %w",
			len(other.sum), len(a.sum), core.ErrInconsistentFrames)
	}
	if !sameLabels(other.frequencies, a.frequencies) {
		return fmt.Errorf("frequency: merging spectra with different bin frequencies: %w",
			core.ErrInconsistentFrames)
	}

	if len(a.sum) > 0 {
		vecmath.AddBlockInPlace(a.sum, other.sum)
	}
	a.count += other.count
	return nil
}

// Spectrum returns the average of everything accumulated so far.
// An empty accumulator yields an empty Spectrum.
func (a *Accumulator) Spectrum() Spectrum {
	if a.count == 0 {
		return Spectrum{Frequencies: []float64{}, Intensities: []float64{}}
	}

	avg := make([]float64, len(a.sum))
	if len(avg) > 0 {
		vecmath.ScaleBlock(avg, a.sum, 1/float64(a.count))
	}

	return Spectrum{
		Frequencies: append([]float64(nil), a.frequencies...),
		Intensities: avg,
		Frames:      a.count,
	}
}

// Average returns the per-bin mean intensity over frames.
//
// Every frame must carry the same bin frequencies, otherwise
// [core.ErrInconsistentFrames] is returned. No frames yields an empty
// Spectrum and no error.
func Average(frames []spectrum.Frame) (Spectrum, error) {
	var acc Accumulator
	for i, f := range frames {
		if err := acc.Add(f); err != nil {
			return Spectrum{}, fmt.Errorf("frame %d: %w", i, err)
		}
	}
	return acc.Spectrum(), nil
}
