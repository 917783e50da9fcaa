package frequency

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-stft/dsp/core"
	"github.com/cwbudde/algo-stft/dsp/spectrum"
)

const tolerance = 1e-12

var labels = []float64{0, 100, 200, 300}

func makeFrame(offset float64, intensities ...float64) spectrum.Frame {
	return spectrum.Frame{
		TimeOffset:  offset,
		Frequencies: labels[:len(intensities)],
		Intensities: intensities,
	}
}

func TestAverage(t *testing.T) {
	frames := []spectrum.Frame{
		makeFrame(0, 1, 2, 3, 4),
		makeFrame(10, 3, 2, 1, 0),
		makeFrame(20, 2, 2, 2, 8),
	}

	avg, err := Average(frames)
	if err != nil {
		t.Fatalf("Average error: %v", err)
	}

	want := []float64{2, 2, 2, 4}
	if avg.Len() != len(want) || avg.Frames != 3 {
		t.Fatalf("Len=%d Frames=%d", avg.Len(), avg.Frames)
	}
	for i := range want {
		if math.Abs(avg.Intensities[i]-want[i]) > tolerance {
			t.Fatalf("avg[%d]=%v want %v", i, avg.Intensities[i], want[i])
		}
		if avg.Frequencies[i] != labels[i] {
			t.Fatalf("label[%d]=%v want %v", i, avg.Frequencies[i], labels[i])
		}
	}
}

func TestAverageEmpty(t *testing.T) {
	avg, err := Average(nil)
	if err != nil {
		t.Fatalf("Average(nil) error: %v", err)
	}
	if avg.Len() != 0 || avg.Frames != 0 {
		t.Fatalf("Average(nil) = %+v, want empty", avg)
	}
	if _, ok := avg.Max(); ok {
		t.Fatal("Max on empty spectrum should report false")
	}
}

func TestAverageInconsistentFrames(t *testing.T) {
	frames := []spectrum.Frame{
		makeFrame(0, 1, 2, 3, 4),
		makeFrame(10, 1, 2),
	}

	if _, err := Average(frames); !errors.Is(err, core.ErrInconsistentFrames) {
		t.Fatalf("Average err = %v, want ErrInconsistentFrames", err)
	}

	broken := spectrum.Frame{Frequencies: labels[:1], Intensities: []float64{1, 2}}
	if _, err := Average([]spectrum.Frame{broken}); !errors.Is(err, core.ErrInconsistentFrames) {
		t.Fatalf("Average(label mismatch) err = %v", err)
	}
}

func TestAverageDoesNotMutateInput(t *testing.T) {
	a := makeFrame(0, 1, 1)
	b := makeFrame(1, 3, 3)

	if _, err := Average([]spectrum.Frame{a, b}); err != nil {
		t.Fatalf("Average error: %v", err)
	}
	if a.Intensities[0] != 1 || b.Intensities[0] != 3 {
		t.Fatalf("input frames mutated: %v %v", a.Intensities, b.Intensities)
	}
}

func TestAccumulatorMergeMatchesSequential(t *testing.T) {
	frames := []spectrum.Frame{
		makeFrame(0, 1, 5, 0, 2),
		makeFrame(1, 2, 4, 1, 2),
		makeFrame(2, 3, 3, 2, 2),
		makeFrame(3, 4, 2, 3, 2),
		makeFrame(4, 5, 1, 4, 2),
	}

	seq, err := Average(frames)
	if err != nil {
		t.Fatalf("Average error: %v", err)
	}

	var left, right, empty Accumulator
	for _, f := range frames[:2] {
		if err := left.Add(f); err != nil {
			t.Fatal(err)
		}
	}
	for _, f := range frames[2:] {
		if err := right.Add(f); err != nil {
			t.Fatal(err)
		}
	}

	var total Accumulator
	for _, part := range []*Accumulator{&empty, &right, nil, &left} {
		if err := total.Merge(part); err != nil {
			t.Fatalf("Merge error: %v", err)
		}
	}

	merged := total.Spectrum()
	if total.Count() != 5 || merged.Frames != 5 {
		t.Fatalf("Count=%d Frames=%d, want 5", total.Count(), merged.Frames)
	}
	for i := range seq.Intensities {
		if math.Abs(merged.Intensities[i]-seq.Intensities[i]) > tolerance {
			t.Fatalf("bin %d merged=%v sequential=%v", i, merged.Intensities[i], seq.Intensities[i])
		}
	}

	var odd Accumulator
	_ = odd.Add(makeFrame(0, 1))
	if err := total.Merge(&odd); !errors.Is(err, core.ErrInconsistentFrames) {
		t.Fatalf("Merge(mismatched) err = %v", err)
	}
}

func TestSpectrumAccessors(t *testing.T) {
	s := Spectrum{
		Frequencies: []float64{0, 100, 200, 300},
		Intensities: []float64{0, 3, 3, 2},
		Frames:      1,
	}

	if v, ok := s.Lookup(200); !ok || v != 3 {
		t.Fatalf("Lookup(200) = %v, %v", v, ok)
	}
	if _, ok := s.Lookup(150); ok {
		t.Fatal("Lookup(150) should miss")
	}
	if v, ok := s.Lookup(300 * (1 + 1e-12)); !ok || v != 2 {
		t.Fatalf("Lookup(~300) = %v, %v; want rounding tolerated", v, ok)
	}

	best, ok := s.Max()
	if !ok || best.Frequency != 100 || best.Intensity != 3 {
		t.Fatalf("Max() = %+v, %v; want lowest-frequency tie", best, ok)
	}

	wantCentroid := (100*3 + 200*3 + 300*2) / 8.0
	if math.Abs(s.Centroid()-wantCentroid) > tolerance {
		t.Fatalf("Centroid() = %v, want %v", s.Centroid(), wantCentroid)
	}
	if (Spectrum{}).Centroid() != 0 {
		t.Fatal("Centroid of empty spectrum should be 0")
	}

	if bins := s.Bins(); len(bins) != 4 || bins[3].Frequency != 300 {
		t.Fatalf("Bins() = %v", bins)
	}
}

func TestSpectrumShape(t *testing.T) {
	freqs := []float64{0, 100, 200, 300}
	tests := []struct {
		name        string
		intensities []float64
		spread      float64
		flatness    float64
		rolloff50   float64
		rolloff85   float64
		bandwidth   float64
	}{
		{
			name:        "flat",
			intensities: []float64{1, 1, 1, 1},
			spread:      math.Sqrt(12500),
			flatness:    1,
			rolloff50:   100,
			rolloff85:   300,
			bandwidth:   300,
		},
		{
			name:        "lobe",
			intensities: []float64{0, 2, 4, 2},
			spread:      math.Sqrt(5000),
			flatness:    math.Cbrt(16) / (8.0 / 3),
			rolloff50:   200,
			rolloff85:   300,
			bandwidth:   200 * (2 - math.Sqrt2),
		},
		{
			name:        "silent bin",
			intensities: []float64{1, 0, 1, 1},
			spread:      math.Sqrt((500.0/3*500.0/3 + 100.0/3*100.0/3 + 400.0/3*400.0/3) / 3),
			flatness:    0,
			rolloff50:   200,
			rolloff85:   300,
			bandwidth:   100 * (1 - 1/math.Sqrt2),
		},
		{
			name:        "silent",
			intensities: []float64{0, 0, 0, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Spectrum{Frequencies: freqs, Intensities: tt.intensities, Frames: 1}

			if got := s.Spread(); math.Abs(got-tt.spread) > 1e-9 {
				t.Fatalf("Spread() = %v, want %v", got, tt.spread)
			}
			if got := s.Flatness(); math.Abs(got-tt.flatness) > 1e-12 {
				t.Fatalf("Flatness() = %v, want %v", got, tt.flatness)
			}
			for _, r := range []struct{ fraction, want float64 }{{0.5, tt.rolloff50}, {0.85, tt.rolloff85}} {
				got, err := s.Rolloff(r.fraction)
				if err != nil {
					t.Fatalf("Rolloff(%v): %v", r.fraction, err)
				}
				if got != r.want {
					t.Fatalf("Rolloff(%v) = %v, want %v", r.fraction, got, r.want)
				}
			}
			if got := s.Bandwidth(); math.Abs(got-tt.bandwidth) > 1e-9 {
				t.Fatalf("Bandwidth() = %v, want %v", got, tt.bandwidth)
			}
		})
	}
}

func TestSpectrumShapeDegenerate(t *testing.T) {
	var empty Spectrum
	if empty.Spread() != 0 || empty.Flatness() != 0 || empty.Bandwidth() != 0 {
		t.Fatal("shape measures of an empty spectrum should be 0")
	}
	if got, err := empty.Rolloff(0.85); err != nil || got != 0 {
		t.Fatalf("Rolloff on empty = %v, %v", got, err)
	}

	s := Spectrum{Frequencies: []float64{0, 100}, Intensities: []float64{1, 1}}
	for _, fraction := range []float64{0, -0.5, 1.5, math.NaN()} {
		if _, err := s.Rolloff(fraction); !errors.Is(err, core.ErrInvalidParameter) {
			t.Fatalf("Rolloff(%v) err = %v, want ErrInvalidParameter", fraction, err)
		}
	}
}

func TestAverageRejectsDifferentBinFrequencies(t *testing.T) {
	at8k := makeFrame(0, 1, 2, 3, 4)
	at16k := spectrum.Frame{
		TimeOffset:  0,
		Frequencies: []float64{0, 200, 400, 600},
		Intensities: []float64{1, 2, 3, 4},
	}

	if _, err := Average([]spectrum.Frame{at8k, at16k}); !errors.Is(err, core.ErrInconsistentFrames) {
		t.Fatalf("Average err = %v, want ErrInconsistentFrames", err)
	}

	var a, b Accumulator
	if err := a.Add(at8k); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := b.Add(at16k); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := a.Merge(&b); !errors.Is(err, core.ErrInconsistentFrames) {
		t.Fatalf("Merge err = %v, want ErrInconsistentFrames", err)
	}
	if a.Count() != 1 {
		t.Fatalf("Count after rejected merge = %d, want 1", a.Count())
	}

	// Equal labels in distinct slices are accepted.
	copied := makeFrame(0, 1, 1, 1, 1)
	copied.Frequencies = append([]float64(nil), copied.Frequencies...)
	if err := a.Add(copied); err != nil {
		t.Fatalf("Add(copied labels): %v", err)
	}
}
