package frequency

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-stft/dsp/core"
	"github.com/cwbudde/algo-stft/dsp/spectrum"
)

func TestPeak(t *testing.T) {
	frames := []spectrum.Frame{
		makeFrame(0, 1, 2, 3, 4),
		makeFrame(10, 3, 9, 1, 0),
		makeFrame(20, 2, 2, 2, 8),
	}

	p, err := Peak(frames)
	if err != nil {
		t.Fatalf("Peak error: %v", err)
	}
	if p.Frequency != 100 || p.Intensity != 9 || p.Frame != 1 || p.Bin != 1 || p.TimeOffset != 10 {
		t.Fatalf("Peak() = %+v", p)
	}
}

func TestPeakTieBreaking(t *testing.T) {
	tests := []struct {
		name      string
		frames    []spectrum.Frame
		wantFreq  float64
		wantFrame int
	}{
		{
			name: "lowest frequency wins across frames",
			frames: []spectrum.Frame{
				makeFrame(0, 0, 0, 5, 0),
				makeFrame(10, 0, 5, 0, 0),
			},
			wantFreq:  100,
			wantFrame: 1,
		},
		{
			name: "earliest frame wins at same frequency",
			frames: []spectrum.Frame{
				makeFrame(0, 0, 0, 5, 0),
				makeFrame(10, 0, 0, 5, 0),
			},
			wantFreq:  200,
			wantFrame: 0,
		},
		{
			name: "lowest frequency within a frame",
			frames: []spectrum.Frame{
				makeFrame(0, 7, 0, 0, 7),
			},
			wantFreq:  0,
			wantFrame: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Peak(tt.frames)
			if err != nil {
				t.Fatalf("Peak error: %v", err)
			}
			if p.Frequency != tt.wantFreq || p.Frame != tt.wantFrame {
				t.Fatalf("Peak() = %+v, want freq=%v frame=%d", p, tt.wantFreq, tt.wantFrame)
			}
		})
	}
}

func TestPeakIgnoresNaN(t *testing.T) {
	p, err := Peak([]spectrum.Frame{makeFrame(0, math.NaN(), 1, math.NaN())})
	if err != nil {
		t.Fatalf("Peak error: %v", err)
	}
	if p.Frequency != 100 || p.Intensity != 1 {
		t.Fatalf("Peak() = %+v", p)
	}
}

func TestPeakErrors(t *testing.T) {
	if _, err := Peak(nil); !errors.Is(err, core.ErrEmptyInput) {
		t.Fatalf("Peak(nil) err = %v, want ErrEmptyInput", err)
	}

	if _, err := Peak([]spectrum.Frame{makeFrame(0), makeFrame(1)}); !errors.Is(err, core.ErrEmptyInput) {
		t.Fatalf("Peak(no bins) err = %v, want ErrEmptyInput", err)
	}

	mixed := []spectrum.Frame{makeFrame(0, 1, 2), makeFrame(1, 1, 2, 3)}
	if _, err := Peak(mixed); !errors.Is(err, core.ErrInconsistentFrames) {
		t.Fatalf("Peak(mixed) err = %v, want ErrInconsistentFrames", err)
	}
}

func TestPeakTrackerMergeMatchesSequential(t *testing.T) {
	frames := []spectrum.Frame{
		makeFrame(0, 0, 0, 5, 0),
		makeFrame(10, 0, 5, 0, 0),
		makeFrame(20, 0, 5, 0, 0),
		makeFrame(30, 1, 1, 1, 1),
	}

	want, err := Peak(frames)
	if err != nil {
		t.Fatalf("Peak error: %v", err)
	}

	// Workers see interleaved frames; merge order must not matter.
	var even, odd PeakTracker
	for i, f := range frames {
		tr := &even
		if i%2 == 1 {
			tr = &odd
		}
		if err := tr.Add(i, f); err != nil {
			t.Fatal(err)
		}
	}

	for _, order := range [][]*PeakTracker{{&even, &odd}, {&odd, &even}} {
		var total PeakTracker
		for _, tr := range order {
			if err := total.Merge(tr); err != nil {
				t.Fatalf("Merge error: %v", err)
			}
		}
		got, err := total.Result()
		if err != nil {
			t.Fatalf("Result error: %v", err)
		}
		if got != want {
			t.Fatalf("merged peak %+v, want %+v", got, want)
		}
	}
}
