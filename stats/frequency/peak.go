package frequency

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-stft/dsp/core"
	"github.com/cwbudde/algo-stft/dsp/spectrum"
)

// PeakBin is the strongest bin over a set of frames.
type PeakBin struct {
	Frequency  float64 // Hz
	Intensity  float64
	TimeOffset float64 // milliseconds, of the frame holding the peak
	Frame      int     // index of that frame
	Bin        int     // bin index within the frame
}

// better reports whether c beats cur: higher intensity, then lower
// frequency, then earlier time offset, then lower frame index.
func better(c, cur PeakBin) bool {
	if math.IsNaN(c.Intensity) {
		return false
	}
	if math.IsNaN(cur.Intensity) || c.Intensity > cur.Intensity {
		return true
	}
	if c.Intensity < cur.Intensity {
		return false
	}
	if c.Frequency != cur.Frequency {
		return c.Frequency < cur.Frequency
	}
	if c.TimeOffset != cur.TimeOffset {
		return c.TimeOffset < cur.TimeOffset
	}
	return c.Frame < cur.Frame
}

// PeakTracker keeps the running maximum over frames. The zero value is ready
// to use. Not safe for concurrent use; combine per-worker trackers with
// [PeakTracker.Merge].
type PeakTracker struct {
	best   PeakBin
	found  bool
	bins   int
	frames int
}

// Add considers every bin of f, which is frame number index of the run.
func (p *PeakTracker) Add(index int, f spectrum.Frame) error {
	if len(f.Frequencies) != len(f.Intensities) {
		return fmt.Errorf("frequency: frame has %d labels for %d bins: %w",
			len(f.Frequencies), len(f.Intensities), core.ErrInconsistentFrames)
	}
	if p.frames > 0 && f.Len() != p.bins {
		return fmt.Errorf("frequency: frame has %d bins, expected %d: %w",
			f.Len(), p.bins, core.ErrInconsistentFrames)
	}
	p.bins = f.Len()
	p.frames++

	for i, v := range f.Intensities {
		c := PeakBin{
			Frequency:  f.Frequencies[i],
			Intensity:  v,
			TimeOffset: f.TimeOffset,
			Frame:      index,
			Bin:        i,
		}
		if !p.found || better(c, p.best) {
			p.best = c
			p.found = true
		}
	}
	return nil
}

// Merge folds other into p.
func (p *PeakTracker) Merge(other *PeakTracker) error {
	if other == nil || other.frames == 0 {
		return nil
	}
	if p.frames > 0 && other.bins != p.bins {
		return fmt.Errorf("frequency: merging %d bins into %d: %w",
			other.bins, p.bins, core.ErrInconsistentFrames)
	}
	p.bins = other.bins
	p.frames += other.frames

	if other.found && (!p.found || better(other.best, p.best)) {
		p.best = other.best
		p.found = true
	}
	return nil
}

// Result returns the peak, or [core.ErrEmptyInput] when no bin was seen.
func (p *PeakTracker) Result() (PeakBin, error) {
	if !p.found {
		return PeakBin{}, fmt.Errorf("frequency: no bins to take a peak from: %w", core.ErrEmptyInput)
	}
	return p.best, nil
}

// Peak returns the strongest (frequency, intensity) over all frames and bins.
// Ties go to the lowest frequency, then the earliest frame.
//
// It fails with [core.ErrEmptyInput] for no frames (or frames without bins)
// and [core.ErrInconsistentFrames] when bin counts differ.
func Peak(frames []spectrum.Frame) (PeakBin, error) {
	var p PeakTracker
	for i, f := range frames {
		if err := p.Add(i, f); err != nil {
			return PeakBin{}, fmt.Errorf("frame %d: %w", i, err)
		}
	}
	return p.Result()
}
