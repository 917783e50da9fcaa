// Package level summarizes the time-domain level of a sample buffer before
// spectral analysis: DC offset, RMS, peak and crest factor.
package level

import (
	"math"

	"github.com/cwbudde/algo-stft/dsp/core"
)

// Level holds time-domain statistics of a signal. Amplitudes are linear;
// use the dB accessors for dBFS.
type Level struct {
	Samples       int
	DC            float64 // mean
	RMS           float64
	Peak          float64 // max |x|
	PeakPos       int
	CrestFactor   float64 // Peak / RMS, 0 for silence
	ZeroCrossings int
}

// RMSdB returns the RMS level in dBFS, -Inf for silence.
func (l Level) RMSdB() float64 { return core.LinearToDB(l.RMS) }

// PeakdB returns the peak level in dBFS, -Inf for silence.
func (l Level) PeakdB() float64 { return core.LinearToDB(l.Peak) }

// DCdB returns |DC| in dBFS, -Inf when there is no offset.
func (l Level) DCdB() float64 { return core.LinearToDB(math.Abs(l.DC)) }

// Silent reports whether every sample was zero.
func (l Level) Silent() bool { return l.Peak == 0 }

// Meter accumulates a [Level] over consecutive blocks of one signal.
// The zero value is ready to use.
type Meter struct {
	n         int
	mean      float64
	sumSq     float64
	peak      float64
	peakPos   int
	crossings int
	last      float64
}

// Add appends samples to the measured signal.
func (m *Meter) Add(samples []float64) {
	for _, x := range samples {
		if m.n > 0 && m.last*x < 0 {
			m.crossings++
		}
		m.n++
		// Welford mean
		m.mean += (x - m.mean) / float64(m.n)
		m.sumSq += x * x
		if a := math.Abs(x); a > m.peak {
			m.peak = a
			m.peakPos = m.n - 1
		}
		m.last = x
	}
}

// Reset clears the meter.
func (m *Meter) Reset() { *m = Meter{} }

// Level returns the statistics of everything added so far.
func (m *Meter) Level() Level {
	if m.n == 0 {
		return Level{}
	}
	rms := math.Sqrt(m.sumSq / float64(m.n))
	var crest float64
	if rms > 0 {
		crest = m.peak / rms
	}
	return Level{
		Samples:       m.n,
		DC:            m.mean,
		RMS:           rms,
		Peak:          m.peak,
		PeakPos:       m.peakPos,
		CrestFactor:   crest,
		ZeroCrossings: m.crossings,
	}
}

// Measure returns the level of samples.
func Measure(samples []float64) Level {
	var m Meter
	m.Add(samples)
	return m.Level()
}
