package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"github.com/cwbudde/algo-stft/dsp/core"
	"github.com/cwbudde/algo-stft/dsp/spectrum"
	"github.com/cwbudde/algo-stft/stats/frequency"
)

// dbFloor replaces -Inf for silent bins so dB output stays printable and
// JSON-encodable.
const dbFloor = -240.0

// rolloffFraction is the energy share reported as the roll-off frequency.
const rolloffFraction = 0.85

type printer struct {
	w  io.Writer
	db bool
}

func (p printer) level(v float64) float64 {
	if !p.db {
		return v
	}
	db := core.LinearToDB(v)
	if math.IsNaN(db) {
		return dbFloor
	}
	return math.Max(db, dbFloor)
}

func (p printer) unit() string {
	if p.db {
		return "Intensity [dB]"
	}
	return "Intensity"
}

func (p printer) average(avg frequency.Spectrum) error {
	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintf(tw, "Frequency [Hz]\t%s\n", p.unit()); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(tw, "--------------\t---------\n"); err != nil {
		return err
	}
	for _, b := range avg.Bins() {
		if _, err := fmt.Fprintf(tw, "%.2f\t%.6f\n", b.Frequency, p.level(b.Intensity)); err != nil {
			return err
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	rolloff, err := avg.Rolloff(rolloffFraction)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(p.w, "frames: %d, centroid: %.2f Hz, spread: %.2f Hz, rolloff: %.2f Hz, bandwidth: %.2f Hz, flatness: %.4f\n",
		avg.Frames, avg.Centroid(), avg.Spread(), rolloff, avg.Bandwidth(), avg.Flatness())
	return err
}

func (p printer) peak(pk frequency.PeakBin) error {
	_, err := fmt.Fprintf(p.w, "peak: %.2f Hz, %s %.6f, frame %d at %.3f ms (bin %d)\n",
		pk.Frequency, p.unit(), p.level(pk.Intensity), pk.Frame, pk.TimeOffset, pk.Bin)
	return err
}

func (p printer) frames(frames []spectrum.Frame) error {
	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintf(tw, "Frame\tTime [ms]\tPeak [Hz]\t%s\n", p.unit()); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(tw, "-----\t---------\t---------\t---------\n"); err != nil {
		return err
	}
	for k, f := range frames {
		if f.Len() == 0 {
			continue
		}
		best := 0
		for i, v := range f.Intensities {
			if v > f.Intensities[best] {
				best = i
			}
		}
		if _, err := fmt.Fprintf(tw, "%d\t%.3f\t%.2f\t%.6f\n",
			k, f.TimeOffset, f.Frequencies[best], p.level(f.Intensities[best])); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// jsonFloat encodes NaN and ±Inf as null, which encoding/json rejects.
type jsonFloat float64

func (f jsonFloat) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(v)
}

type jsonBin struct {
	Frequency float64   `json:"frequency"`
	Intensity jsonFloat `json:"intensity"`
}

type jsonFrame struct {
	Time        float64   `json:"time"`
	Frequencies []jsonBin `json:"frequencies"`
}

type jsonReport struct {
	Values       []jsonFrame `json:"values"`
	MaxIntensity jsonFloat   `json:"max_intensity"`
}

func (p printer) json(frames []spectrum.Frame) error {
	report := jsonReport{Values: make([]jsonFrame, len(frames))}
	maxIntensity := 0.0
	if p.db {
		maxIntensity = dbFloor
	}
	for k, f := range frames {
		bins := make([]jsonBin, f.Len())
		for i := range bins {
			v := p.level(f.Intensities[i])
			bins[i] = jsonBin{Frequency: f.Frequencies[i], Intensity: jsonFloat(v)}
			if v > maxIntensity {
				maxIntensity = v
			}
		}
		report.Values[k] = jsonFrame{Time: f.TimeOffset, Frequencies: bins}
	}
	report.MaxIntensity = jsonFloat(maxIntensity)

	enc := json.NewEncoder(p.w)
	return enc.Encode(report)
}
