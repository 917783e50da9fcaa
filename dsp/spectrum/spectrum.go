package spectrum

import (
	"fmt"
	"sync"
	"time"

	"github.com/cwbudde/algo-stft/dsp/core"
	"github.com/cwbudde/algo-vecmath"
)

// scratchBuf holds pooled scratch memory for complex-to-real unpacking.
type scratchBuf struct {
	data []float64
}

var scratchPool = sync.Pool{
	New: func() any { return &scratchBuf{} },
}

func getScratch(n int) (re, im []float64, buf *scratchBuf) {
	buf = scratchPool.Get().(*scratchBuf)
	need := 2 * n
	if cap(buf.data) < need {
		buf.data = make([]float64, need)
	} else {
		buf.data = buf.data[:need]
	}
	return buf.data[:n], buf.data[n:need], buf
}

func putScratch(buf *scratchBuf) {
	scratchPool.Put(buf)
}

// Bin is one labeled point of a magnitude spectrum.
type Bin struct {
	Frequency float64 // Hz
	Intensity float64
}

// Frame is the magnitude spectrum of one analysis window.
//
// Frequencies is ascending and, for frames produced by one [Extractor], the
// same backing slice for every frame. Frames are immutable once produced;
// callers must not write to either slice.
type Frame struct {
	TimeOffset  float64 // milliseconds from the start of the buffer
	Frequencies []float64
	Intensities []float64
}

// Len returns the number of bins.
func (f Frame) Len() int { return len(f.Intensities) }

// Bin returns bin i.
func (f Frame) Bin(i int) Bin {
	return Bin{Frequency: f.Frequencies[i], Intensity: f.Intensities[i]}
}

// Bins returns the frame as (frequency, intensity) pairs.
func (f Frame) Bins() []Bin {
	out := make([]Bin, f.Len())
	for i := range out {
		out[i] = f.Bin(i)
	}
	return out
}

// Offset returns TimeOffset as a duration.
func (f Frame) Offset() time.Duration {
	return time.Duration(f.TimeOffset * float64(time.Millisecond))
}

// Magnitude returns |X[k]| for each complex spectrum bin.
//
// This function uses SIMD-optimized implementations when available (AVX2, SSE2, NEON).
// Scratch buffers are pooled internally, so in steady state this allocates
// only the output slice.
func Magnitude(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}
	out := make([]float64, len(in))
	magnitudeInto(out, in)
	return out
}

func magnitudeInto(dst []float64, in []complex128) {
	re, im, buf := getScratch(len(in))
	for i, c := range in {
		re[i] = real(c)
		im[i] = imag(c)
	}
	vecmath.Magnitude(dst, re, im)
	putScratch(buf)
}

// BinFrequency returns the label of bin i: i * sampleRate / windowSize.
func BinFrequency(i, sampleRate, windowSize int) float64 {
	return float64(i) * float64(sampleRate) / float64(windowSize)
}

// BinFrequencies returns the labels of the windowSize/2 retained bins.
func BinFrequencies(sampleRate, windowSize int) []float64 {
	out := make([]float64, windowSize/2)
	for i := range out {
		out[i] = BinFrequency(i, sampleRate, windowSize)
	}
	return out
}

// Option configures an [Extractor].
type Option func(*config)

type config struct {
	normalize bool
}

// WithNormalization divides every intensity by the window size.
func WithNormalization() Option {
	return func(c *config) {
		c.normalize = true
	}
}

// Extractor converts spectra of one run into frames with identical labels.
// It is immutable after construction and safe for concurrent use.
type Extractor struct {
	sampleRate  int
	windowSize  int
	normalize   bool
	frequencies []float64
}

// NewExtractor validates the run parameters and precomputes bin labels.
func NewExtractor(sampleRate, windowSize int, opts ...Option) (*Extractor, error) {
	if err := core.ValidateSampleRate(sampleRate); err != nil {
		return nil, err
	}
	if err := core.ValidateWindowSize(windowSize); err != nil {
		return nil, err
	}

	var cfg config
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return &Extractor{
		sampleRate:  sampleRate,
		windowSize:  windowSize,
		normalize:   cfg.normalize,
		frequencies: BinFrequencies(sampleRate, windowSize),
	}, nil
}

// Bins returns the number of bins per frame (windowSize/2).
func (e *Extractor) Bins() int { return len(e.frequencies) }

// SampleRate returns the sample rate used for labeling.
func (e *Extractor) SampleRate() int { return e.sampleRate }

// WindowSize returns the transform length.
func (e *Extractor) WindowSize() int { return e.windowSize }

// Normalized reports whether intensities are divided by the window size.
func (e *Extractor) Normalized() bool { return e.normalize }

// Frequencies returns a copy of the bin labels.
func (e *Extractor) Frequencies() []float64 {
	return append([]float64(nil), e.frequencies...)
}

// Extract builds the frame for spectrum starting at timeOffset milliseconds.
// spectrum must hold exactly windowSize bins.
func (e *Extractor) Extract(spectrum []complex128, timeOffset float64) (Frame, error) {
	if len(spectrum) != e.windowSize {
		return Frame{}, fmt.Errorf("spectrum: %d bins for window size %d: %w",
			len(spectrum), e.windowSize, core.ErrInvalidParameter)
	}

	intensities := make([]float64, len(e.frequencies))
	if len(intensities) > 0 {
		magnitudeInto(intensities, spectrum[:len(intensities)])
		if e.normalize {
			vecmath.ScaleBlock(intensities, intensities, 1/float64(e.windowSize))
		}
	}

	return Frame{
		TimeOffset:  timeOffset,
		Frequencies: e.frequencies,
		Intensities: intensities,
	}, nil
}

// Extract is a one-shot [Extractor.Extract].
func Extract(spectrum []complex128, sampleRate, windowSize int, timeOffset float64, opts ...Option) (Frame, error) {
	e, err := NewExtractor(sampleRate, windowSize, opts...)
	if err != nil {
		return Frame{}, err
	}
	return e.Extract(spectrum, timeOffset)
}
