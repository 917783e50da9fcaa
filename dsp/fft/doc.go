// Package fft defines the FrequencyTransform contract used by the analysis
// pipeline and adapts external FFT implementations to it.
//
// A [Backend] creates [Transformer] values for a fixed length N. A
// Transformer maps N real samples to the full N-bin complex spectrum and may
// hold scratch memory, so it is not safe for concurrent use. [Cache] keeps
// idle transformers per length so that execution plans are built once and
// reused across frames and runs.
//
// Three backends are provided:
//
//   - [AlgoFFT]: planned complex FFT from algo-fft (default)
//   - [Gonum]: real FFT from gonum's dsp/fourier, mirrored to N bins
//   - [GoDSP]: mjibson/go-dsp FFTReal
//
// No backend pads or truncates input. A length the implementation cannot
// plan fails with [core.ErrUnsupportedSize].
package fft
