// Package frequency reduces sequences of spectral frames to summaries: the
// per-bin average spectrum and the single strongest bin.
//
// Both reductions are available as one-shot functions ([Average], [Peak]) and
// as mergeable accumulators ([Accumulator], [PeakTracker]) so that parallel
// workers can reduce their share of frames independently and combine the
// partial results at the end.
package frequency
