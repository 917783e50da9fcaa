// Package stft runs the short-time Fourier analysis pipeline over a sample
// buffer:
//
//	samples -> frames -> (DC removal + taper -> FFT -> magnitudes) per frame
//	        -> ordered spectral frames -> average spectrum / peak
//
// Per-frame work depends only on the frame itself, so an [Analyzer] fans it
// out over a bounded pool of workers. Each worker owns its FFT transformer and
// scratch buffers. Results land in a slice indexed by frame number, which
// keeps output order without locking. Averages and peaks can also be reduced
// per worker and merged, without keeping the frames at all.
//
// Configuration is validated once in [New]; an Analyzer is immutable and safe
// for concurrent use.
package stft
