// Package frame splits a sample sequence into fixed-size overlapping frames.
//
// Frames start at offsets 0, step, 2*step, ... where
//
//	step = floor(windowSize * (1 - overlap))
//
// and are emitted while offset+windowSize <= len(samples). Trailing samples
// that cannot fill a whole frame are dropped. Frames are read-only views into
// the caller's slice; no samples are copied.
package frame
