// Package spectrum turns complex transform output into labeled magnitude
// frames.
//
// The package does not implement the FFT itself. It consumes the N-bin
// spectrum of a real frame, keeps the lower N/2 bins (the upper half mirrors
// the lower for real input), and labels bin i with i*sampleRate/N Hz.
package spectrum
