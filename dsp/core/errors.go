package core

import (
	"errors"
	"fmt"
	"math"
)

// Error taxonomy shared by every stage of the analysis pipeline. Stages wrap
// these sentinels with context; classify with errors.Is.
var (
	ErrInvalidParameter   = errors.New("stft: invalid parameter")
	ErrEmptyInput         = errors.New("stft: empty input")
	ErrInconsistentFrames = errors.New("stft: inconsistent frames")
	ErrUnsupportedSize    = errors.New("stft: unsupported transform size")
)

// ValidateSampleRate reports ErrInvalidParameter unless sampleRate > 0.
func ValidateSampleRate(sampleRate int) error {
	if sampleRate <= 0 {
		return fmt.Errorf("sample rate must be > 0: %d: %w", sampleRate, ErrInvalidParameter)
	}
	return nil
}

// ValidateWindowSize reports ErrInvalidParameter unless windowSize > 0.
func ValidateWindowSize(windowSize int) error {
	if windowSize <= 0 {
		return fmt.Errorf("window size must be > 0: %d: %w", windowSize, ErrInvalidParameter)
	}
	return nil
}

// ValidateOverlap reports ErrInvalidParameter unless overlap is in [0, 1).
func ValidateOverlap(overlap float64) error {
	if math.IsNaN(overlap) || overlap < 0 || overlap >= 1 {
		return fmt.Errorf("overlap must be in [0,1): %v: %w", overlap, ErrInvalidParameter)
	}
	return nil
}
