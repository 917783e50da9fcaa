package window

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-stft/dsp/core"
)

var (
	errEmptyCoeffs      = errors.New("window coefficients must not be empty")
	errZeroCoherentGain = errors.New("window coherent gain is zero")
	errMismatchedLength = fmt.Errorf("samples and coefficients must have same length: %w", core.ErrInvalidParameter)
	errUnknownType      = fmt.Errorf("unknown window type: %w", core.ErrInvalidParameter)
)

func validateLength(size int) error {
	if size <= 0 {
		return fmt.Errorf("window size must be > 0: %d: %w", size, core.ErrInvalidParameter)
	}
	return nil
}
