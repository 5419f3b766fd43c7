package window

import (
	"errors"
	"fmt"
)

var errMismatchedLength = errors.New("samples and coefficients must have same length")

func validateLength(size int) error {
	if size <= 0 {
		return fmt.Errorf("window size must be > 0: %d", size)
	}
	return nil
}

func validateGauss(size int, sigma float64) error {
	if size <= 0 {
		return validateLength(size)
	}
	if sigma <= 0 {
		return fmt.Errorf("gauss sigma must be > 0: %f", sigma)
	}
	return nil
}

func validateBank(fftSize int, sigma, shortSigma float64) error {
	if fftSize < minBankSize || fftSize&(fftSize-1) != 0 {
		return fmt.Errorf("window bank size must be power-of-two and >= %d: %d", minBankSize, fftSize)
	}
	if sigma <= 0 {
		return fmt.Errorf("window bank sigma must be > 0: %f", sigma)
	}
	if shortSigma <= 0 {
		return fmt.Errorf("window bank short sigma must be > 0: %f", shortSigma)
	}
	if shortSigma > sigma {
		return fmt.Errorf("window bank short sigma must not exceed sigma: %f > %f", shortSigma, sigma)
	}
	return nil
}
