package spectrum

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/wildstyl3r/ntof/internal/constants"
)

// Width is the weighted mean, population standard deviation and the
// Gaussian-equivalent full width at half maximum of a binned distribution.
//
// The FWHM is only meaningful for a single, roughly symmetric peak. Nothing
// checks that; a multi-modal spectrum yields a number with no physical width.
type Width struct {
	Mean   float64
	StdDev float64
	FWHM   float64
}

// Estimate computes the width of an energy spectrum, in keV.
func Estimate(s Spectrum) (Width, error) {
	return moments(s.Energy, s.Weight, ErrInvalidEnergy)
}

// EstimateToF computes the width of a time-of-flight series, in ns.
func EstimateToF(t ToF) (Width, error) {
	return moments(t.Time, t.Weight, ErrInvalidTime)
}

// moments reports a non-finite value of x with errInvalidX.
func moments(x, weights []float64, errInvalidX error) (Width, error) {
	if len(x) != len(weights) {
		return Width{}, fmt.Errorf("%w: %d values, %d weights", ErrLengthMismatch, len(x), len(weights))
	}
	if len(x) == 0 {
		return Width{}, ErrEmptySpectrum
	}
	for i := range x {
		if math.IsNaN(x[i]) || math.IsInf(x[i], 0) {
			return Width{}, fmt.Errorf("%w: bin %d: %v", errInvalidX, i, x[i])
		}
		if !(weights[i] >= 0) || math.IsInf(weights[i], 0) {
			return Width{}, fmt.Errorf("%w: bin %d: %v", ErrInvalidWeight, i, weights[i])
		}
	}
	total := floats.Sum(weights)
	if math.IsInf(total, 0) {
		return Width{}, fmt.Errorf("%w: total weight overflows", ErrInvalidWeight)
	}
	if !(total > 0) {
		return Width{}, ErrZeroTotalWeight
	}
	mean, variance := stat.PopMeanVariance(x, weights)
	std := math.Sqrt(variance)
	return Width{
		Mean:   mean,
		StdDev: std,
		FWHM:   constants.GaussianFWHM * std,
	}, nil
}
