// Package fit infers the ion temperature from a measured spectral width when
// the width is only known through a noisy Monte Carlo estimate.
package fit

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat"

	"github.com/wildstyl3r/ntof/internal/constants"
)

var (
	ErrNotConverged  = errors.New("stochastic approximation did not converge")
	ErrInvalidBounds = errors.New("invalid search bounds")
)

type Options struct {
	Lower, Upper float64 // [keV]
	Initial      float64 // [keV]
	// Slope approximates dFWHM/dT near the root, the step gain is its inverse.
	Slope     float64
	Precision float64 // [keV], width of the 95% interval of the last MinSteps iterates
	MinSteps  int
	MaxSteps  int
	Seed      uint64
}

// Temperature solves width(T) = target with Robbins-Monro iterations
// T_{i+1} = T_i - (width(T_i) - target) / (Slope (i+1)).
// An iterate leaving [Lower, Upper] is replaced by a uniform draw inside it.
// The result is the mean of the last MinSteps iterates.
func Temperature(width func(float64) (float64, error), target float64, o Options, logger zerolog.Logger) (float64, error) {
	if !(o.Lower < o.Upper) || o.Initial < o.Lower || o.Upper < o.Initial {
		return 0, fmt.Errorf("%w: %v <= %v <= %v", ErrInvalidBounds, o.Lower, o.Initial, o.Upper)
	}
	if o.Slope == 0 || o.MinSteps < 2 || o.MaxSteps < o.MinSteps || !(o.Precision > 0) {
		return 0, fmt.Errorf("%w: slope %v, steps %d..%d, precision %v", ErrInvalidBounds, o.Slope, o.MinSteps, o.MaxSteps, o.Precision)
	}
	rng := rand.New(rand.NewPCG(o.Seed, o.Seed^0x9e3779b97f4a7c15))
	gain := 1 / o.Slope
	logger.Debug().Float64("gain", gain).Msg("stochastic approximation started")

	thetas := make([]float64, 0, o.MinSteps)
	theta := o.Initial
	confidenceInterval := math.Inf(1)
	for i := 0; i < o.MaxSteps; i++ {
		w, err := width(theta)
		if err != nil {
			return 0, fmt.Errorf("step %d, T = %v keV: %w", i, theta, err)
		}
		thetas = append(thetas, theta)
		if len(thetas) >= o.MinSteps {
			window := thetas[len(thetas)-o.MinSteps:]
			confidenceInterval = 2 * constants.Quantile95 * math.Sqrt(stat.Variance(window, nil)/float64(o.MinSteps))
			if confidenceInterval < o.Precision {
				t := stat.Mean(window, nil)
				logger.Debug().Int("steps", i+1).Float64("temperature", t).Msg("stochastic approximation converged")
				return t, nil
			}
		}

		theta -= (w - target) * gain / float64(i+1)
		if theta < o.Lower || o.Upper < theta {
			theta = o.Lower + rng.Float64()*(o.Upper-o.Lower)
			logger.Debug().Int("step", i).Float64("theta", theta).Msg("iterate left bounds, redrawn")
		}
	}
	return 0, fmt.Errorf("%w after %d steps, interval %v keV", ErrNotConverged, o.MaxSteps, confidenceInterval)
}
