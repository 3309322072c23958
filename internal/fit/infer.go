package fit

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/wildstyl3r/ntof/internal/analysis"
	"github.com/wildstyl3r/ntof/internal/config"
	"github.com/wildstyl3r/ntof/internal/kinematics"
	"github.com/wildstyl3r/ntof/internal/spectrum"
)

// MonteCarloWidth returns the FWHM [keV] of the spectrum src computes with both
// reactants at temperature T. Every call reuses the seed of p.
func MonteCarloWidth(src analysis.Source, p config.RunParameters) func(float64) (float64, error) {
	return func(temperature float64) (float64, error) {
		s, err := analysis.Sample(src, temperature, temperature, p)
		if err != nil {
			return 0, err
		}
		w, err := spectrum.Estimate(s)
		if err != nil {
			return 0, err
		}
		return w.FWHM, nil
	}
}

// Infer searches the temperature at which src produces a spectrum of the given
// FWHM. The Brysk estimate of the reaction seeds the search and bounds it
// within a factor of four.
func Infer(src analysis.Source, r kinematics.Reaction, p config.RunParameters, fwhm float64, logger zerolog.Logger) (float64, error) {
	initial := r.Temperature(fwhm)
	if !(initial > 0) {
		return 0, fmt.Errorf("%w: FWHM %v keV", ErrInvalidBounds, fwhm)
	}
	o := Options{
		Lower:     initial / 4,
		Upper:     initial * 4,
		Initial:   initial,
		Slope:     fwhm / (2 * initial), // d(omega sqrt(T))/dT at the initial guess
		Precision: 0.01 * initial,
		MinSteps:  20,
		MaxSteps:  400,
		Seed:      p.Seed,
	}
	return Temperature(MonteCarloWidth(src, p), fwhm, o, logger)
}
