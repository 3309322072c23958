// Package sweep runs the spectrum analysis over a list of ion temperatures
// and calibrates the spectral width against temperature.
package sweep

import (
	"fmt"
	"math"
	"runtime"
	"sync"

	"github.com/rs/zerolog"

	"github.com/wildstyl3r/ntof/internal/analysis"
	"github.com/wildstyl3r/ntof/internal/config"
	"github.com/wildstyl3r/ntof/internal/kinematics"
	"github.com/wildstyl3r/ntof/internal/spectrum"
)

type Point struct {
	Temperature float64 // [keV]
	Width       spectrum.Width
}

// Run computes the width at every temperature, both reactants at the same
// temperature. Points are returned in the order of temperatures. All points
// share the seed of p, so neighbouring points see the same random numbers.
func Run(src analysis.Source, p config.RunParameters, temperatures []float64, logger zerolog.Logger) ([]Point, error) {
	for _, t := range temperatures {
		if !(t > 0) || math.IsInf(t, 0) {
			return nil, fmt.Errorf("%w: sweep point %v keV", kinematics.ErrInvalidTemperature, t)
		}
	}
	if len(temperatures) > 0 {
		checked := p
		checked.SpectrumFile = ""
		checked.TemperatureA, checked.TemperatureB = temperatures[0], temperatures[0]
		if err := checked.Validate(); err != nil {
			return nil, err
		}
	}

	points := make([]Point, len(temperatures))
	errs := make([]error, len(temperatures))

	threads := p.Threads()
	if threads <= 0 {
		threads = runtime.NumCPU()
	}

	var wg sync.WaitGroup
	jobs := make(chan int)
	for range min(threads, len(temperatures)) {
		wg.Add(1)
		//worker
		go func() {
			defer wg.Done()
			for i := range jobs {
				points[i].Temperature = temperatures[i]
				s, err := analysis.Sample(src, temperatures[i], temperatures[i], p)
				if err == nil {
					points[i].Width, err = spectrum.Estimate(s)
				}
				if err != nil {
					errs[i] = fmt.Errorf("T = %v keV: %w", temperatures[i], err)
					continue
				}
				logger.Debug().
					Float64("temperature", temperatures[i]).
					Float64("mean", points[i].Width.Mean).
					Float64("fwhm", points[i].Width.FWHM).
					Msg("sweep point done")
			}
		}()
	}
	for i := range temperatures {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	for i := range errs {
		if errs[i] != nil {
			return nil, errs[i]
		}
	}
	return points, nil
}
