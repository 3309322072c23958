// Package analysis turns run parameters into a neutron spectrum, its time of
// flight image and their widths.
package analysis

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/wildstyl3r/ntof/internal/config"
	"github.com/wildstyl3r/ntof/internal/detector"
	"github.com/wildstyl3r/ntof/internal/kinematics"
	"github.com/wildstyl3r/ntof/internal/spectrum"
	"github.com/wildstyl3r/ntof/internal/utils"
)

var ErrNoSource = errors.New("no spectrum source")

// Source samples reactant velocities and computes the emitted spectrum.
// kinematics.Calculator is the Monte Carlo implementation.
type Source interface {
	Reactants() (a, b kinematics.Particle)
	SampleVelocities(p kinematics.Particle, temperature float64, n int, seed uint64) ([]r3.Vec, error)
	ComputeSpectrum(va, vb []r3.Vec, direction r3.Vec, binWidth float64) (spectrum.Spectrum, error)
}

type Result struct {
	Name     string
	Spectrum spectrum.Spectrum
	ToF      spectrum.ToF
	Density  []float64 // spectrum per unit time, aligned with ToF
	Width    spectrum.Width
	ToFWidth spectrum.Width
	Counts   *detector.Histogram
}

// Sample draws both reactant populations at the given temperatures and
// computes the spectrum along the run direction. Parameters are validated
// before src is called.
func Sample(src Source, temperatureA, temperatureB float64, p config.RunParameters) (spectrum.Spectrum, error) {
	sampled := p
	sampled.SpectrumFile = ""
	sampled.TemperatureA, sampled.TemperatureB = temperatureA, temperatureB
	if err := sampled.Validate(); err != nil {
		return spectrum.Spectrum{}, err
	}
	if src == nil {
		return spectrum.Spectrum{}, ErrNoSource
	}

	a, b := src.Reactants()
	va, err := src.SampleVelocities(a, temperatureA, p.Samples, p.Seed)
	if err != nil {
		return spectrum.Spectrum{}, fmt.Errorf("sampling %s: %w", a.Name, err)
	}
	vb, err := src.SampleVelocities(b, temperatureB, p.Samples, p.Seed+1)
	if err != nil {
		return spectrum.Spectrum{}, fmt.Errorf("sampling %s: %w", b.Name, err)
	}
	return src.ComputeSpectrum(va, vb, p.DirectionVec(), p.BinWidth)
}

// Load reads a two-column (energy [keV], weight) spectrum file.
func Load(filename string) (spectrum.Spectrum, error) {
	pairs, err := utils.ReadFloatPairs(filename)
	if err != nil {
		return spectrum.Spectrum{}, err
	}
	return spectrum.FromPairs(pairs)
}

// Analyze converts s to time of flight and estimates both widths.
func Analyze(name string, s spectrum.Spectrum, p config.RunParameters) (Result, error) {
	res := Result{Name: name, Spectrum: s}

	flight, err := spectrum.NewFlight(p.Distance, p.ParticleMass)
	if err != nil {
		return res, err
	}
	if res.ToF, err = flight.Convert(s); err != nil {
		return res, fmt.Errorf("time of flight: %w", err)
	}
	if res.Density, err = flight.TimeDensity(s); err != nil {
		return res, fmt.Errorf("time density: %w", err)
	}
	if res.Width, err = spectrum.Estimate(s); err != nil {
		return res, fmt.Errorf("energy width: %w", err)
	}
	if res.ToFWidth, err = spectrum.EstimateToF(res.ToF); err != nil {
		return res, fmt.Errorf("time of flight width: %w", err)
	}
	if p.DetectorEvents > 0 {
		h, err := detector.Simulate(res.ToF, p.DetectorEvents, p.Seed)
		if err != nil {
			return res, fmt.Errorf("detector counts: %w", err)
		}
		res.Counts = &h
	}
	return res, nil
}

// Run produces the spectrum of a run, from its file or from src, and analyzes it.
func Run(name string, src Source, p config.RunParameters) (Result, error) {
	if err := p.Validate(); err != nil {
		return Result{Name: name}, err
	}
	var s spectrum.Spectrum
	var err error
	if p.SpectrumFile != "" {
		s, err = Load(p.SpectrumFile)
	} else {
		s, err = Sample(src, p.TemperatureA, p.TemperatureB, p)
	}
	if err != nil {
		return Result{Name: name}, err
	}
	return Analyze(name, s, p)
}
