package spectrum

import (
	"fmt"
	"math"

	"github.com/wildstyl3r/ntof/internal/utils"
)

// Flight converts kinetic energies of a particle of given rest mass into
// classical (non-relativistic) flight times over a fixed distance.
type Flight struct {
	Distance float64 // [m]
	Mass     float64 // [kg]
}

// ToF is a time-of-flight series index-aligned with the Spectrum it was converted from.
type ToF struct {
	Time   []float64 // [ns]
	Weight []float64
}

func NewFlight(distance, mass float64) (Flight, error) {
	if !(distance > 0) || math.IsInf(distance, 0) {
		return Flight{}, fmt.Errorf("%w: %v m", ErrInvalidDistance, distance)
	}
	if !(mass > 0) || math.IsInf(mass, 0) {
		return Flight{}, fmt.Errorf("%w: %v kg", ErrInvalidMass, mass)
	}
	return Flight{Distance: distance, Mass: mass}, nil
}

// TimeOfFlight returns L / sqrt(2E/m) in nanoseconds for energy in keV.
func (f Flight) TimeOfFlight(energy float64) (float64, error) {
	if energy == 0 {
		return 0, ErrZeroEnergy
	}
	if math.IsNaN(energy) || math.IsInf(energy, 0) || energy < 0 {
		return 0, fmt.Errorf("%w: %v keV", ErrInvalidEnergy, energy)
	}
	velocity := math.Sqrt(2 * utils.KeV2J(energy) / f.Mass)
	return f.Distance / velocity * 1e9, nil
}

// Energy is the inverse of TimeOfFlight: keV for a flight time in nanoseconds.
func (f Flight) Energy(tof float64) (float64, error) {
	if math.IsNaN(tof) || math.IsInf(tof, 0) || !(tof > 0) {
		return 0, fmt.Errorf("%w: %v ns", ErrInvalidTime, tof)
	}
	velocity := f.Distance / (tof * 1e-9)
	return utils.J2keV(0.5 * f.Mass * velocity * velocity), nil
}

func (f Flight) Convert(s Spectrum) (ToF, error) {
	t := ToF{
		Time:   make([]float64, s.Len()),
		Weight: make([]float64, s.Len()),
	}
	copy(t.Weight, s.Weight)
	for i := range s.Energy {
		var err error
		if t.Time[i], err = f.TimeOfFlight(s.Energy[i]); err != nil {
			return ToF{}, fmt.Errorf("bin %d: %w", i, err)
		}
	}
	return t, nil
}

// Invert maps a ToF series back onto energies. Bins are reordered by ascending energy.
func (f Flight) Invert(t ToF) (Spectrum, error) {
	if len(t.Time) != len(t.Weight) {
		return Spectrum{}, fmt.Errorf("%w: %d times, %d weights", ErrLengthMismatch, len(t.Time), len(t.Weight))
	}
	energy := make([]float64, len(t.Time))
	for i := range t.Time {
		var err error
		if energy[i], err = f.Energy(t.Time[i]); err != nil {
			return Spectrum{}, fmt.Errorf("bin %d: %w", i, err)
		}
	}
	return New(energy, t.Weight)
}

// TimeDensity returns the spectrum intensity per unit time, w |dE/dt| = w 2E/t.
func (f Flight) TimeDensity(s Spectrum) ([]float64, error) {
	t, err := f.Convert(s)
	if err != nil {
		return nil, err
	}
	density := make([]float64, s.Len())
	for i := range density {
		density[i] = s.Weight[i] * 2 * s.Energy[i] / t.Time[i]
	}
	return density, nil
}

func (t ToF) Len() int {
	return len(t.Time)
}
