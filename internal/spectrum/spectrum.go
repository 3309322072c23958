// Package spectrum holds binned energy spectra, their time-of-flight image and
// the Gaussian width estimate used to relate spectra to reactant temperature.
package spectrum

import (
	"fmt"
	"math"
	"sort"

	"github.com/wildstyl3r/ntof/internal/utils"
)

// Spectrum is a histogram of bin-center energies [keV] and relative weights,
// sorted by ascending energy.
type Spectrum struct {
	Energy []float64 // [keV]
	Weight []float64 // arbitrary units
}

// New copies energy and weight into a Spectrum sorted by energy.
func New(energy, weight []float64) (Spectrum, error) {
	if len(energy) != len(weight) {
		return Spectrum{}, fmt.Errorf("%w: %d energies, %d weights", ErrLengthMismatch, len(energy), len(weight))
	}
	s := Spectrum{
		Energy: make([]float64, len(energy)),
		Weight: make([]float64, len(weight)),
	}
	copy(s.Energy, energy)
	copy(s.Weight, weight)
	for i := range s.Energy {
		if math.IsNaN(s.Energy[i]) || math.IsInf(s.Energy[i], 0) || s.Energy[i] < 0 {
			return Spectrum{}, fmt.Errorf("bin %d: %w: %v", i, ErrInvalidEnergy, s.Energy[i])
		}
		if math.IsNaN(s.Weight[i]) || math.IsInf(s.Weight[i], 0) || s.Weight[i] < 0 {
			return Spectrum{}, fmt.Errorf("bin %d: %w: %v", i, ErrInvalidWeight, s.Weight[i])
		}
	}
	if !sort.Float64sAreSorted(s.Energy) {
		sort.Stable(byEnergy(s))
	}
	return s, nil
}

// FromPairs builds a Spectrum from (energy, weight) rows as read by utils.ReadFloatPairs.
func FromPairs(pairs [][]float64) (Spectrum, error) {
	energy := make([]float64, len(pairs))
	weight := make([]float64, len(pairs))
	for i := range pairs {
		energy[i], weight[i] = pairs[i][0], pairs[i][1]
	}
	return New(energy, weight)
}

type byEnergy Spectrum

func (s byEnergy) Len() int           { return len(s.Energy) }
func (s byEnergy) Less(i, j int) bool { return s.Energy[i] < s.Energy[j] }
func (s byEnergy) Swap(i, j int) {
	s.Energy[i], s.Energy[j] = s.Energy[j], s.Energy[i]
	s.Weight[i], s.Weight[j] = s.Weight[j], s.Weight[i]
}

func (s Spectrum) Len() int {
	return len(s.Energy)
}

func (s Spectrum) TotalWeight() float64 {
	return utils.SumSlice(s.Weight)
}

// Peak returns the energy and weight of the heaviest bin.
func (s Spectrum) Peak() (energy, weight float64) {
	if s.Len() == 0 {
		return 0, 0
	}
	i := utils.Argmax(s.Weight)
	return s.Energy[i], s.Weight[i]
}

// NonZero returns a copy without bins at zero energy, which have no time of flight.
func (s Spectrum) NonZero() Spectrum {
	var out Spectrum
	for i := range s.Energy {
		if s.Energy[i] > 0 {
			out.Energy = append(out.Energy, s.Energy[i])
			out.Weight = append(out.Weight, s.Weight[i])
		}
	}
	return out
}
