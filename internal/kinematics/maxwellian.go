package kinematics

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/wildstyl3r/ntof/internal/utils"
)

var ErrInvalidTemperature = errors.New("temperature must be positive")

// Maxwellian is an isotropic thermal velocity distribution.
type Maxwellian struct {
	Temperature float64 // [keV]
	Particle    Particle
}

func NewMaxwellian(temperature float64, p Particle) (Maxwellian, error) {
	if !(temperature > 0) || math.IsInf(temperature, 0) {
		return Maxwellian{}, fmt.Errorf("%w: %v keV", ErrInvalidTemperature, temperature)
	}
	return Maxwellian{Temperature: temperature, Particle: p}, nil
}

// ThermalSpeed is sqrt(kT/m), the standard deviation of each velocity component [m/s].
func (d Maxwellian) ThermalSpeed() float64 {
	return math.Sqrt(utils.KeV2J(d.Temperature) / d.Particle.Mass)
}

// Sample draws n velocities [m/s]; equal seeds give equal samples.
func (d Maxwellian) Sample(n int, seed uint64) []r3.Vec {
	component := distuv.Normal{
		Mu:    0,
		Sigma: d.ThermalSpeed(),
		Src:   rand.NewPCG(seed, seed^0x9e3779b97f4a7c15),
	}
	v := make([]r3.Vec, n)
	for i := range v {
		v[i] = r3.Vec{X: component.Rand(), Y: component.Rand(), Z: component.Rand()}
	}
	return v
}
