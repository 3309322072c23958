package kinematics

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat"

	"github.com/wildstyl3r/ntof/internal/constants"
	"github.com/wildstyl3r/ntof/internal/spectrum"
	"github.com/wildstyl3r/ntof/internal/utils"
)

var (
	ErrInvalidDirection = errors.New("emission direction must be a finite non-zero vector")
	ErrInvalidBinWidth  = errors.New("bin width must be positive")
	ErrNoSamples        = errors.New("no velocity samples")
)

// Calculator computes the spectrum of the reaction product emitted in a given
// direction by Monte Carlo over pairs of reactant velocities, using classical
// two-body kinematics with isotropic emission in the center-of-mass frame.
// It holds no mutable state.
type Calculator struct {
	Reaction Reaction
}

func NewCalculator(r Reaction) *Calculator {
	return &Calculator{Reaction: r}
}

func (c *Calculator) Reactants() (a, b Particle) {
	return c.Reaction.A, c.Reaction.B
}

func (c *Calculator) SampleVelocities(p Particle, temperature float64, n int, seed uint64) ([]r3.Vec, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: %d requested", ErrNoSamples, n)
	}
	dist, err := NewMaxwellian(temperature, p)
	if err != nil {
		return nil, err
	}
	return dist.Sample(n, seed), nil
}

// Direction normalizes u or reports why it cannot be used as an emission direction.
func Direction(u r3.Vec) (r3.Vec, error) {
	norm := r3.Norm(u)
	if !(norm > 0) || math.IsInf(norm, 0) || math.IsNaN(norm) {
		return r3.Vec{}, fmt.Errorf("%w: %v", ErrInvalidDirection, u)
	}
	return r3.Scale(1/norm, u), nil
}

// ComputeSpectrum pairs va[i] with vb[i] and histograms the product energies
// emitted along direction with bins of binWidth [keV].
func (c *Calculator) ComputeSpectrum(va, vb []r3.Vec, direction r3.Vec, binWidth float64) (spectrum.Spectrum, error) {
	if len(va) != len(vb) {
		return spectrum.Spectrum{}, fmt.Errorf("%w: %d and %d velocities", spectrum.ErrLengthMismatch, len(va), len(vb))
	}
	if len(va) == 0 {
		return spectrum.Spectrum{}, ErrNoSamples
	}
	if !(binWidth > 0) || math.IsInf(binWidth, 0) {
		return spectrum.Spectrum{}, fmt.Errorf("%w: %v keV", ErrInvalidBinWidth, binWidth)
	}
	u, err := Direction(direction)
	if err != nil {
		return spectrum.Spectrum{}, err
	}

	energy := make([]float64, 0, len(va))
	weight := make([]float64, 0, len(va))
	for i := range va {
		e, w := c.emit(va[i], vb[i], u)
		if w > 0 {
			energy = append(energy, e)
			weight = append(weight, w/float64(len(va)))
		}
	}
	if len(energy) == 0 {
		return spectrum.Spectrum{}, fmt.Errorf("%w: every sample has zero reactivity", ErrNoSamples)
	}
	centers, counts := histogram(energy, weight, binWidth)
	return spectrum.New(centers, counts)
}

// emit returns the lab energy [keV] of the product flying along u and the
// event weight sigma*v_rel*dOmega_cm/dOmega_lab [m^3 s^-1].
func (c *Calculator) emit(va, vb, u r3.Vec) (energy, weight float64) {
	r := c.Reaction
	mA, mB := r.A.Mass, r.B.Mass
	m1, m2 := r.Product.Mass, r.Residual.Mass

	vRel := r3.Norm(r3.Sub(va, vb))
	vCM := r3.Scale(1/(mA+mB), r3.Add(r3.Scale(mA, va), r3.Scale(mB, vb)))
	eRel := utils.J2keV(0.5 * r.ReducedMass() * vRel * vRel)

	// product speed in the CM frame
	k := utils.KeV2J(r.Q + eRel)
	uCM := math.Sqrt(2 * k * m2 / (m1 * (m1 + m2)))

	// lab speed s along u: |s u - vCM| = uCM
	proj := r3.Dot(u, vCM)
	disc := proj*proj - r3.Dot(vCM, vCM) + uCM*uCM
	if disc < 0 {
		return 0, 0
	}
	s := proj + math.Sqrt(disc)
	jacobian := s * s / (uCM * (s - proj))

	energy = utils.J2keV(0.5 * m1 * s * s)
	weight = r.CrossSection(eRel) * constants.Millibarn * vRel * jacobian
	return energy, weight
}

// histogram bins x with weights into bins of width aligned to multiples of width.
func histogram(x, weights []float64, width float64) (centers, counts []float64) {
	inds := make([]int, len(x))
	floats.Argsort(x, inds)
	sorted := make([]float64, len(weights))
	for i, j := range inds {
		sorted[i] = weights[j]
	}

	lo := math.Floor(x[0]/width) * width
	if lo > x[0] {
		lo -= width
	}
	n := int(math.Floor(x[len(x)-1]/width)-math.Floor(lo/width)) + 1
	hi := lo + float64(n)*width
	if hi <= x[len(x)-1] {
		n++
		hi += width
	}

	dividers := make([]float64, n+1)
	floats.Span(dividers, lo, hi)
	counts = stat.Histogram(nil, dividers, x, sorted)
	centers = make([]float64, n)
	for i := range centers {
		centers[i] = 0.5 * (dividers[i] + dividers[i+1])
	}
	return centers, counts
}
