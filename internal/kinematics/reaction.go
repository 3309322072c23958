package kinematics

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var ErrUnknownReaction = errors.New("unknown reaction")

// Reaction is a two-body fusion reaction A + B -> Product + Residual.
type Reaction struct {
	Name     string
	A, B     Particle
	Product  Particle // emitted particle whose spectrum is computed
	Residual Particle
	Q        float64 // [keV]

	// FWHM of the product spectrum from a thermal plasma is BryskWidth*sqrt(T) [keV] (Brysk 1973)
	BryskWidth float64

	cs boschHale
}

// Bosch & Hale 1992 S-factor fit; sigma(E) = S(E) / (E exp(BG/sqrt(E))), E in keV (CM), sigma in mb
type boschHale struct {
	BG             float64
	A1, A2, A3, A4 float64
	A5             float64
	B1, B2, B3, B4 float64
}

func (bh boschHale) sigma(e float64) float64 {
	if e <= 0 {
		return 0
	}
	s := (bh.A1 + e*(bh.A2+e*(bh.A3+e*(bh.A4+e*bh.A5)))) /
		(1 + e*(bh.B1+e*(bh.B2+e*(bh.B3+e*bh.B4))))
	return s / (e * math.Exp(bh.BG/math.Sqrt(e)))
}

// DT is d + t -> n + 4He.
func DT() Reaction {
	return Reaction{
		Name:       "d-t",
		A:          Deuteron,
		B:          Triton,
		Product:    Neutron,
		Residual:   Alpha,
		Q:          17589.3,
		BryskWidth: 177.,
		cs: boschHale{
			BG: 34.3827,
			A1: 6.927e4, A2: 7.454e8, A3: 2.050e6, A4: 5.2002e4, A5: 0,
			B1: 6.38e1, B2: -9.95e-1, B3: 6.981e-5, B4: 1.728e-4,
		},
	}
}

// DD is the neutron branch d + d -> n + 3He.
func DD() Reaction {
	return Reaction{
		Name:       "d-d",
		A:          Deuteron,
		B:          Deuteron,
		Product:    Neutron,
		Residual:   Helion,
		Q:          3268.9,
		BryskWidth: 82.5,
		cs: boschHale{
			BG: 31.3970,
			A1: 5.3701e4, A2: 3.3027e2, A3: -1.2706e-1, A4: 2.9327e-5, A5: -2.5151e-9,
		},
	}
}

var reactions = map[string]func() Reaction{
	"d-t": DT,
	"dt":  DT,
	"d-d": DD,
	"dd":  DD,
}

func ReactionByName(name string) (Reaction, error) {
	if r, ok := reactions[strings.ToLower(strings.TrimSpace(name))]; ok {
		return r(), nil
	}
	return Reaction{}, fmt.Errorf("%w: %q", ErrUnknownReaction, name)
}

// CrossSection returns the fusion cross section [mb] at center-of-mass energy e [keV].
func (r Reaction) CrossSection(e float64) float64 {
	return r.cs.sigma(e)
}

// ReducedMass of the reactant pair [kg].
func (r Reaction) ReducedMass() float64 {
	return r.A.Mass * r.B.Mass / (r.A.Mass + r.B.Mass)
}

// ColdEnergy is the product energy [keV] for reactants at rest.
func (r Reaction) ColdEnergy() float64 {
	return r.Q * r.Residual.Mass / (r.Product.Mass + r.Residual.Mass)
}

// Temperature returns the ion temperature [keV] whose Brysk width equals fwhm [keV].
func (r Reaction) Temperature(fwhm float64) float64 {
	return (fwhm / r.BryskWidth) * (fwhm / r.BryskWidth)
}
