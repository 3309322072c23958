package kinematics

import "github.com/wildstyl3r/ntof/internal/constants"

type Particle struct {
	Name string
	Mass float64 // [kg]
}

var (
	Neutron  = Particle{Name: "n", Mass: constants.NeutronMass}
	Deuteron = Particle{Name: "d", Mass: constants.DeuteronMass}
	Triton   = Particle{Name: "t", Mass: constants.TritonMass}
	Helion   = Particle{Name: "3He", Mass: constants.HelionMass}
	Alpha    = Particle{Name: "4He", Mass: constants.AlphaMass}
)
