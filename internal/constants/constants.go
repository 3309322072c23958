package constants

const (
	KeV2Joule      float64 = 1.6022e-16 // [J keV^-1]
	NeutronMassToF float64 = 1.674e-27  // [kg], default mass for time of flight
)

// rest masses [kg]
const (
	NeutronMass  float64 = 1.67492749804e-27
	DeuteronMass float64 = 3.3435837724e-27
	TritonMass   float64 = 5.0073567446e-27
	HelionMass   float64 = 5.0064127796e-27
	AlphaMass    float64 = 6.6446573357e-27
)

const Millibarn float64 = 1e-31 // [m^2]

const GaussianFWHM = 2.3548 // 2 sqrt(2 ln 2)

const Quantile95 = 1.96
