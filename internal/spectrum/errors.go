package spectrum

import "errors"

var (
	ErrZeroEnergy      = errors.New("zero energy has no finite time of flight")
	ErrInvalidEnergy   = errors.New("energy must be finite and non-negative")
	ErrInvalidTime     = errors.New("time of flight must be finite and positive")
	ErrZeroTotalWeight = errors.New("total spectral weight is zero")
	ErrInvalidWeight   = errors.New("weight must be finite and non-negative")
	ErrEmptySpectrum   = errors.New("spectrum is empty")
	ErrLengthMismatch  = errors.New("energies and weights differ in length")
	ErrInvalidDistance = errors.New("flight distance must be positive")
	ErrInvalidMass     = errors.New("particle mass must be positive")
)
