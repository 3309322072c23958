package config

import (
	"fmt"

	"github.com/wildstyl3r/ntof/internal/utils"
)

// working units: keV, m, ns
var unitToWorking = map[string]float64{
	"eV":  1e-3, // [keV]
	"keV": 1,    // [keV]
	"MeV": 1e3,  // [keV]
	"m":   1,    // [m]
	"cm":  1e-2, // [m]
	"mm":  1e-3, // [m]
	"ns":  1,    // [ns]
	"us":  1e3,  // [ns]
	"ms":  1e6,  // [ns]
}

type UnitClass int

const (
	Length UnitClass = iota
	Energy
	Time
)

var unitsInClass = map[UnitClass][]string{
	Length: {"mm", "cm", "m"},
	Energy: {"eV", "keV", "MeV"},
	Time:   {"ns", "us", "ms"},
}

var classesOfUnits = map[string]UnitClass{
	"eV":  Energy,
	"keV": Energy,
	"MeV": Energy,
	"m":   Length,
	"cm":  Length,
	"mm":  Length,
	"ns":  Time,
	"us":  Time,
	"ms":  Time,
}

type UnitElement = struct {
	Class UnitClass
	Power int
}

var (
	LengthUnit = []UnitElement{{Class: Length, Power: 1}}
	EnergyUnit = []UnitElement{{Class: Energy, Power: 1}}
	TimeUnit   = []UnitElement{{Class: Time, Power: 1}}
)

var defaultUnits = []string{"m", "keV", "ns"}

// checkUnits completes units with a default for every class not listed and
// reports unknown units and classes listed twice.
func checkUnits(units []string) (extended, conflicts []string) {
	classes := map[UnitClass]struct{}{}
	for _, unit := range units {
		class, known := classesOfUnits[unit]
		if !known {
			conflicts = append(conflicts, unit)
			continue
		}
		if _, some := classes[class]; some {
			conflicts = append(conflicts, unit)
		} else {
			classes[class] = struct{}{}
		}
	}
	extended = append([]string{}, units...)
	for _, unit := range defaultUnits {
		if _, some := classes[classesOfUnits[unit]]; !some {
			extended = append(extended, unit)
		}
	}
	return
}

// Convert scales v between the given units and working units: from units when
// direct, to units otherwise.
func Convert(v float64, classes []UnitElement, units []string, direct bool) float64 {
	for i := range classes {
		uc := classes[i]
		unit := utils.Intersect(unitsInClass[uc.Class], units)
		if unit == nil {
			panic(fmt.Sprintf("no unit of class %d in %v", uc.Class, units))
		}
		absPower := utils.IntAbs(uc.Power)
		if direct == (uc.Power > 0) {
			for range absPower {
				v *= unitToWorking[*unit]
			}
		} else {
			for range absPower {
				v /= unitToWorking[*unit]
			}
		}
	}
	return v
}

// UnitName returns the unit of the given class among units.
func UnitName(class UnitClass, units []string) string {
	if unit := utils.Intersect(unitsInClass[class], units); unit != nil {
		return *unit
	}
	return ""
}
