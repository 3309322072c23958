package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"reflect"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/wildstyl3r/ntof/internal/constants"
	"github.com/wildstyl3r/ntof/internal/kinematics"
)

var (
	ErrNoRuns            = errors.New("no runs provided")
	ErrInvalidParameters = errors.New("invalid run parameters")
)

type Config struct {
	OutputDir string
	Runs      map[string]RunParameters
	RunParameters

	InputUnits  []string
	OutputUnits []string
}

type RunParameters struct {
	Reaction     string
	Temperature  float64   // [keV], both reactants
	TemperatureA float64   // [keV]
	TemperatureB float64   // [keV]
	Temperatures []float64 // [keV], sweep
	Samples      int
	Distance     float64 // [m]
	Direction    []float64
	BinWidth     float64 // [keV]
	ParticleMass float64 // [kg]
	Seed         uint64

	SpectrumFile   string
	DetectorEvents int
	MakeDir        bool
	MeasuredFWHM   float64 // [keV], infer the temperature producing it when set

	_outputUnits []string
	_verbose     bool
	_threads     int
}

func (p *RunParameters) OutputUnits() []string {
	return p._outputUnits
}

func (p *RunParameters) SetOutputUnits(u []string) {
	p._outputUnits = u
}

func (p *RunParameters) Verbose() bool {
	return p._verbose
}

func (p *RunParameters) SetVerbosity(verbose bool) {
	p._verbose = verbose
}

func (p *RunParameters) Threads() int {
	return p._threads
}

func (p *RunParameters) SetThreads(threads int) {
	p._threads = threads
}

func (p *RunParameters) DirectionVec() r3.Vec {
	if len(p.Direction) != 3 {
		return r3.Vec{}
	}
	return r3.Vec{X: p.Direction[0], Y: p.Direction[1], Z: p.Direction[2]}
}

func LoadConfig(configFileName string) (Config, toml.MetaData, error) {
	data, err := os.ReadFile(strings.TrimSuffix(configFileName, ".toml") + ".toml")
	if err != nil {
		return Config{}, toml.MetaData{}, err
	}
	return Parse(string(data))
}

func Parse(data string) (Config, toml.MetaData, error) {
	var config Config
	meta, err := toml.Decode(data, &config)
	if err != nil {
		return Config{}, meta, err
	}

	var unitsConflict []string
	config.InputUnits, unitsConflict = checkUnits(config.InputUnits)
	if len(unitsConflict) > 0 {
		return Config{}, meta, fmt.Errorf("found input unit conflict: %v", unitsConflict)
	}
	if len(config.OutputUnits) == 0 {
		config.OutputUnits = config.InputUnits
	}
	config.OutputUnits, unitsConflict = checkUnits(config.OutputUnits)
	if len(unitsConflict) > 0 {
		return Config{}, meta, fmt.Errorf("found output unit conflict: %v", unitsConflict)
	}

	if len(config.Runs) == 0 {
		return Config{}, meta, ErrNoRuns
	}
	return config, meta, nil
}

var defaultValues = map[string]any{ // in working units
	"Reaction":       "d-t",
	"Temperature":    3.,
	"Samples":        1_000_000,
	"Distance":       20.,
	"Direction":      []float64{0, 0, 1},
	"BinWidth":       5.,
	"ParticleMass":   constants.NeutronMassToF,
	"Seed":           uint64(1),
	"DetectorEvents": 0,
	"MakeDir":        true,
}

// resolved from Temperature when neither the run nor the globals set them
var derivedFromTemperature = []string{"TemperatureA", "TemperatureB"}

var valueUnits = map[string][]UnitElement{
	"Distance":     LengthUnit,
	"BinWidth":     EnergyUnit,
	"Temperature":  EnergyUnit,
	"TemperatureA": EnergyUnit,
	"TemperatureB": EnergyUnit,
	"Temperatures": EnergyUnit,
	"MeasuredFWHM": EnergyUnit,
}

func (runConfig *RunParameters) toWorking(parameterNames, units []string) {
	runConfigReflect := reflect.ValueOf(runConfig).Elem()
	for _, name := range parameterNames {
		classes, some := valueUnits[name]
		if !some {
			continue
		}
		field := runConfigReflect.FieldByName(name)
		switch {
		case field.CanFloat():
			field.SetFloat(Convert(field.Float(), classes, units, true))
		case field.Kind() == reflect.Slice && field.Type().Elem().Kind() == reflect.Float64:
			converted := make([]float64, field.Len())
			for i := range converted {
				converted[i] = Convert(field.Index(i).Float(), classes, units, true)
			}
			field.Set(reflect.ValueOf(converted))
		}
	}
}

/*
field value priority:
1. run
2. global
3. default
TemperatureA and TemperatureB fall back to the resolved Temperature.
*/

// CheckAndUnify fills every parameter of the run from its own table, the
// global table or the defaults, converts them to working units and validates
// the result.
func (runConfig *RunParameters) CheckAndUnify(runName string, config *Config, meta *toml.MetaData) error {
	var discoveredParameters []string

	runConfigReflect := reflect.ValueOf(runConfig).Elem()
	globalConfigReflect := reflect.ValueOf(&config.RunParameters).Elem()
	runConfigType := runConfigReflect.Type()
	for i := range runConfigReflect.NumField() {
		field := runConfigType.Field(i)
		if !field.IsExported() {
			continue
		}
		if meta.IsDefined("Runs", runName, field.Name) {
			discoveredParameters = append(discoveredParameters, field.Name)
		} else if meta.IsDefined(field.Name) {
			runConfigReflect.Field(i).Set(globalConfigReflect.Field(i))
			discoveredParameters = append(discoveredParameters, field.Name)
		}
	}

	runConfig.toWorking(discoveredParameters, config.InputUnits)

	for fieldName, value := range defaultValues {
		if !slices.Contains(discoveredParameters, fieldName) {
			v := reflect.ValueOf(value)
			if v.Kind() == reflect.Slice {
				v = reflect.AppendSlice(reflect.MakeSlice(v.Type(), 0, v.Len()), v)
			}
			runConfigReflect.FieldByName(fieldName).Set(v)
		}
	}
	for _, fieldName := range derivedFromTemperature {
		if !slices.Contains(discoveredParameters, fieldName) {
			runConfigReflect.FieldByName(fieldName).SetFloat(runConfig.Temperature)
		}
	}

	runConfig._outputUnits = config.OutputUnits

	if err := runConfig.Validate(); err != nil {
		return fmt.Errorf("run %s: %w", runName, err)
	}
	return nil
}

// Validate reports every invalid parameter at once.
func (p *RunParameters) Validate() error {
	var errs []error
	positive := func(name string, v float64) {
		if !(v > 0) || math.IsInf(v, 0) {
			errs = append(errs, fmt.Errorf("%s must be positive, got %v", name, v))
		}
	}

	positive("Distance", p.Distance)
	positive("ParticleMass", p.ParticleMass)
	if len(p.Direction) != 3 {
		errs = append(errs, fmt.Errorf("Direction must have 3 components, got %d", len(p.Direction)))
	} else if _, err := kinematics.Direction(p.DirectionVec()); err != nil {
		errs = append(errs, err)
	}
	if p.DetectorEvents < 0 {
		errs = append(errs, fmt.Errorf("DetectorEvents must not be negative, got %d", p.DetectorEvents))
	}

	if p.SpectrumFile != "" {
		// sweeps and inference resample the spectrum
		if len(p.Temperatures) > 0 {
			errs = append(errs, fmt.Errorf("Temperatures need a sampled spectrum, SpectrumFile %q is set", p.SpectrumFile))
		}
		if p.MeasuredFWHM > 0 {
			errs = append(errs, fmt.Errorf("MeasuredFWHM needs a sampled spectrum, SpectrumFile %q is set", p.SpectrumFile))
		}
	} else {
		if _, err := kinematics.ReactionByName(p.Reaction); err != nil {
			errs = append(errs, err)
		}
		positive("TemperatureA", p.TemperatureA)
		positive("TemperatureB", p.TemperatureB)
		for i, t := range p.Temperatures {
			positive(fmt.Sprintf("Temperatures[%d]", i), t)
		}
		positive("BinWidth", p.BinWidth)
		if p.MeasuredFWHM < 0 || math.IsInf(p.MeasuredFWHM, 0) || math.IsNaN(p.MeasuredFWHM) {
			errs = append(errs, fmt.Errorf("MeasuredFWHM must be finite and not negative, got %v", p.MeasuredFWHM))
		}
		if p.Samples <= 0 {
			errs = append(errs, fmt.Errorf("Samples must be positive, got %d", p.Samples))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidParameters, errors.Join(errs...))
	}
	return nil
}
