package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wildstyl3r/ntof/internal/constants"
)

const sample = `
OutputDir = "out"
InputUnits = ["cm", "MeV"]
Samples = 5000
Temperature = 0.004

[Runs.near]
Distance = 300.0
Direction = [0.0, 1.0, 0.0]

[Runs.far]
Distance = 2000.0
TemperatureB = 0.008
Temperatures = [0.001, 0.002]
Samples = 100
Reaction = "d-d"
`

func unify(t *testing.T, data, run string) (RunParameters, error) {
	t.Helper()
	c, meta, err := Parse(data)
	require.NoError(t, err)
	p := c.Runs[run]
	err = p.CheckAndUnify(run, &c, &meta)
	return p, err
}

func TestCheckAndUnifyPrecedence(t *testing.T) {
	near, err := unify(t, sample, "near")
	require.NoError(t, err)
	assert.Equal(t, "d-t", near.Reaction)
	assert.Equal(t, 5000, near.Samples)
	assert.InDelta(t, 3., near.Distance, 1e-12)
	assert.InDelta(t, 4., near.TemperatureA, 1e-12)
	assert.InDelta(t, 4., near.TemperatureB, 1e-12)
	assert.Equal(t, []float64{0, 1, 0}, near.Direction)
	assert.Equal(t, 5., near.BinWidth)
	assert.Equal(t, constants.NeutronMassToF, near.ParticleMass)
	assert.Equal(t, uint64(1), near.Seed)
	assert.True(t, near.MakeDir)

	far, err := unify(t, sample, "far")
	require.NoError(t, err)
	assert.Equal(t, "d-d", far.Reaction)
	assert.Equal(t, 100, far.Samples)
	assert.InDelta(t, 20., far.Distance, 1e-12)
	assert.InDelta(t, 4., far.TemperatureA, 1e-12)
	assert.InDelta(t, 8., far.TemperatureB, 1e-12)
	require.Len(t, far.Temperatures, 2)
	assert.InDelta(t, 1., far.Temperatures[0], 1e-12)
	assert.InDelta(t, 2., far.Temperatures[1], 1e-12)
	assert.Equal(t, []float64{0, 0, 1}, far.Direction)
}

func TestCheckAndUnifyRejectsInvalid(t *testing.T) {
	_, err := unify(t, `
[Runs.bad]
Distance = -1.0
Samples = 0
Direction = [0.0, 0.0]
Reaction = "p-p"
`, "bad")
	require.Error(t, err)
	for _, part := range []string{"Distance", "Samples", "Direction", "unknown reaction"} {
		assert.Contains(t, err.Error(), part)
	}

	_, err = unify(t, `
[Runs.zero]
Direction = [0.0, 0.0, 0.0]
`, "zero")
	assert.ErrorContains(t, err, "emission direction")
}

func TestSpectrumFileSkipsSamplingChecks(t *testing.T) {
	p, err := unify(t, `
[Runs.file]
SpectrumFile = "measured.txt"
Samples = 0
Reaction = "unknown"
`, "file")
	require.NoError(t, err)
	assert.Equal(t, "measured.txt", p.SpectrumFile)
}

func TestParseErrors(t *testing.T) {
	_, _, err := Parse(`OutputDir = "x"`)
	assert.ErrorIs(t, err, ErrNoRuns)

	_, _, err = Parse("InputUnits = [\"cm\", \"mm\"]\n[Runs.a]\n")
	assert.ErrorContains(t, err, "input unit conflict")

	_, _, err = Parse("OutputUnits = [\"furlong\"]\n[Runs.a]\n")
	assert.ErrorContains(t, err, "output unit conflict")
}

func TestOutputUnitsDefaultToInput(t *testing.T) {
	c, _, err := Parse("InputUnits = [\"MeV\"]\n[Runs.a]\n")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"MeV", "m", "ns"}, c.OutputUnits)
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "run")
	require.NoError(t, os.WriteFile(name+".toml", []byte(sample), 0o600))

	c, meta, err := LoadConfig(name)
	require.NoError(t, err)
	assert.Len(t, c.Runs, 2)
	assert.True(t, meta.IsDefined("Runs", "far", "Reaction"))

	_, _, err = LoadConfig(name + ".toml")
	require.NoError(t, err)
}

func TestMeasuredFWHM(t *testing.T) {
	p, err := unify(t, `
InputUnits = ["MeV"]
[Runs.measured]
MeasuredFWHM = 0.354
`, "measured")
	require.NoError(t, err)
	assert.InDelta(t, 354., p.MeasuredFWHM, 1e-9)

	_, err = unify(t, `
[Runs.bad]
MeasuredFWHM = -1.0
`, "bad")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MeasuredFWHM")
}

func TestSpectrumFileRejectsResampling(t *testing.T) {
	_, err := unify(t, `
[Runs.file]
SpectrumFile = "measured.txt"
Temperatures = [1.0, 2.0]
MeasuredFWHM = 300.0
`, "file")
	require.ErrorIs(t, err, ErrInvalidParameters)
	assert.ErrorContains(t, err, "Temperatures need a sampled spectrum")
	assert.ErrorContains(t, err, "MeasuredFWHM needs a sampled spectrum")
}

func TestValidateWrapsProblems(t *testing.T) {
	p := RunParameters{Reaction: "d-t", Distance: -5, Direction: []float64{1, 0}}
	err := p.Validate()
	require.ErrorIs(t, err, ErrInvalidParameters)
	for _, part := range []string{"Distance", "ParticleMass", "Direction", "TemperatureA", "Samples"} {
		assert.ErrorContains(t, err, part)
	}
}
