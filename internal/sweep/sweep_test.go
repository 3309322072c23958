package sweep

import (
	"errors"
	"math"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/wildstyl3r/ntof/internal/config"
	"github.com/wildstyl3r/ntof/internal/constants"
	"github.com/wildstyl3r/ntof/internal/kinematics"
	"github.com/wildstyl3r/ntof/internal/spectrum"
)

var errBroken = errors.New("broken sampler")

// gaussianSource emits a 14 MeV line with sigma = 75 sqrt(T). It holds no
// mutable state so the sweep workers may share it.
type gaussianSource struct {
	failAt map[float64]bool
}

func (g gaussianSource) Reactants() (a, b kinematics.Particle) {
	return kinematics.Deuteron, kinematics.Triton
}

func (g gaussianSource) SampleVelocities(p kinematics.Particle, temperature float64, n int, seed uint64) ([]r3.Vec, error) {
	if g.failAt[temperature] {
		return nil, errBroken
	}
	return []r3.Vec{{X: temperature}}, nil
}

func (g gaussianSource) ComputeSpectrum(va, vb []r3.Vec, direction r3.Vec, binWidth float64) (spectrum.Spectrum, error) {
	sigma := 75 * math.Sqrt(va[0].X)
	var energy, weight []float64
	for e := 14000 - 8*sigma; e <= 14000+8*sigma; e += binWidth {
		energy = append(energy, e)
		weight = append(weight, math.Exp(-0.5*(e-14000)*(e-14000)/(sigma*sigma)))
	}
	return spectrum.New(energy, weight)
}

func parameters(threads int) config.RunParameters {
	p := config.RunParameters{
		Reaction:     "d-t",
		Samples:      20000,
		Distance:     20,
		Direction:    []float64{0, 0, 1},
		BinWidth:     1,
		ParticleMass: constants.NeutronMassToF,
		Seed:         1,
	}
	p.SetThreads(threads)
	return p
}

func TestRunKeepsInputOrder(t *testing.T) {
	temperatures := []float64{9, 1, 4, 16, 2.25}
	points, err := Run(gaussianSource{}, parameters(3), temperatures, zerolog.Nop())
	require.NoError(t, err)
	require.Len(t, points, len(temperatures))

	for i, pt := range points {
		assert.Equal(t, temperatures[i], pt.Temperature)
		assert.InDelta(t, 14000, pt.Width.Mean, 1e-6)
		assert.InEpsilon(t, constants.GaussianFWHM*75*math.Sqrt(pt.Temperature), pt.Width.FWHM, 1e-3)
	}
}

func TestRunEmpty(t *testing.T) {
	points, err := Run(gaussianSource{}, parameters(2), nil, zerolog.Nop())
	require.NoError(t, err)
	assert.Empty(t, points)
}

func TestRunReportsFirstFailure(t *testing.T) {
	src := gaussianSource{failAt: map[float64]bool{4: true, 16: true}}
	_, err := Run(src, parameters(4), []float64{1, 16, 2, 4}, zerolog.Nop())
	require.ErrorIs(t, err, errBroken)
	assert.Contains(t, err.Error(), "T = 16 keV")
}

func TestRunWithCalculatorWidens(t *testing.T) {
	if testing.Short() {
		t.Skip("monte carlo sweep")
	}
	p := parameters(0)
	p.BinWidth = 10
	temperatures := []float64{2, 5, 20}
	points, err := Run(kinematics.NewCalculator(kinematics.DT()), p, temperatures, zerolog.Nop())
	require.NoError(t, err)

	expected := []float64{245, 393, 793}
	for i := range points {
		assert.InEpsilon(t, expected[i], points[i].Width.FWHM, 0.1, "T = %v", temperatures[i])
		if i > 0 {
			assert.Greater(t, points[i].Width.FWHM, points[i-1].Width.FWHM)
		}
	}

	c, err := Fit(points)
	require.NoError(t, err)
	assert.InEpsilon(t, kinematics.DT().BryskWidth, c.WidthCoefficient, 0.1)
	assert.Greater(t, c.MeanShift, 0.)
}

func TestRunValidatesBeforeSampling(t *testing.T) {
	// any sampling would fail with errBroken
	src := gaussianSource{failAt: map[float64]bool{1: true, 4: true, -2: true}}

	p := parameters(2)
	p.Samples = 0
	p.Direction = []float64{1, 0}
	p.Distance = -5
	_, err := Run(src, p, []float64{1, 4}, zerolog.Nop())
	require.ErrorIs(t, err, config.ErrInvalidParameters)
	assert.NotErrorIs(t, err, errBroken)
	assert.ErrorContains(t, err, "Samples")

	_, err = Run(src, parameters(2), []float64{1, -2, 4}, zerolog.Nop())
	require.ErrorIs(t, err, kinematics.ErrInvalidTemperature)
	assert.NotErrorIs(t, err, errBroken)
}
