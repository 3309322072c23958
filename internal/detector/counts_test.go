package detector

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wildstyl3r/ntof/internal/spectrum"
)

func TestSimulateDistributesAllEvents(t *testing.T) {
	tof := spectrum.ToF{
		Time:   []float64{4571, 3232, 2639},
		Weight: []float64{1, 0, 3},
	}
	h, err := Simulate(tof, 40000, 1)
	require.NoError(t, err)

	assert.Equal(t, 40000, h.Total())
	assert.Equal(t, tof.Time, h.Time)
	assert.Zero(t, h.Counts[1])
	assert.InDelta(t, 10000, h.Counts[0], 600)
	assert.InDelta(t, 30000, h.Counts[2], 600)
	assert.InDelta(t, 1.96*math.Sqrt(float64(h.Counts[2])), h.Error[2], 1e-9)
}

func TestSimulateErrors(t *testing.T) {
	_, err := Simulate(spectrum.ToF{Time: []float64{1}, Weight: []float64{1}}, 0, 1)
	assert.ErrorIs(t, err, ErrNoEvents)

	_, err = Simulate(spectrum.ToF{}, 10, 1)
	assert.ErrorIs(t, err, spectrum.ErrEmptySpectrum)

	_, err = Simulate(spectrum.ToF{Time: []float64{1, 2}, Weight: []float64{0, 0}}, 10, 1)
	assert.ErrorIs(t, err, spectrum.ErrZeroTotalWeight)
}

func TestSimulateInvalidWeight(t *testing.T) {
	_, err := Simulate(spectrum.ToF{Time: []float64{1, 2}, Weight: []float64{1, math.Inf(1)}}, 10, 1)
	assert.ErrorIs(t, err, spectrum.ErrInvalidWeight)

	_, err = Simulate(spectrum.ToF{Time: []float64{1, 2}, Weight: []float64{1, math.NaN()}}, 10, 1)
	assert.ErrorIs(t, err, spectrum.ErrInvalidWeight)
}

func TestSimulateSeeded(t *testing.T) {
	tof := spectrum.ToF{
		Time:   []float64{4571, 3232, 2639},
		Weight: []float64{1, 1, 1},
	}
	first, err := Simulate(tof, 1000, 7)
	require.NoError(t, err)
	second, err := Simulate(tof, 1000, 7)
	require.NoError(t, err)
	assert.Equal(t, first.Counts, second.Counts)

	other, err := Simulate(tof, 1000, 8)
	require.NoError(t, err)
	assert.NotEqual(t, first.Counts, other.Counts)
}
