package kinematics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"
)

func TestNewMaxwellianRejectsNonPositive(t *testing.T) {
	for _, temperature := range []float64{0, -1} {
		_, err := NewMaxwellian(temperature, Deuteron)
		assert.ErrorIs(t, err, ErrInvalidTemperature)
	}
}

func TestMaxwellianComponentVariance(t *testing.T) {
	d, err := NewMaxwellian(10, Triton)
	require.NoError(t, err)

	v := d.Sample(40000, 7)
	x := make([]float64, len(v))
	z := make([]float64, len(v))
	for i := range v {
		x[i], z[i] = v[i].X, v[i].Z
	}
	sigma := d.ThermalSpeed()
	assert.InEpsilon(t, sigma, stat.StdDev(x, nil), 0.02)
	assert.InEpsilon(t, sigma, stat.StdDev(z, nil), 0.02)
	assert.InDelta(t, 0, stat.Mean(x, nil), 0.02*sigma)
}

func TestMaxwellianSeed(t *testing.T) {
	d, err := NewMaxwellian(3, Deuteron)
	require.NoError(t, err)
	assert.Equal(t, d.Sample(10, 42), d.Sample(10, 42))
	assert.NotEqual(t, d.Sample(10, 42), d.Sample(10, 43))
}
