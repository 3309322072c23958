package sweep

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wildstyl3r/ntof/internal/spectrum"
)

func syntheticPoints(omega, e0, shift float64, temperatures ...float64) []Point {
	points := make([]Point, len(temperatures))
	for i, temp := range temperatures {
		points[i] = Point{
			Temperature: temp,
			Width: spectrum.Width{
				Mean: e0 + shift*temp,
				FWHM: omega * math.Sqrt(temp),
			},
		}
	}
	return points
}

func TestFitRecoversCoefficients(t *testing.T) {
	c, err := Fit(syntheticPoints(177, 14048, 2.5, 1, 2, 5, 10, 20))
	require.NoError(t, err)
	assert.InDelta(t, 177, c.WidthCoefficient, 1e-6)
	assert.InDelta(t, 14048, c.ColdMean, 1e-6)
	assert.InDelta(t, 2.5, c.MeanShift, 1e-6)
	temp, err := c.Temperature(354)
	require.NoError(t, err)
	assert.InDelta(t, 4, temp, 1e-6)
}

func TestFitTooFewPoints(t *testing.T) {
	_, err := Fit(syntheticPoints(177, 14048, 0, 3))
	assert.ErrorIs(t, err, ErrTooFewPoints)
}

func TestInvertWidth(t *testing.T) {
	points := syntheticPoints(100, 0, 0, 8, 2, 4, 1)

	temp, err := InvertWidth(points, 0.5*(100*math.Sqrt(2)+200))
	require.NoError(t, err)
	assert.InDelta(t, 3, temp, 1e-6)

	temp, err = InvertWidth(points, 100)
	require.NoError(t, err)
	assert.InDelta(t, 1, temp, 1e-6)

	// input untouched
	assert.Equal(t, 8., points[0].Temperature)
}

func TestInvertWidthOutOfRange(t *testing.T) {
	points := syntheticPoints(100, 0, 0, 1, 4)
	for _, fwhm := range []float64{99, 201} {
		_, err := InvertWidth(points, fwhm)
		assert.ErrorIs(t, err, ErrOutOfRange, "fwhm %v", fwhm)
	}
	_, err := InvertWidth(points[:1], 100)
	assert.ErrorIs(t, err, ErrTooFewPoints)
}

func TestFitRejectsFlatWidth(t *testing.T) {
	points := syntheticPoints(177, 14048, 0, 1, 2, 4)
	for i := range points {
		points[i].Width.FWHM = 300
	}
	_, err := Fit(points)
	assert.ErrorIs(t, err, ErrFlatWidth)

	points[0].Width.FWHM, points[2].Width.FWHM = 400, 200
	_, err = Fit(points)
	assert.ErrorIs(t, err, ErrFlatWidth)

	_, err = Fit(syntheticPoints(177, 14048, 0, 2, 2, 2))
	assert.ErrorIs(t, err, ErrTooFewPoints)

	_, err = Calibration{}.Temperature(354)
	assert.ErrorIs(t, err, ErrFlatWidth)
}
