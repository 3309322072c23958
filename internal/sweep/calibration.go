package sweep

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/wildstyl3r/ntof/internal/utils"
)

var (
	ErrTooFewPoints = errors.New("not enough sweep points")
	ErrOutOfRange   = errors.New("width outside of the swept range")
	ErrFlatWidth    = errors.New("FWHM does not grow with temperature")
)

// Calibration relates the spectrum to ion temperature T [keV]:
// mean = ColdMean + MeanShift*T, FWHM = WidthCoefficient*sqrt(T).
type Calibration struct {
	ColdMean         float64 // [keV]
	MeanShift        float64 // [keV keV^-1]
	WidthCoefficient float64 // [keV^{1/2}]
}

func Fit(points []Point) (Calibration, error) {
	if len(points) < 2 {
		return Calibration{}, fmt.Errorf("%w: %d, need 2", ErrTooFewPoints, len(points))
	}
	temperature := make([]float64, len(points))
	mean := make([]float64, len(points))
	fwhm2 := make([]float64, len(points))
	for i := range points {
		temperature[i] = points[i].Temperature
		mean[i] = points[i].Width.Mean
		fwhm2[i] = points[i].Width.FWHM * points[i].Width.FWHM
	}

	if floats.Min(temperature) == floats.Max(temperature) {
		return Calibration{}, fmt.Errorf("%w: every point at %v keV", ErrTooFewPoints, temperature[0])
	}

	var c Calibration
	c.ColdMean, c.MeanShift = stat.LinearRegression(temperature, mean, nil, false)
	_, slope := stat.LinearRegression(temperature, fwhm2, nil, true)
	if !(slope > 0) || math.IsInf(slope, 0) {
		return Calibration{}, fmt.Errorf("%w: FWHM^2 slope %v", ErrFlatWidth, slope)
	}
	c.WidthCoefficient = math.Sqrt(slope)
	return c, nil
}

// Temperature returns the temperature whose fitted width is fwhm.
func (c Calibration) Temperature(fwhm float64) (float64, error) {
	if !(c.WidthCoefficient > 0) {
		return 0, fmt.Errorf("%w: width coefficient %v", ErrFlatWidth, c.WidthCoefficient)
	}
	return (fwhm / c.WidthCoefficient) * (fwhm / c.WidthCoefficient), nil
}

// InvertWidth finds the temperature at which the piecewise linear FWHM(T)
// curve through points reaches fwhm. The curve must be non-decreasing.
func InvertWidth(points []Point, fwhm float64) (float64, error) {
	if len(points) < 2 {
		return 0, fmt.Errorf("%w: %d, need 2", ErrTooFewPoints, len(points))
	}
	sorted := append([]Point{}, points...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Temperature < sorted[j].Temperature })

	temperature := make([]float64, len(sorted))
	width := make([]float64, len(sorted))
	for i := range sorted {
		temperature[i] = sorted[i].Temperature
		width[i] = sorted[i].Width.FWHM
	}
	lo, hi := temperature[0], temperature[len(temperature)-1]
	if fwhm < width[0] || width[len(width)-1] < fwhm {
		return 0, fmt.Errorf("%w: %v keV not in [%v, %v]", ErrOutOfRange, fwhm, width[0], width[len(width)-1])
	}

	below, above := utils.BinarySearch(func(t float64) bool {
		return fwhm <= utils.Interpolate(temperature, width, t)
	}, lo, hi, 1e-9*(hi-lo))
	return 0.5 * (below + above), nil
}
