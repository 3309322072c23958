package output

import (
	"cmp"
	"fmt"
	"math"
	"os"
	"slices"

	"github.com/rs/zerolog"
	"github.com/wcharczuk/go-chart/v2"

	"github.com/wildstyl3r/ntof/internal/config"
	"github.com/wildstyl3r/ntof/internal/sweep"
	"github.com/wildstyl3r/ntof/internal/utils"
)

// SaveSweep writes the width of every sweep point and, when plotting, a
// chart of FWHM against temperature with the fitted omega sqrt(T) curve.
func SaveSweep(runName string, points []sweep.Point, calibration *sweep.Calibration, p config.RunParameters, df DataFlags, logger zerolog.Logger) error {
	units := p.OutputUnits()
	energyUnit := config.UnitName(config.Energy, units)
	energy := func(v float64) float64 { return config.Convert(v, config.EnergyUnit, units, false) }

	if df.saving(df.sweep) {
		rows := [][]string{{
			"T (" + energyUnit + ")",
			"E_mean (" + energyUnit + ")",
			"E_std (" + energyUnit + ")",
			"E_FWHM (" + energyUnit + ")",
		}}
		for _, pt := range points {
			rows = append(rows, []string{
				formatFloat(energy(pt.Temperature)),
				formatFloat(energy(pt.Width.Mean)),
				formatFloat(energy(pt.Width.StdDev)),
				formatFloat(energy(pt.Width.FWHM)),
			})
		}
		if err := writeRows(p.MakeDir, df.outputPath, df.sweep.fileSuffix, runName, rows); err != nil {
			return fmt.Errorf("unable to save sweep: %w", err)
		}
		logger.Debug().Str("run", runName).Msg("sweep saved")
	}

	// a chart needs a non-empty range on both axes
	if !df.plotting() || len(points) < 2 {
		return nil
	}
	points = slices.Clone(points)
	slices.SortFunc(points, func(a, b sweep.Point) int { return cmp.Compare(a.Temperature, b.Temperature) })
	var temperature, fwhm []float64
	for _, pt := range points {
		temperature = append(temperature, energy(pt.Temperature))
		fwhm = append(fwhm, energy(pt.Width.FWHM))
	}
	graph := chart.Chart{
		Title:  runName + " FWHM",
		Width:  1024,
		Height: 640,
		Background: chart.Style{
			Padding: chart.Box{
				Top:  50,
				Left: 20,
			},
		},
		XAxis: chart.XAxis{Name: "T (" + energyUnit + ")"},
		YAxis: chart.YAxis{Name: "FWHM (" + energyUnit + ")"},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "Monte Carlo",
				XValues: temperature,
				YValues: fwhm,
			},
		},
	}
	if calibration != nil {
		fitted := make([]float64, len(points))
		for i, pt := range points {
			fitted[i] = energy(calibration.WidthCoefficient * math.Sqrt(pt.Temperature))
		}
		graph.Series = append(graph.Series, chart.ContinuousSeries{
			Name:    fmt.Sprintf("%.4g sqrt(T)", calibration.WidthCoefficient),
			XValues: temperature,
			YValues: fitted,
		})
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	name, err := utils.OutputName(p.MakeDir, df.outputPath, df.sweep.fileSuffix, runName, ".png")
	if err != nil {
		return err
	}
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := graph.Render(chart.PNG, f); err != nil {
		return fmt.Errorf("sweep chart: %w", err)
	}
	logger.Debug().Str("file", name).Msg("sweep chart saved")
	return nil
}
