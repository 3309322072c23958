package output

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/wildstyl3r/ntof/internal/config"
	"github.com/wildstyl3r/ntof/internal/utils"
)

func linePlot(title, xLabel, yLabel string, xs, ys []float64) (*plot.Plot, error) {
	pts := make(plotter.XYs, len(xs))
	for i := range xs {
		pts[i] = plotter.XY{X: xs[i], Y: ys[i]}
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	if err := plotutil.AddLines(p, pts); err != nil {
		return nil, err
	}
	return p, nil
}

// savePlots renders the energy spectrum and the time of flight density of
// the run in output units.
func (de *DataExtractor) savePlots(df DataFlags) error {
	units := de.params.OutputUnits()
	energyUnit := config.UnitName(config.Energy, units)
	timeUnit := config.UnitName(config.Time, units)

	energy := make([]float64, len(de.result.Spectrum.Energy))
	for i, e := range de.result.Spectrum.Energy {
		energy[i] = config.Convert(e, config.EnergyUnit, units, false)
	}
	time := make([]float64, len(de.result.ToF.Time))
	density := make([]float64, len(de.result.Density))
	for i := range de.result.ToF.Time {
		time[i] = config.Convert(de.result.ToF.Time[i], config.TimeUnit, units, false)
		density[i] = config.Convert(de.result.Density[i], []config.UnitElement{{Class: config.Time, Power: -1}}, units, false)
	}

	plots := []struct {
		suffix, title, xLabel, yLabel string
		xs, ys                        []float64
	}{
		{"es", de.result.Name + " energy spectrum", "E (" + energyUnit + ")", "weight", energy, de.result.Spectrum.Weight},
		{"tofd", de.result.Name + " time of flight", "t (" + timeUnit + ")", "dN/dt (" + timeUnit + "^-1)", time, density},
	}
	for _, pl := range plots {
		p, err := linePlot(pl.title, pl.xLabel, pl.yLabel, pl.xs, pl.ys)
		if err != nil {
			return fmt.Errorf("plot %s: %w", pl.suffix, err)
		}
		name, err := utils.OutputName(de.params.MakeDir, df.outputPath, pl.suffix, de.result.Name, ".png")
		if err != nil {
			return err
		}
		if err := p.Save(6*vg.Inch, 4*vg.Inch, name); err != nil {
			return fmt.Errorf("plot %s: %w", pl.suffix, err)
		}
		de.logger.Debug().Str("file", name).Msg("plot saved")
	}
	return nil
}
