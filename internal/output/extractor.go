package output

import (
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/wildstyl3r/ntof/internal/analysis"
	"github.com/wildstyl3r/ntof/internal/config"
	"github.com/wildstyl3r/ntof/internal/kinematics"
	"github.com/wildstyl3r/ntof/internal/utils"
)

type DataExtractor struct {
	result analysis.Result
	params config.RunParameters
	logger zerolog.Logger
}

func NewDataExtractor(result analysis.Result, p config.RunParameters, logger zerolog.Logger) *DataExtractor {
	return &DataExtractor{
		result: result,
		params: p,
		logger: logger,
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Save writes every selected series of the run as a CSV table in output units.
func (de *DataExtractor) Save(df DataFlags) error {
	outputUnits := de.params.OutputUnits()
	for name, output := range df.sequentials {
		if !df.saving(output.DataItem) {
			continue
		}
		args, values := output.values(de)
		if args == nil {
			de.logger.Debug().Str("series", name).Msg("nothing to save")
			continue
		}

		rows := [][]string{header(output.columnNames, output.units, outputUnits)}
		for i := range args {
			row := []string{formatFloat(config.Convert(args[i], output.units[0], outputUnits, false))}
			for j := range values[i] {
				row = append(row, formatFloat(config.Convert(values[i][j], output.units[j+1], outputUnits, false)))
			}
			rows = append(rows, row)
		}
		if err := writeRows(de.params.MakeDir, df.outputPath, output.fileSuffix, de.result.Name, rows); err != nil {
			return fmt.Errorf("unable to save %s: %w", name, err)
		}
		de.logger.Debug().Str("series", name).Msg("saved")
	}

	if df.plotting() {
		if err := de.savePlots(df); err != nil {
			return err
		}
	}
	return nil
}

func writeRows(makeDir bool, outputPath, fileSuffix, runName string, rows [][]string) error {
	file, err := utils.OpenFile(makeDir, outputPath, fileSuffix, runName)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("error writing csv: %w", err)
	}
	return nil
}

func summaryHeader(units []string) []string {
	e := config.UnitName(config.Energy, units)
	t := config.UnitName(config.Time, units)
	return []string{
		"run",
		"E_mean (" + e + ")", "E_std (" + e + ")", "E_FWHM (" + e + ")",
		"T_Brysk (" + e + ")",
		"t_mean (" + t + ")", "t_std (" + t + ")", "t_FWHM (" + t + ")",
	}
}

// SummaryRow lists the widths of the run in output units. The Brysk
// temperature stays empty when the reaction is unknown.
func (de *DataExtractor) SummaryRow() []string {
	units := de.params.OutputUnits()
	energy := func(v float64) string { return formatFloat(config.Convert(v, config.EnergyUnit, units, false)) }
	time := func(v float64) string { return formatFloat(config.Convert(v, config.TimeUnit, units, false)) }

	brysk := ""
	if r, err := kinematics.ReactionByName(de.params.Reaction); err == nil {
		brysk = energy(r.Temperature(de.result.Width.FWHM))
	}
	return []string{
		de.result.Name,
		energy(de.result.Width.Mean),
		energy(de.result.Width.StdDev),
		energy(de.result.Width.FWHM),
		brysk,
		time(de.result.ToFWidth.Mean),
		time(de.result.ToFWidth.StdDev),
		time(de.result.ToFWidth.FWHM),
	}
}

// WriteSummary writes one row per run, naturally ordered by run name.
func WriteSummary(rows utils.CSV, df DataFlags, configName string, outputUnits []string) error {
	return utils.WriteAsCSV(rows, df.outputPath, "summary", configName, summaryHeader(outputUnits))
}
