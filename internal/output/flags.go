// Package output writes analysis results as CSV tables and PNG plots.
package output

import (
	"flag"
	"fmt"
	"strings"

	"github.com/wildstyl3r/ntof/internal/config"
)

type DataItem struct {
	saveFlag   *bool
	fileSuffix string
}

type SequentialDataItem struct {
	DataItem
	columnNames []string // name and unit class per column, "%s" is replaced by the unit
	values      func(*DataExtractor) (args []float64, values [][]float64)
	units       [][]config.UnitElement // per column, argument first
}

type DataFlags struct {
	all         *bool
	sweep       DataItem
	plot        *bool
	sequentials map[string]SequentialDataItem
	outputPath  string
}

func NewDataFlags(fs *flag.FlagSet) DataFlags {
	return DataFlags{
		all:  fs.Bool("all", false, "save every available series"),
		plot: fs.Bool("plot", false, "save spectrum and sweep plots"),
		sweep: DataItem{
			saveFlag:   fs.Bool("sweep", true, "save temperature sweep table"),
			fileSuffix: "sweep",
		},
		sequentials: map[string]SequentialDataItem{
			"Energy spectrum": {
				DataItem: DataItem{
					saveFlag:   fs.Bool("es", true, "save energy spectrum"),
					fileSuffix: "es",
				},
				columnNames: []string{"E (%s)", "weight"},
				values: func(de *DataExtractor) (args []float64, values [][]float64) {
					for i := range de.result.Spectrum.Energy {
						args = append(args, de.result.Spectrum.Energy[i])
						values = append(values, []float64{de.result.Spectrum.Weight[i]})
					}
					return args, values
				},
				units: [][]config.UnitElement{config.EnergyUnit, {}},
			},
			"Time of flight": {
				DataItem: DataItem{
					saveFlag:   fs.Bool("tof", false, "save time of flight spectrum"),
					fileSuffix: "tof",
				},
				columnNames: []string{"t (%s)", "weight"},
				values: func(de *DataExtractor) (args []float64, values [][]float64) {
					for i := range de.result.ToF.Time {
						args = append(args, de.result.ToF.Time[i])
						values = append(values, []float64{de.result.ToF.Weight[i]})
					}
					return args, values
				},
				units: [][]config.UnitElement{config.TimeUnit, {}},
			},
			"Time density": {
				DataItem: DataItem{
					saveFlag:   fs.Bool("tofd", false, "save time of flight spectrum per unit time"),
					fileSuffix: "tofd",
				},
				columnNames: []string{"t (%s)", "dN/dt (%s^-1)"},
				values: func(de *DataExtractor) (args []float64, values [][]float64) {
					for i := range de.result.ToF.Time {
						args = append(args, de.result.ToF.Time[i])
						values = append(values, []float64{de.result.Density[i]})
					}
					return args, values
				},
				units: [][]config.UnitElement{config.TimeUnit, {{Class: config.Time, Power: -1}}},
			},
			"Detector counts": {
				DataItem: DataItem{
					saveFlag:   fs.Bool("dc", false, "save simulated detector counts"),
					fileSuffix: "dc",
				},
				columnNames: []string{"t (%s)", "counts", "conf_interval"},
				values: func(de *DataExtractor) (args []float64, values [][]float64) {
					h := de.result.Counts
					if h == nil {
						return nil, nil
					}
					for i := range h.Time {
						args = append(args, h.Time[i])
						values = append(values, []float64{float64(h.Counts[i]), h.Error[i]})
					}
					return args, values
				},
				units: [][]config.UnitElement{config.TimeUnit, {}, {}},
			},
		},
	}
}

func (df *DataFlags) SetOutputPath(path string) {
	if path != "" && path[len(path)-1] != '/' {
		df.outputPath = path + "/"
	} else {
		df.outputPath = path
	}
}

func (df *DataFlags) GetOutputPath() string {
	return df.outputPath
}

func (df *DataFlags) saving(item DataItem) bool {
	return *item.saveFlag || *df.all
}

func (df *DataFlags) plotting() bool {
	return *df.plot || *df.all
}

// header substitutes the unit of each column into its name.
func header(names []string, units [][]config.UnitElement, outputUnits []string) []string {
	h := make([]string, len(names))
	for i, name := range names {
		if !strings.Contains(name, "%s") || len(units[i]) == 0 {
			h[i] = name
			continue
		}
		h[i] = fmt.Sprintf(name, config.UnitName(units[i][0].Class, outputUnits))
	}
	return h
}
