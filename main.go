package main

import (
	"errors"
	"flag"
	"os"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/facette/natsort"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/wildstyl3r/ntof/internal/analysis"
	"github.com/wildstyl3r/ntof/internal/config"
	"github.com/wildstyl3r/ntof/internal/fit"
	"github.com/wildstyl3r/ntof/internal/kinematics"
	"github.com/wildstyl3r/ntof/internal/output"
	"github.com/wildstyl3r/ntof/internal/sweep"
	"github.com/wildstyl3r/ntof/internal/utils"
)

func main() {
	var configFileNamePointer = flag.String("input", "ntof", "run configuration in toml format")
	var threads = flag.Int("threads", runtime.NumCPU(), "number of worker goroutines")
	var verbose = flag.Bool("v", false, "verbose output")
	dataFlags := output.NewDataFlags(flag.CommandLine)
	flag.Parse()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	startTime := time.Now()
	log.Info().Str("time", startTime.UTC().Format(time.UnixDate)).Msg("started")

	configFileName := strings.TrimSuffix(*configFileNamePointer, ".toml")
	cfg, meta, err := config.LoadConfig(configFileName)
	if errors.Is(err, config.ErrNoRuns) {
		log.Info().Msg("no runs provided")
		return
	}
	if err != nil {
		log.Fatal().Err(err).Str("config", configFileName).Msg("unable to load configuration")
	}

	if cfg.OutputDir != "" && cfg.OutputDir != "." {
		if err := os.MkdirAll(cfg.OutputDir, 0750); err != nil {
			log.Fatal().Err(err).Msg("unable to create output directory")
		}
		dataFlags.SetOutputPath(cfg.OutputDir)
	}

	runNames := make([]string, 0, len(cfg.Runs))
	for runName := range cfg.Runs {
		runNames = append(runNames, runName)
	}
	sort.Slice(runNames, func(i, j int) bool { return natsort.Compare(runNames[i], runNames[j]) })

	// every run is validated before any sampling starts
	runs := make(map[string]config.RunParameters, len(runNames))
	for _, runName := range runNames {
		parameters := cfg.Runs[runName]
		if err := parameters.CheckAndUnify(runName, &cfg, &meta); err != nil {
			log.Error().Err(err).Msg("skipping run")
			continue
		}
		parameters.SetThreads(*threads)
		parameters.SetVerbosity(*verbose)
		runs[runName] = parameters
	}

	var chanWg sync.WaitGroup
	dataflow := make(chan []string)
	jobs := make(chan string)
	for range max(1, min(*threads, len(runs))) {
		chanWg.Add(1)
		//worker
		go func() {
			defer chanWg.Done()
			for runName := range jobs {
				logger := log.With().Str("run", runName).Logger()
				row, err := process(runName, runs[runName], dataFlags, logger)
				if err != nil {
					logger.Error().Err(err).Msg("run failed")
					continue
				}
				dataflow <- row
			}
		}()
	}
	go func() {
		for _, runName := range runNames {
			if _, valid := runs[runName]; valid {
				jobs <- runName
			}
		}
		close(jobs)
	}()

	// chan killer
	go func() {
		chanWg.Wait()
		close(dataflow)
	}()

	var summary utils.CSV
	for row := range dataflow {
		summary = append(summary, row)
		log.Info().Msgf("Done:[%d/%d]", len(summary), len(runs))
	}
	if len(summary) > 0 {
		if err := output.WriteSummary(summary, dataFlags, configFileName, cfg.OutputUnits); err != nil {
			log.Error().Err(err).Msg("unable to save summary")
		}
	}
	log.Info().Dur("elapsed", time.Since(startTime)).Msg("finished")
}

// process analyses one run, saves its outputs and returns its summary row.
func process(runName string, p config.RunParameters, df output.DataFlags, logger zerolog.Logger) ([]string, error) {
	var (
		src      analysis.Source
		reaction kinematics.Reaction
		err      error
	)
	if p.SpectrumFile == "" {
		if reaction, err = kinematics.ReactionByName(p.Reaction); err != nil {
			return nil, err
		}
		src = kinematics.NewCalculator(reaction)
	}
	res, err := analysis.Run(runName, src, p)
	if err != nil {
		return nil, err
	}
	logger.Info().
		Float64("E_mean", res.Width.Mean).
		Float64("E_FWHM", res.Width.FWHM).
		Float64("t_mean", res.ToFWidth.Mean).
		Float64("t_FWHM", res.ToFWidth.FWHM).
		Msg("spectrum analysed")

	de := output.NewDataExtractor(res, p, logger)
	if err := de.Save(df); err != nil {
		return nil, err
	}

	if src != nil && len(p.Temperatures) > 0 {
		if err := calibrate(runName, src, p, res, df, logger); err != nil {
			return nil, err
		}
	}
	if src != nil && p.MeasuredFWHM > 0 {
		t, err := fit.Infer(src, reaction, p, p.MeasuredFWHM, logger)
		if err != nil {
			return nil, err
		}
		logger.Info().
			Float64("FWHM", p.MeasuredFWHM).
			Float64("temperature", t).
			Float64("brysk", reaction.Temperature(p.MeasuredFWHM)).
			Msg("temperature inferred")
	}
	return de.SummaryRow(), nil
}

func calibrate(runName string, src analysis.Source, p config.RunParameters, res analysis.Result, df output.DataFlags, logger zerolog.Logger) error {
	points, err := sweep.Run(src, p, p.Temperatures, logger)
	if err != nil {
		return err
	}

	var calibration *sweep.Calibration
	if c, err := sweep.Fit(points); err == nil {
		calibration = &c
		temperature, _ := c.Temperature(res.Width.FWHM) // c comes from a successful fit
		logger.Info().
			Float64("E0", c.ColdMean).
			Float64("mean_shift", c.MeanShift).
			Float64("omega", c.WidthCoefficient).
			Float64("temperature", temperature).
			Msg("sweep calibrated")
	} else {
		logger.Debug().Err(err).Msg("sweep not calibrated")
	}
	if t, err := sweep.InvertWidth(points, res.Width.FWHM); err == nil {
		logger.Info().Float64("temperature", t).Msg("temperature from sweep table")
	} else {
		logger.Debug().Err(err).Msg("run width not inverted")
	}

	return output.SaveSweep(runName, points, calibration, p, df, logger)
}
