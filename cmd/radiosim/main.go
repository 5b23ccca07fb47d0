// SPDX-FileCopyrightText: 2026-present Cellplan Project <info@cellplan.io>
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cellplan/radiosim/pkg/engine"
	"github.com/cellplan/radiosim/pkg/model"
	redisstore "github.com/cellplan/radiosim/pkg/store/redis"
)

const Version = "0.3.0"

var (
	logLevel     string
	scenarioFile string
	trials       int
	seed         int64
	seedSet      bool
	workers      int

	redisEnabled bool
	redisHost    string
	redisPort    string
	redisDB      string

	sweepDensities   []float64
	sweepFrequencies []float64
	sweepGenerations []string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "radiosim",
		Short: "Monte-Carlo interference and capacity simulator",
		Long:  "Estimates SINR and throughput distributions for 4G/5G deployments by repeated sampling of site and receiver geometries",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if logLevel != "" {
				level, err := log.ParseLevel(logLevel)
				if err != nil {
					return fmt.Errorf("invalid log level: %w", err)
				}
				log.SetLevel(level)
			}
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Set log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVarP(&scenarioFile, "scenario", "s", "", "Scenario YAML file")
	rootCmd.PersistentFlags().BoolVar(&redisEnabled, "redis", false, "Cache run statistics in redis")
	rootCmd.PersistentFlags().StringVar(&redisHost, "redis-host", "localhost", "Redis host")
	rootCmd.PersistentFlags().StringVar(&redisPort, "redis-port", "6379", "Redis port")
	rootCmd.PersistentFlags().StringVar(&redisDB, "redis-db", "0", "Redis database number")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the scenario",
		RunE: func(cmd *cobra.Command, args []string) error {
			seedSet = cmd.Flags().Changed("seed")
			sc, err := loadScenario()
			if err != nil {
				return err
			}
			_, err = runScenario(cmd.Context(), sc)
			return err
		},
	}
	runCmd.Flags().IntVar(&trials, "trials", 0, "Override the scenario trial count")
	runCmd.Flags().Int64Var(&seed, "seed", 0, "Override the scenario seed")
	runCmd.Flags().IntVar(&workers, "workers", 0, "Override the worker count")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run the scenario across a parameter grid",
		Long:  "Repeats the scenario for every combination of the given site densities, carrier frequencies and generations",
		RunE: func(cmd *cobra.Command, args []string) error {
			seedSet = cmd.Flags().Changed("seed")
			sc, err := loadScenario()
			if err != nil {
				return err
			}
			return runSweep(cmd.Context(), sc)
		},
	}
	sweepCmd.Flags().Float64SliceVar(&sweepDensities, "densities", nil, "Site densities per km2")
	sweepCmd.Flags().Float64SliceVar(&sweepFrequencies, "frequencies", nil, "Carrier frequencies in GHz")
	sweepCmd.Flags().StringSliceVar(&sweepGenerations, "generations", nil, "Generations (4G, 5G)")
	sweepCmd.Flags().Int64Var(&seed, "seed", 0, "Override the scenario seed")
	sweepCmd.Flags().IntVar(&workers, "workers", 0, "Override the worker count")

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a scenario file",
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := loadScenario()
			if err != nil {
				return err
			}
			log.Infof("scenario %q valid: %d transmitters, %d receivers",
				sc.Name, sc.TransmitterCount(), sc.ReceiverCount)
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, sweepCmd, validateCmd)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func loadScenario() (*model.Scenario, error) {
	if scenarioFile == "" {
		return nil, fmt.Errorf("no scenario file given, use --scenario")
	}
	sc, err := model.LoadScenario(scenarioFile)
	if err != nil {
		return nil, err
	}
	if trials > 0 {
		sc.Trials = trials
		sc.Adaptive = false
	}
	if seedSet {
		s := seed
		sc.Seed = &s
	}
	if workers > 0 {
		sc.Workers = workers
	}
	return sc, nil
}

func runScenario(ctx context.Context, sc *model.Scenario) (*model.ScenarioStatistics, error) {
	var store redisstore.Store
	var digest string
	if redisEnabled {
		if client := redisstore.InitClient(redisHost, redisPort, redisDB); client != nil {
			store = &redisstore.RedisStore{DB: client}
		}
	}
	if store != nil {
		d, err := redisstore.ScenarioDigest(sc)
		if err != nil {
			return nil, err
		}
		digest = d
		if cached, err := store.Get(ctx, digest); err == nil {
			log.WithField("digest", digest[:12]).Info("using cached run statistics")
			printSummary(sc, cached)
			return cached, nil
		}
	}

	eng, err := engine.New(sc)
	if err != nil {
		return nil, err
	}
	stats, err := eng.Run(ctx)
	if err != nil {
		return nil, err
	}
	printSummary(sc, stats)

	if store != nil {
		if err := store.Save(ctx, digest, stats); err != nil {
			log.WithError(err).Warn("failed to cache run statistics")
		}
	}
	return stats, nil
}

func runSweep(ctx context.Context, base *model.Scenario) error {
	densities := sweepDensities
	if len(densities) == 0 {
		densities = []float64{base.SiteDensityKm2}
	}
	frequencies := sweepFrequencies
	if len(frequencies) == 0 {
		frequencies = []float64{base.FrequencyGHz}
	}
	generations := sweepGenerations
	if len(generations) == 0 {
		generations = []string{string(base.Generation)}
	}

	for _, gen := range generations {
		for _, freq := range frequencies {
			for _, density := range densities {
				sc := *base
				sc.Generation = model.Generation(gen)
				sc.FrequencyGHz = freq
				if density > 0 {
					sc.SiteCount = 0
					sc.SiteDensityKm2 = density
				}
				sc.Name = fmt.Sprintf("%s-%s-%.2fGHz-%.2fkm2", base.Name, gen, freq, density)
				if err := sc.Validate(); err != nil {
					return err
				}
				if _, err := runScenario(ctx, &sc); err != nil {
					return err
				}
				if ctx.Err() != nil {
					return ctx.Err()
				}
			}
		}
	}
	return nil
}

func printSummary(sc *model.Scenario, stats *model.ScenarioStatistics) {
	sinr := stats.Metrics[engine.MetricMedianSINR]
	tput := stats.Metrics[engine.MetricMeanThroughput]
	outage := stats.Metrics[engine.MetricOutage]
	log.WithFields(log.Fields{
		"scenario":   stats.Scenario,
		"trials":     stats.CompletedTrials,
		"discarded":  stats.DiscardedTrials,
		"converged":  stats.Converged,
		"medianSINR": fmt.Sprintf("%.2f dB", sinr.Percentiles[50]),
		"meanTput":   fmt.Sprintf("%.1f Mbps", tput.Mean),
		"outage":     fmt.Sprintf("%.1f%%", outage.Mean*100),
	}).Info("run summary")
	if stats.Warning != "" {
		log.Warn(stats.Warning)
	}
}
