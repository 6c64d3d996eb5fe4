// Command auctiond is the synthetic load-driving benchmark for the
// call-auction engine: it generates a stream of add/cancel requests,
// pushes them through the pipeline, and prints per-epoch progress and a
// final statistics summary. It has no wire format and no persisted
// state — it exists only to exercise the core.
package main

import (
	"flag"
	"log"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/marketcore/callauction/internal/config"
	"github.com/marketcore/callauction/internal/driver"
)

func main() {
	var (
		configPath = flag.String("config", "", "directory to search for config.yaml")
		verbose    = flag.Bool("verbose", false, "enable development-mode logging")
	)
	flag.Parse()

	var logger *zap.Logger
	var err error
	if *verbose {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer logger.Sync()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	metrics := driver.NewMetrics(prometheus.DefaultRegisterer)

	logger.Info("benchmark configuration loaded",
		zap.Int("orders", cfg.Orders),
		zap.Int("batch_size", cfg.BatchSize),
		zap.Int64("epoch_nanos", cfg.EpochNanos),
	)

	run, err := driver.NewRunner(cfg, logger, metrics)
	if err != nil {
		logger.Fatal("failed to build runner", zap.Error(err))
	}

	logger.Info("starting market emulation")
	run.Run()

	logger.Info("processing summary", zap.String("report", run.Stats.String()))
}
