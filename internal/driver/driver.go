package driver

import (
	"time"

	"go.uber.org/zap"

	"github.com/marketcore/callauction/internal/config"
	"github.com/marketcore/callauction/internal/engine"
	"github.com/marketcore/callauction/internal/matcher"
	"github.com/marketcore/callauction/internal/workerpool"
)

// Runner is the benchmark loop: generate or shed a request, feed it to
// the Pipeline, tick, and fold any completed epoch into Stats and
// Metrics.
type Runner struct {
	cfg      config.Config
	pipeline *engine.Pipeline
	gen      *Generator
	shedder  *Shedder
	metrics  *Metrics
	logger   *zap.Logger

	Stats Stats
}

// NewRunner wires a Runner around cfg, spinning up the ants-backed pool
// the pipeline needs for its per-side fan-out.
func NewRunner(cfg config.Config, logger *zap.Logger, metrics *Metrics) (*Runner, error) {
	pool, err := workerpool.New(cfg.WorkerPoolSize, logger)
	if err != nil {
		return nil, err
	}
	pipeline, err := engine.New(cfg.BatchSize, cfg.EpochNanos, pool, logger)
	if err != nil {
		return nil, err
	}
	return &Runner{
		cfg:      cfg,
		pipeline: pipeline,
		gen:      NewGenerator(cfg, 1, 0),
		shedder:  NewShedder(cfg.Circulation),
		metrics:  metrics,
		logger:   logger,
	}, nil
}

// Run generates cfg.Orders synthetic requests, feeding each through the
// pipeline, and returns once they have all been processed (including
// whatever trailing epoch the final requests trigger).
func (r *Runner) Run() {
	start := time.Now()
	for i := 0; i < r.cfg.Orders; i++ {
		if r.shedder.ShouldShed(r.pipeline) && r.gen.CancelFlip() {
			if _, ok := r.shedder.Shed(r.pipeline); !ok {
				continue
			}
		} else {
			order, _ := r.gen.GenerateOrder()
			r.pipeline.AddOrder(order)
		}

		if er := r.pipeline.Tick(); er != nil {
			r.Stats.Record(er.ProcessingTime, er.PeriodTime, len(er.Match.Trades), er.Adds, er.Cancels)
			if r.metrics != nil {
				r.metrics.Observe(er)
			}
			matcher.ReleaseTrades(er.Match.Trades)
		}
	}
	if r.logger != nil {
		r.logger.Info("benchmark run complete",
			zap.Int("orders", r.cfg.Orders),
			zap.Duration("elapsed", time.Since(start)),
		)
	}
}
