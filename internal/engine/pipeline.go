// Package engine is the pipeline glue around the core: it buffers
// incoming add/cancel requests into per-side batches and one cancel set,
// flushes those batches into the side books either on a size trigger or
// on the epoch wall-clock trigger, and on the epoch trigger runs the
// matcher and reintegrates its trades back into the Registry.
package engine

import (
	"time"

	"go.uber.org/zap"

	"github.com/marketcore/callauction/internal/auction"
	"github.com/marketcore/callauction/internal/matcher"
	"github.com/marketcore/callauction/internal/registry"
	"github.com/marketcore/callauction/internal/sidebook"
	"github.com/marketcore/callauction/internal/workerpool"
)

// EpochResult is emitted once per completed auction round, carrying the
// informational fields the driver reports per epoch: matched counts,
// volume and clearing rate live on Match; ProcessingTime covers the
// flush, the match and the Registry reconciliation, and PeriodTime the
// whole epoch.
type EpochResult struct {
	Match          matcher.Result
	Epoch          auction.Epoch
	Adds           int
	Cancels        int
	ProcessingTime time.Duration
	PeriodTime     time.Duration
}

// Pipeline owns the Registry and the two side books and drives them
// through the batch/epoch lifecycle.
type Pipeline struct {
	logger *zap.Logger
	pool   *workerpool.Pool

	batchSize  int
	epochNanos int64

	reg  *registry.Registry
	bids *sidebook.SideBook
	asks *sidebook.SideBook

	buyBatch  []auction.RegisteredOrder
	sellBatch []auction.RegisteredOrder
	cancelled map[auction.OrderID]struct{}

	epoch       auction.Epoch
	periodStart time.Time
	addCount    int
	cancelCount int
}

// New creates a Pipeline. batchSize triggers an early flush once the
// combined per-side batches reach it; epochNanos is the auction window
// length; pool backs the per-side flush fan-out. It returns
// ErrInvalidConfig if either tunable is non-positive.
func New(batchSize int, epochNanos int64, pool *workerpool.Pool, logger *zap.Logger) (*Pipeline, error) {
	if batchSize <= 0 {
		return nil, newError(ErrInvalidConfig, "batch size must be positive")
	}
	if epochNanos <= 0 {
		return nil, newError(ErrInvalidConfig, "epoch length must be positive")
	}
	return &Pipeline{
		logger:      logger,
		pool:        pool,
		batchSize:   batchSize,
		epochNanos:  epochNanos,
		reg:         registry.New(),
		bids:        sidebook.NewWithCapacity(auction.Buy, batchSize),
		asks:        sidebook.NewWithCapacity(auction.Sell, batchSize),
		buyBatch:    make([]auction.RegisteredOrder, 0, batchSize),
		sellBatch:   make([]auction.RegisteredOrder, 0, batchSize),
		cancelled:   make(map[auction.OrderID]struct{}),
		periodStart: time.Now(),
	}, nil
}

// Registry exposes the underlying order store, e.g. for a load-shedding
// policy to inspect Len().
func (p *Pipeline) Registry() *registry.Registry { return p.reg }

// Bids and Asks expose the current side books, e.g. for a load-shedding
// policy to pop a worst-priced order.
func (p *Pipeline) Bids() *sidebook.SideBook { return p.bids }
func (p *Pipeline) Asks() *sidebook.SideBook { return p.asks }

// Epoch reports the current auction round counter.
func (p *Pipeline) Epoch() auction.Epoch { return p.epoch }

// AddOrder registers a new order in the current epoch and queues it
// into the appropriate per-side batch.
func (p *Pipeline) AddOrder(o auction.Order) auction.RegisteredOrder {
	_, registered := p.reg.Insert(o, p.epoch)
	if registered.Side == auction.Buy {
		p.buyBatch = append(p.buyBatch, registered)
	} else {
		p.sellBatch = append(p.sellBatch, registered)
	}
	p.addCount++
	return registered
}

// CancelOrder removes id from the Registry immediately and queues it
// for removal from whichever side book currently holds it.
func (p *Pipeline) CancelOrder(id auction.OrderID) bool {
	_, ok := p.reg.Remove(id)
	if !ok {
		return false
	}
	p.cancelled[id] = struct{}{}
	p.cancelCount++
	return true
}

// Tick should be called after each processed request. It applies the
// size trigger (flush without matching) or the epoch trigger (flush,
// match, reintegrate), returning a non-nil EpochResult only when an
// auction round just completed.
func (p *Pipeline) Tick() *EpochResult {
	elapsed := time.Since(p.periodStart)
	combined := len(p.buyBatch) + len(p.sellBatch)

	switch {
	case elapsed.Nanoseconds() >= p.epochNanos:
		return p.runEpoch(elapsed)
	case combined >= p.batchSize:
		p.flushBatches()
	}
	return nil
}

// flushBatches runs AddBatch+RemoveBatch on both sides concurrently,
// joining before returning. The two tasks touch disjoint books and a
// read-only cancel set, so no locking is needed.
func (p *Pipeline) flushBatches() {
	buy := p.buyBatch
	sell := p.sellBatch
	p.pool.Join(
		func() {
			p.bids.AddBatch(buy)
			p.bids.RemoveBatch(p.cancelled)
		},
		func() {
			p.asks.AddBatch(sell)
			p.asks.RemoveBatch(p.cancelled)
		},
	)
	p.buyBatch = p.buyBatch[:0]
	p.sellBatch = p.sellBatch[:0]
	p.cancelled = make(map[auction.OrderID]struct{})
}

func (p *Pipeline) runEpoch(periodElapsed time.Duration) *EpochResult {
	start := time.Now()
	p.flushBatches()

	result := matcher.Match(p.bids, p.asks)
	p.bids = result.OpenBids
	p.asks = result.OpenAsks

	for _, t := range result.Trades {
		if t.Quantity == t.Order.Quantity {
			p.reg.Remove(t.Order.ID)
		} else {
			remaining := t.Order
			remaining.Quantity -= t.Quantity
			p.reg.Modify(remaining)
		}
	}

	er := &EpochResult{
		Match:          result,
		Epoch:          p.epoch,
		Adds:           p.addCount,
		Cancels:        p.cancelCount,
		ProcessingTime: time.Since(start),
		PeriodTime:     periodElapsed,
	}

	p.epoch++
	p.periodStart = time.Now()
	p.addCount = 0
	p.cancelCount = 0

	if p.logger != nil {
		p.logger.Info("auction epoch complete",
			zap.Uint16("epoch", uint16(er.Epoch)),
			zap.Int("bids_matched", result.BidsMatched),
			zap.Int("asks_matched", result.AsksMatched),
			zap.Uint64("traded_volume", result.TradedVolume),
			zap.Any("traded_rate", result.TradedRate),
			zap.Duration("processing", er.ProcessingTime),
		)
	}
	return er
}
