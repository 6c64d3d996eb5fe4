// Package driver holds everything that exercises the engine from the
// outside: the synthetic request generator, the load-shedding policy,
// running statistics and the benchmark loop.
package driver

import (
	"context"
	"math/rand"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/marketcore/callauction/internal/auction"
	"github.com/marketcore/callauction/internal/config"
)

// Trader tags a synthetic order with a stable identity for the
// benchmark's reporting. The engine itself never looks at this —
// Registry/SideBook/Matcher are trader-blind.
type Trader struct {
	ID uuid.UUID
}

// Generator produces synthetic orders: a price drawn uniformly from
// [min, max), a buy/sell coin flip, and a rate nudged by half the
// configured spread so that generated buy and sell prices overlap, with
// quantity uniform in [1, 1000).
type Generator struct {
	cfg     config.Config
	rng     *rand.Rand
	limiter *rate.Limiter
	traders []Trader
}

// NewGenerator creates a Generator. limit bounds the rate at which
// GenerateOrder is willing to proceed (0 disables throttling), useful
// for reproducible benchmark pacing.
func NewGenerator(cfg config.Config, seed int64, limit rate.Limit) *Generator {
	traders := make([]Trader, 9)
	for i := range traders {
		traders[i] = Trader{ID: uuid.New()}
	}
	g := &Generator{
		cfg:     cfg,
		rng:     rand.New(rand.NewSource(seed)),
		traders: traders,
	}
	if limit > 0 {
		g.limiter = rate.NewLimiter(limit, int(limit)+1)
	}
	return g
}

// GenerateOrder synthesizes one random order and the trader that placed
// it. If a rate limiter is configured, it blocks until the limiter
// allows another event through.
func (g *Generator) GenerateOrder() (auction.Order, Trader) {
	if g.limiter != nil {
		_ = g.limiter.Wait(context.Background())
	}

	spread := g.cfg.BuySellSpread
	span := g.cfg.PriceMax - g.cfg.PriceMin
	price := int32(g.rng.Uint32()%span) + int32(g.cfg.PriceMin)

	buy := g.rng.Intn(2) == 0
	var side auction.Side
	var rateOffset int32
	if buy {
		side = auction.Buy
		rateOffset = -spread / 2
	} else {
		side = auction.Sell
		rateOffset = spread / 2
	}

	order := auction.Order{
		Side:     side,
		Rate:     auction.Price(price + rateOffset),
		Quantity: auction.Quantity(1 + g.rng.Intn(999)),
	}
	trader := g.traders[g.rng.Intn(len(g.traders))]
	return order, trader
}

// CancelFlip is the even coin the benchmark loop tosses once the
// circulation watermark is exceeded: heads turns the next request into
// a synthetic cancel instead of an add.
func (g *Generator) CancelFlip() bool {
	return g.rng.Intn(2) == 0
}
