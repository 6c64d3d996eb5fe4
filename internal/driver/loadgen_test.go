package driver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marketcore/callauction/internal/auction"
	"github.com/marketcore/callauction/internal/config"
)

func TestGenerator_ProducesOrdersWithinConfiguredSpread(t *testing.T) {
	cfg := config.Default()
	g := NewGenerator(cfg, 42, 0)

	for i := 0; i < 200; i++ {
		order, trader := g.GenerateOrder()
		require.NotEqual(t, trader.ID.String(), "")
		assert.Greater(t, order.Quantity, auction.Quantity(0))
		assert.LessOrEqual(t, order.Quantity, auction.Quantity(1000))
		assert.True(t, order.Side == auction.Buy || order.Side == auction.Sell)
		assert.GreaterOrEqual(t, int32(order.Rate), int32(cfg.PriceMin)-cfg.BuySellSpread/2)
		assert.Less(t, int32(order.Rate), int32(cfg.PriceMax)+cfg.BuySellSpread/2)
	}
}

func TestGenerator_IsDeterministicForAGivenSeed(t *testing.T) {
	cfg := config.Default()
	a := NewGenerator(cfg, 7, 0)
	b := NewGenerator(cfg, 7, 0)

	for i := 0; i < 20; i++ {
		oa, _ := a.GenerateOrder()
		ob, _ := b.GenerateOrder()
		assert.Equal(t, oa, ob)
	}
}

func TestGenerator_PicksFromFixedTraderPool(t *testing.T) {
	cfg := config.Default()
	g := NewGenerator(cfg, 1, 0)
	assert.Len(t, g.traders, 9)
}
