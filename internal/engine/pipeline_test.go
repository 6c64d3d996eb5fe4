package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/marketcore/callauction/internal/auction"
	"github.com/marketcore/callauction/internal/workerpool"
)

func newTestPipeline(t *testing.T, batchSize int, epochNanos int64) *Pipeline {
	t.Helper()
	pool, err := workerpool.New(2, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(pool.Release)

	p, err := New(batchSize, epochNanos, pool, zap.NewNop())
	require.NoError(t, err)
	return p
}

func TestPipeline_RejectsInvalidConfig(t *testing.T) {
	pool, err := workerpool.New(2, zap.NewNop())
	require.NoError(t, err)
	defer pool.Release()

	_, err = New(0, 100, pool, zap.NewNop())
	assert.Error(t, err)

	_, err = New(10, 0, pool, zap.NewNop())
	assert.Error(t, err)
}

func TestPipeline_SizeTriggerFlushesWithoutMatching(t *testing.T) {
	p := newTestPipeline(t, 4, int64(time.Hour))

	p.AddOrder(auction.Order{Side: auction.Buy, Rate: 10, Quantity: 1})
	p.AddOrder(auction.Order{Side: auction.Sell, Rate: 20, Quantity: 1})
	p.AddOrder(auction.Order{Side: auction.Buy, Rate: 11, Quantity: 1})
	er := p.Tick()
	assert.Nil(t, er, "below batch size should not flush")

	p.AddOrder(auction.Order{Side: auction.Sell, Rate: 21, Quantity: 1})
	er = p.Tick()
	assert.Nil(t, er, "size trigger flushes books but does not match")
	assert.Equal(t, 2, p.Bids().Len())
	assert.Equal(t, 2, p.Asks().Len())
}

func TestPipeline_EpochTriggerMatchesAndReintegrates(t *testing.T) {
	p := newTestPipeline(t, 1_000_000, int64(1))

	p.AddOrder(auction.Order{Side: auction.Buy, Rate: 100, Quantity: 5})
	p.AddOrder(auction.Order{Side: auction.Sell, Rate: 90, Quantity: 5})
	time.Sleep(time.Microsecond)

	er := p.Tick()
	require.NotNil(t, er)
	require.NotNil(t, er.Match.TradedRate)
	assert.Equal(t, auction.Price(95), *er.Match.TradedRate)
	assert.Equal(t, 0, p.Registry().Len(), "both orders fully filled and removed")
	assert.Equal(t, auction.Epoch(1), p.Epoch())
}

func TestPipeline_CancelBeforeFlushRemovesFromBatch(t *testing.T) {
	p := newTestPipeline(t, 1_000_000, int64(time.Hour))

	registered := p.AddOrder(auction.Order{Side: auction.Buy, Rate: 10, Quantity: 1})
	ok := p.CancelOrder(registered.ID)
	assert.True(t, ok)
	assert.Equal(t, 0, p.Registry().Len())

	p.flushBatches()
	assert.Equal(t, 0, p.Bids().Len(), "cancelled order must not survive the flush")
}
