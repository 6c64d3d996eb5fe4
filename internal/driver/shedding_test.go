package driver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/marketcore/callauction/internal/auction"
	"github.com/marketcore/callauction/internal/engine"
	"github.com/marketcore/callauction/internal/workerpool"
)

// newShedTestPipeline uses a batch size of 1 so every AddOrder's Tick
// immediately flushes into the side books, keeping these tests free of
// any dependency on engine's unexported flush mechanics.
func newShedTestPipeline(t *testing.T) *engine.Pipeline {
	t.Helper()
	pool, err := workerpool.New(2, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(pool.Release)

	p, err := engine.New(1, int64(1_000_000_000_000), pool, zap.NewNop())
	require.NoError(t, err)
	return p
}

func TestShedder_ShouldShedRespectsWatermark(t *testing.T) {
	p := newShedTestPipeline(t)
	s := NewShedder(1)

	assert.False(t, s.ShouldShed(p))
	p.AddOrder(auction.Order{Side: auction.Buy, Rate: 10, Quantity: 1})
	p.Tick()
	assert.False(t, s.ShouldShed(p))
	p.AddOrder(auction.Order{Side: auction.Sell, Rate: 11, Quantity: 1})
	p.Tick()
	assert.True(t, s.ShouldShed(p))
}

func TestShedder_AlternatesSidesAndCancelsFromRegistry(t *testing.T) {
	p := newShedTestPipeline(t)
	p.AddOrder(auction.Order{Side: auction.Buy, Rate: 10, Quantity: 1})
	p.Tick()
	p.AddOrder(auction.Order{Side: auction.Sell, Rate: 20, Quantity: 1})
	p.Tick()
	require.Equal(t, 2, p.Registry().Len())

	s := NewShedder(0)
	id1, ok := s.Shed(p)
	require.True(t, ok)
	_, stillThere := p.Registry().Get(id1)
	assert.False(t, stillThere)

	id2, ok := s.Shed(p)
	require.True(t, ok)
	assert.NotEqual(t, id1, id2)

	assert.Equal(t, 0, p.Registry().Len())
}

func TestShedder_ReturnsFalseWhenChosenSideEmpty(t *testing.T) {
	p := newShedTestPipeline(t)
	s := NewShedder(0)
	_, ok := s.Shed(p)
	assert.False(t, ok)
}
