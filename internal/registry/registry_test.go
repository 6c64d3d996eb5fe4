package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marketcore/callauction/internal/auction"
)

func TestRegistry_InsertGetRemove(t *testing.T) {
	reg := New()

	id, registered := reg.Insert(auction.Order{Side: auction.Buy, Rate: 100, Quantity: 5}, 0)
	assert.Equal(t, 1, reg.Len())
	assert.Equal(t, id, registered.ID)

	got, ok := reg.Get(id)
	require.True(t, ok)
	assert.Equal(t, registered, got)

	removed, ok := reg.Remove(id)
	require.True(t, ok)
	assert.Equal(t, registered, removed)
	assert.Equal(t, 0, reg.Len())

	_, ok = reg.Get(id)
	assert.False(t, ok, "removed id should no longer resolve")
}

func TestRegistry_RoundTripRestoresLen(t *testing.T) {
	reg := New()
	before := reg.Len()

	id, _ := reg.Insert(auction.Order{Side: auction.Sell, Rate: 10, Quantity: 1}, 0)
	_, ok := reg.Remove(id)
	require.True(t, ok)

	assert.Equal(t, before, reg.Len())
}

func TestRegistry_GenerationPreventsAliasing(t *testing.T) {
	reg := New()

	id1, _ := reg.Insert(auction.Order{Side: auction.Buy, Rate: 1, Quantity: 1}, 0)
	_, ok := reg.Remove(id1)
	require.True(t, ok)

	// Reinsert into what is very likely the same freed slot.
	id2, _ := reg.Insert(auction.Order{Side: auction.Buy, Rate: 2, Quantity: 2}, 0)
	assert.Equal(t, id1.Slot, id2.Slot, "freed slot should be reused")
	assert.NotEqual(t, id1.Gen, id2.Gen, "generation must bump on reuse")

	_, ok = reg.Get(id1)
	assert.False(t, ok, "old handle must not alias the new insert")

	got2, ok := reg.Get(id2)
	require.True(t, ok)
	assert.Equal(t, auction.Price(2), got2.Rate)
}

func TestRegistry_RemoveUnknownIsNoop(t *testing.T) {
	reg := New()
	_, ok := reg.Remove(auction.OrderID{Slot: 42, Gen: 0})
	assert.False(t, ok)
}

func TestRegistry_ModifyUnknownIsNoop(t *testing.T) {
	reg := New()
	reg.Modify(auction.RegisteredOrder{ID: auction.OrderID{Slot: 7, Gen: 0}, Quantity: 9})
	assert.Equal(t, 0, reg.Len())
}

func TestRegistry_ModifyReducesQuantity(t *testing.T) {
	reg := New()
	id, registered := reg.Insert(auction.Order{Side: auction.Buy, Rate: 50, Quantity: 10}, 0)

	registered.Quantity = 4
	reg.Modify(registered)

	got, ok := reg.Get(id)
	require.True(t, ok)
	assert.Equal(t, auction.Quantity(4), got.Quantity)
}

func TestRegistry_Contains(t *testing.T) {
	reg := New()
	id, _ := reg.Insert(auction.Order{Side: auction.Buy, Rate: 1, Quantity: 1}, 0)
	assert.True(t, reg.Contains(id))

	reg.Remove(id)
	assert.False(t, reg.Contains(id))
}
