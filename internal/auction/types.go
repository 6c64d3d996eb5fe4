// Package auction holds the data types shared by the registry, side books
// and matcher: prices, sides, epochs and the order records that flow
// between them.
package auction

import "fmt"

// Price is a signed price in minor currency units (e.g. hundredths).
// Negative values are representable but never produced by the driver.
type Price int32

// Quantity is the size of an order. The cumulative sum of quantities on
// one side of the book must fit in a uint64 (the matcher accumulates it
// in one).
type Quantity uint32

// Epoch identifies the auction round an order was registered in.
type Epoch uint16

// Side distinguishes buy orders from sell orders.
type Side int8

const (
	Buy Side = iota
	Sell
)

func (s Side) String() string {
	if s == Buy {
		return "Buy"
	}
	return "Sell"
}

// OrderID is an opaque handle into a Registry: a slot index paired with a
// generation counter. Two handles are equal iff both fields match. A
// handle to a removed order never aliases a later insertion into the same
// slot, because the slot's generation is bumped on free.
type OrderID struct {
	Slot uint32
	Gen  uint32
}

func (id OrderID) String() string {
	return fmt.Sprintf("%d.%d", id.Slot, id.Gen)
}

// Order is the unregistered form of a request to buy or sell: a side, a
// rate and a positive quantity.
type Order struct {
	Side     Side
	Rate     Price
	Quantity Quantity
}

// RegisteredOrder is an Order that has been admitted into a Registry.
// ID, Epoch and Side are immutable once registered; Quantity may be
// reduced in place by the matcher on a partial fill.
type RegisteredOrder struct {
	ID       OrderID
	Epoch    Epoch
	Side     Side
	Rate     Price
	Quantity Quantity
}

// NewRegisteredOrder builds the registered form of o once the registry
// has assigned it id and epoch.
func NewRegisteredOrder(id OrderID, epoch Epoch, o Order) RegisteredOrder {
	return RegisteredOrder{
		ID:       id,
		Epoch:    epoch,
		Side:     o.Side,
		Rate:     o.Rate,
		Quantity: o.Quantity,
	}
}

// Trade is one fill produced by the matcher: the order that was filled,
// the uniform clearing rate, and the quantity filled (0 < Quantity <=
// Order.Quantity). Trades are transient — the driver consumes them to
// update the Registry and then discards them.
type Trade struct {
	Order    RegisteredOrder
	Rate     Price
	Quantity Quantity
}
