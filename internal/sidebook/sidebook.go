// Package sidebook holds the two price-sorted sequences that feed the
// matcher: a descending buy side and an ascending sell side, each
// maintained under streaming batch insertion and bulk cancellation.
//
// A SideBook is a flat, re-sorted-per-epoch slice rather than a balanced
// tree: the matcher reads each side exactly once, in order, so there is
// nothing to gain from log-time point queries.
package sidebook

import (
	"sort"

	"github.com/marketcore/callauction/internal/auction"
	"github.com/marketcore/callauction/internal/registry"
)

// SideBook is a sorted sequence of RegisteredOrder copies for one side.
// Sort direction is fixed at construction: Buy sorts rate descending,
// Sell sorts rate ascending.
type SideBook struct {
	side   auction.Side
	orders []auction.RegisteredOrder
}

// New creates an empty SideBook for the given side.
func New(side auction.Side) *SideBook {
	return &SideBook{side: side}
}

// NewWithCapacity creates an empty SideBook pre-allocated to hold cap
// orders without reallocating.
func NewWithCapacity(side auction.Side, cap int) *SideBook {
	return &SideBook{side: side, orders: make([]auction.RegisteredOrder, 0, cap)}
}

// Side reports which side this book sorts for.
func (b *SideBook) Side() auction.Side { return b.side }

// Len reports the number of orders currently held.
func (b *SideBook) Len() int { return len(b.orders) }

// First returns the best (front) order, or false if the book is empty.
func (b *SideBook) First() (auction.RegisteredOrder, bool) {
	if len(b.orders) == 0 {
		return auction.RegisteredOrder{}, false
	}
	return b.orders[0], true
}

// At returns the order at index i.
func (b *SideBook) At(i int) auction.RegisteredOrder { return b.orders[i] }

// Iter returns the full backing slice in sorted order. Callers must not
// retain it across a mutating call.
func (b *SideBook) Iter() []auction.RegisteredOrder { return b.orders }

func (b *SideBook) less(a, c auction.RegisteredOrder) bool {
	if b.side == auction.Buy {
		return a.Rate > c.Rate
	}
	return a.Rate < c.Rate
}

// AddBatch appends newcomers to the book and re-sorts the whole
// sequence in the side's declared direction. The book copies the
// entries, so the caller may truncate and reuse newcomers afterwards.
// O((n+m) log(n+m)).
func (b *SideBook) AddBatch(newcomers []auction.RegisteredOrder) {
	b.orders = append(b.orders, newcomers...)
	sort.Slice(b.orders, func(i, j int) bool { return b.less(b.orders[i], b.orders[j]) })
}

// RemoveBatch retains only orders whose ID is not present in cancelled.
// O(n).
func (b *SideBook) RemoveBatch(cancelled map[auction.OrderID]struct{}) {
	if len(cancelled) == 0 {
		return
	}
	kept := b.orders[:0]
	for _, o := range b.orders {
		if _, dead := cancelled[o.ID]; !dead {
			kept = append(kept, o)
		}
	}
	b.orders = kept
}

// AddRemoveBatch sorts newcomers in the side's direction, then merges
// two liveness-filtered streams — newcomers and the current sequence —
// under the side's comparator, dropping any order whose ID the Registry
// no longer contains. O(n+m). On an exact rate tie a newcomer sorts
// ahead of an incumbent; the matcher imposes no priority among equal
// rates.
func (b *SideBook) AddRemoveBatch(newcomers []auction.RegisteredOrder, reg *registry.Registry) {
	sort.Slice(newcomers, func(i, j int) bool { return b.less(newcomers[i], newcomers[j]) })

	merged := make([]auction.RegisteredOrder, 0, len(newcomers)+len(b.orders))
	i, j := 0, 0
	for i < len(newcomers) && j < len(b.orders) {
		if !reg.Contains(newcomers[i].ID) {
			i++
			continue
		}
		if !reg.Contains(b.orders[j].ID) {
			j++
			continue
		}
		// ties favor the incoming newcomer, so use a strict "<" on the
		// incumbent to decide when it must come first.
		if b.less(b.orders[j], newcomers[i]) {
			merged = append(merged, b.orders[j])
			j++
		} else {
			merged = append(merged, newcomers[i])
			i++
		}
	}
	for ; i < len(newcomers); i++ {
		if reg.Contains(newcomers[i].ID) {
			merged = append(merged, newcomers[i])
		}
	}
	for ; j < len(b.orders); j++ {
		if reg.Contains(b.orders[j].ID) {
			merged = append(merged, b.orders[j])
		}
	}
	b.orders = merged
}

// DrainPrefix removes and returns indices [0, upto] in order. It is
// used by the matcher to extract the filled orders on one side.
func (b *SideBook) DrainPrefix(upto int) []auction.RegisteredOrder {
	if upto < 0 {
		return nil
	}
	drained := make([]auction.RegisteredOrder, upto+1)
	copy(drained, b.orders[:upto+1])
	b.orders = append(b.orders[:0], b.orders[upto+1:]...)
	return drained
}

// PopWorst removes and returns the worst-priced (last) order in the
// book — the tail end of the declared sort direction. It exists for the
// driver's load-shedding policy and is not used by the matcher.
func (b *SideBook) PopWorst() (auction.RegisteredOrder, bool) {
	n := len(b.orders)
	if n == 0 {
		return auction.RegisteredOrder{}, false
	}
	o := b.orders[n-1]
	b.orders = b.orders[:n-1]
	return o, true
}
