// Package registry is the stable-identity order store: a generational
// slot map from OrderID to auction.RegisteredOrder supporting O(1)
// insert, lookup and remove.
//
// A plain slice index is not safe here: a cancelled order's slot can be
// reused by a later insert while a SideBook snapshot still holds a
// handle to the old order. The generation counter on each slot turns a
// stale handle into a cheap "is this still live" predicate — Get
// returns false once the generation no longer matches.
package registry

import "github.com/marketcore/callauction/internal/auction"

type slot struct {
	order    auction.RegisteredOrder
	gen      uint32
	occupied bool
}

// Registry owns every live RegisteredOrder. It is not safe for
// concurrent use; the driver serializes every Registry operation.
type Registry struct {
	slots    []slot
	freeList []uint32
	count    int
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{}
}

// Insert allocates a fresh OrderID (reusing a freed slot with a bumped
// generation when one is available), stores the registered form of
// order, and returns the new ID together with a copy of the stored
// record. Amortized O(1).
func (r *Registry) Insert(o auction.Order, epoch auction.Epoch) (auction.OrderID, auction.RegisteredOrder) {
	var slotIdx uint32
	if n := len(r.freeList); n > 0 {
		slotIdx = r.freeList[n-1]
		r.freeList = r.freeList[:n-1]
	} else {
		slotIdx = uint32(len(r.slots))
		r.slots = append(r.slots, slot{})
	}

	s := &r.slots[slotIdx]
	gen := s.gen
	id := auction.OrderID{Slot: slotIdx, Gen: gen}
	registered := auction.NewRegisteredOrder(id, epoch, o)
	s.order = registered
	s.occupied = true
	r.count++
	return id, registered
}

// Get returns the stored record for id, or false if id is stale or
// unknown.
func (r *Registry) Get(id auction.OrderID) (auction.RegisteredOrder, bool) {
	if !r.valid(id) {
		return auction.RegisteredOrder{}, false
	}
	return r.slots[id.Slot].order, true
}

// Contains reports whether id currently names a live order.
func (r *Registry) Contains(id auction.OrderID) bool {
	return r.valid(id)
}

// Remove deletes the order named by id, freeing its slot and bumping the
// slot's generation so the handle can never alias a future insert. It
// returns the removed record, or false if id was absent.
func (r *Registry) Remove(id auction.OrderID) (auction.RegisteredOrder, bool) {
	if !r.valid(id) {
		return auction.RegisteredOrder{}, false
	}
	s := &r.slots[id.Slot]
	order := s.order
	s.order = auction.RegisteredOrder{}
	s.occupied = false
	s.gen++
	r.freeList = append(r.freeList, id.Slot)
	r.count--
	return order, true
}

// Modify overwrites the stored record for order.ID in place. It is a
// no-op if the ID is unknown; the driver uses this only to reduce
// Quantity after a partial fill and never passes a dead ID.
func (r *Registry) Modify(order auction.RegisteredOrder) {
	if !r.valid(order.ID) {
		return
	}
	r.slots[order.ID.Slot].order = order
}

// Len reports the number of live orders.
func (r *Registry) Len() int {
	return r.count
}

func (r *Registry) valid(id auction.OrderID) bool {
	if int(id.Slot) >= len(r.slots) {
		return false
	}
	s := &r.slots[id.Slot]
	return s.occupied && s.gen == id.Gen
}
