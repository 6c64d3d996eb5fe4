package driver

import (
	"github.com/marketcore/callauction/internal/auction"
	"github.com/marketcore/callauction/internal/engine"
)

// Shedder implements the driver-level load-shedding policy: once the
// Registry's live population exceeds a watermark, synthesize a cancel
// request by popping the worst-priced end of a side book, alternating
// sides on each call. This is a policy of the driver, not part of the
// engine contract — the engine never decides to shed load on its own.
type Shedder struct {
	watermark int
	nextIsBid bool
}

// NewShedder creates a Shedder for the given watermark.
func NewShedder(watermark int) *Shedder {
	return &Shedder{watermark: watermark, nextIsBid: true}
}

// ShouldShed reports whether the pipeline's Registry population is
// currently above the watermark.
func (s *Shedder) ShouldShed(p *engine.Pipeline) bool {
	return p.Registry().Len() > s.watermark
}

// Shed pops the worst-priced order off the side due next in the
// alternation and runs it through CancelOrder, returning the cancelled
// ID. ok is false if that side happened to be empty, in which case the
// caller should just skip this tick rather than force a cancel.
func (s *Shedder) Shed(p *engine.Pipeline) (cancelled auction.OrderID, ok bool) {
	bid := s.nextIsBid
	s.nextIsBid = !s.nextIsBid

	var popped auction.RegisteredOrder
	if bid {
		popped, ok = p.Bids().PopWorst()
	} else {
		popped, ok = p.Asks().PopWorst()
	}
	if !ok {
		return auction.OrderID{}, false
	}
	p.CancelOrder(popped.ID)
	return popped.ID, true
}
