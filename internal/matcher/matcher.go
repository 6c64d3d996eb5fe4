// Package matcher implements the equilibrium walk that is the crux of
// the engine: given a fully-sorted buy side and sell side, it finds the
// single uniform clearing price and the set of trades for one auction
// round.
package matcher

import (
	"math"

	"github.com/marketcore/callauction/internal/auction"
	"github.com/marketcore/callauction/internal/pool"
	"github.com/marketcore/callauction/internal/sidebook"
)

// tradesPool reuses trade-slice backing arrays across epochs instead of
// allocating a fresh one every round; each Match call still returns a
// slice with a fresh length, only the backing array is recycled.
var tradesPool = pool.New(func() []auction.Trade {
	return make([]auction.Trade, 0, 64)
})

// ReleaseTrades returns a Result's Trades slice to the pool once the
// caller (the driver, once it has recorded the epoch) no longer needs
// it. Calling it is optional — it is a reuse hint, not a
// correctness requirement.
func ReleaseTrades(trades []auction.Trade) {
	tradesPool.Put(trades[:0])
}

// Result is the outcome of one auction round. OpenBids/OpenAsks are the
// unmatched remnants of the input books, still sorted, ready to seed the
// next epoch.
type Result struct {
	OpenBids     *sidebook.SideBook
	OpenAsks     *sidebook.SideBook
	Trades       []auction.Trade
	TradedVolume uint64
	TradedRate   *auction.Price
	BidsMatched  int
	AsksMatched  int
}

func noTrade(bids, asks *sidebook.SideBook) Result {
	return Result{OpenBids: bids, OpenAsks: asks}
}

// Match consumes bids and asks — both of which must already be sorted in
// their declared directions — and returns the clearing result. Empty,
// one-sided or non-crossing input yields a well-defined no-trade result
// with both books handed back intact; the matcher has no other failure
// mode.
func Match(bids, asks *sidebook.SideBook) Result {
	bidOrders := bids.Iter()
	askOrders := asks.Iter()

	if len(bidOrders) == 0 || len(askOrders) == 0 {
		return noTrade(bids, asks)
	}

	var (
		bestBid        = auction.Price(math.MaxInt32)
		bestAsk        = auction.Price(math.MinInt32)
		bidIdx, askIdx int
		bidVol, askVol uint64
	)

	var bidCum, askCum uint64
	bi, ai := 0, 0
	for bi < len(bidOrders) || ai < len(askOrders) {
		// Peek the cumulative volume each side would reach by accepting
		// its next order and advance whichever is smaller; equal
		// cumulative volumes advance the sell stream.
		bidNextCum, hasBid := bidCum, false
		if bi < len(bidOrders) {
			bidNextCum = bidCum + uint64(bidOrders[bi].Quantity)
			hasBid = true
		}
		askNextCum, hasAsk := askCum, false
		if ai < len(askOrders) {
			askNextCum = askCum + uint64(askOrders[ai].Quantity)
			hasAsk = true
		}

		takeBid := hasBid && (!hasAsk || bidNextCum < askNextCum)
		if takeBid {
			order := bidOrders[bi]
			if order.Rate < bestAsk {
				break
			}
			bidCum = bidNextCum
			bidVol = bidCum
			bestBid = order.Rate
			bidIdx++
			bi++
			continue
		}
		if hasAsk {
			order := askOrders[ai]
			if bestBid < order.Rate {
				break
			}
			askCum = askNextCum
			askVol = askCum
			bestAsk = order.Rate
			askIdx++
			ai++
			continue
		}
		break
	}

	// The sentinel bestBid/bestAsk values let the leading stream accept
	// orders before the other side has been touched, so a one-sided walk
	// can accept any number of orders without ever forming a cross. A
	// trade needs at least one accepted order on each side.
	if bidIdx == 0 || askIdx == 0 {
		return noTrade(bids, asks)
	}
	bidIdx--
	askIdx--

	// Midpoint with truncation toward zero; summed in 64 bits so extreme
	// prices cannot overflow.
	rate := auction.Price((int64(bidOrders[bidIdx].Rate) + int64(askOrders[askIdx].Rate)) / 2)

	trades := tradesPool.Get()
	var tradedVolume uint64
	bidMatched, askMatched := 0, 0

	switch {
	case bidVol > askVol:
		for bidVol-uint64(bidOrders[bidIdx].Quantity) > askVol {
			bidVol -= uint64(bidOrders[bidIdx].Quantity)
			bidIdx--
		}
		boundary := bidOrders[bidIdx]
		tradedVolume = askVol
		// A zero-quantity boundary fill is not a trade; the order stays
		// open untouched. Otherwise the book keeps the unfilled remnant.
		if q := auction.Quantity(uint64(boundary.Quantity) + askVol - bidVol); q > 0 {
			trades = append(trades, auction.Trade{Order: boundary, Rate: rate, Quantity: q})
			bidOrders[bidIdx].Quantity -= q
			bidMatched++
		}
		bidIdx--
	case bidVol < askVol:
		for askVol-uint64(askOrders[askIdx].Quantity) > bidVol {
			askVol -= uint64(askOrders[askIdx].Quantity)
			askIdx--
		}
		boundary := askOrders[askIdx]
		tradedVolume = bidVol
		if q := auction.Quantity(uint64(boundary.Quantity) + bidVol - askVol); q > 0 {
			trades = append(trades, auction.Trade{Order: boundary, Rate: rate, Quantity: q})
			askOrders[askIdx].Quantity -= q
			askMatched++
		}
		askIdx--
	default:
		tradedVolume = bidVol
	}

	bidMatched += bidIdx + 1
	askMatched += askIdx + 1

	for _, o := range bids.DrainPrefix(bidIdx) {
		trades = append(trades, auction.Trade{Order: o, Rate: rate, Quantity: o.Quantity})
	}
	for _, o := range asks.DrainPrefix(askIdx) {
		trades = append(trades, auction.Trade{Order: o, Rate: rate, Quantity: o.Quantity})
	}

	return Result{
		OpenBids:     bids,
		OpenAsks:     asks,
		Trades:       trades,
		TradedVolume: tradedVolume,
		TradedRate:   &rate,
		BidsMatched:  bidMatched,
		AsksMatched:  askMatched,
	}
}
