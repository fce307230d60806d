package market

import (
	"math/rand"
	"time"
)

// DefaultMaxDelta bounds the per-tick price move at +/-5%.
const DefaultMaxDelta = 0.05

// Feed drives the synthetic price process. Each tick applies a bounded
// uniform percentage move to every asset on the board and records the new
// price in that asset's history window.
//
// The random source is injected so tests can reproduce a run.
type Feed struct {
	board    *Board
	rng      *rand.Rand
	maxDelta float64
}

func NewFeed(board *Board, rng *rand.Rand, maxDelta float64) *Feed {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if maxDelta <= 0 || maxDelta >= 1 {
		maxDelta = DefaultMaxDelta
	}

	return &Feed{
		board:    board,
		rng:      rng,
		maxDelta: maxDelta,
	}
}

// Tick advances every asset one step: delta uniform in [-maxDelta, +maxDelta],
// price scaled by (1 + delta), change set to delta*100, and the new price
// appended to the history window.
func (f *Feed) Tick(now time.Time) {
	f.board.mu.Lock()
	defer f.board.mu.Unlock()

	for _, sym := range f.board.order {
		a := f.board.assets[sym]

		delta := (f.rng.Float64()*2 - 1) * f.maxDelta
		next := a.Price * (1 + delta)
		if next <= 0 {
			// Cannot happen with maxDelta < 1 and a positive seed, but the
			// positive-price invariant does not rely on that.
			continue
		}

		a.Price = next
		a.ChangePct = delta * 100
		f.board.appendPoint(a, PricePoint{Time: now, Price: next})
	}
}

// Reset zeroes every asset's change and re-seeds its history with a single
// point at the current price. Prices are not touched: they carry over
// between rounds, so each round opens wherever the market last stood.
// Called on session start.
func (f *Feed) Reset(now time.Time) {
	f.board.mu.Lock()
	defer f.board.mu.Unlock()

	for _, sym := range f.board.order {
		a := f.board.assets[sym]
		a.ChangePct = 0
		a.History = []PricePoint{{Time: now, Price: a.Price}}
	}
}

// ClearHistory empties every asset's history and zeroes its change, leaving
// prices where they are. Called when a finished session returns to the
// configuration screen.
func (f *Feed) ClearHistory() {
	f.board.mu.Lock()
	defer f.board.mu.Unlock()

	for _, sym := range f.board.order {
		a := f.board.assets[sym]
		a.ChangePct = 0
		a.History = nil
	}
}
