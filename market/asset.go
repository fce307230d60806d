package market

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

var ErrUnknownSymbol = errors.New("unknown symbol")

// PricePoint is one sample in an asset's recent price history.
type PricePoint struct {
	Time  time.Time
	Price float64
}

// Asset is a single tradable coin: display metadata, the current quote,
// the percentage change of the last tick, and a bounded window of recent
// samples for charting.
type Asset struct {
	Symbol    string
	Name      string
	Price     float64
	ChangePct float64
	History   []PricePoint
}

func (a Asset) clone() Asset {
	c := a
	c.History = append([]PricePoint(nil), a.History...)
	return c
}

// Board holds the session's assets keyed by symbol. All accessors return
// copies; only the Feed mutates prices, and only through the board lock.
type Board struct {
	mu     sync.RWMutex
	order  []string
	assets map[string]*Asset
	window int
}

// NewBoard seeds a board from the configured assets. window caps the
// per-asset history length; window < 1 falls back to 1.
func NewBoard(seeds []Asset, window int) *Board {
	if window < 1 {
		window = 1
	}

	b := &Board{
		assets: make(map[string]*Asset, len(seeds)),
		window: window,
	}
	for _, s := range seeds {
		a := s.clone()
		b.order = append(b.order, a.Symbol)
		b.assets[a.Symbol] = &a
	}
	return b
}

func (b *Board) Get(symbol string) (Asset, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	a, ok := b.assets[symbol]
	if !ok {
		return Asset{}, fmt.Errorf("%q: %w", symbol, ErrUnknownSymbol)
	}
	return a.clone(), nil
}

// Assets returns copies of every asset in seed order.
func (b *Board) Assets() []Asset {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]Asset, 0, len(b.order))
	for _, sym := range b.order {
		out = append(out, b.assets[sym].clone())
	}
	return out
}

// Prices returns the current symbol -> price map, for valuation.
func (b *Board) Prices() map[string]float64 {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make(map[string]float64, len(b.assets))
	for sym, a := range b.assets {
		out[sym] = a.Price
	}
	return out
}

func (b *Board) Symbols() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]string(nil), b.order...)
}

// appendPoint pushes a sample onto an asset's history, evicting the oldest
// entries once the window is exceeded. Caller holds b.mu.
func (b *Board) appendPoint(a *Asset, pt PricePoint) {
	a.History = append(a.History, pt)
	if n := len(a.History) - b.window; n > 0 {
		a.History = append(a.History[:0], a.History[n:]...)
	}
}
