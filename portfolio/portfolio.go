// Package portfolio is the session ledger: cash, per-asset holdings, and an
// append-only trade log. Orders either execute in full at the supplied price
// or are rejected without touching the ledger.
package portfolio

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/MinSungJe/coin-clash-crew/pkg/id"
)

var (
	ErrInvalidAmount        = errors.New("trade amount must be positive")
	ErrInsufficientCash     = errors.New("insufficient cash")
	ErrInsufficientHoldings = errors.New("insufficient holdings")
	ErrUnknownSymbol        = errors.New("unknown symbol")
)

type Side int

const (
	Buy Side = iota
	Sell
)

func (s Side) String() string {
	switch s {
	case Buy:
		return "buy"
	case Sell:
		return "sell"
	}
	return fmt.Sprintf("Side(%d)", int(s))
}

// Trade is an executed order. It is created only by a successful ApplyTrade
// and never mutated afterwards; Price snapshots the asset price at execution.
type Trade struct {
	ID     string
	Side   Side
	Symbol string
	Amount float64
	Price  float64
	Time   time.Time
}

// Portfolio holds the ledger for one session. It is not safe for concurrent
// use; the session serializes access (there is exactly one mutator).
type Portfolio struct {
	cash     float64
	holdings map[string]float64
	trades   []Trade
}

// Snapshot is a read-only copy of the ledger for display.
type Snapshot struct {
	Cash     float64
	Holdings map[string]float64
	Trades   []Trade
}

// New creates a ledger with the given starting cash and a zero holding for
// every known symbol.
func New(capital float64, symbols []string) *Portfolio {
	h := make(map[string]float64, len(symbols))
	for _, sym := range symbols {
		h[sym] = 0
	}
	return &Portfolio{cash: capital, holdings: h}
}

// ApplyTrade executes a full-fill order against the ledger, or rejects it.
// A rejection leaves the portfolio completely unchanged; callers must check
// the error before assuming state moved.
func (p *Portfolio) ApplyTrade(side Side, symbol string, amount, price float64, now time.Time) (Trade, error) {
	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return Trade{}, fmt.Errorf("%s %s %v: %w", side, symbol, amount, ErrInvalidAmount)
	}
	held, ok := p.holdings[symbol]
	if !ok {
		return Trade{}, fmt.Errorf("%s %q: %w", side, symbol, ErrUnknownSymbol)
	}

	value := amount * price

	switch side {
	case Buy:
		if p.cash < value {
			return Trade{}, fmt.Errorf("buy %s: need %.2f, have %.2f: %w",
				symbol, value, p.cash, ErrInsufficientCash)
		}
		p.cash -= value
		p.holdings[symbol] = held + amount

	case Sell:
		if held < amount {
			return Trade{}, fmt.Errorf("sell %s: need %v, have %v: %w",
				symbol, amount, held, ErrInsufficientHoldings)
		}
		p.cash += value
		p.holdings[symbol] = held - amount

	default:
		return Trade{}, fmt.Errorf("%s %s: %w", side, symbol, ErrInvalidAmount)
	}

	t := Trade{
		ID:     id.New(),
		Side:   side,
		Symbol: symbol,
		Amount: amount,
		Price:  price,
		Time:   now,
	}
	p.trades = append(p.trades, t)
	return t, nil
}

// AmountForValue converts a target notional value into an asset amount at
// the given price. It unifies the value-based order entry with the
// amount-based one: convert first, then ApplyTrade.
func AmountForValue(value, price float64) float64 {
	if price <= 0 {
		return 0
	}
	return value / price
}

// AverageBuyPrice is the amount-weighted mean execution price over the buy
// trades for a symbol, 0 with no buys. Display only; it plays no part in
// accounting.
func (p *Portfolio) AverageBuyPrice(symbol string) float64 {
	var cost, bought float64
	for _, t := range p.trades {
		if t.Side == Buy && t.Symbol == symbol {
			cost += t.Amount * t.Price
			bought += t.Amount
		}
	}
	if bought == 0 {
		return 0
	}
	return cost / bought
}

func (p *Portfolio) Cash() float64 { return p.cash }

func (p *Portfolio) Holding(symbol string) float64 { return p.holdings[symbol] }

func (p *Portfolio) Holdings() map[string]float64 {
	out := make(map[string]float64, len(p.holdings))
	for sym, amt := range p.holdings {
		out[sym] = amt
	}
	return out
}

func (p *Portfolio) Trades() []Trade {
	return append([]Trade(nil), p.trades...)
}

func (p *Portfolio) Snapshot() Snapshot {
	return Snapshot{
		Cash:     p.cash,
		Holdings: p.Holdings(),
		Trades:   p.Trades(),
	}
}
