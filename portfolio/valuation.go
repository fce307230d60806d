package portfolio

// TotalValue marks the ledger to market: cash plus every holding at its
// current price. Pure; recomputed on demand, never cached.
func TotalValue(p *Portfolio, prices map[string]float64) float64 {
	total := p.cash
	for sym, amt := range p.holdings {
		total += amt * prices[sym]
	}
	return total
}

// ProfitLoss is total value minus the session's initial capital.
func ProfitLoss(p *Portfolio, prices map[string]float64, initial float64) float64 {
	return TotalValue(p, prices) - initial
}

// ProfitLossPercent is the return on initial capital in percent. Sessions
// reject a non-positive initial capital at start, so the guard here only
// keeps a direct caller from dividing by zero.
func ProfitLossPercent(p *Portfolio, prices map[string]float64, initial float64) float64 {
	if initial <= 0 {
		return 0
	}
	return ProfitLoss(p, prices, initial) / initial * 100
}
