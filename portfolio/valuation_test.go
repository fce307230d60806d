package portfolio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTotalValueOfFreshLedgerEqualsCapital(t *testing.T) {
	p := newLedger(t, 50_000)
	prices := map[string]float64{"BTC": 1_000_000, "ETH": 50_000, "DOGE": 150}

	assert.Equal(t, 50_000.0, TotalValue(p, prices))
	assert.Zero(t, ProfitLoss(p, prices, 50_000))
	assert.Zero(t, ProfitLossPercent(p, prices, 50_000))
}

// The canonical round: 10,000 capital, buy 0.01 BTC at 1,000,000 (all in),
// sell it at 1,200,000.
func TestBuyLowSellHigh(t *testing.T) {
	p := newLedger(t, 10_000)

	_, err := p.ApplyTrade(Buy, "BTC", 0.01, 1_000_000, testNow)
	require.NoError(t, err)
	assert.Zero(t, p.Cash())
	assert.Equal(t, 0.01, p.Holding("BTC"))

	_, err = p.ApplyTrade(Sell, "BTC", 0.01, 1_200_000, testNow)
	require.NoError(t, err)

	prices := map[string]float64{"BTC": 1_200_000, "ETH": 50_000, "DOGE": 150}
	assert.InDelta(t, 12_000, p.Cash(), 1e-9)
	assert.Zero(t, p.Holding("BTC"))
	assert.InDelta(t, 12_000, TotalValue(p, prices), 1e-9)
	assert.InDelta(t, 2_000, ProfitLoss(p, prices, 10_000), 1e-9)
	assert.InDelta(t, 20, ProfitLossPercent(p, prices, 10_000), 1e-9)
}

func TestTotalValueMarksHoldingsToMarket(t *testing.T) {
	p := newLedger(t, 10_000)

	_, err := p.ApplyTrade(Buy, "ETH", 2, 1_000, testNow)
	require.NoError(t, err)

	// Price doubles after the buy.
	prices := map[string]float64{"BTC": 0, "ETH": 2_000, "DOGE": 0}
	assert.InDelta(t, 12_000, TotalValue(p, prices), 1e-9)
	assert.InDelta(t, 20, ProfitLossPercent(p, prices, 10_000), 1e-9)
}

func TestProfitLossPercentGuardsZeroInitial(t *testing.T) {
	p := newLedger(t, 0)
	assert.Zero(t, ProfitLossPercent(p, map[string]float64{}, 0))
}
