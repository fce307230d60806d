package game

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MinSungJe/coin-clash-crew/journal"
	"github.com/MinSungJe/coin-clash-crew/market"
	"github.com/MinSungJe/coin-clash-crew/portfolio"
)

func testSettings() Settings {
	return Settings{
		Assets: []market.Asset{
			{Symbol: "BTC", Name: "Bitcoin", Price: 1_000_000},
			{Symbol: "ETH", Name: "Ethereum", Price: 50_000},
		},
		HistoryWindow: 20,
		MaxDeltaPct:   0.05,
		PriceInterval: 2 * time.Second,
		CountdownSec:  0,
	}
}

func newTestSession(t *testing.T, settings Settings) (*Session, *journal.Memory) {
	t.Helper()
	j := journal.NewMemory(0)
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	s := NewSession(settings, j, func() time.Time { return now }, rand.New(rand.NewSource(1)))
	return s, j
}

func startPlaying(t *testing.T, s *Session, duration int, capital float64) {
	t.Helper()
	require.NoError(t, s.Start(duration, capital))
	for s.State() == Countdown {
		s.TickSecond()
	}
	require.Equal(t, Playing, s.State())
}

func TestStartRejectsInvalidConfiguration(t *testing.T) {
	s, _ := newTestSession(t, testSettings())

	assert.ErrorIs(t, s.Start(0, 10_000), ErrInvalidConfiguration)
	assert.ErrorIs(t, s.Start(-60, 10_000), ErrInvalidConfiguration)
	assert.ErrorIs(t, s.Start(60, 0), ErrInvalidConfiguration)
	assert.ErrorIs(t, s.Start(60, -1), ErrInvalidConfiguration)
	assert.ErrorIs(t, s.Start(60, math.NaN()), ErrInvalidConfiguration)

	assert.Equal(t, Waiting, s.State())
}

func TestStartWhilePlayingIsStale(t *testing.T) {
	s, _ := newTestSession(t, testSettings())
	startPlaying(t, s, 60, 10_000)

	assert.ErrorIs(t, s.Start(60, 10_000), ErrStaleTransition)
}

func TestSubmitTradeOutsidePlayingIsStale(t *testing.T) {
	s, _ := newTestSession(t, testSettings())

	_, err := s.SubmitTrade(portfolio.Buy, "BTC", 0.01)
	assert.ErrorIs(t, err, ErrStaleTransition)

	startPlaying(t, s, 2, 10_000)
	s.TickSecond()
	s.TickSecond()
	require.Equal(t, Finished, s.State())

	_, err = s.SubmitTrade(portfolio.Buy, "BTC", 0.01)
	assert.ErrorIs(t, err, ErrStaleTransition)
}

func TestCountdownRunsIntoPlaying(t *testing.T) {
	settings := testSettings()
	settings.CountdownSec = 3
	s, _ := newTestSession(t, settings)

	require.NoError(t, s.Start(60, 10_000))
	assert.Equal(t, Countdown, s.State())
	assert.Equal(t, 3, s.CountdownLeft())

	s.TickSecond()
	s.TickSecond()
	assert.Equal(t, Countdown, s.State())

	s.TickSecond()
	assert.Equal(t, Playing, s.State())
	// The countdown does not eat playing time.
	assert.Equal(t, 60, s.Remaining())
}

func TestStartSeedsFreshRound(t *testing.T) {
	s, _ := newTestSession(t, testSettings())
	startPlaying(t, s, 120, 50_000)

	assert.Equal(t, 120, s.Remaining())
	assert.Equal(t, 50_000.0, s.InitialCapital())

	v := s.Valuation()
	assert.Equal(t, 50_000.0, v.TotalValue)
	assert.Zero(t, v.ProfitLoss)
	assert.Zero(t, v.ProfitLossPercent)

	for _, a := range s.Assets() {
		require.Len(t, a.History, 1)
		assert.Zero(t, a.ChangePct)
	}
}

func TestTickPricesOnlyWhilePlaying(t *testing.T) {
	s, _ := newTestSession(t, testSettings())
	before := s.Assets()

	s.TickPrices()
	assert.Equal(t, before, s.Assets())

	startPlaying(t, s, 60, 10_000)
	s.TickPrices()
	a := s.Assets()[0]
	assert.Len(t, a.History, 2)
}

func TestNaturalFinishEmitsExactlyOneRecord(t *testing.T) {
	s, j := newTestSession(t, testSettings())
	startPlaying(t, s, 2, 10_000)

	_, err := s.SubmitTrade(portfolio.Buy, "ETH", 0.1)
	require.NoError(t, err)

	s.TickSecond()
	assert.Equal(t, Playing, s.State())
	assert.Equal(t, 1, s.Remaining())

	s.TickSecond()
	assert.Equal(t, Finished, s.State())
	assert.Equal(t, 0, s.Remaining())
	assert.False(t, s.GaveUp())

	// Straggling timer ticks must not finish the session twice.
	s.TickSecond()
	s.TickPrices()

	games, err := j.ListGames(0)
	require.NoError(t, err)
	require.Len(t, games, 1)

	g := games[0]
	assert.Equal(t, 2, g.DurationSec)
	assert.Equal(t, 10_000.0, g.InitialCapital)
	assert.False(t, g.GaveUp)
	require.Len(t, g.Trades, 1)
	assert.Equal(t, "buy", g.Trades[0].Side)
	assert.Equal(t, "ETH", g.Trades[0].Symbol)
	assert.NotEmpty(t, g.ID)
}

func TestGiveUpFreezesRemainingAndSetsFlag(t *testing.T) {
	s, j := newTestSession(t, testSettings())
	startPlaying(t, s, 60, 10_000)
	s.TickSecond()
	s.TickSecond()
	require.Equal(t, 58, s.Remaining())

	require.NoError(t, s.GiveUp())
	assert.Equal(t, Finished, s.State())
	assert.True(t, s.GaveUp())
	assert.Equal(t, 58, s.Remaining())

	games, err := j.ListGames(0)
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.True(t, games[0].GaveUp)
}

func TestGiveUpOutsidePlayingHasNoEffect(t *testing.T) {
	s, j := newTestSession(t, testSettings())

	assert.ErrorIs(t, s.GiveUp(), ErrStaleTransition)
	assert.Equal(t, Waiting, s.State())

	startPlaying(t, s, 60, 10_000)
	require.NoError(t, s.GiveUp())
	assert.ErrorIs(t, s.GiveUp(), ErrStaleTransition)

	games, err := j.ListGames(0)
	require.NoError(t, err)
	assert.Len(t, games, 1)
}

func TestRestartReturnsToWaitingWithFreshLedger(t *testing.T) {
	s, _ := newTestSession(t, testSettings())
	startPlaying(t, s, 120, 10_000)

	_, err := s.SubmitTrade(portfolio.Buy, "BTC", 0.005)
	require.NoError(t, err)
	require.NoError(t, s.GiveUp())

	require.NoError(t, s.Restart())
	assert.Equal(t, Waiting, s.State())
	assert.Equal(t, 120, s.Remaining())
	assert.False(t, s.GaveUp())

	pf := s.Portfolio()
	assert.Equal(t, 10_000.0, pf.Cash)
	assert.Empty(t, pf.Trades)
	for sym, amt := range pf.Holdings {
		assert.Zerof(t, amt, "holding %s", sym)
	}
	for _, a := range s.Assets() {
		assert.Empty(t, a.History)
	}
}

// A second round opens at the prices the first round drifted to, not back
// at the config seeds.
func TestSecondRoundStartsFromDriftedPrices(t *testing.T) {
	s, _ := newTestSession(t, testSettings())
	startPlaying(t, s, 60, 10_000)
	for i := 0; i < 10; i++ {
		s.TickPrices()
	}
	require.NoError(t, s.GiveUp())

	drifted := map[string]float64{}
	for _, a := range s.Assets() {
		drifted[a.Symbol] = a.Price
	}
	require.NotEqual(t, 1_000_000.0, drifted["BTC"])

	require.NoError(t, s.Restart())
	startPlaying(t, s, 60, 10_000)

	for _, a := range s.Assets() {
		assert.Equal(t, drifted[a.Symbol], a.Price)
		require.Len(t, a.History, 1)
		assert.Equal(t, drifted[a.Symbol], a.History[0].Price)
	}
}

func TestRestartOutsideFinishedIsStale(t *testing.T) {
	s, _ := newTestSession(t, testSettings())

	assert.ErrorIs(t, s.Restart(), ErrStaleTransition)

	startPlaying(t, s, 60, 10_000)
	assert.ErrorIs(t, s.Restart(), ErrStaleTransition)
}

func TestSubmitTradeExecutesAtBoardPrice(t *testing.T) {
	s, _ := newTestSession(t, testSettings())
	startPlaying(t, s, 60, 10_000)

	trade, err := s.SubmitTrade(portfolio.Buy, "BTC", 0.01)
	require.NoError(t, err)
	assert.Equal(t, 1_000_000.0, trade.Price)

	pf := s.Portfolio()
	assert.Zero(t, pf.Cash)
	assert.Equal(t, 0.01, pf.Holdings["BTC"])
	assert.InDelta(t, 1_000_000, s.AverageBuyPrice("BTC"), 1e-9)

	// Round-trips at an unmoved price restore the starting value.
	_, err = s.SubmitTrade(portfolio.Sell, "BTC", 0.01)
	require.NoError(t, err)
	assert.InDelta(t, 10_000, s.Valuation().TotalValue, 1e-9)
}

func TestSubmitTradeValueDerivesAmount(t *testing.T) {
	s, _ := newTestSession(t, testSettings())
	startPlaying(t, s, 60, 10_000)

	trade, err := s.SubmitTradeValue(portfolio.Buy, "ETH", 5_000)
	require.NoError(t, err)
	assert.InDelta(t, 0.1, trade.Amount, 1e-9)
	assert.InDelta(t, 5_000, s.Portfolio().Cash, 1e-9)

	_, err = s.SubmitTradeValue(portfolio.Buy, "ETH", 0)
	assert.ErrorIs(t, err, portfolio.ErrInvalidAmount)
}

func TestSubmitTradeRejectionsLeaveStateUntouched(t *testing.T) {
	s, _ := newTestSession(t, testSettings())
	startPlaying(t, s, 60, 10_000)
	before := s.Portfolio()

	_, err := s.SubmitTrade(portfolio.Buy, "BTC", 1) // way past the cash
	assert.ErrorIs(t, err, portfolio.ErrInsufficientCash)

	_, err = s.SubmitTrade(portfolio.Sell, "ETH", 1)
	assert.ErrorIs(t, err, portfolio.ErrInsufficientHoldings)

	_, err = s.SubmitTrade(portfolio.Buy, "XRP", 1)
	assert.ErrorIs(t, err, market.ErrUnknownSymbol)

	assert.Equal(t, before, s.Portfolio())
}

func TestHistoryWindowHoldsThroughLongRounds(t *testing.T) {
	settings := testSettings()
	settings.HistoryWindow = 5
	s, _ := newTestSession(t, settings)
	startPlaying(t, s, 600, 10_000)

	for i := 0; i < 300; i++ {
		s.TickPrices()
		for _, a := range s.Assets() {
			require.LessOrEqual(t, len(a.History), 5)
		}
	}
}
