// Package game owns the session lifecycle: a timed trading round over a
// synthetic price feed, scored on final portfolio return.
package game

import (
	"errors"
	"fmt"
	"log"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/MinSungJe/coin-clash-crew/journal"
	"github.com/MinSungJe/coin-clash-crew/market"
	"github.com/MinSungJe/coin-clash-crew/pkg/id"
	"github.com/MinSungJe/coin-clash-crew/portfolio"
)

var (
	ErrInvalidConfiguration = errors.New("invalid session configuration")
	ErrStaleTransition      = errors.New("action not allowed in current state")
)

type State int

const (
	Waiting State = iota
	Countdown
	Playing
	Finished
)

func (s State) String() string {
	switch s {
	case Waiting:
		return "waiting"
	case Countdown:
		return "countdown"
	case Playing:
		return "playing"
	case Finished:
		return "finished"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Settings carries the tradable assets and feed parameters a session runs
// with. Values come from config; zero fields fall back to defaults here.
type Settings struct {
	Assets        []market.Asset
	HistoryWindow int
	MaxDeltaPct   float64
	PriceInterval time.Duration
	CountdownSec  int
}

// DefaultPriceInterval is how often the feed ticks while playing.
const DefaultPriceInterval = 2 * time.Second

// Valuation bundles the derived portfolio figures for display.
type Valuation struct {
	TotalValue        float64
	ProfitLoss        float64
	ProfitLossPercent float64
}

// Session is the one live game. It exclusively owns the board, feed, and
// portfolio; every public method serializes on the session mutex, so each
// timer tick and trade applies atomically.
//
// The tick methods are plain synchronous calls. Runner drives them from the
// wall clock; tests drive them directly.
type Session struct {
	mu sync.Mutex

	settings Settings
	journal  journal.Journal
	now      func() time.Time

	state     State
	board     *market.Board
	feed      *market.Feed
	portfolio *portfolio.Portfolio

	durationSec int
	capital     float64
	remaining   int
	countdown   int
	gaveUp      bool
	recorded    bool
}

// NewSession builds a session in Waiting. j may be nil (records go to an
// in-memory journal); now may be nil (wall clock); rng may be nil (time
// seeded). Injecting now and rng makes runs reproducible in tests.
func NewSession(settings Settings, j journal.Journal, now func() time.Time, rng *rand.Rand) *Session {
	if j == nil {
		j = journal.NewMemory(0)
	}
	if now == nil {
		now = time.Now
	}
	if settings.PriceInterval <= 0 {
		settings.PriceInterval = DefaultPriceInterval
	}

	board := market.NewBoard(settings.Assets, settings.HistoryWindow)
	return &Session{
		settings:  settings,
		journal:   j,
		now:       now,
		state:     Waiting,
		board:     board,
		feed:      market.NewFeed(board, rng, settings.MaxDeltaPct),
		portfolio: portfolio.New(0, board.Symbols()),
	}
}

// Start begins a round with the chosen duration and capital: fresh ledger,
// each asset's history re-seeded with a single point at its current price,
// full time on the clock. Prices carry over from any prior round. Valid
// from Waiting or Finished.
func (s *Session) Start(durationSec int, capital float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == Countdown || s.state == Playing {
		return fmt.Errorf("start in %s: %w", s.state, ErrStaleTransition)
	}
	if durationSec <= 0 {
		return fmt.Errorf("duration %d: %w", durationSec, ErrInvalidConfiguration)
	}
	if capital <= 0 || math.IsNaN(capital) || math.IsInf(capital, 0) {
		return fmt.Errorf("capital %v: %w", capital, ErrInvalidConfiguration)
	}

	s.durationSec = durationSec
	s.capital = capital
	s.remaining = durationSec
	s.countdown = s.settings.CountdownSec
	s.portfolio = portfolio.New(capital, s.board.Symbols())
	s.feed.Reset(s.now())
	s.gaveUp = false
	s.recorded = false

	if s.countdown > 0 {
		s.state = Countdown
	} else {
		s.state = Playing
	}
	return nil
}

// TickSecond advances the one-second clock: counts the countdown down into
// Playing, then counts remaining time down to the natural finish. A no-op
// in any other state, so a straggling tick cannot touch a reset session.
func (s *Session) TickSecond() {
	s.mu.Lock()

	var rec *journal.GameRecord
	switch s.state {
	case Countdown:
		s.countdown--
		if s.countdown <= 0 {
			s.state = Playing
		}
	case Playing:
		if s.remaining > 0 {
			s.remaining--
		}
		if s.remaining == 0 {
			rec = s.finishLocked(false)
		}
	}

	s.mu.Unlock()
	s.emit(rec)
}

// TickPrices advances the synthetic feed one step. Only while Playing.
func (s *Session) TickPrices() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Playing {
		return
	}
	s.feed.Tick(s.now())
}

// SubmitTrade executes a full-fill order at the asset's current board price.
func (s *Session) SubmitTrade(side portfolio.Side, symbol string, amount float64) (portfolio.Trade, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Playing {
		return portfolio.Trade{}, fmt.Errorf("submit trade in %s: %w", s.state, ErrStaleTransition)
	}

	asset, err := s.board.Get(symbol)
	if err != nil {
		return portfolio.Trade{}, err
	}
	return s.portfolio.ApplyTrade(side, symbol, amount, asset.Price, s.now())
}

// SubmitTradeValue places an order by target notional value instead of
// asset amount; the amount is derived at the current price and the order
// then follows the ordinary trade path.
func (s *Session) SubmitTradeValue(side portfolio.Side, symbol string, value float64) (portfolio.Trade, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Playing {
		return portfolio.Trade{}, fmt.Errorf("submit trade in %s: %w", s.state, ErrStaleTransition)
	}

	asset, err := s.board.Get(symbol)
	if err != nil {
		return portfolio.Trade{}, err
	}
	amount := portfolio.AmountForValue(value, asset.Price)
	return s.portfolio.ApplyTrade(side, symbol, amount, asset.Price, s.now())
}

// GiveUp ends the round early with the abandonment flag set and the
// remaining time frozen where it stands. Only valid while Playing.
func (s *Session) GiveUp() error {
	s.mu.Lock()

	if s.state != Playing {
		s.mu.Unlock()
		return fmt.Errorf("give up in %s: %w", s.state, ErrStaleTransition)
	}
	rec := s.finishLocked(true)

	s.mu.Unlock()
	s.emit(rec)
	return nil
}

// Restart discards the finished round and returns to Waiting, with the
// previously selected duration and capital restored as the next defaults
// and a fresh ledger behind them.
func (s *Session) Restart() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Finished {
		return fmt.Errorf("restart in %s: %w", s.state, ErrStaleTransition)
	}

	s.state = Waiting
	s.remaining = s.durationSec
	s.countdown = 0
	s.portfolio = portfolio.New(s.capital, s.board.Symbols())
	s.feed.ClearHistory()
	s.gaveUp = false
	s.recorded = false
	return nil
}

// finishLocked moves to Finished and builds the one GameRecord for this
// round, or returns nil if it was already built. Caller holds s.mu.
func (s *Session) finishLocked(gaveUp bool) *journal.GameRecord {
	s.state = Finished
	s.gaveUp = gaveUp

	if s.recorded {
		return nil
	}
	s.recorded = true

	prices := s.board.Prices()
	total := portfolio.TotalValue(s.portfolio, prices)

	trades := s.portfolio.Trades()
	recs := make([]journal.TradeRecord, 0, len(trades))
	for _, t := range trades {
		recs = append(recs, journal.TradeRecord{
			TradeID: t.ID,
			Side:    t.Side.String(),
			Symbol:  t.Symbol,
			Amount:  t.Amount,
			Price:   t.Price,
			Time:    t.Time,
		})
	}

	return &journal.GameRecord{
		ID:                id.New(),
		Time:              s.now(),
		DurationSec:       s.durationSec,
		InitialCapital:    s.capital,
		FinalValue:        total,
		ProfitLoss:        portfolio.ProfitLoss(s.portfolio, prices, s.capital),
		ProfitLossPercent: portfolio.ProfitLossPercent(s.portfolio, prices, s.capital),
		Trades:            recs,
		GaveUp:            gaveUp,
	}
}

// emit writes the record outside the session lock. Recording is best
// effort; a journal failure does not fail the session.
func (s *Session) emit(rec *journal.GameRecord) {
	if rec == nil {
		return
	}
	if err := s.journal.RecordGame(*rec); err != nil {
		log.Printf("record game %s: %v", rec.ID, err)
	}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Remaining is the playing time left in seconds. After a give-up it stays
// frozen at its last value.
func (s *Session) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remaining
}

func (s *Session) CountdownLeft() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.countdown
}

func (s *Session) Duration() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.durationSec
}

func (s *Session) InitialCapital() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.capital
}

func (s *Session) GaveUp() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gaveUp
}

// Portfolio returns a read-only copy of the ledger.
func (s *Session) Portfolio() portfolio.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.portfolio.Snapshot()
}

// Assets returns copies of the board's assets with current prices and
// history windows.
func (s *Session) Assets() []market.Asset {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.Assets()
}

// AverageBuyPrice is the display-only mean buy execution price for a symbol.
func (s *Session) AverageBuyPrice(symbol string) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.portfolio.AverageBuyPrice(symbol)
}

// Valuation recomputes the derived figures at current prices.
func (s *Session) Valuation() Valuation {
	s.mu.Lock()
	defer s.mu.Unlock()

	prices := s.board.Prices()
	return Valuation{
		TotalValue:        portfolio.TotalValue(s.portfolio, prices),
		ProfitLoss:        portfolio.ProfitLoss(s.portfolio, prices, s.capital),
		ProfitLossPercent: portfolio.ProfitLossPercent(s.portfolio, prices, s.capital),
	}
}

// PriceInterval is the feed tick interval the session was configured with.
func (s *Session) PriceInterval() time.Duration {
	return s.settings.PriceInterval
}
