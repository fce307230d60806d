// Package journal records finished game sessions. It is a best-effort local
// history: the game core fires one record per finished session and does not
// depend on the write succeeding.
package journal

import (
	"errors"
	"time"
)

// ErrQueryUnsupported is returned by backends that only append (CSV).
var ErrQueryUnsupported = errors.New("journal backend does not support queries")

// TradeRecord is one executed order inside a recorded game.
type TradeRecord struct {
	TradeID string
	Side    string
	Symbol  string
	Amount  float64
	Price   float64
	Time    time.Time
}

// GameRecord is the frozen summary of one finished session. Write-once.
type GameRecord struct {
	ID                string
	Time              time.Time
	DurationSec       int
	InitialCapital    float64
	FinalValue        float64
	ProfitLoss        float64
	ProfitLossPercent float64
	Trades            []TradeRecord
	GaveUp            bool
}

// Stats aggregates the recorded history. A win is any positive P/L.
type Stats struct {
	TotalGames       int
	Wins             int
	WinRate          float64
	AverageReturn    float64
	BestReturn       float64
	WorstReturn      float64
	TotalTrades      int
	AvgTradesPerGame float64
}

type Journal interface {
	RecordGame(GameRecord) error

	// ListGames returns records newest first; limit <= 0 means all.
	ListGames(limit int) ([]GameRecord, error)
	Stats() (Stats, error)

	// Clear wipes the recorded history.
	Clear() error
	Close() error
}

// DefaultKeep caps the retained history; older games are evicted.
const DefaultKeep = 50

func computeStats(games []GameRecord) Stats {
	s := Stats{TotalGames: len(games)}
	if len(games) == 0 {
		return s
	}

	var sum float64
	s.BestReturn = games[0].ProfitLossPercent
	s.WorstReturn = games[0].ProfitLossPercent
	for _, g := range games {
		if g.ProfitLoss > 0 {
			s.Wins++
		}
		sum += g.ProfitLossPercent
		if g.ProfitLossPercent > s.BestReturn {
			s.BestReturn = g.ProfitLossPercent
		}
		if g.ProfitLossPercent < s.WorstReturn {
			s.WorstReturn = g.ProfitLossPercent
		}
		s.TotalTrades += len(g.Trades)
	}

	n := float64(len(games))
	s.WinRate = float64(s.Wins) / n * 100
	s.AverageReturn = sum / n
	s.AvgTradesPerGame = float64(s.TotalTrades) / n
	return s
}
