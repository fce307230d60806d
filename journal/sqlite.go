package journal

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// SQLite persists game records to a local database, pruned to the newest
// keep games after every insert.
type SQLite struct {
	db   *sql.DB
	keep int
}

// NewSQLite opens (creating if needed) the database at path and applies the
// schema. keep <= 0 uses DefaultKeep.
func NewSQLite(path string, keep int) (*SQLite, error) {
	if keep <= 0 {
		keep = DefaultKeep
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &SQLite{db: db, keep: keep}, nil
}

func (j *SQLite) RecordGame(g GameRecord) error {
	tx, err := j.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO games
		(id, time, duration_sec, initial_capital, final_value, profit_loss, pl_percent, trade_count, gave_up)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.Time, g.DurationSec, g.InitialCapital, g.FinalValue,
		g.ProfitLoss, g.ProfitLossPercent, len(g.Trades), g.GaveUp,
	)
	if err != nil {
		return err
	}

	for _, t := range g.Trades {
		_, err = tx.Exec(`
			INSERT INTO game_trades
			(trade_id, game_id, side, symbol, amount, price, time)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			t.TradeID, g.ID, t.Side, t.Symbol, t.Amount, t.Price, t.Time,
		)
		if err != nil {
			return err
		}
	}

	// Evict beyond the retention cap, oldest first. ULID ids sort by time,
	// which breaks same-timestamp ties deterministically.
	_, err = tx.Exec(`
		DELETE FROM games WHERE id NOT IN
		(SELECT id FROM games ORDER BY time DESC, id DESC LIMIT ?)`, j.keep)
	if err != nil {
		return err
	}
	_, err = tx.Exec(`DELETE FROM game_trades WHERE game_id NOT IN (SELECT id FROM games)`)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (j *SQLite) ListGames(limit int) ([]GameRecord, error) {
	if limit <= 0 {
		limit = j.keep
	}

	rows, err := j.db.Query(`
		SELECT id, time, duration_sec, initial_capital, final_value, profit_loss, pl_percent, gave_up
		FROM games
		ORDER BY time DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []GameRecord
	for rows.Next() {
		var g GameRecord
		if err := rows.Scan(
			&g.ID,
			&g.Time,
			&g.DurationSec,
			&g.InitialCapital,
			&g.FinalValue,
			&g.ProfitLoss,
			&g.ProfitLossPercent,
			&g.GaveUp,
		); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		trades, err := j.listTrades(out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Trades = trades
	}
	return out, nil
}

func (j *SQLite) listTrades(gameID string) ([]TradeRecord, error) {
	rows, err := j.db.Query(`
		SELECT trade_id, side, symbol, amount, price, time
		FROM game_trades
		WHERE game_id = ?
		ORDER BY trade_id ASC`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TradeRecord
	for rows.Next() {
		var t TradeRecord
		if err := rows.Scan(&t.TradeID, &t.Side, &t.Symbol, &t.Amount, &t.Price, &t.Time); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (j *SQLite) Stats() (Stats, error) {
	var s Stats
	var sum float64

	err := j.db.QueryRow(`
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN profit_loss > 0 THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(pl_percent), 0),
		       COALESCE(MAX(pl_percent), 0),
		       COALESCE(MIN(pl_percent), 0),
		       COALESCE(SUM(trade_count), 0)
		FROM games`).Scan(
		&s.TotalGames, &s.Wins, &sum, &s.BestReturn, &s.WorstReturn, &s.TotalTrades,
	)
	if err != nil {
		return Stats{}, err
	}

	if s.TotalGames > 0 {
		n := float64(s.TotalGames)
		s.WinRate = float64(s.Wins) / n * 100
		s.AverageReturn = sum / n
		s.AvgTradesPerGame = float64(s.TotalTrades) / n
	}
	return s, nil
}

// Clear deletes every recorded game and its trades.
func (j *SQLite) Clear() error {
	tx, err := j.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM game_trades`); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM games`); err != nil {
		return err
	}
	return tx.Commit()
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
