package journal

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"time"
)

var csvHeader = []string{
	"id", "time", "duration_sec", "initial_capital", "final_value",
	"profit_loss", "pl_percent", "trade_count", "gave_up",
}

// CSV appends one row per finished game to a plain file. It cannot be
// queried back; use the SQLite backend when history browsing matters.
type CSV struct {
	w *csv.Writer
	f *os.File
}

func NewCSV(path string) (*CSV, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}

	w := csv.NewWriter(file)
	if info.Size() == 0 {
		if err := w.Write(csvHeader); err != nil {
			file.Close()
			return nil, err
		}
		w.Flush()
		if err := w.Error(); err != nil {
			file.Close()
			return nil, err
		}
	}

	return &CSV{w: w, f: file}, nil
}

func (j *CSV) RecordGame(g GameRecord) error {
	err := j.w.Write([]string{
		g.ID,
		g.Time.Format(time.RFC3339),
		strconv.Itoa(g.DurationSec),
		f(g.InitialCapital),
		f(g.FinalValue),
		f(g.ProfitLoss),
		f(g.ProfitLossPercent),
		strconv.Itoa(len(g.Trades)),
		strconv.FormatBool(g.GaveUp),
	})
	if err != nil {
		return err
	}

	j.w.Flush()
	return j.w.Error()
}

func (j *CSV) ListGames(int) ([]GameRecord, error) {
	return nil, ErrQueryUnsupported
}

func (j *CSV) Stats() (Stats, error) {
	return Stats{}, ErrQueryUnsupported
}

// Clear truncates the file back to the header row.
func (j *CSV) Clear() error {
	if err := j.f.Truncate(0); err != nil {
		return err
	}
	if _, err := j.f.Seek(0, io.SeekStart); err != nil {
		return err
	}
	if err := j.w.Write(csvHeader); err != nil {
		return err
	}
	j.w.Flush()
	return j.w.Error()
}

func (j *CSV) Close() error {
	j.w.Flush()
	if err := j.w.Error(); err != nil {
		return err
	}
	return j.f.Close()
}

func f(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
