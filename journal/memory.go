package journal

import "sync"

// Memory keeps records in process memory. It backs tests and the "none"
// journal setting, where history should not outlive the run.
type Memory struct {
	mu    sync.Mutex
	keep  int
	games []GameRecord
}

// NewMemory creates an in-memory journal retaining keep records
// (keep <= 0 uses DefaultKeep).
func NewMemory(keep int) *Memory {
	if keep <= 0 {
		keep = DefaultKeep
	}
	return &Memory{keep: keep}
}

func (m *Memory) RecordGame(g GameRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.games = append([]GameRecord{g}, m.games...)
	if len(m.games) > m.keep {
		m.games = m.games[:m.keep]
	}
	return nil
}

func (m *Memory) ListGames(limit int) ([]GameRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := len(m.games)
	if limit > 0 && limit < n {
		n = limit
	}
	return append([]GameRecord(nil), m.games[:n]...), nil
}

func (m *Memory) Stats() (Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return computeStats(m.games), nil
}

func (m *Memory) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.games = nil
	return nil
}

func (m *Memory) Close() error { return nil }
