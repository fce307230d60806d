package journal

const schema = `
CREATE TABLE IF NOT EXISTS games (
	id TEXT PRIMARY KEY,
	time DATETIME NOT NULL,
	duration_sec INTEGER NOT NULL,
	initial_capital REAL NOT NULL,
	final_value REAL NOT NULL,
	profit_loss REAL NOT NULL,
	pl_percent REAL NOT NULL,
	trade_count INTEGER NOT NULL,
	gave_up INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS game_trades (
	trade_id TEXT PRIMARY KEY,
	game_id TEXT NOT NULL,
	side TEXT NOT NULL,
	symbol TEXT NOT NULL,
	amount REAL NOT NULL,
	price REAL NOT NULL,
	time DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_games_time ON games(time);
CREATE INDEX IF NOT EXISTS idx_game_trades_game ON game_trades(game_id);
`
