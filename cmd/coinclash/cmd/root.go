package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/MinSungJe/coin-clash-crew/config"
	"github.com/MinSungJe/coin-clash-crew/journal"
)

var rootCmd = &cobra.Command{
	Use:   "coinclash",
	Short: "A timed crypto trading game with virtual cash",
	Long: `Coinclash is a single-session simulated trading game.

You start with virtual cash, watch three synthetic coins move every couple
of seconds, and buy and sell for a fixed time window. When the clock runs
out you are scored on final portfolio return, and the result lands in a
local history log.

Commands:
  play     - start a game round
  history  - show recorded games and statistics
  config   - write a default config file`,
}

var cfgPath string

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Optional .env for COINCLASH_CONFIG; missing file is fine.
	_ = godotenv.Load()

	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "f", "", "path to config file (YAML or JSON)")
}

// loadConfig resolves the configuration: --config flag, then the
// COINCLASH_CONFIG environment variable, then built-in defaults.
func loadConfig() (*config.Config, error) {
	path := cfgPath
	if path == "" {
		path = os.Getenv("COINCLASH_CONFIG")
	}
	if path == "" {
		return config.Default(), nil
	}

	cfg, err := config.LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func openJournal(cfg *config.Config) (journal.Journal, error) {
	switch cfg.Journal.Type {
	case "sqlite":
		return journal.NewSQLite(cfg.Journal.DBPath, cfg.Journal.Keep)
	case "csv":
		return journal.NewCSV(cfg.Journal.GamesFile)
	default:
		return journal.NewMemory(cfg.Journal.Keep), nil
	}
}
