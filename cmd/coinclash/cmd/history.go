package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MinSungJe/coin-clash-crew/journal"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded games and statistics",
	Long: `List recent game records from the history journal and print
aggregate statistics (win rate, average return, best and worst rounds).

Listing requires a queryable journal backend (sqlite); --clear wipes the
recorded history on any backend.`,
	RunE: runHistory,
}

var (
	historyLimit int
	historyClear bool
)

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "number of games to list")
	historyCmd.Flags().BoolVar(&historyClear, "clear", false, "wipe the recorded history")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	j, err := openJournal(cfg)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer j.Close()

	if historyClear {
		if err := j.Clear(); err != nil {
			return fmt.Errorf("clear history: %w", err)
		}
		fmt.Println("History cleared.")
		return nil
	}

	games, err := j.ListGames(historyLimit)
	if err != nil {
		if errors.Is(err, journal.ErrQueryUnsupported) {
			return fmt.Errorf("journal type %q cannot be queried; use sqlite", cfg.Journal.Type)
		}
		return fmt.Errorf("list games: %w", err)
	}

	if len(games) == 0 {
		fmt.Println("No games recorded yet.")
		return nil
	}

	fmt.Printf("%-19s  %6s  %12s  %12s  %8s  %6s  %s\n",
		"time", "length", "capital", "final", "return", "trades", "result")
	for _, g := range games {
		result := "finished"
		if g.GaveUp {
			result = "gave up"
		}
		fmt.Printf("%-19s  %5ds  %12.0f  %12.0f  %+7.2f%%  %6d  %s\n",
			g.Time.Local().Format("2006-01-02 15:04:05"),
			g.DurationSec, g.InitialCapital, g.FinalValue,
			g.ProfitLossPercent, len(g.Trades), result)
	}

	stats, err := j.Stats()
	if err != nil {
		return fmt.Errorf("stats: %w", err)
	}

	fmt.Println()
	fmt.Printf("games %d, win rate %.1f%%, avg return %+.2f%%\n",
		stats.TotalGames, stats.WinRate, stats.AverageReturn)
	fmt.Printf("best %+.2f%%, worst %+.2f%%, %.1f trades per game\n",
		stats.BestReturn, stats.WorstReturn, stats.AvgTradesPerGame)
	return nil
}
