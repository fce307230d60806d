package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/MinSungJe/coin-clash-crew/game"
	"github.com/MinSungJe/coin-clash-crew/portfolio"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start a game round",
	Long: `Start a timed trading round.

While playing, enter orders on stdin:
  buy SYMBOL AMOUNT    - buy an asset amount (e.g. "buy BTC 0.01")
  sell SYMBOL AMOUNT   - sell an asset amount
  buyv SYMBOL VALUE    - buy by cash value (e.g. "buyv BTC 5000")
  sellv SYMBOL VALUE   - sell by cash value
  pf                   - show portfolio
  quit                 - give up the round early

Example:
  coinclash play --duration 120 --capital 50000`,
	RunE: runPlay,
}

var (
	playDuration int
	playCapital  float64
)

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().IntVarP(&playDuration, "duration", "d", 0, "round length in seconds (default: first configured option)")
	playCmd.Flags().Float64VarP(&playCapital, "capital", "c", 0, "initial capital (default: first configured option)")
}

func runPlay(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	duration := playDuration
	if duration == 0 {
		duration = cfg.Game.DurationOptions[0]
	}
	capital := playCapital
	if capital == 0 {
		capital = cfg.Game.CapitalOptions[0]
	}

	j, err := openJournal(cfg)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer j.Close()

	session := game.NewSession(cfg.Settings(), j, nil, nil)
	if err := session.Start(duration, capital); err != nil {
		return err
	}

	fmt.Printf("Round: %ds, capital %.0f. Type orders, \"quit\" gives up.\n", duration, capital)

	runner := game.NewRunner(session)
	runner.Run()
	defer runner.Stop()

	stop := make(chan struct{})
	defer close(stop)
	lines := readLines(os.Stdin, stop)

	display := time.NewTicker(session.PriceInterval())
	defer display.Stop()

	for {
		select {
		case <-runner.Done():
			printResults(session)
			return nil

		case <-display.C:
			printBoard(session)

		case line, ok := <-lines:
			if !ok {
				// stdin closed; let the round play out on its own.
				<-runner.Done()
				printResults(session)
				return nil
			}
			if quit := handleCommand(session, line); quit {
				runner.Stop()
				printResults(session)
				return nil
			}
		}
	}
}

// readLines forwards input lines on the returned channel, which closes on
// EOF. Closing stop releases the goroutine even when it holds an unread
// line, so a finished round does not leak it.
func readLines(r io.Reader, stop <-chan struct{}) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-stop:
				return
			}
		}
	}()
	return lines
}

// handleCommand applies one stdin line to the session. Returns true when
// the player gave up.
func handleCommand(s *game.Session, line string) bool {
	fields := strings.Fields(strings.TrimSpace(line))
	if len(fields) == 0 {
		return false
	}

	switch strings.ToLower(fields[0]) {
	case "quit", "q":
		if err := s.GiveUp(); err != nil {
			fmt.Println(err)
			return false
		}
		return true

	case "pf":
		printPortfolio(s)
		return false

	case "buy", "sell", "buyv", "sellv":
		if len(fields) != 3 {
			fmt.Println("usage: buy|sell|buyv|sellv SYMBOL NUMBER")
			return false
		}
		cmd := strings.ToLower(fields[0])
		symbol := strings.ToUpper(fields[1])
		n, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			fmt.Printf("bad number %q\n", fields[2])
			return false
		}

		side := portfolio.Buy
		if cmd == "sell" || cmd == "sellv" {
			side = portfolio.Sell
		}

		var trade portfolio.Trade
		if strings.HasSuffix(cmd, "v") {
			trade, err = s.SubmitTradeValue(side, symbol, n)
		} else {
			trade, err = s.SubmitTrade(side, symbol, n)
		}
		if err != nil {
			fmt.Printf("rejected: %v\n", err)
			return false
		}
		fmt.Printf("%s %v %s @ %.2f\n", trade.Side, trade.Amount, trade.Symbol, trade.Price)
		return false

	default:
		fmt.Printf("unknown command %q\n", fields[0])
		return false
	}
}

func printBoard(s *game.Session) {
	switch s.State() {
	case game.Countdown:
		fmt.Printf("starting in %d...\n", s.CountdownLeft())
		return
	case game.Playing:
	default:
		return
	}

	fmt.Printf("--- %ds left ---\n", s.Remaining())
	for _, a := range s.Assets() {
		fmt.Printf("  %-5s %-10s %14.2f  %+.2f%%\n", a.Symbol, a.Name, a.Price, a.ChangePct)
	}
	v := s.Valuation()
	fmt.Printf("  value %.2f  P/L %+.2f (%+.2f%%)\n", v.TotalValue, v.ProfitLoss, v.ProfitLossPercent)
}

func printPortfolio(s *game.Session) {
	pf := s.Portfolio()
	fmt.Printf("cash %.2f\n", pf.Cash)
	for _, a := range s.Assets() {
		held := pf.Holdings[a.Symbol]
		if held == 0 {
			continue
		}
		fmt.Printf("  %-5s %v (avg buy %.2f)\n", a.Symbol, held, s.AverageBuyPrice(a.Symbol))
	}
	fmt.Printf("trades: %d\n", len(pf.Trades))
}

func printResults(s *game.Session) {
	v := s.Valuation()
	pf := s.Portfolio()

	fmt.Println()
	if s.GaveUp() {
		fmt.Println("Round abandoned.")
	} else {
		fmt.Println("Time's up!")
	}
	fmt.Printf("  initial capital: %.2f\n", s.InitialCapital())
	fmt.Printf("  final value:     %.2f\n", v.TotalValue)
	fmt.Printf("  P/L:             %+.2f (%+.2f%%)\n", v.ProfitLoss, v.ProfitLossPercent)
	fmt.Printf("  trades:          %d\n", len(pf.Trades))
	fmt.Println("\nSee past rounds with: coinclash history")
}
