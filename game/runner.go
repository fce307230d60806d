package game

import (
	"sync"
	"time"
)

// Runner drives a session from the wall clock: a one-second ticker for the
// game clock and a slower ticker for the price feed. It stops itself when
// the session leaves Countdown/Playing, and Stop tears both tickers down
// before returning, so no stale tick can land on a reset session.
type Runner struct {
	session *Session

	stop chan struct{}
	done chan struct{}
	once sync.Once
	wg   sync.WaitGroup
}

func NewRunner(s *Session) *Runner {
	return &Runner{
		session: s,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Run starts the timer goroutine. Call once per runner.
func (r *Runner) Run() {
	r.wg.Add(1)
	go r.loop()
}

func (r *Runner) loop() {
	defer r.wg.Done()
	defer close(r.done)

	clock := time.NewTicker(time.Second)
	defer clock.Stop()
	prices := time.NewTicker(r.session.PriceInterval())
	defer prices.Stop()

	for {
		select {
		case <-r.stop:
			return
		case <-clock.C:
			r.session.TickSecond()
		case <-prices.C:
			r.session.TickPrices()
		}

		if st := r.session.State(); st != Countdown && st != Playing {
			return
		}
	}
}

// Done is closed when the timer goroutine has exited, whether from Stop or
// from the session finishing on its own.
func (r *Runner) Done() <-chan struct{} {
	return r.done
}

// Stop cancels both timers and waits for the goroutine to exit.
func (r *Runner) Stop() {
	r.once.Do(func() { close(r.stop) })
	r.wg.Wait()
}
