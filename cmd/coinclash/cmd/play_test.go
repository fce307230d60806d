package cmd

import (
	"strings"
	"testing"
	"time"
)

// The line forwarder must exit when stop closes, even while it holds an
// unread line.
func TestReadLinesReleasesOnStop(t *testing.T) {
	stop := make(chan struct{})
	lines := readLines(strings.NewReader("buy BTC 0.01\nsell BTC 0.01\n"), stop)
	close(stop)

	for {
		select {
		case _, ok := <-lines:
			if !ok {
				return
			}
		case <-time.After(time.Second):
			t.Fatal("line forwarder did not stop")
		}
	}
}

func TestReadLinesForwardsUntilEOF(t *testing.T) {
	stop := make(chan struct{})
	defer close(stop)
	lines := readLines(strings.NewReader("buy BTC 0.01\nquit\n"), stop)

	var got []string
	for line := range lines {
		got = append(got, line)
	}
	if len(got) != 2 || got[0] != "buy BTC 0.01" || got[1] != "quit" {
		t.Fatalf("unexpected lines: %v", got)
	}
}
