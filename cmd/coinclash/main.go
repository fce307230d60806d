package main

import (
	"os"

	"github.com/MinSungJe/coin-clash-crew/cmd/coinclash/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
