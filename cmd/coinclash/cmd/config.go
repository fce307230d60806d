package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MinSungJe/coin-clash-crew/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Write a default config file",
	Long: `Write the built-in default configuration to a file, ready to edit.

Example:
  coinclash config --out coinclash.yaml`,
	RunE: runConfig,
}

var configOut string

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.Flags().StringVarP(&configOut, "out", "o", "coinclash.yaml", "output path (.yaml/.yml or .json)")
}

func runConfig(cmd *cobra.Command, args []string) error {
	if err := config.Default().SaveToFile(configOut); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", configOut)
	return nil
}
