package cmd

import (
	"github.com/spf13/cobra"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue and verify anti-forgery tokens",
	Long: `Utilities for the anti-forgery token lifecycle. These commands talk
	to a running Gatehouse server; sessions and their secrets live there.`,
}

func init() {
	rootCmd.AddCommand(tokenCmd)
}
