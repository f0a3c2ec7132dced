package cmd

import (
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Interact with the policy configuration",
	Long:  `Utilities for validating and viewing the Gatehouse policy file`,
}

func init() {
	rootCmd.AddCommand(configCmd)
}
