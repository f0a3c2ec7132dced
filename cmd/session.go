package cmd

import (
	"encoding/base64"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// sessionCmd represents the session command
var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Register a new anti-forgery session",
	Long: `Registers a fresh session secret with the server. The secret is
	printed exactly once; Gatehouse keeps only the server-side copy.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cli, err := f.GetClient()
		if err != nil {
			return err
		}

		id, secret, err := cli.CreateSession(cmd.Context())
		if err != nil {
			return fmt.Errorf("creating session: %w", err)
		}

		log.Info().Msg("Session registered")
		fmt.Printf("%s: %s\n", bold("Session"), id)
		fmt.Printf("%s:  %s\n", bold("Secret"), base64.RawURLEncoding.EncodeToString(secret))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
}
