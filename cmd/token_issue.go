package cmd

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	tokenIssueSession string
	tokenIssueAction  string
)

// tokenIssueCmd represents the token issue command
var tokenIssueCmd = &cobra.Command{
	Use:   "issue",
	Short: "Issue an anti-forgery token for a session and action",
	Example: `  gatehouse token issue --session <id> --action user.profile.update`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cli, err := f.GetClient()
		if err != nil {
			return err
		}

		token, err := cli.IssueToken(cmd.Context(), tokenIssueSession, tokenIssueAction)
		if err != nil {
			return fmt.Errorf("issuing token: %w", err)
		}

		log.Info().Msgf("Issued token for action '%s'", tokenIssueAction)
		fmt.Println(token)
		return nil
	},
}

func init() {
	tokenCmd.AddCommand(tokenIssueCmd)

	tokenIssueCmd.Flags().StringVarP(&tokenIssueSession, "session", "s", "", "Session identifier")
	tokenIssueCmd.Flags().StringVar(&tokenIssueAction, "action", "", "Action the token is bound to")

	_ = tokenIssueCmd.MarkFlagRequired("session")
	_ = tokenIssueCmd.MarkFlagRequired("action")
}
