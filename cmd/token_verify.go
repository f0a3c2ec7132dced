package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	tokenVerifySession string
	tokenVerifyAction  string
	tokenVerifyToken   string
)

// tokenVerifyCmd represents the token verify command
var tokenVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify an anti-forgery token",
	Long: `Checks a token against its session secret, bound action and expiry
	window. The result is a verdict only; no failure detail is exposed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cli, err := f.GetClient()
		if err != nil {
			return err
		}

		valid := cli.VerifyToken(cmd.Context(), tokenVerifySession, tokenVerifyAction, tokenVerifyToken)
		if !valid {
			fmt.Printf("Token: %s\n", bold(red("invalid")))
			return fmt.Errorf("token verification failed")
		}

		fmt.Printf("Token: %s\n", bold(green("valid")))
		return nil
	},
}

func init() {
	tokenCmd.AddCommand(tokenVerifyCmd)

	tokenVerifyCmd.Flags().StringVarP(&tokenVerifySession, "session", "s", "", "Session identifier")
	tokenVerifyCmd.Flags().StringVar(&tokenVerifyAction, "action", "", "Action the token should be bound to")
	tokenVerifyCmd.Flags().StringVarP(&tokenVerifyToken, "token", "t", "", "Token to verify")

	_ = tokenVerifyCmd.MarkFlagRequired("session")
	_ = tokenVerifyCmd.MarkFlagRequired("action")
	_ = tokenVerifyCmd.MarkFlagRequired("token")
}
