package cmd

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// configValidateCmd represents the config validate command
var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the policy file",
	Long: `Parses the policy file and checks every entry: names, priorities,
	predicates, expressions, token parameters and audit settings.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := f.LoadPolicyConfig()
		if err != nil {
			log.Error().Err(err).Msg("Policy is invalid.")
			return err
		}
		log.Info().Msgf("Policy is valid (%d entries).", len(cfg.Rules))
		return nil
	},
}

func init() {
	configCmd.AddCommand(configValidateCmd)

	f.bindPolicyFlag(configValidateCmd.Flags())
	_ = configValidateCmd.MarkFlagRequired("policy")
}
