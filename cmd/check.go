package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gatehouse-sec/gatehouse/internal/api"
	"github.com/gatehouse-sec/gatehouse/internal/core"
	"github.com/gatehouse-sec/gatehouse/internal/service"
)

var (
	checkPrincipal string
	checkRoles     []string
	checkGrants    []string
	checkResource  string
	checkAttrs     []string
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Evaluate a single access request",
	Long: `Runs one authorization decision against the policy. With --policy
	the evaluation happens locally; with --server the request is sent to a
	running Gatehouse server.`,
	Example: `  # Can user 42 with the admin role delete users?
  gatehouse check -f policy.yaml -p 42 --role admin -r admin.users.delete

  # The same question, asked of a running server
  gatehouse check --server http://localhost:8080 -p 42 --role admin -r admin.users.delete`,
	RunE: func(cmd *cobra.Command, args []string) error {
		attrs, err := parseAttrs(checkAttrs)
		if err != nil {
			return err
		}

		principal := core.Principal{
			ID:     checkPrincipal,
			Roles:  checkRoles,
			Grants: checkGrants,
		}

		var decision *service.Decision
		if f.PolicyPath != "" {
			guard, err := f.GetLocalGuard()
			if err != nil {
				return err
			}
			local := guard.Check(cmd.Context(), service.CheckRequest{
				Principal:  principal,
				Resource:   checkResource,
				Attributes: attrs,
			})
			decision = &local
		} else {
			cli, err := f.GetClient()
			if err != nil {
				return err
			}
			decision, err = cli.Check(cmd.Context(), api.CheckPayload{
				Principal:  principal,
				Resource:   checkResource,
				Attributes: attrs,
			})
			if err != nil {
				return err
			}
		}

		fmt.Printf("\nDecision: %s", formatEffect(decision.Effect))
		if decision.EntryName != "" {
			fmt.Printf(" via entry '%s'", bold(decision.EntryName))
		}
		fmt.Printf("\n%s\n", faint("correlation: "+decision.CorrelationID))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVarP(&checkPrincipal, "principal", "p", "", "Principal identifier")
	checkCmd.Flags().StringSliceVar(&checkRoles, "role", nil, "Role held by the principal (repeatable)")
	checkCmd.Flags().StringSliceVar(&checkGrants, "grant", nil, "Grant held by the principal (repeatable)")
	checkCmd.Flags().StringVarP(&checkResource, "resource", "r", "", "Resource reference to check, e.g. admin.users.delete")
	checkCmd.Flags().StringSliceVarP(&checkAttrs, "attr", "a", nil, "Request attribute as key=value (repeatable)")

	f.bindPolicyFlag(checkCmd.Flags())

	_ = checkCmd.MarkFlagRequired("resource")
}
