package cmd

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/gatehouse-sec/gatehouse/internal/api"
	"github.com/gatehouse-sec/gatehouse/internal/core"
)

var (
	whyPrincipal   string
	whyRoles       []string
	whyGrants      []string
	whyResource    string
	whyAttrs       []string
	whyEntryFilter string
)

var whyCmd = &cobra.Command{
	Use:   "why",
	Short: "Explain why a request is allowed or denied",
	Long: `Simulates a request and prints a detailed trace of every access
	entry in evaluation order, including which conditions matched and why.

With --policy the trace is computed locally. With --server the request is
sent to a running Gatehouse server; the explain endpoint requires admin
authentication.`,
	Example: `  # Why is this request denied? Which entries does it fail?
  gatehouse why -f policy.yaml -p 42 -r admin.users.delete

  # Why is it not matching the 'admins' entry?
  gatehouse why -f policy.yaml -p 42 -r admin.users.delete --entry admins`,
	RunE: func(cmd *cobra.Command, args []string) error {
		attrs, err := parseAttrs(whyAttrs)
		if err != nil {
			return err
		}

		payload := api.CheckPayload{
			Principal: core.Principal{
				ID:     whyPrincipal,
				Roles:  whyRoles,
				Grants: whyGrants,
			},
			Resource:   whyResource,
			Attributes: attrs,
		}

		var trace *core.EvaluationTrace
		if f.PolicyPath != "" {
			guard, err := f.GetLocalGuard()
			if err != nil {
				return err
			}
			trace = guard.Explain(cmd.Context(), payload.Request())
		} else {
			cli, err := f.GetClient()
			if err != nil {
				return err
			}
			trace, err = cli.ExplainTrace(cmd.Context(), payload)
			if err != nil {
				return err
			}
		}

		printTrace(trace)
		return nil
	},
}

func printTrace(trace *core.EvaluationTrace) {
	yellow := color.New(color.FgYellow).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()

	fmt.Printf("\n%s for Principal: %s on Resource: %s\n",
		bold("Evaluation Trace"),
		bold(trace.PrincipalID),
		bold(trace.Resource))

	fmt.Println(faint("---------------------------------------------------"))

	for _, res := range trace.EntryResults {
		if whyEntryFilter != "" && res.EntryName != whyEntryFilter {
			continue
		}

		icon := red("✖")
		if res.Matched {
			icon = green("✔")
		}

		fmt.Printf("%s Entry: %s %s\n", icon, bold(res.EntryName),
			faint(fmt.Sprintf("(%s, priority %d)", res.Effect, res.Priority)))
		if res.Description != "" {
			fmt.Printf("  %s\n", faint(res.Description))
		}

		for _, cond := range res.ConditionResults {
			// calculate depth based on leading spaces
			trimmed := strings.TrimLeft(cond.Expression, " ")
			indentLen := len(cond.Expression) - len(trimmed)
			indent := strings.Repeat(" ", indentLen)

			// detect if this is a label
			isLogicGate := strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]")

			condIcon := red("✖")
			if cond.Matched {
				condIcon = green("✔")
			}

			if isLogicGate {
				fmt.Printf("    %s%s %s\n", indent, condIcon, cyan(trimmed))
			} else {
				fmt.Printf("    %s%s %s\n", indent, condIcon, trimmed)
			}

			if cond.Reason != "" {
				reasonIndent := indent + "      "
				reason := cond.Reason
				if cond.Matched {
					reason = faint(reason)
				} else {
					reason = yellow(reason)
				}
				fmt.Printf("%s↳ %s\n", reasonIndent, reason)
			}
		}

		fmt.Println()
	}

	fmt.Println("---------------------------------------------------")
	if trace.MatchedEntry != "" {
		fmt.Printf("Decision: %s via entry '%s'\n", formatEffect(trace.FinalEffect), bold(trace.MatchedEntry))
	} else {
		fmt.Printf("Decision: %s %s\n", formatEffect(trace.FinalEffect), faint("(no entry matched)"))
	}
	fmt.Println()
}

func init() {
	rootCmd.AddCommand(whyCmd)

	whyCmd.Flags().StringVarP(&whyPrincipal, "principal", "p", "", "Principal identifier")
	whyCmd.Flags().StringSliceVar(&whyRoles, "role", nil, "Role held by the principal (repeatable)")
	whyCmd.Flags().StringSliceVar(&whyGrants, "grant", nil, "Grant held by the principal (repeatable)")
	whyCmd.Flags().StringVarP(&whyResource, "resource", "r", "", "Resource reference to check")
	whyCmd.Flags().StringSliceVarP(&whyAttrs, "attr", "a", nil, "Request attribute as key=value (repeatable)")
	whyCmd.Flags().StringVar(&whyEntryFilter, "entry", "", "Filter output to a specific entry name (optional)")

	f.bindPolicyFlag(whyCmd.Flags())

	_ = whyCmd.MarkFlagRequired("resource")
}
