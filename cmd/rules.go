package cmd

import (
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/gatehouse-sec/gatehouse/internal/acl"
)

// rulesCmd represents the rules command
var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the access entries in evaluation order",
	RunE: func(cmd *cobra.Command, args []string) error {
		var entries []acl.Entry

		if f.PolicyPath != "" {
			guard, err := f.GetLocalGuard()
			if err != nil {
				return err
			}
			entries = guard.Manager().Current().Entries()
		} else {
			cli, err := f.GetClient()
			if err != nil {
				return err
			}
			entries, err = cli.ListRules(cmd.Context())
			if err != nil {
				return err
			}
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{
			"#", "Name", "Effect", "Priority", "Description",
		})

		for i, e := range entries {
			t.AppendRow(table.Row{
				i + 1,
				e.Name,
				e.Effect.String(),
				e.Priority,
				truncate(e.Description, 50),
			})
		}

		t.SetStyle(table.StyleLight)
		t.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rulesCmd)

	f.bindPolicyFlag(rulesCmd.Flags())
}
