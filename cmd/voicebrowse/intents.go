package main

import (
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mohsinkhan85090/VoiceBrowse/pkg/intent"
	"github.com/spf13/cobra"
)

func newIntentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "intents",
		Short: "Show the trigger table",
		Long: `Show every intent with its trigger phrases in match order.

Triggers are matched against the transcript lowercased with spaces and
punctuation removed. The first rule with a matching trigger wins.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			writeIntentsTable(cmd.OutOrStdout(), intent.Rules())
			return nil
		},
	}
}

func writeIntentsTable(w io.Writer, rules []intent.Rule) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)
	tw.Style().Options.SeparateHeader = true
	tw.Style().Options.DrawBorder = true

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignCenter},
		{Number: 2, Align: text.AlignLeft, AlignHeader: text.AlignCenter},
		{Number: 3, Align: text.AlignLeft, AlignHeader: text.AlignCenter},
		{Number: 4, Align: text.AlignCenter, AlignHeader: text.AlignCenter},
	})

	tw.AppendHeader(table.Row{"#", "Intent", "Triggers", "Needs Tab"})
	for i, r := range rules {
		needsTab := ""
		if r.NeedsTab {
			needsTab = "yes"
		}
		tw.AppendRow(table.Row{i + 1, string(r.Intent), strings.Join(r.Triggers, ", "), needsTab})
	}

	_ = tw.Render()
}
