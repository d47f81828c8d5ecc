package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/tonal/internal/tokens"
)

func newFormatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List supported token formats",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprint(cmd.OutOrStdout(), formatsTable(tokens.Formats()).Render())
		},
	}
}

func formatsTable(formats []tokens.Format) *Table {
	table := NewTable([]string{"NAME", "ROOT", "VALUE", "TYPE", "LAYOUT", "DESCRIPTION"})
	table.SetColumnMaxWidth(5, 40)
	for _, f := range formats {
		layout := "flat"
		if f.Nested {
			layout = "nested"
		}
		typeKey := f.TypeKey
		if typeKey == "" {
			typeKey = "-"
		}
		table.AddRow([]string{f.Name, f.RootKey, f.ValueKey, typeKey, layout, f.Description})
	}
	return table
}
