package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/yildizm/bfhl/internal/filter"
)

func newFiltersCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "filters",
		Short: "List the available filters",
		Long: `List the filters that can be passed to --filter, with their short aliases.

Names are matched case-insensitively. Selected filters combine with OR.`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			defaults := GetGlobalConfig().Filters.Default
			sel, _ := filter.ParseSelection(defaults)

			fmt.Fprintf(out, "%s Available filters:\n\n", GetEmoji("filter"))
			for _, def := range filter.All() {
				marker := GetEmoji("empty")
				if sel.Has(def.ID) {
					marker = GetEmoji("checked")
				}
				fmt.Fprintf(out, "  %s %-28s alias: %-6s %s\n", marker, def.ID, def.Alias, def.Description)
			}

			fmt.Fprintln(out)
			if sel.Len() > 0 {
				fmt.Fprintf(out, "%s Default selection: %s\n", GetEmoji("idea"), sel.String())
			} else {
				fmt.Fprintf(out, "%s No default selection; nothing is kept until a filter is chosen\n", GetEmoji("idea"))
			}
		},
	}
}
