// README: presets command; lists quick-start destinations.
package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"voyage/internal/presets"
)

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List quick-start destinations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "CITY\tINTERESTS\tDESCRIPTION")
			for _, p := range presets.All() {
				fmt.Fprintf(w, "%s\t%s\t%s\n", p.City, p.Interests, p.Description)
			}
			return w.Flush()
		},
	}
}
