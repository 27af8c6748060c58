package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available instruments",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd, envOptions{})
		if err != nil {
			return err
		}
		defer e.Close()

		w := cmd.OutOrStdout()
		for i, inst := range e.deps.Registry.All() {
			if i > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "%-6s  %s (%d items, score %d-%d)\n",
				inst.ID, inst.Title, inst.Len(), inst.MinScore(), inst.MaxScore())
			if inst.Description != "" {
				fmt.Fprintf(w, "        %s\n", inst.Description)
			}
			bands := make([]string, len(inst.Bands))
			for j, b := range inst.Bands {
				bands[j] = b.String()
			}
			fmt.Fprintf(w, "        bands: %s\n", strings.Join(bands, ", "))
		}
		return nil
	},
}
