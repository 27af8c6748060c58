package cmd

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/abhisek/screenwell/internal/instrument"
)

// version is set via -ldflags at build time.
var version = "(devel)"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version and bundled instruments",
	RunE: func(cmd *cobra.Command, args []string) error {
		v := version
		if v == "(devel)" {
			if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" {
				v = bi.Main.Version
			}
		}
		w := cmd.OutOrStdout()
		if short, _ := cmd.Flags().GetBool("short"); short {
			fmt.Fprintln(w, v)
			return nil
		}
		fmt.Fprintf(w, "screenwell %s (%s %s/%s)\n", v, runtime.Version(), runtime.GOOS, runtime.GOARCH)
		fmt.Fprintf(w, "instruments: %v\n", instrument.IDs())
		return nil
	},
}

func init() {
	versionCmd.Flags().Bool("short", false, "Print only the version")
}
