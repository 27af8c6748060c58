package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/screenwell/internal/screen"
	"github.com/abhisek/screenwell/internal/screens"
	"github.com/abhisek/screenwell/internal/screens/home"
	"github.com/abhisek/screenwell/internal/screens/welcome"
)

var rootCmd = &cobra.Command{
	Use:   "screenwell",
	Short: "PHQ-9 and GAD-7 screening in the terminal",
	Long: "Screenwell runs short, validated mood and anxiety questionnaires " +
		"(PHQ-9, GAD-7 and their two-item versions), scores them and keeps a private history.\n\n" +
		"Results are screening scores, not a diagnosis.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, func(deps screens.Deps) (screen.Screen, error) {
			return welcome.New(deps.Theme, func() screen.Screen { return home.New(deps) }), nil
		})
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("db", "", "Path to SQLite database file (overrides SCREENWELL_DB and the config file)")
	pf.String("config", "", "Path to config file (default $XDG_CONFIG_HOME/screenwell/config.yaml)")
	pf.String("theme", "", "Color theme: calm, contrast or light")
	pf.BoolP("verbose", "v", false, "Write debug-level logs")

	rootCmd.AddCommand(takeCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}
