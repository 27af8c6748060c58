package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/screenwell/internal/app"
	"github.com/abhisek/screenwell/internal/screen"
	"github.com/abhisek/screenwell/internal/screens"
)

// runApp opens the store, builds dependencies, and launches the TUI at the
// screen returned by root.
func runApp(cmd *cobra.Command, root func(screens.Deps) (screen.Screen, error)) error {
	e, err := setup(cmd, envOptions{store: true, llm: true})
	if err != nil {
		return err
	}
	defer e.Close()

	first, err := root(e.deps)
	if err != nil {
		return err
	}
	return app.Run(e.deps, first)
}
