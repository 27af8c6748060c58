package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/screenwell/internal/instrument"
	"github.com/abhisek/screenwell/internal/screen"
	"github.com/abhisek/screenwell/internal/screens"
	"github.com/abhisek/screenwell/internal/screens/intro"
	"github.com/abhisek/screenwell/internal/screens/questionnaire"
)

var takeCmd = &cobra.Command{
	Use:   "take [instrument]",
	Short: "Take a questionnaire",
	Long: "Take opens the questionnaire for the given instrument. With --resume it " +
		"continues the most recent saved draft (for that instrument, if one is named).",
	Example: "  screenwell take phq9\n  screenwell take --resume",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resume, _ := cmd.Flags().GetBool("resume")
		var id string
		if len(args) == 1 {
			id = strings.ToLower(args[0])
		}
		if id == "" && !resume {
			return errors.New("name an instrument (see `screenwell list`) or pass --resume")
		}

		return runApp(cmd, func(deps screens.Deps) (screen.Screen, error) {
			if resume {
				return resumeScreen(cmd, deps, id)
			}
			inst, err := deps.Registry.Get(id)
			if err != nil {
				return nil, err
			}
			return intro.New(deps, inst), nil
		})
	},
}

func resumeScreen(cmd *cobra.Command, deps screens.Deps, id string) (screen.Screen, error) {
	draft, err := deps.Drafts.Latest(cmd.Context(), id)
	if err != nil {
		return nil, fmt.Errorf("load draft: %w", err)
	}
	if draft == nil {
		if id != "" {
			return nil, fmt.Errorf("no saved draft for %s", id)
		}
		return nil, errors.New("no saved draft")
	}
	inst, err := deps.Registry.Get(draft.InstrumentID)
	if errors.Is(err, instrument.ErrNotFound) {
		return nil, fmt.Errorf("draft %s belongs to unknown instrument %q", draft.SessionID, draft.InstrumentID)
	}
	if err != nil {
		return nil, err
	}
	return questionnaire.Resume(deps, inst, draft)
}

func init() {
	takeCmd.Flags().Bool("resume", false, "Continue the latest saved draft")
}
