package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/screenwell/internal/explain"
	"github.com/abhisek/screenwell/internal/instrument"
	"github.com/abhisek/screenwell/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List saved results, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		id, _ := cmd.Flags().GetString("instrument")
		limit, _ := cmd.Flags().GetInt("limit")
		asJSON, _ := cmd.Flags().GetBool("json")

		e, err := setup(cmd, envOptions{store: true})
		if err != nil {
			return err
		}
		defer e.Close()

		id = strings.ToLower(id)
		if id != "" {
			if _, err := e.deps.Registry.Get(id); err != nil {
				return err
			}
		}
		recs, err := e.deps.Results.List(cmd.Context(), store.ResultQuery{InstrumentID: id, Limit: limit})
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		if asJSON {
			views := make([]resultView, len(recs))
			for i := range recs {
				views[i] = newResultView(&recs[i], true, nil)
			}
			return writeJSON(w, views)
		}

		if len(recs) == 0 {
			fmt.Fprintln(w, "No results saved yet.")
			return nil
		}

		fmt.Fprintf(w, "%-8s  %-16s  %-6s  %-7s  %-10s  %s\n",
			"ID", "Completed", "Test", "Score", "Band", "")
		fmt.Fprintln(w, strings.Repeat("─", 64))
		for _, r := range recs {
			flags := ""
			if r.Result.Partial {
				flags = fmt.Sprintf("partial %d/%d", r.Result.Answered, r.Result.Total)
			}
			if r.Result.HasAlerts() {
				flags = strings.TrimSpace(flags + " !")
			}
			fmt.Fprintf(w, "%-8s  %-16s  %-6s  %3d/%-3d  %-10s  %s\n",
				truncate(r.ID, 8),
				r.CompletedAt.Local().Format("2006-01-02 15:04"),
				r.Result.InstrumentID,
				r.Result.TotalScore, r.Result.MaxScore,
				r.Result.SeverityBand,
				flags,
			)
		}
		return nil
	},
}

var historyViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show one saved result (an ID prefix is enough)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		withExplain, _ := cmd.Flags().GetBool("explain")

		e, err := setup(cmd, envOptions{store: true, llm: withExplain})
		if err != nil {
			return err
		}
		defer e.Close()

		rec, inst, err := lookupResult(cmd, e, args[0])
		if err != nil {
			return err
		}

		var ex *explain.Explanation
		if withExplain {
			ex, err = e.deps.Explainer.Explain(cmd.Context(), inst, rec.Result)
			if err != nil {
				return err
			}
		}

		w := cmd.OutOrStdout()
		if asJSON {
			return writeJSON(w, newResultView(rec, true, ex))
		}
		fmt.Fprintf(w, "Result %s, %s\n\n", rec.ID, rec.CompletedAt.Local().Format("Mon Jan 2 2006 15:04"))
		printResult(w, inst, rec, ex)

		prev, err := e.deps.Results.Previous(cmd.Context(), rec)
		if err != nil {
			return err
		}
		if prev != nil {
			fmt.Fprintf(w, "\nPrevious (%s): %d, %s (%+d)\n",
				prev.CompletedAt.Local().Format("Jan 2"),
				prev.Result.TotalScore, prev.Result.SeverityBand,
				rec.Result.TotalScore-prev.Result.TotalScore)
		}
		return nil
	},
}

// lookupResult loads a saved result by ID prefix together with its instrument.
func lookupResult(cmd *cobra.Command, e *env, id string) (*store.ResultRecord, instrument.Instrument, error) {
	rec, err := e.deps.Results.Get(cmd.Context(), id)
	if err != nil {
		return nil, instrument.Instrument{}, err
	}
	if rec == nil {
		return nil, instrument.Instrument{}, fmt.Errorf("result %q not found", id)
	}
	inst, err := e.deps.Registry.Get(rec.Result.InstrumentID)
	if err != nil {
		return nil, instrument.Instrument{}, fmt.Errorf("result %s: %w", rec.ID, err)
	}
	return rec, inst, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func init() {
	historyCmd.Flags().StringP("instrument", "i", "", "Only show results for this instrument")
	historyCmd.Flags().IntP("limit", "n", 20, "Number of results to show (0 = all)")
	historyCmd.Flags().Bool("json", false, "Print results as JSON")

	historyViewCmd.Flags().Bool("json", false, "Print the result as JSON")
	historyViewCmd.Flags().Bool("explain", false, "Add a plain-language explanation")

	historyCmd.AddCommand(historyViewCmd)
}
