package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/screenwell/internal/explain"
	"github.com/abhisek/screenwell/internal/instrument"
	"github.com/abhisek/screenwell/internal/scoring"
	"github.com/abhisek/screenwell/internal/store"
)

var scoreCmd = &cobra.Command{
	Use:   "score <instrument>",
	Short: "Score answers without the interactive questionnaire",
	Long: "Score reads answers from flags and prints the total, severity band and any alerts.\n" +
		"Questions left out are unanswered and make the result partial.",
	Example: "  screenwell score gad7 --answers 1,0,2,1,0,0,3\n" +
		"  screenwell score phq9 --answer q1=2 --answer 9=0 --json\n" +
		"  screenwell score phq9 --file answers.yaml --save",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := answerInput{}
		in.Positional, _ = cmd.Flags().GetString("answers")
		in.Pairs, _ = cmd.Flags().GetStringArray("answer")
		in.File, _ = cmd.Flags().GetString("file")
		asJSON, _ := cmd.Flags().GetBool("json")
		save, _ := cmd.Flags().GetBool("save")
		note, _ := cmd.Flags().GetString("note")
		withExplain, _ := cmd.Flags().GetBool("explain")

		if in.empty() {
			return errors.New("no answers given; use --answers, --answer or --file")
		}

		e, err := setup(cmd, envOptions{store: save, llm: withExplain})
		if err != nil {
			return err
		}
		defer e.Close()

		inst, err := e.deps.Registry.Get(strings.ToLower(args[0]))
		if err != nil {
			return err
		}
		sess, err := buildSession(inst, in)
		if err != nil {
			return err
		}
		res, err := e.deps.Engine.Score(sess, inst)
		if err != nil {
			return err
		}

		rec := &store.ResultRecord{
			SessionID:   sess.ID(),
			Note:        note,
			Answers:     sess.Snapshot(),
			StartedAt:   sess.StartedAt(),
			CompletedAt: time.Now(),
			Result:      res,
		}
		if save {
			if err := e.deps.Results.Save(cmd.Context(), rec); err != nil {
				return err
			}
			e.log.Info("saved result", zap.String("id", rec.ID), zap.String("instrument", inst.ID))
		}

		var ex *explain.Explanation
		if withExplain {
			ex, err = e.deps.Explainer.Explain(cmd.Context(), inst, res)
			if err != nil {
				return err
			}
		}

		w := cmd.OutOrStdout()
		if asJSON {
			return writeJSON(w, newResultView(rec, save, ex))
		}
		printResult(w, inst, rec, ex)
		if save {
			fmt.Fprintf(w, "\nSaved as %s\n", rec.ID)
		}
		return nil
	},
}

// resultView is the --json shape shared by score and history view.
type resultView struct {
	ID          string               `json:"id,omitempty"`
	SessionID   string               `json:"session_id"`
	Note        string               `json:"note,omitempty"`
	Answers     map[string]int       `json:"answers"`
	CompletedAt time.Time            `json:"completed_at"`
	Result      scoring.Result       `json:"result"`
	Explanation *explain.Explanation `json:"explanation,omitempty"`
}

func newResultView(rec *store.ResultRecord, saved bool, ex *explain.Explanation) resultView {
	v := resultView{
		SessionID:   rec.SessionID,
		Note:        rec.Note,
		Answers:     rec.Answers,
		CompletedAt: rec.CompletedAt,
		Result:      rec.Result,
		Explanation: ex,
	}
	if saved {
		v.ID = rec.ID
	}
	return v
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printResult writes the plain-text report for one result.
func printResult(w io.Writer, inst instrument.Instrument, rec *store.ResultRecord, ex *explain.Explanation) {
	res := rec.Result
	fmt.Fprintf(w, "%s: %d / %d, %s\n", inst.Title, res.TotalScore, res.MaxScore, res.SeverityBand)
	if res.Partial {
		fmt.Fprintf(w, "Partial result: %d of %d questions answered. %s\n",
			res.Answered, res.Total, explain.PartialNotice)
	}
	if res.BandSummary != "" {
		fmt.Fprintln(w, res.BandSummary)
	}
	if rec.Note != "" {
		fmt.Fprintf(w, "Note: %s\n", rec.Note)
	}
	for _, a := range res.Alerts {
		fmt.Fprintf(w, "! %s\n", a.Message)
	}

	fmt.Fprintln(w)
	for _, q := range inst.Questions {
		answer := "(unanswered)"
		if v, ok := rec.Answers[q.ID]; ok {
			answer = fmt.Sprintf("%d  %s", v, q.OptionLabel(v))
		}
		fmt.Fprintf(w, "  %-4s %s\n", q.ID, answer)
	}

	if ex != nil {
		fmt.Fprintln(w)
		fmt.Fprintln(w, ex.Summary)
		for _, step := range ex.NextSteps {
			fmt.Fprintf(w, "  - %s\n", step)
		}
		for _, n := range ex.Notices {
			fmt.Fprintln(w, n)
		}
		fmt.Fprintln(w, ex.Disclaimer)
	}
}

func init() {
	f := scoreCmd.Flags()
	f.String("answers", "", "Comma-separated answers in question order; leave an entry empty to skip it")
	f.StringArray("answer", nil, "One answer as question=value, e.g. q3=1 or 3=1 (repeatable)")
	f.String("file", "", "YAML or JSON file mapping question IDs to values")
	f.Bool("json", false, "Print the result as JSON")
	f.Bool("save", false, "Save the result to history")
	f.String("note", "", "Note stored with a saved result")
	f.Bool("explain", false, "Add a plain-language explanation")
}
