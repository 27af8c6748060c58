package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/screenwell/internal/export"
)

var exportCmd = &cobra.Command{
	Use:   "export <result-id>",
	Short: "Export a saved result as a FHIR QuestionnaireResponse",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("output")

		e, err := setup(cmd, envOptions{store: true})
		if err != nil {
			return err
		}
		defer e.Close()

		rec, inst, err := lookupResult(cmd, e, args[0])
		if err != nil {
			return err
		}
		qr, err := export.NewQuestionnaireResponse(inst, rec)
		if err != nil {
			return err
		}
		data, err := qr.JSON()
		if err != nil {
			return fmt.Errorf("encode questionnaire response: %w", err)
		}
		data = append(data, '\n')

		if out == "" || out == "-" {
			_, err = cmd.OutOrStdout().Write(data)
			return err
		}
		if err := os.WriteFile(out, data, 0o600); err != nil {
			return fmt.Errorf("write %s: %w", out, err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", out)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringP("output", "o", "", "Write to this file instead of stdout")
}
