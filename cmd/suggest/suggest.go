// Package suggest proposes a category for a merchant from the stored ledger.
package suggest

import (
	"context"
	"fmt"
	"io"
	"strings"

	"saikumar/sms-ledger/cmd/root"
	"saikumar/sms-ledger/internal/container"
	"saikumar/sms-ledger/internal/scoring"

	"github.com/spf13/cobra"
)

// Cmd represents the suggest command
var Cmd = &cobra.Command{
	Use:   "suggest <merchant>",
	Short: "Suggest a category for a merchant from past categorizations",
	Long: `Suggest trains a naive Bayes model on the merchants of already categorized
transactions and prints the most probable category for the given merchant.
The suggestion is advisory; stored records are never changed. Requires
scoring.enabled.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := root.App()
		if err != nil {
			return err
		}
		_, _, err = Run(cmd.Context(), app, cmd.OutOrStdout(), strings.Join(args, " "))
		return err
	},
}

// Run prints the suggestion for merchant.
func Run(ctx context.Context, app *container.Container, out io.Writer, merchant string) (scoring.Suggestion, bool, error) {
	scorer, err := app.TrainScorer(ctx)
	if err != nil {
		return scoring.Suggestion{}, false, err
	}
	s, ok := scorer.Suggest(merchant)
	if !ok {
		fmt.Fprintf(out, "No confident suggestion for %q\n", merchant)
		return s, false, nil
	}
	fmt.Fprintf(out, "%s (%.0f%%)\n", s.Category, s.Probability*100)
	return s, true, nil
}
