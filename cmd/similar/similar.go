// Package similar finds and bulk-categorizes transactions that share a
// UPI id, merchant or reference with a given transaction.
package similar

import (
	"context"
	"fmt"
	"io"

	"saikumar/sms-ledger/cmd/common"
	"saikumar/sms-ledger/cmd/root"
	"saikumar/sms-ledger/internal/container"
	"saikumar/sms-ledger/internal/models"
	"saikumar/sms-ledger/internal/smserror"

	"github.com/spf13/cobra"
)

var apply string

// Cmd represents the similar command
var Cmd = &cobra.Command{
	Use:   "similar <transaction-id>",
	Short: "List transactions similar to one transaction, optionally re-categorizing all of them",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := root.App()
		if err != nil {
			return err
		}
		_, err = Run(cmd.Context(), app, cmd.OutOrStdout(), args[0], apply)
		return err
	},
}

func init() {
	Cmd.Flags().StringVarP(&apply, "apply", "a", "", "Category to assign to the transaction and every match")
}

// Run prints the match for id. With a category it updates id and all
// matches and returns the number of rows changed.
func Run(ctx context.Context, app *container.Container, out io.Writer, id, category string) (int64, error) {
	var target models.Category
	if category != "" {
		cat, ok := models.FindCategory(app.GetCatalog(), category)
		if !ok {
			return 0, &smserror.ValidationError{Path: "category", Reason: fmt.Sprintf("unknown category %q", category)}
		}
		target = cat
	}

	repo := app.GetRepository()
	source, err := repo.Get(ctx, id)
	if err != nil {
		return 0, err
	}
	candidates, err := common.ListAll(ctx, repo)
	if err != nil {
		return 0, err
	}

	match, ok := app.GetMatcher().FindSimilar(source, candidates)
	if !ok {
		fmt.Fprintln(out, "No similar transactions found")
		if category == "" {
			return 0, nil
		}
	} else if err := common.WriteJSON(out, match); err != nil {
		return 0, err
	}
	if category == "" {
		return 0, nil
	}

	ids := append([]string{source.ID}, match.MatchingIDs...)
	n, err := repo.UpdateCategory(ctx, ids, target)
	if err != nil {
		return 0, err
	}
	fmt.Fprintf(out, "Categorized %d transactions as %s\n", n, target.Name)
	return n, nil
}
