// Package reclassify re-runs classification over the stored ledger.
package reclassify

import (
	"context"
	"fmt"
	"io"

	"saikumar/sms-ledger/cmd/common"
	"saikumar/sms-ledger/cmd/root"
	"saikumar/sms-ledger/internal/container"

	"github.com/spf13/cobra"
)

var dryRun bool

// Cmd represents the reclassify command
var Cmd = &cobra.Command{
	Use:   "reclassify",
	Short: "Re-apply current rules and user patterns to stored transactions",
	Long: `Reclassify re-extracts every stored snippet with the current pattern files
and updates records whose merchant, nature or category changed. Manually
confirmed categories are kept unless the nature itself changes.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := root.App()
		if err != nil {
			return err
		}
		_, err = Run(cmd.Context(), app, cmd.OutOrStdout(), dryRun)
		return err
	},
}

func init() {
	Cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report changes without storing them")
}

// Run reclassifies the ledger and returns the number of changed records.
func Run(ctx context.Context, app *container.Container, out io.Writer, dryRun bool) (int, error) {
	repo := app.GetRepository()
	txns, err := common.ListAll(ctx, repo)
	if err != nil {
		return 0, err
	}

	updates := app.GetClassifier().Reclassify(txns, app.GetCatalog())
	if dryRun {
		fmt.Fprintf(out, "%d of %d transactions would change\n", len(updates), len(txns))
		return len(updates), nil
	}
	for _, upd := range updates {
		if err := repo.UpdateFields(ctx, upd); err != nil {
			return 0, fmt.Errorf("failed to update %s: %w", upd.ID, err)
		}
	}
	fmt.Fprintf(out, "Updated %d of %d transactions\n", len(updates), len(txns))
	return len(updates), nil
}
