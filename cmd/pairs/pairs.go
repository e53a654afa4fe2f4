// Package pairs detects and links transfers between the user's own accounts.
package pairs

import (
	"context"
	"fmt"
	"io"

	"saikumar/sms-ledger/cmd/common"
	"saikumar/sms-ledger/cmd/root"
	"saikumar/sms-ledger/internal/container"
	"saikumar/sms-ledger/internal/models"
	"saikumar/sms-ledger/internal/pairing"

	"github.com/spf13/cobra"
)

var (
	link   bool
	window int
)

// Cmd represents the pairs command
var Cmd = &cobra.Command{
	Use:   "pairs",
	Short: "Find debit/credit pairs that look like self-transfers",
	Long: `Pairs scans the ledger for a debit and an income credit of the same amount
within a few minutes of each other. With --link both sides are marked as a
transfer and point at each other.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := root.App()
		if err != nil {
			return err
		}
		_, err = Run(cmd.Context(), app, cmd.OutOrStdout(), window, link)
		return err
	},
}

func init() {
	Cmd.Flags().BoolVar(&link, "link", false, "Mark both sides of every pair as a transfer")
	Cmd.Flags().IntVarP(&window, "window", "w", 0, "Maximum minutes between the two sides (default: pairing.max_minutes_apart)")
}

// Run prints the pairs found and links them when link is set.
func Run(ctx context.Context, app *container.Container, out io.Writer, maxMinutes int, link bool) ([]pairing.Pair, error) {
	if maxMinutes <= 0 {
		maxMinutes = app.GetConfig().Pairing.MaxMinutesApart
	}
	repo := app.GetRepository()
	txns, err := common.ListAll(ctx, repo)
	if err != nil {
		return nil, err
	}

	found := pairing.FindPairs(txns, maxMinutes)
	if len(found) == 0 {
		fmt.Fprintln(out, "No self-transfer pairs found")
		return nil, nil
	}
	for _, p := range found {
		fmt.Fprintf(out, "%s -> %s  %s  %d min apart\n", p.DebitID, p.CreditID, common.Rupees(p.AmountMinor), p.MinutesApart)
	}
	if !link {
		return found, nil
	}

	transfer, ok := models.FindCategory(app.GetCatalog(), models.CategoryTransfer)
	if !ok {
		return nil, fmt.Errorf("category %q is missing from the catalog", models.CategoryTransfer)
	}
	for _, p := range found {
		if err := repo.LinkTransfer(ctx, p.DebitID, p.CreditID, transfer); err != nil {
			return nil, fmt.Errorf("failed to link %s and %s: %w", p.DebitID, p.CreditID, err)
		}
	}
	fmt.Fprintf(out, "Linked %d pairs\n", len(found))
	return found, nil
}
