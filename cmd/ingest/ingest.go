// Package ingest loads an SMS export into the ledger.
package ingest

import (
	"context"
	"fmt"
	"io"
	"time"

	"saikumar/sms-ledger/cmd/root"
	"saikumar/sms-ledger/internal/container"
	"saikumar/sms-ledger/internal/pipeline"
	"saikumar/sms-ledger/internal/source"

	"github.com/spf13/cobra"
)

// Flags holds the ingest command options.
type Flags struct {
	Format string
	DryRun bool
	Quiet  bool
}

var flags Flags

// Cmd represents the ingest command
var Cmd = &cobra.Command{
	Use:   "ingest <file>...",
	Short: "Classify every message of an SMS export and store the transactions",
	Long: `Ingest reads a JSONL or CSV SMS export, classifies each message and stores
one transaction per new message. Messages already in the ledger are skipped,
so running ingest twice on the same export is safe. Several files are
processed one after another.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := root.App()
		if err != nil {
			return err
		}
		var progress io.Writer
		if !flags.Quiet {
			progress = cmd.ErrOrStderr()
		}
		for _, path := range args {
			if len(args) > 1 {
				fmt.Fprintf(cmd.OutOrStdout(), "== %s\n", path)
			}
			if _, err := Run(cmd.Context(), app, cmd.OutOrStdout(), progress, path, flags); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
		}
		return nil
	},
}

func init() {
	Cmd.Flags().StringVarP(&flags.Format, "format", "f", "", "Input format: jsonl or csv (default: from extension)")
	Cmd.Flags().BoolVar(&flags.DryRun, "dry-run", false, "Classify without storing")
	Cmd.Flags().BoolVarP(&flags.Quiet, "quiet", "q", false, "Hide the progress spinner")
}

// Run ingests path and prints a summary to out.
func Run(ctx context.Context, app *container.Container, out, progress io.Writer, path string, f Flags) (pipeline.IngestStats, error) {
	src, err := source.OpenFile(path, source.Format(f.Format), app.GetLogger())
	if err != nil {
		return pipeline.IngestStats{}, err
	}

	opts := []pipeline.IngestOption{pipeline.WithDryRun(f.DryRun)}
	if progress != nil {
		opts = append(opts, pipeline.WithProgress(progress))
	}
	stats, err := app.NewIngestor(opts...).Ingest(ctx, src)
	if err != nil {
		return stats, err
	}
	PrintStats(out, stats, f.DryRun)
	return stats, nil
}

// PrintStats writes a human readable batch summary.
func PrintStats(out io.Writer, s pipeline.IngestStats, dryRun bool) {
	verb := "Inserted"
	if dryRun {
		verb = "Would insert"
	}
	fmt.Fprintf(out, "Read:               %d\n", s.Read)
	fmt.Fprintf(out, "%-20s%d\n", verb+":", s.Inserted)
	fmt.Fprintf(out, "Duplicates:         %d\n", s.Duplicates)
	fmt.Fprintf(out, "Not a transaction:  %d (no amount %d, no direction %d)\n", s.NoAmount+s.NoDirection, s.NoAmount, s.NoDirection)
	fmt.Fprintf(out, "Pending:            %d\n", s.Pending)
	fmt.Fprintf(out, "Needs confirmation: %d\n", s.NeedsConfirmation)
	if s.Violations > 0 {
		fmt.Fprintf(out, "Corrected natures:  %d\n", s.Violations)
	}
	if s.ParseErrors > 0 || s.Failures > 0 {
		fmt.Fprintf(out, "Unreadable records: %d, failed messages: %d\n", s.ParseErrors, s.Failures)
	}
	fmt.Fprintf(out, "Took:               %s\n", s.Duration.Round(time.Millisecond))
}
