// Package report groups the analysis reports over raw SMS exports.
package report

import (
	"context"
	"io"

	"saikumar/sms-ledger/cmd/common"
	"saikumar/sms-ledger/cmd/root"
	"saikumar/sms-ledger/internal/container"
	"saikumar/sms-ledger/internal/models"
	reportgen "saikumar/sms-ledger/internal/report"
	"saikumar/sms-ledger/internal/source"

	"github.com/spf13/cobra"
)

var (
	output       string
	format       string
	samples      int
	sampleLength int
)

// Cmd represents the report command
var Cmd = &cobra.Command{
	Use:   "report",
	Short: "Analysis reports over SMS exports",
}

var sendersCmd = &cobra.Command{
	Use:   "senders <file>",
	Short: "Summarize message counts and sample bodies per sender id",
	Long: `Senders groups every message of an export by sender id and writes a markdown
table, most frequent sender first, with a few sample bodies for each. Use it
to find bank senders whose wording is not yet recognized.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := root.App()
		if err != nil {
			return err
		}
		w, closeFn, err := common.OpenOutput(output, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		_, runErr := RunSenders(cmd.Context(), app, w, args[0], source.Format(format), samples, sampleLength)
		if err := closeFn(); err != nil && runErr == nil {
			runErr = err
		}
		return runErr
	},
}

func init() {
	sendersCmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: stdout)")
	sendersCmd.Flags().StringVarP(&format, "format", "f", "", "Input format: jsonl or csv (default: from extension)")
	sendersCmd.Flags().IntVar(&samples, "samples", reportgen.DefaultMaxSamples, "Sample bodies per sender")
	sendersCmd.Flags().IntVar(&sampleLength, "sample-length", reportgen.DefaultSampleLength, "Characters kept per sample")
	Cmd.AddCommand(sendersCmd)
}

// RunSenders reads every message of path and writes the sender table.
func RunSenders(ctx context.Context, app *container.Container, out io.Writer, path string, format source.Format, maxSamples, length int) ([]reportgen.SenderStats, error) {
	src, err := source.OpenFile(path, format, app.GetLogger())
	if err != nil {
		return nil, err
	}

	logger := app.GetLogger()
	var msgs []models.RawMessage
	err = src.Each(ctx, func(m models.RawMessage) error {
		msgs = append(msgs, m)
		return nil
	}, func(err error) {
		logger.WithError(err).Warn("Unreadable source record, continuing")
	})
	if err != nil {
		return nil, err
	}

	stats := reportgen.AnalyzeSenders(msgs, maxSamples, length)
	if err := app.NewReportGenerator().WriteSenderReport(out, stats); err != nil {
		return nil, err
	}
	return stats, nil
}
