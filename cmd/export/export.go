// Package export writes the ledger out as CSV or as labelled training data.
package export

import (
	"context"
	"io"

	"saikumar/sms-ledger/cmd/common"
	"saikumar/sms-ledger/cmd/root"
	"saikumar/sms-ledger/internal/container"
	"saikumar/sms-ledger/internal/models"
	"saikumar/sms-ledger/internal/report"

	"github.com/spf13/cobra"
)

var (
	output        string
	minConfidence float64
)

// Cmd represents the export command
var Cmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored transactions",
}

var csvCmd = &cobra.Command{
	Use:   "csv",
	Short: "Write every transaction as CSV (delimiter from export.delimiter)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := root.App()
		if err != nil {
			return err
		}
		_, err = RunCSV(cmd.Context(), app, cmd.OutOrStdout(), output)
		return err
	},
}

var trainingCmd = &cobra.Command{
	Use:   "training",
	Short: "Write high-confidence merchant/category pairs as JSONL",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := root.App()
		if err != nil {
			return err
		}
		w, closeFn, err := common.OpenOutput(output, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		_, runErr := RunTraining(cmd.Context(), app, w, minConfidence)
		if err := closeFn(); err != nil && runErr == nil {
			runErr = err
		}
		return runErr
	},
}

func init() {
	Cmd.PersistentFlags().StringVarP(&output, "output", "o", "", "Output file (default: stdout)")
	trainingCmd.Flags().Float64Var(&minConfidence, "min-confidence", report.DefaultTrainingConfidence, "Lowest rule confidence to export")
	Cmd.AddCommand(csvCmd, trainingCmd)
}

// RunCSV writes the ledger to path, or to stdout when path is empty.
func RunCSV(ctx context.Context, app *container.Container, stdout io.Writer, path string) (int, error) {
	txns, err := common.ListAll(ctx, app.GetRepository())
	if err != nil {
		return 0, err
	}
	if txns == nil {
		txns = []models.Transaction{}
	}
	writer := app.NewCSVWriter()
	if path == "" || path == "-" {
		return len(txns), writer.Write(stdout, txns)
	}
	return len(txns), writer.WriteFile(path, txns)
}

// RunTraining writes the training records to out.
func RunTraining(ctx context.Context, app *container.Container, out io.Writer, minConfidence float64) (int, error) {
	txns, err := common.ListAll(ctx, app.GetRepository())
	if err != nil {
		return 0, err
	}
	records := report.TrainingRecords(txns, minConfidence)
	if err := app.NewReportGenerator().WriteTrainingJSONL(out, records); err != nil {
		return 0, err
	}
	return len(records), nil
}
