// Package audit checks the stored ledger for inconsistent records.
package audit

import (
	"context"
	"io"

	"saikumar/sms-ledger/cmd/common"
	"saikumar/sms-ledger/cmd/root"
	"saikumar/sms-ledger/internal/container"
	"saikumar/sms-ledger/internal/report"

	"github.com/spf13/cobra"
)

var (
	format string
	output string
)

// Cmd represents the audit command
var Cmd = &cobra.Command{
	Use:   "audit",
	Short: "Report unexpected types, unknown categories and bad counterparties",
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
		_, runErr := Run(cmd.Context(), app, w, report.Format(format))
		if err := closeFn(); err != nil && runErr == nil {
			runErr = err
		}
		return runErr
	},
}

func init() {
	Cmd.Flags().StringVarP(&format, "format", "f", string(report.FormatMarkdown), "Output format: markdown or json")
	Cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: stdout)")
}

// Run audits the ledger and writes the report to out.
func Run(ctx context.Context, app *container.Container, out io.Writer, format report.Format) (*report.Audit, error) {
	txns, err := common.ListAll(ctx, app.GetRepository())
	if err != nil {
		return nil, err
	}
	a := report.AuditTransactions(txns, app.GetCatalog())
	if err := app.NewReportGenerator().WriteAuditReport(out, a, format); err != nil {
		return nil, err
	}
	return a, nil
}
