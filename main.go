package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"saikumar/sms-ledger/cmd/audit"
	"saikumar/sms-ledger/cmd/classify"
	"saikumar/sms-ledger/cmd/export"
	"saikumar/sms-ledger/cmd/ingest"
	"saikumar/sms-ledger/cmd/pairs"
	"saikumar/sms-ledger/cmd/patterns"
	"saikumar/sms-ledger/cmd/reclassify"
	"saikumar/sms-ledger/cmd/report"
	"saikumar/sms-ledger/cmd/root"
	"saikumar/sms-ledger/cmd/similar"
	"saikumar/sms-ledger/cmd/suggest"
)

func init() {
	root.Init()

	root.Cmd.AddCommand(classify.Cmd)
	root.Cmd.AddCommand(ingest.Cmd)
	root.Cmd.AddCommand(reclassify.Cmd)
	root.Cmd.AddCommand(similar.Cmd)
	root.Cmd.AddCommand(pairs.Cmd)
	root.Cmd.AddCommand(audit.Cmd)
	root.Cmd.AddCommand(report.Cmd)
	root.Cmd.AddCommand(export.Cmd)
	root.Cmd.AddCommand(suggest.Cmd)
	root.Cmd.AddCommand(patterns.Cmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := root.Cmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
