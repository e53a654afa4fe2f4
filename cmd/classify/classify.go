// Package classify prints the classification of a single message.
package classify

import (
	"fmt"
	"io"
	"strings"
	"time"

	"saikumar/sms-ledger/cmd/common"
	"saikumar/sms-ledger/cmd/root"
	"saikumar/sms-ledger/internal/models"
	"saikumar/sms-ledger/internal/pipeline"

	"github.com/spf13/cobra"
)

var (
	sender    string
	timestamp int64
)

// Cmd represents the classify command
var Cmd = &cobra.Command{
	Use:   "classify [message body]",
	Short: "Classify one SMS body and print the result",
	Long: `Classify runs the full extraction and nature pipeline over one message and
prints the result as JSON. Without arguments the body is read from stdin.
Nothing is stored.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := root.App()
		if err != nil {
			return err
		}
		body := strings.Join(args, " ")
		if body == "" {
			data, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("failed to read message from stdin: %w", err)
			}
			body = strings.TrimSpace(string(data))
		}
		if body == "" {
			return fmt.Errorf("a message body is required")
		}
		ts := timestamp
		if ts == 0 {
			ts = time.Now().UnixMilli()
		}
		return Run(app.GetClassifier(), cmd.OutOrStdout(), models.RawMessage{Body: body, Sender: sender, TimestampMillis: ts})
	},
}

func init() {
	Cmd.Flags().StringVarP(&sender, "sender", "s", "", "Sender id, e.g. AX-HDFCBK")
	Cmd.Flags().Int64VarP(&timestamp, "timestamp", "t", 0, "Message time in epoch milliseconds (default: now)")
}

// Output is the printed classification.
type Output struct {
	Skipped models.SkipReason            `json:"skipped,omitempty"`
	Result  *models.ClassificationResult `json:"result,omitempty"`
}

// Run classifies msg and writes the outcome to out.
func Run(classifier *pipeline.Classifier, out io.Writer, msg models.RawMessage) error {
	outcome := classifier.Classify(msg)
	o := Output{Skipped: outcome.Skipped}
	switch outcome.Skipped {
	case models.SkipNoAmount, models.SkipNoDirection:
	default:
		o.Result = &outcome.Result
	}
	return common.WriteJSON(out, o)
}
