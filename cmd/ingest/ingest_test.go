package ingest

import (
	"bytes"
	"testing"
	"time"

	"saikumar/sms-ledger/internal/pipeline"

	"github.com/stretchr/testify/assert"
)

func TestCommandMetadata(t *testing.T) {
	assert.Equal(t, "ingest <file>...", Cmd.Use)
	assert.NotNil(t, Cmd.Flags().Lookup("dry-run"))
	assert.NotNil(t, Cmd.Flags().Lookup("format"))
	assert.Equal(t, "q", Cmd.Flags().Lookup("quiet").Shorthand)
}

func TestPrintStats(t *testing.T) {
	stats := pipeline.IngestStats{
		Read: 10, Inserted: 6, Duplicates: 1, NoAmount: 2, NoDirection: 1,
		NeedsConfirmation: 3, ParseErrors: 1, Duration: 1500 * time.Microsecond,
	}

	var buf bytes.Buffer
	PrintStats(&buf, stats, false)
	out := buf.String()
	assert.Contains(t, out, "Inserted:           6\n")
	assert.Contains(t, out, "Not a transaction:  3 (no amount 2, no direction 1)")
	assert.Contains(t, out, "Unreadable records: 1, failed messages: 0")
	assert.NotContains(t, out, "Corrected natures")
	assert.Contains(t, out, "Took:               2ms")

	buf.Reset()
	PrintStats(&buf, pipeline.IngestStats{Inserted: 4, Violations: 1}, true)
	assert.Contains(t, buf.String(), "Would insert:       4\n")
	assert.Contains(t, buf.String(), "Corrected natures:  1")
}
