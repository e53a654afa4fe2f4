package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"saikumar/sms-ledger/internal/logging"
	"saikumar/sms-ledger/internal/models"
	"saikumar/sms-ledger/internal/pairing"
	"saikumar/sms-ledger/internal/source"
	"saikumar/sms-ledger/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("txn-%03d", n)
	}
}

func newTestIngestor(t *testing.T, repo TransactionStore, opts ...IngestOption) (*Ingestor, *logging.MockLogger) {
	t.Helper()
	c, logger := newTestClassifier(t)
	opts = append([]IngestOption{WithIDGenerator(sequentialIDs())}, opts...)
	return NewIngestor(c, repo, logger, opts...), logger
}

func TestIngest_CountsEveryOutcome(t *testing.T) {
	repo := store.NewMemoryStore()
	ing, _ := newTestIngestor(t, repo)

	src := source.Slice{
		{Body: scenarioA, TimestampMillis: 1},
		{Body: scenarioB, TimestampMillis: 2},
		{Body: scenarioA, TimestampMillis: 3},
		{Body: "Your OTP is 1234", TimestampMillis: 4},
		{Body: "Rs 200 something happened", TimestampMillis: 5},
		{Body: "Rs 499 will be debited on 05-Jun for NETFLIX subscription", TimestampMillis: 6},
		{Body: scenarioC, TimestampMillis: 7},
	}
	stats, err := ing.Ingest(context.Background(), src)
	require.NoError(t, err)

	assert.Equal(t, 7, stats.Read)
	assert.Equal(t, 3, stats.Inserted)
	assert.Equal(t, 1, stats.Duplicates)
	assert.Equal(t, 1, stats.NoAmount)
	assert.Equal(t, 1, stats.NoDirection)
	assert.Equal(t, 1, stats.Pending)
	assert.Equal(t, 4, stats.Skipped())
	assert.Equal(t, 2, stats.NeedsConfirmation)
	assert.Zero(t, stats.Failures)

	n, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestIngest_IdempotentAcrossRuns(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "ledger.db")
	repo, err := store.NewSQLiteStore(dbPath, logging.NewMockLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	require.NoError(t, repo.Migrate(context.Background()))

	ing, _ := newTestIngestor(t, repo)
	src := source.Slice{{Body: scenarioA, TimestampMillis: 1}, {Body: scenarioC, TimestampMillis: 2}}

	first, err := ing.Ingest(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, 2, first.Inserted)

	// Same bodies, different timestamps.
	again := source.Slice{{Body: scenarioA, TimestampMillis: 99}, {Body: scenarioC, TimestampMillis: 100}}
	second, err := ing.Ingest(context.Background(), again)
	require.NoError(t, err)
	assert.Zero(t, second.Inserted)
	assert.Equal(t, 2, second.Duplicates)

	n, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestIngestOne_ReportsDuplicate(t *testing.T) {
	repo := store.NewMemoryStore()
	ing, _ := newTestIngestor(t, repo)
	ctx := context.Background()

	out, err := ing.IngestOne(ctx, models.RawMessage{Body: scenarioB, TimestampMillis: 1})
	require.NoError(t, err)
	assert.False(t, out.IsSkipped())

	out, err = ing.IngestOne(ctx, models.RawMessage{Body: scenarioB, TimestampMillis: 2})
	require.NoError(t, err)
	assert.Equal(t, models.SkipDuplicate, out.Skipped)
}

func TestIngest_StoredRecordCarriesAuditFields(t *testing.T) {
	repo := store.NewMemoryStore()
	ing, _ := newTestIngestor(t, repo)

	_, err := ing.Ingest(context.Background(), source.Slice{{Body: scenarioB, TimestampMillis: 42, Sender: "VM-SBIINB"}})
	require.NoError(t, err)

	txn, err := repo.Get(context.Background(), "txn-001")
	require.NoError(t, err)
	assert.Equal(t, models.HashBody(scenarioB), txn.Hash)
	assert.Equal(t, int64(20000), txn.AmountMinor)
	assert.Equal(t, "RAJEEV KUMAR", txn.Counterparty)
	assert.Equal(t, models.TypeExpense, txn.Type)
	assert.Equal(t, models.RuleExpense, txn.MatchedRule)
	assert.True(t, txn.RequiresConfirmation)
	assert.Equal(t, "VM-SBIINB", txn.Sender)
	assert.True(t, strings.HasSuffix(txn.RuleTrace, "EXPENSE:+"))
}

func TestIngest_DryRunWritesNothing(t *testing.T) {
	repo := store.NewMemoryStore()
	ing, _ := newTestIngestor(t, repo, WithDryRun(true))

	stats, err := ing.Ingest(context.Background(), source.Slice{{Body: scenarioA}})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Inserted)

	n, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

type panickingStore struct {
	*store.MemoryStore
	panicOn models.ContentHash
}

func (p *panickingStore) Exists(ctx context.Context, hash models.ContentHash) (bool, error) {
	if hash == p.panicOn {
		panic("boom")
	}
	return p.MemoryStore.Exists(ctx, hash)
}

func TestIngest_RecoversPerMessageFailures(t *testing.T) {
	repo := &panickingStore{MemoryStore: store.NewMemoryStore(), panicOn: models.HashBody(scenarioB)}
	ing, logger := newTestIngestor(t, repo)

	stats, err := ing.Ingest(context.Background(), source.Slice{{Body: scenarioA}, {Body: scenarioB}, {Body: scenarioC}})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Failures)
	assert.Equal(t, 2, stats.Inserted)
	assert.True(t, logger.HasEntry("WARN", "Message failed, continuing"))
}

func TestIngest_StoreErrorsContinue(t *testing.T) {
	repo := store.NewMemoryStore()
	repo.InsertError = errors.New("disk full")
	ing, _ := newTestIngestor(t, repo)

	stats, err := ing.Ingest(context.Background(), source.Slice{{Body: scenarioA}, {Body: scenarioC}})
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Failures)
	assert.Zero(t, stats.Inserted)
}

func TestIngest_ParseErrorsAreCounted(t *testing.T) {
	repo := store.NewMemoryStore()
	ing, _ := newTestIngestor(t, repo)

	input := "{\"body\":\"" + scenarioC + "\",\"timestamp\":1}\nnot json\n"
	stats, err := ing.Ingest(context.Background(), source.NewJSONLSource(strings.NewReader(input), "inbox.jsonl", nil))
	require.NoError(t, err)
	assert.Equal(t, 1, stats.ParseErrors)
	assert.Equal(t, 1, stats.Inserted)
}

func TestIngest_ContextCancelled(t *testing.T) {
	repo := store.NewMemoryStore()
	ing, _ := newTestIngestor(t, repo)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ing.Ingest(ctx, source.Slice{{Body: scenarioA}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIngest_SelfTransferPairFromStoredRecords(t *testing.T) {
	repo := store.NewMemoryStore()
	ing, _ := newTestIngestor(t, repo)
	ctx := context.Background()

	const minute = int64(60_000)
	src := source.Slice{
		{Body: "Rs 200.00 debited from A/c XX1234 on 01-06-24. UPI Ref 400112233445", TimestampMillis: 10 * minute},
		{Body: "Rs 200.00 credited to A/c XX9876 on 01-06-24. UPI Ref 400112233446", TimestampMillis: 12 * minute},
	}
	stats, err := ing.Ingest(ctx, src)
	require.NoError(t, err)
	require.Equal(t, 2, stats.Inserted)

	txns, err := repo.List(ctx, store.ListFilter{})
	require.NoError(t, err)
	for _, txn := range txns {
		assert.NotEqual(t, models.NatureSelfTransfer, txn.Nature)
	}

	pairs := pairing.FindPairs(txns, pairing.DefaultMaxMinutesApart)
	require.Len(t, pairs, 1)
	assert.Equal(t, "txn-001", pairs[0].DebitID)
	assert.Equal(t, "txn-002", pairs[0].CreditID)
	assert.Equal(t, int64(20000), pairs[0].AmountMinor)
	assert.Equal(t, int64(2), pairs[0].MinutesApart)
}
