package store

import (
	"context"

	"saikumar/sms-ledger/internal/models"
)

// TransactionRepository is the persistence surface used by the pipeline
// and the review commands.
type TransactionRepository interface {
	Insert(ctx context.Context, txn models.Transaction) (bool, error)
	Exists(ctx context.Context, hash models.ContentHash) (bool, error)
	Get(ctx context.Context, id string) (models.Transaction, error)
	List(ctx context.Context, f ListFilter) ([]models.Transaction, error)
	UpdateFields(ctx context.Context, upd models.TransactionUpdate) error
	UpdateCategory(ctx context.Context, ids []string, cat models.Category) (int64, error)
	LinkTransfer(ctx context.Context, debitID, creditID string, cat models.Category) error
	Count(ctx context.Context) (int, error)
	Close() error
}

var (
	_ TransactionRepository = (*SQLiteStore)(nil)
	_ TransactionRepository = (*MemoryStore)(nil)
)
