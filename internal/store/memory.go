package store

import (
	"context"
	"sort"
	"sync"

	"saikumar/sms-ledger/internal/models"
	"saikumar/sms-ledger/internal/smserror"
)

// MemoryStore is an in-memory transaction store for tests and dry runs.
// It follows the same hash uniqueness rule as SQLiteStore.
type MemoryStore struct {
	mu     sync.Mutex
	byID   map[string]models.Transaction
	byHash map[models.ContentHash]string

	// Error flags for testing error conditions
	InsertError error
	ExistsError error
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:   make(map[string]models.Transaction),
		byHash: make(map[models.ContentHash]string),
	}
}

// Insert stores txn unless its hash is already present.
func (m *MemoryStore) Insert(_ context.Context, txn models.Transaction) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.InsertError != nil {
		return false, m.InsertError
	}
	if _, ok := m.byHash[txn.Hash]; ok {
		return false, nil
	}
	m.byHash[txn.Hash] = txn.ID
	m.byID[txn.ID] = txn
	return true, nil
}

// Exists reports whether hash is stored.
func (m *MemoryStore) Exists(_ context.Context, hash models.ContentHash) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ExistsError != nil {
		return false, m.ExistsError
	}
	_, ok := m.byHash[hash]
	return ok, nil
}

// Get returns the transaction with id.
func (m *MemoryStore) Get(_ context.Context, id string) (models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	txn, ok := m.byID[id]
	if !ok {
		return models.Transaction{}, &smserror.StoreError{Op: "get", Key: id, Err: smserror.ErrNotFound}
	}
	return txn, nil
}

// List returns matching transactions ordered by timestamp.
func (m *MemoryStore) List(_ context.Context, f ListFilter) ([]models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	types := make(map[models.TransactionType]bool, len(f.Types))
	for _, t := range f.Types {
		types[t] = true
	}

	var out []models.Transaction
	for _, txn := range m.byID {
		if f.SinceMillis > 0 && txn.TimestampMillis < f.SinceMillis {
			continue
		}
		if f.UntilMillis > 0 && txn.TimestampMillis > f.UntilMillis {
			continue
		}
		if len(types) > 0 && !types[txn.Type] {
			continue
		}
		if f.NeedsConfirmation && !txn.RequiresConfirmation {
			continue
		}
		out = append(out, txn)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TimestampMillis != out[j].TimestampMillis {
			return out[i].TimestampMillis < out[j].TimestampMillis
		}
		return out[i].ID < out[j].ID
	})
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

// UpdateFields applies the non-nil fields of upd.
func (m *MemoryStore) UpdateFields(_ context.Context, upd models.TransactionUpdate) error {
	if upd.IsEmpty() {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	txn, ok := m.byID[upd.ID]
	if !ok {
		return &smserror.StoreError{Op: "update", Key: upd.ID, Err: smserror.ErrNotFound}
	}
	upd.Apply(&txn)
	m.byID[upd.ID] = txn
	return nil
}

// UpdateCategory assigns cat to every known id and clears its confirmation flag.
func (m *MemoryStore) UpdateCategory(_ context.Context, ids []string, cat models.Category) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, id := range ids {
		txn, ok := m.byID[id]
		if !ok {
			continue
		}
		txn.CategoryID = cat.ID
		txn.CategoryName = cat.Name
		txn.RequiresConfirmation = false
		m.byID[id] = txn
		n++
	}
	return n, nil
}

// LinkTransfer marks both sides of a pair as a linked TRANSFER.
func (m *MemoryStore) LinkTransfer(_ context.Context, debitID, creditID string, cat models.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range []string{debitID, creditID} {
		if _, ok := m.byID[id]; !ok {
			return &smserror.StoreError{Op: "link", Key: id, Err: smserror.ErrNotFound}
		}
	}
	for _, side := range [][2]string{{debitID, creditID}, {creditID, debitID}} {
		txn := m.byID[side[0]]
		txn.Type = models.TypeTransfer
		txn.Nature = models.NatureSelfTransfer
		txn.CategoryID = cat.ID
		txn.CategoryName = cat.Name
		txn.LinkedID = side[1]
		txn.RequiresConfirmation = false
		m.byID[side[0]] = txn
	}
	return nil
}

// Count returns the number of stored transactions.
func (m *MemoryStore) Count(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byID), nil
}

// Close is a no-op.
func (m *MemoryStore) Close() error {
	return nil
}
