package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"saikumar/sms-ledger/internal/logging"
	"saikumar/sms-ledger/internal/models"
	"saikumar/sms-ledger/internal/smserror"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStore persists classified transactions. The UNIQUE constraint on
// hash makes Insert an atomic check-and-insert per content hash.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
	logger logging.Logger
}

// ListFilter narrows List. Zero values match everything.
type ListFilter struct {
	SinceMillis       int64
	UntilMillis       int64
	Types             []models.TransactionType
	NeedsConfirmation bool
	Limit             int
}

const transactionColumns = `id, hash, timestamp_ms, amount_minor, direction, category_id, category_name,
	merchant, counterparty, upi_id, reference, sender, snippet, snippet_truncated, type, nature,
	matched_rule, confidence, requires_confirmation, reversal, linked_id, rule_trace, violations`

// NewSQLiteStore opens the database at dbPath, creating its directory.
// Call Migrate before use.
func NewSQLiteStore(dbPath string, logger logging.Logger) (*SQLiteStore, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, &smserror.ValidationError{Path: dbPath, Reason: "database path is empty"}
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One writer keeps INSERT OR IGNORE serialized.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStore{db: db, dbPath: dbPath, logger: logging.OrDefault(logger)}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Insert stores txn unless its hash is already present. It reports whether
// a row was created.
func (s *SQLiteStore) Insert(ctx context.Context, txn models.Transaction) (bool, error) {
	if txn.ID == "" || txn.Hash == "" {
		return false, &smserror.StoreError{Op: "insert", Err: errors.New("transaction id and hash are required")}
	}
	res, err := s.db.ExecContext(ctx, `INSERT OR IGNORE INTO transactions (`+transactionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		txn.ID, string(txn.Hash), txn.TimestampMillis, txn.AmountMinor, string(txn.Direction),
		txn.CategoryID, txn.CategoryName, txn.Merchant, txn.Counterparty, txn.UPIID, txn.Reference,
		txn.Sender, txn.Snippet, txn.SnippetTruncated, string(txn.Type), string(txn.Nature),
		string(txn.MatchedRule), txn.Confidence, txn.RequiresConfirmation, txn.Reversal,
		nullString(txn.LinkedID), txn.RuleTrace, txn.Violations)
	if err != nil {
		return false, &smserror.StoreError{Op: "insert", Key: string(txn.Hash), Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, &smserror.StoreError{Op: "insert", Key: string(txn.Hash), Err: err}
	}
	return n == 1, nil
}

// Exists reports whether a transaction with hash is stored.
func (s *SQLiteStore) Exists(ctx context.Context, hash models.ContentHash) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM transactions WHERE hash = ?`, string(hash)).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, &smserror.StoreError{Op: "exists", Key: string(hash), Err: err}
	}
	return true, nil
}

// Get returns the transaction with id.
func (s *SQLiteStore) Get(ctx context.Context, id string) (models.Transaction, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id = ?`, id)
	txn, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Transaction{}, &smserror.StoreError{Op: "get", Key: id, Err: smserror.ErrNotFound}
	}
	if err != nil {
		return models.Transaction{}, &smserror.StoreError{Op: "get", Key: id, Err: err}
	}
	return txn, nil
}

// List returns matching transactions ordered by timestamp.
func (s *SQLiteStore) List(ctx context.Context, f ListFilter) ([]models.Transaction, error) {
	var (
		where []string
		args  []interface{}
	)
	if f.SinceMillis > 0 {
		where = append(where, "timestamp_ms >= ?")
		args = append(args, f.SinceMillis)
	}
	if f.UntilMillis > 0 {
		where = append(where, "timestamp_ms <= ?")
		args = append(args, f.UntilMillis)
	}
	if len(f.Types) > 0 {
		marks := make([]string, len(f.Types))
		for i, t := range f.Types {
			marks[i] = "?"
			args = append(args, string(t))
		}
		where = append(where, "type IN ("+strings.Join(marks, ",")+")")
	}
	if f.NeedsConfirmation {
		where = append(where, "requires_confirmation = 1")
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY timestamp_ms, id"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &smserror.StoreError{Op: "list", Err: err}
	}
	defer func() { _ = rows.Close() }()

	var out []models.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, &smserror.StoreError{Op: "list", Err: err}
		}
		out = append(out, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, &smserror.StoreError{Op: "list", Err: err}
	}
	return out, nil
}

// UpdateFields applies the non-nil fields of upd to the stored record.
func (s *SQLiteStore) UpdateFields(ctx context.Context, upd models.TransactionUpdate) error {
	if upd.IsEmpty() {
		return nil
	}
	txn, err := s.Get(ctx, upd.ID)
	if err != nil {
		return err
	}
	upd.Apply(&txn)

	_, err = s.db.ExecContext(ctx, `UPDATE transactions SET category_id = ?, category_name = ?, merchant = ?,
		nature = ?, type = ?, matched_rule = ?, confidence = ?, requires_confirmation = ?,
		updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		txn.CategoryID, txn.CategoryName, txn.Merchant, string(txn.Nature), string(txn.Type),
		string(txn.MatchedRule), txn.Confidence, txn.RequiresConfirmation, txn.ID)
	if err != nil {
		return &smserror.StoreError{Op: "update", Key: upd.ID, Err: err}
	}
	return nil
}

// UpdateCategory assigns cat to every id in one database transaction and
// clears their confirmation flag. It returns the number of rows changed.
func (s *SQLiteStore) UpdateCategory(ctx context.Context, ids []string, cat models.Category) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, &smserror.StoreError{Op: "update category", Err: err}
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `UPDATE transactions SET category_id = ?, category_name = ?,
		requires_confirmation = 0, updated_at = CURRENT_TIMESTAMP WHERE id = ?`)
	if err != nil {
		return 0, &smserror.StoreError{Op: "update category", Err: err}
	}
	defer func() { _ = stmt.Close() }()

	var total int64
	for _, id := range ids {
		res, err := stmt.ExecContext(ctx, cat.ID, cat.Name, id)
		if err != nil {
			return 0, &smserror.StoreError{Op: "update category", Key: id, Err: err}
		}
		n, _ := res.RowsAffected()
		total += n
	}
	if err := tx.Commit(); err != nil {
		return 0, &smserror.StoreError{Op: "update category", Err: err}
	}
	return total, nil
}

// LinkTransfer marks both sides of a self-transfer pair as TRANSFER with
// category cat and points each at the other.
func (s *SQLiteStore) LinkTransfer(ctx context.Context, debitID, creditID string, cat models.Category) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &smserror.StoreError{Op: "link", Err: err}
	}
	defer func() { _ = tx.Rollback() }()

	for _, side := range [][2]string{{debitID, creditID}, {creditID, debitID}} {
		res, err := tx.ExecContext(ctx, `UPDATE transactions SET type = ?, nature = ?, category_id = ?,
			category_name = ?, linked_id = ?, requires_confirmation = 0, updated_at = CURRENT_TIMESTAMP
			WHERE id = ?`,
			string(models.TypeTransfer), string(models.NatureSelfTransfer), cat.ID, cat.Name, side[1], side[0])
		if err != nil {
			return &smserror.StoreError{Op: "link", Key: side[0], Err: err}
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return &smserror.StoreError{Op: "link", Key: side[0], Err: smserror.ErrNotFound}
		}
	}
	if err := tx.Commit(); err != nil {
		return &smserror.StoreError{Op: "link", Err: err}
	}
	s.logger.Info("Linked self-transfer pair",
		logging.Field{Key: logging.FieldTransactionID, Value: debitID},
		logging.Field{Key: "linked_id", Value: creditID})
	return nil
}

// Count returns the number of stored transactions.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&n); err != nil {
		return 0, &smserror.StoreError{Op: "count", Err: err}
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTransaction(row rowScanner) (models.Transaction, error) {
	var (
		txn                                       models.Transaction
		hash, direction, typ, nature, rule        string
		categoryID                                sql.NullInt64
		linkedID, ruleTrace, violations           sql.NullString
		truncated, requiresConfirmation, reversal bool
	)
	err := row.Scan(&txn.ID, &hash, &txn.TimestampMillis, &txn.AmountMinor, &direction, &categoryID,
		&txn.CategoryName, &txn.Merchant, &txn.Counterparty, &txn.UPIID, &txn.Reference, &txn.Sender,
		&txn.Snippet, &truncated, &typ, &nature, &rule, &txn.Confidence, &requiresConfirmation,
		&reversal, &linkedID, &ruleTrace, &violations)
	if err != nil {
		return models.Transaction{}, err
	}
	txn.Hash = models.ContentHash(hash)
	txn.Direction = models.Direction(direction)
	txn.CategoryID = categoryID.Int64
	txn.SnippetTruncated = truncated
	txn.Type = models.TransactionType(typ)
	txn.Nature = models.Nature(nature)
	txn.MatchedRule = models.RuleTag(rule)
	txn.RequiresConfirmation = requiresConfirmation
	txn.Reversal = reversal
	txn.LinkedID = linkedID.String
	txn.RuleTrace = ruleTrace.String
	txn.Violations = violations.String
	return txn, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
