package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"saikumar/sms-ledger/internal/logging"
	"saikumar/sms-ledger/internal/models"
	"saikumar/sms-ledger/internal/source"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
)

// TransactionStore is the persistence the ingestor needs. Insert must be an
// atomic check-and-insert per content hash.
type TransactionStore interface {
	Exists(ctx context.Context, hash models.ContentHash) (bool, error)
	Insert(ctx context.Context, txn models.Transaction) (bool, error)
}

// IngestStats counts what happened to each message of a batch.
type IngestStats struct {
	Read              int
	Inserted          int
	Duplicates        int
	NoAmount          int
	NoDirection       int
	Pending           int
	ParseErrors       int
	Failures          int
	NeedsConfirmation int
	Violations        int
	Duration          time.Duration
}

// Skipped returns the number of messages that produced no record.
func (s IngestStats) Skipped() int {
	return s.Duplicates + s.NoAmount + s.NoDirection + s.Pending
}

// Ingestor runs the sequential batch scan over a message source.
type Ingestor struct {
	classifier *Classifier
	store      TransactionStore
	logger     logging.Logger
	newID      func() string
	progress   io.Writer
	dryRun     bool
}

// IngestOption configures an Ingestor.
type IngestOption func(*Ingestor)

// WithProgress draws a progress spinner on w.
func WithProgress(w io.Writer) IngestOption {
	return func(i *Ingestor) { i.progress = w }
}

// WithIDGenerator replaces the UUID generator.
func WithIDGenerator(fn func() string) IngestOption {
	return func(i *Ingestor) { i.newID = fn }
}

// WithDryRun classifies and counts without inserting.
func WithDryRun(dry bool) IngestOption {
	return func(i *Ingestor) { i.dryRun = dry }
}

// NewIngestor creates an Ingestor.
func NewIngestor(classifier *Classifier, store TransactionStore, logger logging.Logger, opts ...IngestOption) *Ingestor {
	i := &Ingestor{
		classifier: classifier,
		store:      store,
		logger:     logging.OrDefault(logger).WithField(logging.FieldComponent, "ingestor"),
		newID:      func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Ingest classifies and stores every message of src. Per-message failures,
// including panics, are logged and counted and the scan moves on. The
// returned error is reserved for the source itself failing or ctx ending.
func (i *Ingestor) Ingest(ctx context.Context, src source.Source) (IngestStats, error) {
	var stats IngestStats
	start := time.Now()

	var bar *progressbar.ProgressBar
	if i.progress != nil {
		bar = progressbar.NewOptions(-1,
			progressbar.OptionSetWriter(i.progress),
			progressbar.OptionShowCount(),
			progressbar.OptionSetDescription("Ingesting messages..."),
			progressbar.OptionShowElapsedTimeOnFinish(),
		)
	}

	err := src.Each(ctx, func(msg models.RawMessage) error {
		stats.Read++
		if err := i.process(ctx, msg, &stats); err != nil {
			stats.Failures++
			i.logger.WithError(err).Warn("Message failed, continuing",
				logging.Field{Key: logging.FieldHash, Value: models.HashBody(msg.Body).String()},
				logging.Field{Key: logging.FieldSender, Value: msg.Sender})
		}
		if bar != nil {
			_ = bar.Add(1)
		}
		return ctx.Err()
	}, func(err error) {
		stats.ParseErrors++
		i.logger.WithError(err).Warn("Unreadable source record, continuing")
	})

	if bar != nil {
		_ = bar.Finish()
	}
	stats.Duration = time.Since(start)

	i.logger.Info("Ingestion finished",
		logging.Field{Key: logging.FieldCount, Value: stats.Read},
		logging.Field{Key: "inserted", Value: stats.Inserted},
		logging.Field{Key: "skipped", Value: stats.Skipped()},
		logging.Field{Key: "failures", Value: stats.Failures},
		logging.Field{Key: logging.FieldDuration, Value: stats.Duration.Milliseconds()})

	if err != nil {
		return stats, fmt.Errorf("ingestion stopped after %d messages: %w", stats.Read, err)
	}
	return stats, nil
}

// process handles one message to completion.
func (i *Ingestor) process(ctx context.Context, msg models.RawMessage, stats *IngestStats) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while processing message: %v", r)
		}
	}()

	hash := models.HashBody(msg.Body)
	exists, err := i.store.Exists(ctx, hash)
	if err != nil {
		return err
	}
	if exists {
		stats.Duplicates++
		i.logger.Debug("Duplicate message skipped", logging.Field{Key: logging.FieldHash, Value: hash.String()})
		return nil
	}

	outcome := i.classifier.Classify(msg)
	switch outcome.Skipped {
	case models.SkipNoAmount:
		stats.NoAmount++
		return nil
	case models.SkipNoDirection:
		stats.NoDirection++
		return nil
	case models.SkipPending:
		stats.Pending++
		return nil
	}

	r := outcome.Result
	if len(r.Nature.InvariantViolations) > 0 {
		stats.Violations++
	}
	if i.dryRun {
		stats.Inserted++
		if r.RequiresConfirmation {
			stats.NeedsConfirmation++
		}
		return nil
	}

	created, err := i.store.Insert(ctx, r.ToTransaction(i.newID()))
	if err != nil {
		return err
	}
	if !created {
		stats.Duplicates++
		i.logger.Debug("Duplicate message skipped", logging.Field{Key: logging.FieldHash, Value: hash.String()})
		return nil
	}
	stats.Inserted++
	if r.RequiresConfirmation {
		stats.NeedsConfirmation++
	}
	return nil
}

// IngestOne classifies and stores a single message, reporting duplicates
// as models.SkipDuplicate.
func (i *Ingestor) IngestOne(ctx context.Context, msg models.RawMessage) (models.Outcome, error) {
	hash := models.HashBody(msg.Body)
	exists, err := i.store.Exists(ctx, hash)
	if err != nil {
		return models.Outcome{}, err
	}
	if exists {
		return models.Outcome{Result: models.ClassificationResult{Hash: hash}, Skipped: models.SkipDuplicate}, nil
	}

	outcome := i.classifier.Classify(msg)
	if outcome.IsSkipped() || i.dryRun {
		return outcome, nil
	}
	created, err := i.store.Insert(ctx, outcome.Result.ToTransaction(i.newID()))
	if err != nil {
		return outcome, err
	}
	if !created {
		outcome.Skipped = models.SkipDuplicate
	}
	return outcome, nil
}
