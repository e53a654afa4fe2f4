// Package container provides dependency injection for the sms-ledger
// application. It centralizes the creation and wiring of all application
// dependencies, making them explicit and testable.
package container

import (
	"context"
	"errors"
	"fmt"

	"saikumar/sms-ledger/internal/config"
	"saikumar/sms-ledger/internal/export"
	"saikumar/sms-ledger/internal/extractor"
	"saikumar/sms-ledger/internal/logging"
	"saikumar/sms-ledger/internal/models"
	"saikumar/sms-ledger/internal/patterns"
	"saikumar/sms-ledger/internal/pipeline"
	"saikumar/sms-ledger/internal/report"
	"saikumar/sms-ledger/internal/scoring"
	"saikumar/sms-ledger/internal/similarity"
	"saikumar/sms-ledger/internal/store"
)

// Container holds all application dependencies and provides methods to access them.
//
// Container is immutable after creation: all fields are private and can only
// be accessed through getter methods.
type Container struct {
	logger       logging.Logger
	config       *config.Config
	patternFiles *store.PatternFileStore
	patterns     *patterns.Store
	catalog      []models.Category
	repository   store.TransactionRepository
	classifier   *pipeline.Classifier
	matcher      *similarity.Matcher
}

// Option customizes container construction.
type Option func(*options)

type options struct {
	logger     logging.Logger
	repository store.TransactionRepository
}

// WithLogger replaces the logger built from the configuration.
func WithLogger(logger logging.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithRepository replaces the sqlite repository, e.g. with a MemoryStore.
func WithRepository(repo store.TransactionRepository) Option {
	return func(o *options) { o.repository = repo }
}

// NewContainer creates and wires all application dependencies.
//
// Parameters:
//   - cfg: Application configuration
//   - opts: Optional overrides for the logger and repository
//
// Returns:
//   - *Container: Fully wired container with all dependencies
//   - error: Any error encountered during dependency creation
func NewContainer(ctx context.Context, cfg *config.Config, opts ...Option) (*Container, error) {
	if cfg == nil {
		return nil, errors.New("configuration cannot be nil")
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	logger := o.logger
	if logger == nil {
		logger = logging.NewLogrusAdapterFromLogger(config.ConfigureLoggingFromConfig(cfg))
	}

	patternFiles := store.NewPatternFileStore(
		cfg.Patterns.CategoriesFile,
		cfg.Patterns.MerchantFile,
		cfg.Patterns.SalaryPayersFile,
		logger,
	)
	catalog, err := patternFiles.LoadCategories()
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	overlay, err := patternFiles.LoadOverlay()
	if err != nil {
		return nil, fmt.Errorf("failed to load user patterns: %w", err)
	}
	patternStore := patterns.New().WithOverlay(overlay)

	repo := o.repository
	if repo == nil {
		sqliteStore, err := store.NewSQLiteStore(cfg.Store.Database, logger)
		if err != nil {
			return nil, err
		}
		if err := sqliteStore.Migrate(ctx); err != nil {
			_ = sqliteStore.Close()
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		repo = sqliteStore
	}

	classifier := pipeline.NewClassifier(patternStore, catalog, logger,
		extractor.WithMaxAmount(cfg.MaxAmountMinor()),
		extractor.WithSnippetLength(cfg.Ingest.SnippetLength),
	)

	logger.Debug("Container initialized",
		logging.Field{Key: "categories", Value: len(catalog)},
		logging.Field{Key: "user_patterns", Value: len(overlay.MerchantPatterns)},
		logging.Field{Key: "scoring_enabled", Value: cfg.Scoring.Enabled})

	return &Container{
		logger:       logger,
		config:       cfg,
		patternFiles: patternFiles,
		patterns:     patternStore,
		catalog:      catalog,
		repository:   repo,
		classifier:   classifier,
		matcher:      similarity.NewMatcher(patternStore),
	}, nil
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetPatternFiles returns the store for the user-editable pattern files.
func (c *Container) GetPatternFiles() *store.PatternFileStore {
	return c.patternFiles
}

// GetPatterns returns the built-in patterns merged with the user overlay.
func (c *Container) GetPatterns() *patterns.Store {
	return c.patterns
}

// GetCatalog returns a copy of the category catalog.
func (c *Container) GetCatalog() []models.Category {
	out := make([]models.Category, len(c.catalog))
	copy(out, c.catalog)
	return out
}

// GetRepository returns the transaction repository.
func (c *Container) GetRepository() store.TransactionRepository {
	return c.repository
}

// GetClassifier returns the message classifier.
func (c *Container) GetClassifier() *pipeline.Classifier {
	return c.classifier
}

// GetMatcher returns the similarity matcher.
func (c *Container) GetMatcher() *similarity.Matcher {
	return c.matcher
}

// NewIngestor builds an ingestor over the repository.
func (c *Container) NewIngestor(opts ...pipeline.IngestOption) *pipeline.Ingestor {
	return pipeline.NewIngestor(c.classifier, c.repository, c.logger, opts...)
}

// NewReportGenerator builds a report generator.
func (c *Container) NewReportGenerator() *report.Generator {
	return report.NewGenerator(c.logger)
}

// NewCSVWriter builds a CSV writer using the configured delimiter.
func (c *Container) NewCSVWriter() *export.CSVWriter {
	return export.NewCSVWriter(c.config.DelimiterRune(), c.logger)
}

// ErrScoringDisabled is returned by TrainScorer when scoring is off.
var ErrScoringDisabled = errors.New("scoring is disabled (set scoring.enabled)")

// TrainScorer trains a category scorer on the stored transactions.
func (c *Container) TrainScorer(ctx context.Context) (*scoring.Scorer, error) {
	if !c.config.Scoring.Enabled {
		return nil, ErrScoringDisabled
	}
	txns, err := c.repository.List(ctx, store.ListFilter{})
	if err != nil {
		return nil, err
	}
	scorer := scoring.New(c.config.Scoring.MinSamples, c.logger,
		scoring.WithMinProbability(c.config.Scoring.MinProbability))
	if err := scorer.Train(scoring.SamplesFromTransactions(txns)); err != nil {
		return nil, err
	}
	return scorer, nil
}

// Close releases the repository.
func (c *Container) Close() error {
	if err := c.repository.Close(); err != nil {
		return fmt.Errorf("failed to close repository: %w", err)
	}
	c.logger.Debug("Container closed")
	return nil
}
