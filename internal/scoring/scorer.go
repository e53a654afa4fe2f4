// Package scoring suggests categories for merchants with a naive Bayes
// model trained on already categorized transactions. Suggestions are
// advisory and never replace the rule-based classification.
package scoring

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/jbrukh/bayesian"

	"saikumar/sms-ledger/internal/logging"
	"saikumar/sms-ledger/internal/models"
)

const (
	DefaultMinSamples     = 20
	DefaultMinProbability = 0.6
)

var (
	// ErrNotEnoughSamples is returned when fewer than the minimum number of
	// labelled records are available.
	ErrNotEnoughSamples = errors.New("not enough labelled samples")
	// ErrSingleCategory is returned when every sample has the same label.
	ErrSingleCategory = errors.New("at least two categories are required")
)

var tokenPattern = regexp.MustCompile(`[a-z0-9]+`)

// Tokenize lowercases s and splits it into alphanumeric runs.
func Tokenize(s string) []string {
	return tokenPattern.FindAllString(strings.ToLower(s), -1)
}

// Sample is one labelled merchant.
type Sample struct {
	Merchant string
	Category string
}

// SamplesFromTransactions keeps records that carry a merchant and a
// settled, real category. Linked self-transfers are skipped.
func SamplesFromTransactions(txns []models.Transaction) []Sample {
	var out []Sample
	for _, t := range txns {
		if t.Merchant == "" || t.CategoryName == "" || t.CategoryName == models.CategoryUncategorized {
			continue
		}
		if t.RequiresConfirmation || t.LinkedID != "" {
			continue
		}
		out = append(out, Sample{Merchant: t.Merchant, Category: t.CategoryName})
	}
	return out
}

// Suggestion is the most probable category for a merchant.
type Suggestion struct {
	Category    string  `json:"category"`
	Probability float64 `json:"probability"`
}

// Scorer wraps a trained classifier.
type Scorer struct {
	minSamples     int
	minProbability float64
	logger         logging.Logger

	classifier *bayesian.Classifier
	classes    []bayesian.Class
	vocabulary map[string]bool
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithMinProbability sets the probability below which no suggestion is made.
func WithMinProbability(p float64) Option {
	return func(s *Scorer) { s.minProbability = p }
}

// New creates an untrained Scorer.
func New(minSamples int, logger logging.Logger, opts ...Option) *Scorer {
	if minSamples <= 0 {
		minSamples = DefaultMinSamples
	}
	s := &Scorer{
		minSamples:     minSamples,
		minProbability: DefaultMinProbability,
		logger:         logging.OrDefault(logger).WithField(logging.FieldComponent, "scoring"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Train replaces the model with one learned from samples.
func (s *Scorer) Train(samples []Sample) error {
	var usable []Sample
	for _, sample := range samples {
		if len(Tokenize(sample.Merchant)) == 0 || sample.Category == "" {
			continue
		}
		usable = append(usable, sample)
	}
	if len(usable) < s.minSamples {
		return fmt.Errorf("%w: have %d, need %d", ErrNotEnoughSamples, len(usable), s.minSamples)
	}

	seen := make(map[string]bool)
	for _, sample := range usable {
		seen[sample.Category] = true
	}
	if len(seen) < 2 {
		return ErrSingleCategory
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	classes := make([]bayesian.Class, len(names))
	for i, name := range names {
		classes[i] = bayesian.Class(name)
	}

	cl := bayesian.NewClassifier(classes...)
	vocab := make(map[string]bool)
	for _, sample := range usable {
		tokens := Tokenize(sample.Merchant)
		cl.Learn(tokens, bayesian.Class(sample.Category))
		for _, tok := range tokens {
			vocab[tok] = true
		}
	}

	s.classifier = cl
	s.classes = classes
	s.vocabulary = vocab
	s.logger.Info("Trained category scorer",
		logging.Field{Key: logging.FieldCount, Value: len(usable)},
		logging.Field{Key: "classes", Value: len(classes)})
	return nil
}

// Trained reports whether Train has succeeded.
func (s *Scorer) Trained() bool {
	return s.classifier != nil
}

// Suggest returns the most probable category for merchant. ok is false when
// the model is untrained, no token of merchant was seen in training, the
// top score is tied or it falls below the minimum probability.
func (s *Scorer) Suggest(merchant string) (Suggestion, bool) {
	if s.classifier == nil {
		return Suggestion{}, false
	}
	var known []string
	for _, tok := range Tokenize(merchant) {
		if s.vocabulary[tok] {
			known = append(known, tok)
		}
	}
	if len(known) == 0 {
		return Suggestion{}, false
	}

	scores, best, strict := s.classifier.ProbScores(known)
	if !strict || scores[best] < s.minProbability {
		s.logger.Debug("No confident suggestion",
			logging.Field{Key: logging.FieldMerchant, Value: merchant},
			logging.Field{Key: logging.FieldConfidence, Value: scores[best]})
		return Suggestion{}, false
	}
	return Suggestion{Category: string(s.classes[best]), Probability: scores[best]}, true
}
