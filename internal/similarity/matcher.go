// Package similarity finds stored transactions that share an identity key
// with a source transaction so one manual categorization can be applied to
// all of them.
package similarity

import (
	"strings"

	"saikumar/sms-ledger/internal/models"
	"saikumar/sms-ledger/internal/patterns"
)

// PatternType names the key a match was found on.
type PatternType string

const (
	PatternUPIID     PatternType = "UPI_ID"
	PatternMerchant  PatternType = "MERCHANT"
	PatternReference PatternType = "REFERENCE"
)

// Confidence per key, highest priority first.
const (
	ConfidenceUPIID     = 0.99
	ConfidenceMerchant  = 0.95
	ConfidenceReference = 0.85
)

// Match is the highest-priority non-empty set of similar transactions.
type Match struct {
	Pattern     string      `json:"pattern"`
	PatternType PatternType `json:"pattern_type"`
	MatchingIDs []string    `json:"matching_ids"`
	Confidence  float64     `json:"confidence"`
}

// Matcher compares transactions by UPI id, normalized merchant and transfer
// reference. Substring merchant matching is never used.
type Matcher struct {
	store *patterns.Store
}

// NewMatcher creates a Matcher. store is used to exclude placeholder
// merchants, which would otherwise link unrelated payments.
func NewMatcher(store *patterns.Store) *Matcher {
	return &Matcher{store: store}
}

type key struct {
	typ        PatternType
	confidence float64
	value      func(models.Transaction) string
}

// FindSimilar returns the first key, in priority order, for which at least
// one candidate other than source matches exactly.
func (m *Matcher) FindSimilar(source models.Transaction, candidates []models.Transaction) (Match, bool) {
	keys := []key{
		{PatternUPIID, ConfidenceUPIID, func(t models.Transaction) string { return strings.ToLower(strings.TrimSpace(t.UPIID)) }},
		{PatternMerchant, ConfidenceMerchant, m.merchantKey},
		{PatternReference, ConfidenceReference, func(t models.Transaction) string { return strings.ToUpper(strings.TrimSpace(t.Reference)) }},
	}

	for _, k := range keys {
		want := k.value(source)
		if want == "" {
			continue
		}
		var ids []string
		for _, c := range candidates {
			if c.ID == source.ID || (c.Hash != "" && c.Hash == source.Hash) {
				continue
			}
			if k.value(c) == want {
				ids = append(ids, c.ID)
			}
		}
		if len(ids) > 0 {
			return Match{Pattern: want, PatternType: k.typ, MatchingIDs: ids, Confidence: k.confidence}, true
		}
	}
	return Match{}, false
}

func (m *Matcher) merchantKey(t models.Transaction) string {
	n := NormalizeMerchant(t.Merchant)
	if n == "" || m.store.IsPlaceholder(n) {
		return ""
	}
	return n
}

// NormalizeMerchant upper-cases name, collapses whitespace and strips
// trailing digits from every word.
func NormalizeMerchant(name string) string {
	words := strings.Fields(strings.ToUpper(name))
	out := words[:0]
	for _, w := range words {
		w = strings.TrimRight(w, "0123456789")
		if w != "" {
			out = append(out, w)
		}
	}
	return strings.Join(out, " ")
}
