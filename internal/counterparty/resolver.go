// Package counterparty extracts the person or UPI handle on the other side
// of a transaction and uses it to replace placeholder merchants such as bank,
// gateway and wallet names.
package counterparty

import (
	"regexp"
	"strings"
	"unicode"

	"saikumar/sms-ledger/internal/models"
	"saikumar/sms-ledger/internal/patterns"
)

// Extraction rule tags, in the order they are tried.
const (
	RuleSemicolon      = "SEMICOLON_NAME_CREDITED"
	RuleBeforeVerb     = "NAME_BEFORE_VERB"
	RuleTransferPhrase = "TRANSFER_PHRASE"
	RuleUPIHandle      = "UPI_HANDLE"
)

// Merchant resolution sources.
const (
	SourceBrand        = "brand"
	SourceOriginal     = "original"
	SourceCounterparty = "counterparty"
	SourceUPIName      = "upi_name"
	SourceUPIID        = "upi_id"
	SourceNoCandidate  = "no_candidate"
)

// Resolution is the outcome of merchant resolution.
type Resolution struct {
	Merchant    string
	Source      string
	Changed     bool
	NoCandidate bool
}

type pattern struct {
	rule       string
	confidence models.ExtractionConfidence
	re         *regexp.Regexp
	upi        bool
}

// Resolver extracts counterparties and resolves merchants. It holds no
// mutable state.
type Resolver struct {
	store    *patterns.Store
	patterns []pattern
}

// New creates a Resolver using the expressions of store.
func New(store *patterns.Store) *Resolver {
	re := store.Regexes()
	return &Resolver{
		store: store,
		patterns: []pattern{
			{rule: RuleSemicolon, confidence: models.ExtractionHigh, re: re.CounterpartySemicolon},
			{rule: RuleBeforeVerb, confidence: models.ExtractionMedium, re: re.CounterpartyBeforeVerb},
			{rule: RuleTransferPhrase, confidence: models.ExtractionMedium, re: re.CounterpartyPhrase},
			{rule: RuleUPIHandle, confidence: models.ExtractionMedium, re: re.UPIID, upi: true},
		},
	}
}

// Extract tries each pattern in order. Within a pattern every structural
// match is validated; the first valid candidate wins. A pattern with no
// valid candidate passes on to the next one. A name cut short by a slash
// ("self A/c") is a fragment of an account token and is never accepted.
func (r *Resolver) Extract(text string) models.CounterpartyExtraction {
	for _, p := range r.patterns {
		for _, m := range p.re.FindAllStringSubmatchIndex(text, -1) {
			candidate := text[m[2]:m[3]]
			if !p.upi && strings.HasPrefix(strings.TrimLeft(text[m[3]:], " "), "/") {
				continue
			}
			if p.upi {
				candidate = upiLocalPartToName(candidate)
			}
			if name, ok := r.Validate(candidate); ok {
				return models.CounterpartyExtraction{
					Name:       name,
					Rule:       p.rule,
					Confidence: p.confidence,
					Found:      true,
				}
			}
		}
	}
	return models.CounterpartyExtraction{}
}

// Validate checks a candidate name against the name grammar and returns it
// with trailing digits stripped from every word.
func (r *Resolver) Validate(candidate string) (string, bool) {
	words := strings.Fields(candidate)
	if len(words) < 2 || len(words) > 4 {
		return "", false
	}
	joined := strings.Join(words, " ")

	letters, digits := 0, 0
	for _, c := range joined {
		switch {
		case unicode.IsLetter(c):
			letters++
		case unicode.IsDigit(c):
			digits++
		}
	}
	if letters == 0 || float64(letters)/float64(letters+digits) < 0.7 {
		return "", false
	}

	if r.store.ContainsPlaceholder(joined) || r.store.HasAccountToken(joined) ||
		r.store.HasMonetaryToken(joined) || r.store.HasStopPhrase(joined) ||
		r.store.IsKnownBrand(joined) {
		return "", false
	}

	capital := false
	for _, w := range words {
		if unicode.IsUpper([]rune(w)[0]) {
			capital = true
			break
		}
	}
	if !capital {
		return "", false
	}

	return stripTrailingDigits(words), true
}

func stripTrailingDigits(words []string) string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.TrimRightFunc(w, unicode.IsDigit)
		if w != "" {
			out = append(out, w)
		}
	}
	return strings.Join(out, " ")
}

// upiLocalPartToName turns "rajeev.kumar" into "Rajeev Kumar". The handle
// part after "@" is dropped.
func upiLocalPartToName(s string) string {
	if i := strings.IndexByte(s, '@'); i >= 0 {
		s = s[:i]
	}
	s = strings.NewReplacer(".", " ", "_", " ", "-", " ").Replace(s)
	return titleCase(s)
}

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// Sanitize clears a placeholder merchant when the text offers nothing that
// could replace it. Non-placeholder merchants are returned unchanged, and so
// is a placeholder when a counterparty was found, a brand is named, or the
// text has a UPI id or person-name phrasing.
func (r *Resolver) Sanitize(merchant, text string, cp models.CounterpartyExtraction) string {
	if merchant == "" || !r.store.IsPlaceholder(merchant) || r.store.IsKnownBrand(merchant) {
		return merchant
	}
	if cp.Found {
		return merchant
	}
	if _, ok := r.store.FindBrand(text); ok {
		return merchant
	}
	if r.store.HasNameCandidate(text) {
		return merchant
	}
	return ""
}

// Resolve replaces an empty or placeholder merchant with the counterparty, a
// name derived from the UPI id, or the UPI id itself, in that order. A known
// brand is never replaced.
func (r *Resolver) Resolve(merchant string, cp models.CounterpartyExtraction, upiID string) Resolution {
	if merchant != "" && r.store.IsKnownBrand(merchant) {
		return Resolution{Merchant: merchant, Source: SourceBrand}
	}
	if merchant != "" && !r.store.IsPlaceholder(merchant) {
		return Resolution{Merchant: merchant, Source: SourceOriginal}
	}
	if cp.Found {
		return Resolution{Merchant: cp.Name, Source: SourceCounterparty, Changed: cp.Name != merchant}
	}
	if upiID != "" {
		if name, ok := r.upiName(upiID); ok {
			return Resolution{Merchant: name, Source: SourceUPIName, Changed: true}
		}
		return Resolution{Merchant: upiID, Source: SourceUPIID, Changed: true}
	}
	return Resolution{Merchant: merchant, Source: SourceNoCandidate, NoCandidate: true}
}

// upiName accepts a looser grammar than Validate: one to four words made of
// letters, at least three letters in total, no placeholder or brand.
func (r *Resolver) upiName(upiID string) (string, bool) {
	name := upiLocalPartToName(upiID)
	if name == "" || len(strings.Fields(name)) > 4 {
		return "", false
	}
	letters := 0
	for _, c := range name {
		if unicode.IsDigit(c) {
			return "", false
		}
		if unicode.IsLetter(c) {
			letters++
		}
	}
	if letters < 3 || r.store.ContainsPlaceholder(name) || r.store.IsKnownBrand(name) {
		return "", false
	}
	return name, true
}

// ReconcileAfterFallback replaces an empty or placeholder merchant with the
// counterparty when the nature came from a fallback rule.
func (r *Resolver) ReconcileAfterFallback(merchant string, rule models.RuleTag, cp models.CounterpartyExtraction) (string, bool) {
	if !rule.IsFallback() || !cp.Found || cp.Name == merchant {
		return merchant, false
	}
	if merchant != "" && (!r.store.IsPlaceholder(merchant) || r.store.IsKnownBrand(merchant)) {
		return merchant, false
	}
	return cp.Name, true
}
