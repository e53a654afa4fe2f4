// Package extractor pulls the structured facts out of a raw SMS body:
// amount, direction, reversal flag, UPI id, transfer reference, bank code,
// a provisional merchant and a display snippet.
package extractor

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"saikumar/sms-ledger/internal/models"
	"saikumar/sms-ledger/internal/patterns"
)

// DefaultSnippetLength is the display snippet length in runes.
const DefaultSnippetLength = 120

// Merchant sources recorded on the provisional merchant.
const (
	MerchantSourceBrand        = "brand"
	MerchantSourcePattern      = "pattern"
	MerchantSourceIntermediary = "intermediary"
)

// Extraction is everything read directly from the body text.
type Extraction struct {
	Amount    models.ExtractedAmount
	HasAmount bool
	// AmountErr is set when an amount token was found but rejected.
	AmountErr error

	Direction        models.Direction
	DirectionKeyword string
	Reversal         bool
	Hash             models.ContentHash

	UPIID         string
	Reference     string
	ReferenceKind string
	BankCode      string

	Merchant       string
	MerchantSource string

	Snippet          string
	SnippetTruncated bool
}

// IsDebit reports whether the message moves money out.
func (e Extraction) IsDebit() bool { return e.Direction.IsDebit() }

// IsCredit reports whether the message moves money in.
func (e Extraction) IsCredit() bool { return e.Direction.IsCredit() }

// Extractor reads SMS bodies using the expressions of a pattern store.
type Extractor struct {
	store         *patterns.Store
	maxMinor      int64
	snippetLength int
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithMaxAmount sets the largest accepted amount in minor units. Zero or a
// negative value disables the limit.
func WithMaxAmount(minor int64) Option {
	return func(e *Extractor) { e.maxMinor = minor }
}

// WithSnippetLength sets the snippet length in runes.
func WithSnippetLength(n int) Option {
	return func(e *Extractor) {
		if n > 0 {
			e.snippetLength = n
		}
	}
}

// New creates an Extractor backed by store.
func New(store *patterns.Store, opts ...Option) *Extractor {
	e := &Extractor{
		store:         store,
		maxMinor:      models.DefaultMaxAmountMinor,
		snippetLength: DefaultSnippetLength,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract reads body. It never fails: a message without an acceptable amount
// has HasAmount false and a message without direction verbs has direction
// UNKNOWN.
func (e *Extractor) Extract(body string) Extraction {
	x := Extraction{
		Hash:     models.HashBody(body),
		Reversal: e.store.IsReversal(body),
	}

	x.Amount, x.HasAmount, x.AmountErr = e.amount(body)
	x.Direction, x.DirectionKeyword = e.direction(body)
	x.UPIID = e.upiID(body)
	x.Reference, x.ReferenceKind = e.reference(body)
	x.BankCode = e.bankCode(body)
	x.Merchant, x.MerchantSource = e.provisionalMerchant(body)
	x.Snippet, x.SnippetTruncated = Snippet(body, e.snippetLength)
	return x
}

func (e *Extractor) amount(body string) (models.ExtractedAmount, bool, error) {
	m := e.store.Regexes().Amount.FindStringSubmatch(body)
	if m == nil {
		return models.ExtractedAmount{}, false, nil
	}
	amt, err := models.ParseAmount(m[1], e.maxMinor)
	if err != nil {
		return models.ExtractedAmount{}, false, err
	}
	return amt, true, nil
}

// direction prefers debit verbs when both sets match.
func (e *Extractor) direction(body string) (models.Direction, string) {
	if kw, ok := e.store.DebitKeyword(body); ok {
		return models.DirectionDebit, kw
	}
	if kw, ok := e.store.CreditKeyword(body); ok {
		return models.DirectionCredit, kw
	}
	return models.DirectionUnknown, ""
}

func (e *Extractor) upiID(body string) string {
	m := e.store.Regexes().UPIID.FindString(body)
	return strings.ToLower(m)
}

// reference is only read when the message names a transfer rail.
func (e *Extractor) reference(body string) (string, string) {
	re := e.store.Regexes()
	rail := re.TransferRail.FindStringSubmatch(body)
	if rail == nil {
		return "", ""
	}
	kind := strings.ToUpper(rail[1])
	if m := re.RailReference.FindStringSubmatch(body); m != nil {
		return strings.ToUpper(m[1]), kind
	}
	for _, m := range re.Reference.FindAllStringSubmatch(body, -1) {
		if hasDigit(m[1]) {
			return strings.ToUpper(m[1]), kind
		}
	}
	return "", kind
}

// bankCode is the IFSC bank prefix, else the prefix of a rail reference.
func (e *Extractor) bankCode(body string) string {
	re := e.store.Regexes()
	if m := re.IFSC.FindStringSubmatch(body); m != nil {
		return m[1]
	}
	if m := re.RailReference.FindStringSubmatch(body); m != nil {
		return strings.ToUpper(m[1][:4])
	}
	return ""
}

// provisionalMerchant tries a known brand, then the "at X" style
// expressions, then a gateway or wallet name.
func (e *Extractor) provisionalMerchant(body string) (string, string) {
	if brand, ok := e.store.ExtractMerchantKeyword(body); ok {
		return brand, MerchantSourceBrand
	}
	if brand, ok := e.store.FindBrand(body); ok {
		return brand, MerchantSourceBrand
	}
	for _, re := range e.store.Regexes().ProvisionalMerchants {
		m := re.FindStringSubmatch(body)
		if m == nil {
			continue
		}
		name := cleanMerchant(m[1])
		if len(name) >= 3 && !strings.Contains(name, "/") && !e.store.HasAccountToken(name) {
			return name, MerchantSourcePattern
		}
	}
	if name, ok := e.store.FindIntermediary(body); ok {
		return name, MerchantSourceIntermediary
	}
	return "", ""
}

func cleanMerchant(s string) string {
	s = strings.TrimFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == '*' || r == '.' || r == '-' || r == '\''
	})
	return patterns.Normalize(s)
}

// Snippet collapses whitespace in body and truncates it to n runes,
// appending "..." when truncated.
func Snippet(body string, n int) (string, bool) {
	s := strings.Join(strings.Fields(body), " ")
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s, false
	}
	runes := []rune(s)
	return strings.TrimRightFunc(string(runes[:n]), unicode.IsSpace) + "...", true
}

func hasDigit(s string) bool {
	return strings.IndexFunc(s, unicode.IsDigit) >= 0
}
