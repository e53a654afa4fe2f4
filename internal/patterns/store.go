package patterns

import (
	"sort"
	"strings"

	"saikumar/sms-ledger/internal/models"
)

// Overlay is the user-editable part of the pattern set.
type Overlay struct {
	// MerchantPatterns maps a keyword to a category name.
	MerchantPatterns map[string]string `yaml:"merchant_patterns" json:"merchant_patterns"`
	// SalaryPayers are employer names whose credits count as salary.
	SalaryPayers []string `yaml:"salary_payers" json:"salary_payers"`
}

// IncomeRule is one explicit income sub-rule of the decision tree.
type IncomeRule struct {
	Tag      models.RuleTag
	Keywords KeywordSet
}

type merchantEntry struct {
	keyword  string
	category string
}

// Store is an immutable snapshot of the keyword tables, the default and
// user-defined merchant maps and the compiled extraction expressions.
type Store struct {
	re *Regexes

	pending          KeywordSet
	cashback         KeywordSet
	ccNegative       KeywordSet
	ccContext        KeywordSet
	ccIssuers        KeywordSet
	cardNetworks     KeywordSet
	ccSpendVerbs     KeywordSet
	ccBillApps       KeywordSet
	selfTransfer     KeywordSet
	salary           KeywordSet
	incomeRules      []IncomeRule
	investment       KeywordSet
	debitVerbs       KeywordSet
	creditVerbs      KeywordSet
	reversal         KeywordSet
	placeholders     KeywordSet
	intermediaries   KeywordSet
	stopPhrases      KeywordSet
	monetary         KeywordSet
	accountTokens    KeywordSet
	brands           KeywordSet
	defaultMerchants []merchantEntry

	userMerchants []merchantEntry
	salaryPayers  KeywordSet
}

// New builds a Store holding only the built-in tables.
func New() *Store {
	s := &Store{
		re:           compileRegexes(creditCardBillApps),
		pending:      NewKeywordSet(pendingKeywords...),
		cashback:     NewKeywordSet(cashbackKeywords...),
		ccNegative:   NewKeywordSet(creditCardNegativeSignals...),
		ccContext:    NewKeywordSet(creditCardContextKeywords...),
		ccIssuers:    NewKeywordSet(creditCardIssuers...),
		cardNetworks: NewKeywordSet(cardNetworks...),
		ccSpendVerbs: NewKeywordSet(creditCardSpendVerbs...),
		ccBillApps:   NewKeywordSet(creditCardBillApps...),
		selfTransfer: NewKeywordSet(selfTransferKeywords...),
		salary:       NewKeywordSet(salaryKeywords...),
		investment:   NewKeywordSet(investmentKeywords...),
		debitVerbs:   NewKeywordSet(debitVerbs...),
		creditVerbs:  NewKeywordSet(creditVerbs...),
		reversal:     NewKeywordSet(reversalKeywords...),
		placeholders: NewKeywordSet(placeholderTokens...),
		stopPhrases:  NewKeywordSet(stopPhrases...),
		monetary:     NewKeywordSet(monetaryTokens...),
		// Account tokens are checked against the raw name too; see HasAccountToken.
		accountTokens: NewKeywordSet(accountTokens...),
	}
	s.intermediaries = NewKeywordSet(intermediaryTokens()...)

	brands := make([]string, 0, len(defaultMerchantCategories))
	for k, v := range defaultMerchantCategories {
		brands = append(brands, k)
		s.defaultMerchants = append(s.defaultMerchants, merchantEntry{keyword: Normalize(k), category: v})
	}
	sortEntries(s.defaultMerchants)
	s.brands = NewKeywordSet(brands...)

	s.incomeRules = []IncomeRule{
		{Tag: models.RuleNEFT, Keywords: NewKeywordSet(neftKeywords...)},
		{Tag: models.RuleInterest, Keywords: NewKeywordSet(interestKeywords...)},
		{Tag: models.RuleBonus, Keywords: NewKeywordSet(bonusKeywords...)},
		{Tag: models.RuleRefund, Keywords: NewKeywordSet(refundKeywords...)},
		{Tag: models.RuleDividend, Keywords: NewKeywordSet(dividendKeywords...)},
		{Tag: models.RuleCashback, Keywords: NewKeywordSet("cashback", "cash back")},
	}
	return s
}

// intermediaryTokens are the non-bank placeholders: payment gateways, wallet
// apps and bill-payment apps. Banks are excluded because almost every SMS
// names the sender bank.
func intermediaryTokens() []string {
	var out []string
	for _, t := range placeholderTokens {
		n := Normalize(t)
		if n == "BANK" || n == "UPI" || n == "NPCI" {
			continue
		}
		if isBankToken(n) {
			continue
		}
		out = append(out, n)
	}
	return out
}

var bankTokens = map[string]bool{
	"SBI": true, "STATE BANK": true, "HDFC": true, "HDFCBANK": true, "HDFC BANK": true,
	"ICICI": true, "ICICI BANK": true, "AXIS": true, "AXIS BANK": true, "KOTAK": true,
	"KOTAK MAHINDRA": true, "PNB": true, "BANK OF BARODA": true, "BOB": true, "CANARA": true,
	"UNION BANK": true, "YES BANK": true, "IDFC": true, "INDUSIND": true, "FEDERAL BANK": true,
}

func isBankToken(n string) bool {
	return bankTokens[n]
}

func sortEntries(entries []merchantEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if len(entries[i].keyword) != len(entries[j].keyword) {
			return len(entries[i].keyword) > len(entries[j].keyword)
		}
		return entries[i].keyword < entries[j].keyword
	})
}

// WithOverlay returns a new snapshot carrying the given user patterns. The
// receiver is not modified.
func (s *Store) WithOverlay(o Overlay) *Store {
	next := *s
	next.userMerchants = nil
	for k, v := range o.MerchantPatterns {
		kw := Normalize(k)
		cat := strings.TrimSpace(v)
		if kw == "" || cat == "" {
			continue
		}
		next.userMerchants = append(next.userMerchants, merchantEntry{keyword: kw, category: cat})
	}
	sortEntries(next.userMerchants)
	next.salaryPayers = NewKeywordSet(o.SalaryPayers...)
	return &next
}

// Overlay returns a copy of the user patterns held by the snapshot.
func (s *Store) Overlay() Overlay {
	o := Overlay{MerchantPatterns: make(map[string]string, len(s.userMerchants))}
	for _, e := range s.userMerchants {
		o.MerchantPatterns[e.keyword] = e.category
	}
	o.SalaryPayers = s.salaryPayers.Words()
	return o
}

// Regexes returns the compiled extraction expressions.
func (s *Store) Regexes() *Regexes {
	return s.re
}

// DefaultMerchantCategories returns a copy of the built-in keyword to
// category map.
func (s *Store) DefaultMerchantCategories() map[string]string {
	out := make(map[string]string, len(s.defaultMerchants))
	for _, e := range s.defaultMerchants {
		out[e.keyword] = e.category
	}
	return out
}

// IsPending returns the future-tense keyword found in text, if any.
func (s *Store) IsPending(text string) (string, bool) {
	return s.pending.Find(Normalize(text))
}

// IsCashback returns the cashback or reward keyword found in text, if any.
func (s *Store) IsCashback(text string) (string, bool) {
	return s.cashback.Find(Normalize(text))
}

// HasNegativeSignals reports whether text mentions a benefit (cashback,
// reward, bonus, interest, credit score) that rules out a card bill payment.
func (s *Store) HasNegativeSignals(text string) bool {
	return s.ccNegative.Matches(Normalize(text))
}

// IsCreditCardPayment reports whether text carries explicit bill-payment
// receipt wording. It is always false when negative signals are present.
func (s *Store) IsCreditCardPayment(text string) bool {
	if s.HasNegativeSignals(text) {
		return false
	}
	for _, re := range s.re.CreditCardReceipt {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// IsCreditCardBillDebit reports whether a debit funds a credit card bill,
// either through a bill-payment app or with explicit "towards credit card"
// wording. It is always false when negative signals are present.
func (s *Store) IsCreditCardBillDebit(text string) bool {
	if s.HasNegativeSignals(text) {
		return false
	}
	if s.re.BillAppCredited.MatchString(text) {
		return true
	}
	for _, re := range s.re.CreditCardBillDebit {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// HasCreditCardContext reports whether text refers to a credit card, by
// keyword, issuer, card network or masked card number. Debit cards do not
// count.
func (s *Store) HasCreditCardContext(text string) bool {
	upper := Normalize(text)
	if ContainsWord(upper, "DEBIT CARD") {
		return false
	}
	return s.ccContext.Matches(upper) || s.ccIssuers.Matches(upper) ||
		s.cardNetworks.Matches(upper) || s.re.MaskedCard.MatchString(text)
}

// IsCreditCardSpend reports whether text has credit card context and a
// spend verb. Direction is checked by the caller.
func (s *Store) IsCreditCardSpend(text string) bool {
	return s.HasCreditCardContext(text) && s.ccSpendVerbs.Matches(Normalize(text))
}

// IsSelfTransfer returns the explicit self-transfer keyword found in text.
func (s *Store) IsSelfTransfer(text string) (string, bool) {
	if kw, ok := s.selfTransfer.Find(Normalize(text)); ok {
		return kw, true
	}
	for _, re := range s.re.SelfTransfer {
		if m := re.FindString(text); m != "" {
			return Normalize(m), true
		}
	}
	return "", false
}

// IsSalaryCredit reports whether text mentions salary or a known salary payer.
func (s *Store) IsSalaryCredit(text string) bool {
	upper := Normalize(text)
	return s.salary.Matches(upper) || s.salaryPayers.Matches(upper)
}

// MatchIncomeRule tries the explicit income sub-rules in order and returns
// the first that matches together with the keyword.
func (s *Store) MatchIncomeRule(text string) (models.RuleTag, string, bool) {
	upper := Normalize(text)
	if kw, ok := s.salary.Find(upper); ok {
		return models.RuleSalary, kw, true
	}
	if kw, ok := s.salaryPayers.Find(upper); ok {
		return models.RuleSalary, kw, true
	}
	for _, r := range s.incomeRules {
		if kw, ok := r.Keywords.Find(upper); ok {
			return r.Tag, kw, true
		}
	}
	return "", "", false
}

// IsInvestment reports whether text names an exchange, brokerage or fund.
func (s *Store) IsInvestment(text string) bool {
	return s.investment.Matches(Normalize(text))
}

// DebitKeyword returns the first debit verb found in text.
func (s *Store) DebitKeyword(text string) (string, bool) {
	return s.debitVerbs.Find(Normalize(text))
}

// CreditKeyword returns the first credit verb found in text.
func (s *Store) CreditKeyword(text string) (string, bool) {
	return s.creditVerbs.Find(Normalize(text))
}

// IsReversal reports whether text describes a failed or reversed payment.
func (s *Store) IsReversal(text string) bool {
	return s.reversal.Matches(Normalize(text))
}

// ExtractMerchantKeyword returns the merchant keyword found in text. User
// patterns are checked before the defaults.
func (s *Store) ExtractMerchantKeyword(text string) (string, bool) {
	e, ok := s.findMerchant(Normalize(text))
	return e.keyword, ok
}

// GetCategoryForMerchant returns the category name mapped to the first
// merchant keyword found in text. User patterns are checked before the
// defaults.
func (s *Store) GetCategoryForMerchant(text string) (string, bool) {
	e, ok := s.findMerchant(Normalize(text))
	return e.category, ok
}

func (s *Store) findMerchant(upper string) (merchantEntry, bool) {
	for _, e := range s.userMerchants {
		if ContainsWord(upper, e.keyword) {
			return e, true
		}
	}
	for _, e := range s.defaultMerchants {
		if ContainsWord(upper, e.keyword) {
			return e, true
		}
	}
	return merchantEntry{}, false
}

var placeholderSuffixes = map[string]bool{
	"LTD": true, "LIMITED": true, "PVT": true, "PRIVATE": true, "PAYMENTS": true,
	"CLUB": true, "INDIA": true, "OF": true,
}

// IsPlaceholder reports whether name is made only of bank, gateway or wallet
// tokens, optionally followed by corporate suffixes.
func (s *Store) IsPlaceholder(name string) bool {
	upper := Normalize(name)
	if upper == "" {
		return false
	}
	found := false
	for _, w := range s.placeholders.words {
		if ContainsWord(upper, w) {
			upper = strings.ReplaceAll(" "+upper+" ", " "+w+" ", " ")
			upper = strings.TrimSpace(upper)
			found = true
		}
	}
	if !found {
		return false
	}
	for _, w := range strings.Fields(upper) {
		if !placeholderSuffixes[w] && !s.placeholders.Matches(w) {
			return false
		}
	}
	return true
}

// ContainsPlaceholder reports whether any placeholder token occurs in text.
func (s *Store) ContainsPlaceholder(text string) bool {
	return s.placeholders.Matches(Normalize(text))
}

// FindIntermediary returns the gateway, wallet or bill-payment app named in
// text, if any.
func (s *Store) FindIntermediary(text string) (string, bool) {
	return s.intermediaries.Find(Normalize(text))
}

// FindBrand returns the known brand named in text, if any.
func (s *Store) FindBrand(text string) (string, bool) {
	return s.brands.Find(Normalize(text))
}

// IsKnownBrand reports whether name contains a known brand.
func (s *Store) IsKnownBrand(name string) bool {
	_, ok := s.FindBrand(name)
	return ok
}

// HasStopPhrase reports whether name contains a stop phrase as a whole word.
func (s *Store) HasStopPhrase(name string) bool {
	return s.stopPhrases.Matches(Normalize(name))
}

// HasMonetaryToken reports whether name contains a currency token.
func (s *Store) HasMonetaryToken(name string) bool {
	upper := Normalize(name)
	return strings.Contains(upper, "₹") || s.monetary.Matches(upper)
}

// HasAccountToken reports whether name contains an account marker: A/C, a
// masked "XX" run, or a run of three or more digits.
func (s *Store) HasAccountToken(name string) bool {
	upper := Normalize(name)
	if strings.Contains(upper, "A/C") || strings.Contains(upper, "XX") {
		return true
	}
	digits := 0
	for _, r := range upper {
		if r >= '0' && r <= '9' {
			digits++
			if digits >= 3 {
				return true
			}
			continue
		}
		digits = 0
	}
	return s.accountTokens.Matches(upper)
}

// HasNameCandidate reports whether text contains a UPI id or person-name
// phrasing that a later resolution step could use.
func (s *Store) HasNameCandidate(text string) bool {
	return s.re.UPIID.MatchString(text) || s.re.PersonHint.MatchString(text)
}
