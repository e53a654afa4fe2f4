package patterns

import (
	"regexp"
	"strings"
)

// Regexes are the extraction expressions shared by every stage. They are
// compiled once per Store and are safe for concurrent use.
type Regexes struct {
	// Amount captures the digits after a Rs./INR/₹ prefix.
	Amount *regexp.Regexp
	// UPIID matches a VPA such as "name.surname@okaxis".
	UPIID *regexp.Regexp
	// TransferRail matches NEFT, IMPS or RTGS.
	TransferRail *regexp.Regexp
	// RailReference captures "NEFT-HDFCN52023..." style references.
	RailReference *regexp.Regexp
	// Reference captures "Ref No 1234", "UTR: ABCD1234" and similar.
	Reference *regexp.Regexp
	// IFSC captures the four-letter bank prefix of an IFSC code.
	IFSC *regexp.Regexp
	// MaskedCard matches "card ending 1234", "card XX1234" and similar.
	MaskedCard *regexp.Regexp

	CreditCardReceipt    []*regexp.Regexp
	CreditCardBillDebit  []*regexp.Regexp
	BillAppCredited      *regexp.Regexp
	SelfTransfer         []*regexp.Regexp
	ProvisionalMerchants []*regexp.Regexp

	// Counterparty extraction, tried in order.
	CounterpartySemicolon  *regexp.Regexp
	CounterpartyBeforeVerb *regexp.Regexp
	CounterpartyPhrase     *regexp.Regexp

	// PersonHint matches "to Ramesh Kumar" style phrasing.
	PersonHint     *regexp.Regexp
	TrailingDigits *regexp.Regexp
}

const (
	nameWord   = `[A-Za-z][A-Za-z']*\d*`
	actionVerb = `credited|debited|transferred|paid|received`
	nameEnd    = `(?:\s+(?i:ref|on|upi|via|avl|imps|neft|rtgs|info|dated|at|a/c|ac|for|using|with|thru|through|successfully|is|has|was|and|in|of|your|bal|vpa|txn|utr|mob|sent|` + actionVerb + `)\b|\s*[.,;:()/@\-]|\s*$)`
)

func compileRegexes(billApps []string) *Regexes {
	apps := make([]string, 0, len(billApps))
	for _, a := range billApps {
		apps = append(apps, regexp.QuoteMeta(a))
	}
	return &Regexes{
		Amount:        regexp.MustCompile(`(?i)(?:\b(?:rs|inr)\.?|₹)\s*\.?\s*([\d,]*\d(?:\.\d{1,2})?)`),
		UPIID:         regexp.MustCompile(`([a-zA-Z0-9][a-zA-Z0-9._-]{1,255})@([a-zA-Z]{2,64})\b`),
		TransferRail:  regexp.MustCompile(`(?i)\b(NEFT|IMPS|RTGS)\b`),
		RailReference: regexp.MustCompile(`(?i)\b(?:NEFT|IMPS|RTGS)[-/:\s]+([A-Z]{4}[A-Z0-9]*\d[A-Z0-9]{4,})`),
		Reference:     regexp.MustCompile(`(?i)\b(?:ref(?:erence)?|utr|txn)\.?\s*(?:no\.?|number|id)?\s*[:.#-]?\s*([A-Za-z0-9]{6,22})\b`),
		IFSC:          regexp.MustCompile(`\b([A-Z]{4})0[A-Z0-9]{6}\b`),
		MaskedCard:    regexp.MustCompile(`(?i)\bcard\b[^0-9]{0,24}?(?:x+|\*+|ending(?:\s+with)?\s*|no\.?\s*)[x*]*\d{4}\b`),
		CreditCardReceipt: []*regexp.Regexp{
			regexp.MustCompile(`(?is)\bpayment\b.{0,80}?\b(?:received|credited)\b.{0,80}?\bcredit\s*card\b`),
			regexp.MustCompile(`(?is)\bcard\s*member\b.{0,80}?\bpayment\b.{0,80}?\b(?:received|credited)\b`),
			regexp.MustCompile(`(?is)\bcredited\s+to\s+your\s+(?:credit\s+)?card\s+(?:ending|no|xx)`),
			regexp.MustCompile(`(?is)\bthank\s+you\s+for\s+(?:the\s+)?payment\b.{0,80}?\bcredit\s*card\b`),
		},
		CreditCardBillDebit: []*regexp.Regexp{
			regexp.MustCompile(`(?is)\btowards\s+(?:your\s+)?credit\s*card\b`),
			regexp.MustCompile(`(?is)\bcredit\s*card\s+bill\s+payment\b`),
		},
		BillAppCredited: regexp.MustCompile(`(?i)\b(?:` + strings.Join(apps, "|") + `)(?:\s+club)?\s+credited\b`),
		SelfTransfer: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\bto\s+self\b`),
			regexp.MustCompile(`(?i)\bown\s+(?:a/?c|account)\b`),
			regexp.MustCompile(`(?i)\bbetween\s+your\s+(?:own\s+)?accounts\b`),
		},
		ProvisionalMerchants: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\bat\s+([A-Za-z][A-Za-z0-9 &.*'-]{2,30}?)(?:\s+(?:on|for|using|via|worth|with|avl|ref)\b|[.,;]|$)`),
			regexp.MustCompile(`(?i)\binfo:?\s*([A-Za-z][A-Za-z0-9 &.'-]{2,30}?)(?:\*|[.,;]|$)`),
			regexp.MustCompile(`(?i)\bpaid\s+to\s+([A-Za-z][A-Za-z0-9]{2,30})@`),
			regexp.MustCompile(`(?i)\bto\s+([A-Za-z][A-Za-z0-9 &.*'-]{2,30}?)\s+on\b`),
		},
		CounterpartySemicolon:  regexp.MustCompile(`;\s*(` + nameWord + `(?:\s+` + nameWord + `){0,3})\s+(?i:credited)\b`),
		CounterpartyBeforeVerb: regexp.MustCompile(`\b(` + nameWord + `(?:\s+` + nameWord + `){1,3})\s+(?i:` + actionVerb + `)\b`),
		CounterpartyPhrase: regexp.MustCompile(`(?i:\b(?:credited\s+from|received\s+from|credited\s+by|deposited\s+by|debited\s+to|credited\s+to|transferred\s+to|transfer\s+to|trf\s+to|paid\s+to|sent\s+to|payment\s+to|from))\s+(` +
			nameWord + `(?:\s+` + nameWord + `){1,3}?)` + nameEnd),
		PersonHint:     regexp.MustCompile(`\b(?i:to|from|by)\s+[A-Z][A-Za-z]+\s+[A-Z][A-Za-z]+`),
		TrailingDigits: regexp.MustCompile(`\d+$`),
	}
}
