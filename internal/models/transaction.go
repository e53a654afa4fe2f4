package models

import (
	"strings"
	"time"
)

// TransactionType is the persisted classification of a transaction.
type TransactionType string

const (
	TypeExpense           TransactionType = "EXPENSE"
	TypeIncome            TransactionType = "INCOME"
	TypeCashback          TransactionType = "CASHBACK"
	TypeInvestmentOutflow TransactionType = "INVESTMENT_OUTFLOW"
	TypeLiabilityPayment  TransactionType = "LIABILITY_PAYMENT"
	TypeTransfer          TransactionType = "TRANSFER"
	TypePending           TransactionType = "PENDING"
)

// AllTransactionTypes lists every type a stored record may carry.
func AllTransactionTypes() []TransactionType {
	return []TransactionType{
		TypeExpense, TypeIncome, TypeCashback, TypeInvestmentOutflow,
		TypeLiabilityPayment, TypeTransfer,
	}
}

// SkipReason explains why a message produced no transaction.
type SkipReason string

const (
	SkipNone        SkipReason = ""
	SkipNoAmount    SkipReason = "NO_AMOUNT"
	SkipNoDirection SkipReason = "NO_DIRECTION"
	SkipDuplicate   SkipReason = "DUPLICATE"
	SkipPending     SkipReason = "PENDING"
)

// ClassificationResult is everything the pipeline learned about one message.
type ClassificationResult struct {
	Hash                 ContentHash            `json:"hash"`
	Amount               ExtractedAmount        `json:"amount"`
	Direction            Direction              `json:"direction"`
	Reversal             bool                   `json:"reversal"`
	TimestampMillis      int64                  `json:"timestamp"`
	Sender               string                 `json:"sender,omitempty"`
	UPIID                string                 `json:"upi_id,omitempty"`
	Reference            string                 `json:"reference,omitempty"`
	ReferenceKind        string                 `json:"reference_kind,omitempty"`
	BankCode             string                 `json:"bank_code,omitempty"`
	Merchant             string                 `json:"merchant,omitempty"`
	MerchantSource       string                 `json:"merchant_source,omitempty"`
	Counterparty         CounterpartyExtraction `json:"counterparty"`
	Nature               NatureResolution       `json:"nature"`
	Type                 TransactionType        `json:"type"`
	Category             Category               `json:"category"`
	Snippet              string                 `json:"snippet"`
	SnippetTruncated     bool                   `json:"snippet_truncated"`
	RequiresConfirmation bool                   `json:"requires_confirmation"`
}

// Outcome is the result of classifying one message: either a result or a
// skip reason. Skipped pending messages still carry their result for audit.
type Outcome struct {
	Result  ClassificationResult
	Skipped SkipReason
}

// IsSkipped reports whether the message must not be persisted.
func (o Outcome) IsSkipped() bool {
	return o.Skipped != SkipNone
}

// Transaction is the persisted record of a classified message.
type Transaction struct {
	ID                   string          `csv:"id" json:"id"`
	Hash                 ContentHash     `csv:"hash" json:"hash"`
	TimestampMillis      int64           `csv:"timestamp" json:"timestamp"`
	AmountMinor          int64           `csv:"amount_minor" json:"amount_minor"`
	Direction            Direction       `csv:"direction" json:"direction"`
	CategoryID           int64           `csv:"category_id" json:"category_id"`
	CategoryName         string          `csv:"category" json:"category"`
	Merchant             string          `csv:"merchant" json:"merchant"`
	Counterparty         string          `csv:"counterparty" json:"counterparty"`
	UPIID                string          `csv:"upi_id" json:"upi_id"`
	Reference            string          `csv:"reference" json:"reference"`
	Sender               string          `csv:"sender" json:"sender"`
	Snippet              string          `csv:"snippet" json:"snippet"`
	SnippetTruncated     bool            `csv:"snippet_truncated" json:"snippet_truncated"`
	Type                 TransactionType `csv:"type" json:"type"`
	Nature               Nature          `csv:"nature" json:"nature"`
	MatchedRule          RuleTag         `csv:"rule" json:"rule"`
	Confidence           float64         `csv:"confidence" json:"confidence"`
	RequiresConfirmation bool            `csv:"requires_confirmation" json:"requires_confirmation"`
	Reversal             bool            `csv:"reversal" json:"reversal"`
	LinkedID             string          `csv:"linked_id" json:"linked_id,omitempty"`
	RuleTrace            string          `csv:"rule_trace" json:"rule_trace,omitempty"`
	Violations           string          `csv:"violations" json:"violations,omitempty"`
}

// Time returns the transaction timestamp in UTC.
func (t Transaction) Time() time.Time {
	return time.UnixMilli(t.TimestampMillis).UTC()
}

// ToTransaction converts a result into a record with the given id.
func (r ClassificationResult) ToTransaction(id string) Transaction {
	return Transaction{
		ID:                   id,
		Hash:                 r.Hash,
		TimestampMillis:      r.TimestampMillis,
		AmountMinor:          r.Amount.MinorUnits,
		Direction:            r.Direction,
		CategoryID:           r.Category.ID,
		CategoryName:         r.Category.Name,
		Merchant:             r.Merchant,
		Counterparty:         r.Counterparty.Name,
		UPIID:                r.UPIID,
		Reference:            r.Reference,
		Sender:               r.Sender,
		Snippet:              r.Snippet,
		SnippetTruncated:     r.SnippetTruncated,
		Type:                 r.Type,
		Nature:               r.Nature.Nature,
		MatchedRule:          r.Nature.MatchedRule,
		Confidence:           r.Nature.Confidence,
		RequiresConfirmation: r.RequiresConfirmation,
		Reversal:             r.Reversal,
		RuleTrace:            r.Nature.TraceString(),
		Violations:           strings.Join(r.Nature.InvariantViolations, ";"),
	}
}

// TransactionUpdate carries the fields that changed for one stored record.
// Nil fields are left untouched.
type TransactionUpdate struct {
	ID                   string
	Category             *Category
	Merchant             *string
	Nature               *Nature
	Type                 *TransactionType
	MatchedRule          *RuleTag
	Confidence           *float64
	RequiresConfirmation *bool
}

// IsEmpty reports whether the update changes nothing.
func (u TransactionUpdate) IsEmpty() bool {
	return u.Category == nil && u.Merchant == nil && u.Nature == nil && u.Type == nil &&
		u.MatchedRule == nil && u.Confidence == nil && u.RequiresConfirmation == nil
}

// Apply writes the non-nil fields of u onto t.
func (u TransactionUpdate) Apply(t *Transaction) {
	if u.Category != nil {
		t.CategoryID = u.Category.ID
		t.CategoryName = u.Category.Name
	}
	if u.Merchant != nil {
		t.Merchant = *u.Merchant
	}
	if u.Nature != nil {
		t.Nature = *u.Nature
	}
	if u.Type != nil {
		t.Type = *u.Type
	}
	if u.MatchedRule != nil {
		t.MatchedRule = *u.MatchedRule
	}
	if u.Confidence != nil {
		t.Confidence = *u.Confidence
	}
	if u.RequiresConfirmation != nil {
		t.RequiresConfirmation = *u.RequiresConfirmation
	}
}
