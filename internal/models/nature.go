package models

import "strings"

// Nature is the fundamental character of a transaction, resolved before any
// category is assigned. Exactly one nature applies to a message.
type Nature string

const (
	NaturePending           Nature = "PENDING"
	NatureCreditCardPayment Nature = "CREDIT_CARD_PAYMENT"
	NatureCreditCardSpend   Nature = "CREDIT_CARD_SPEND"
	NatureSelfTransfer      Nature = "SELF_TRANSFER"
	NatureIncome            Nature = "INCOME"
	NatureExpense           Nature = "EXPENSE"
)

// RuleTag names the decision-tree rule that produced a resolution.
type RuleTag string

const (
	RulePending              RuleTag = "PENDING"
	RuleCashback             RuleTag = "CASHBACK"
	RuleCreditCardPayment    RuleTag = "CREDIT_CARD_PAYMENT"
	RuleCreditCardSpend      RuleTag = "CREDIT_CARD_SPEND"
	RuleSelfTransfer         RuleTag = "SELF_TRANSFER"
	RuleSalary               RuleTag = "SALARY"
	RuleNEFT                 RuleTag = "NEFT"
	RuleInterest             RuleTag = "INTEREST"
	RuleBonus                RuleTag = "BONUS"
	RuleRefund               RuleTag = "REFUND"
	RuleDividend             RuleTag = "DIVIDEND"
	RuleIncomeUnidentified   RuleTag = "INCOME_UNIDENTIFIED"
	RuleExpense              RuleTag = "EXPENSE"
	RuleFallbackUnclassified RuleTag = "FALLBACK_UNCLASSIFIED"
)

// IsFallback reports whether the tag marks a low-confidence fallback that
// must be confirmed by the user.
func (r RuleTag) IsFallback() bool {
	switch r {
	case RuleIncomeUnidentified, RuleExpense, RuleFallbackUnclassified:
		return true
	}
	return false
}

// Confidence values attached by the decision tree.
const (
	ConfidenceCertain          = 1.0
	ConfidenceCreditCardPay    = 0.95
	ConfidenceExplicitIncome   = 0.95
	ConfidenceCashback         = 0.90
	ConfidenceCreditCardSpend  = 0.90
	ConfidenceSelfTransfer     = 0.85
	ConfidenceLow              = 0.40
	ConfidenceUnclassifiable   = 0.30
	ConfidenceInvariantCorrect = 0.30
)

// RuleTraceEntry records one decision-tree level that was evaluated.
type RuleTraceEntry struct {
	Level   int     `json:"level"`
	Rule    RuleTag `json:"rule"`
	Matched bool    `json:"matched"`
	Note    string  `json:"note,omitempty"`
}

// NatureResolution is the output of the decision tree for one message.
type NatureResolution struct {
	Nature              Nature           `json:"nature"`
	MatchedRule         RuleTag          `json:"matched_rule"`
	Confidence          float64          `json:"confidence"`
	Reasoning           string           `json:"reasoning"`
	RuleTrace           []RuleTraceEntry `json:"rule_trace"`
	InvariantViolations []string         `json:"invariant_violations,omitempty"`
}

// RequiresUserConfirmation reports whether the resolution is a fallback or
// was auto-corrected and must not be trusted silently.
func (r NatureResolution) RequiresUserConfirmation() bool {
	return r.MatchedRule.IsFallback() || len(r.InvariantViolations) > 0
}

// TraceString renders the rule trace as "PENDING:-,CASHBACK:+".
func (r NatureResolution) TraceString() string {
	parts := make([]string, 0, len(r.RuleTrace))
	for _, e := range r.RuleTrace {
		mark := "-"
		if e.Matched {
			mark = "+"
		}
		parts = append(parts, string(e.Rule)+":"+mark)
	}
	return strings.Join(parts, ",")
}
