// Package nature assigns exactly one transaction nature to an SMS using a
// fixed, ordered decision tree and enforces the accounting invariants on the
// result.
package nature

import (
	"fmt"

	"saikumar/sms-ledger/internal/models"
	"saikumar/sms-ledger/internal/patterns"
)

// Invariant violation codes recorded on a corrected resolution.
const (
	ViolationDebitAsIncome       = "DEBIT_RESOLVED_AS_INCOME"
	ViolationCardPaymentMisfiled = "CARD_PAYMENT_RESOLVED_AS_INCOME_OR_EXPENSE"
)

// Input is what the decision tree sees of a message.
type Input struct {
	Text     string
	IsDebit  bool
	IsCredit bool
}

type verdict struct {
	nature     models.Nature
	tag        models.RuleTag
	confidence float64
	reasoning  string
}

// rule is one level of the tree. evaluate returns matched=false and a note
// when the level does not apply.
type rule struct {
	level    int
	tag      models.RuleTag
	evaluate func(in Input) (v verdict, matched bool, note string)
}

// Resolver evaluates the decision tree. It is safe for concurrent use.
type Resolver struct {
	store *patterns.Store
	rules []rule
}

// New builds the decision tree over store.
func New(store *patterns.Store) *Resolver {
	r := &Resolver{store: store}
	r.rules = []rule{
		{1, models.RulePending, r.pending},
		{2, models.RuleCashback, r.cashback},
		{3, models.RuleCreditCardPayment, r.creditCardPayment},
		{4, models.RuleCreditCardSpend, r.creditCardSpend},
		{5, models.RuleSelfTransfer, r.selfTransfer},
		{6, models.RuleIncomeUnidentified, r.income},
		{7, models.RuleExpense, r.expense},
		{8, models.RuleFallbackUnclassified, r.unclassified},
	}
	return r
}

// Resolve walks the levels in order and stops at the first match. Every
// level attempted is recorded in the trace. Invariants are enforced before
// returning.
func (r *Resolver) Resolve(text string, isDebit, isCredit bool) models.NatureResolution {
	in := Input{Text: text, IsDebit: isDebit, IsCredit: isCredit}
	var res models.NatureResolution

	for _, rl := range r.rules {
		v, matched, note := rl.evaluate(in)
		tag := rl.tag
		if matched {
			tag = v.tag
		}
		res.RuleTrace = append(res.RuleTrace, models.RuleTraceEntry{
			Level:   rl.level,
			Rule:    tag,
			Matched: matched,
			Note:    note,
		})
		if matched {
			res.Nature = v.nature
			res.MatchedRule = v.tag
			res.Confidence = v.confidence
			res.Reasoning = v.reasoning
			break
		}
	}

	r.enforceInvariants(in, &res)
	return res
}

func (r *Resolver) enforceInvariants(in Input, res *models.NatureResolution) {
	if in.IsDebit && res.Nature == models.NatureIncome {
		res.InvariantViolations = append(res.InvariantViolations, ViolationDebitAsIncome)
		res.Reasoning = fmt.Sprintf("%s; corrected to EXPENSE because a debit cannot be income", res.Reasoning)
		res.Nature = models.NatureExpense
		res.Confidence = models.ConfidenceInvariantCorrect
	}
	if (res.Nature == models.NatureIncome || res.Nature == models.NatureExpense) && r.store.IsCreditCardPayment(in.Text) {
		res.InvariantViolations = append(res.InvariantViolations, ViolationCardPaymentMisfiled)
		res.Reasoning = fmt.Sprintf("%s; corrected to CREDIT_CARD_PAYMENT because of explicit receipt wording", res.Reasoning)
		res.Nature = models.NatureCreditCardPayment
		res.MatchedRule = models.RuleCreditCardPayment
		res.Confidence = models.ConfidenceInvariantCorrect
	}
}

func (r *Resolver) pending(in Input) (verdict, bool, string) {
	kw, ok := r.store.IsPending(in.Text)
	if !ok {
		return verdict{}, false, ""
	}
	return verdict{
		nature:     models.NaturePending,
		tag:        models.RulePending,
		confidence: models.ConfidenceCertain,
		reasoning:  fmt.Sprintf("future or conditional wording %q", kw),
	}, true, kw
}

func (r *Resolver) cashback(in Input) (verdict, bool, string) {
	kw, ok := r.store.IsCashback(in.Text)
	if !ok {
		return verdict{}, false, ""
	}
	return verdict{
		nature:     models.NatureIncome,
		tag:        models.RuleCashback,
		confidence: models.ConfidenceCashback,
		reasoning:  fmt.Sprintf("cashback or reward keyword %q", kw),
	}, true, kw
}

func (r *Resolver) creditCardPayment(in Input) (verdict, bool, string) {
	if r.store.HasNegativeSignals(in.Text) {
		return verdict{}, false, "blocked by benefit keyword"
	}
	v := verdict{
		nature:     models.NatureCreditCardPayment,
		tag:        models.RuleCreditCardPayment,
		confidence: models.ConfidenceCreditCardPay,
	}
	if r.store.IsCreditCardPayment(in.Text) {
		v.reasoning = "explicit credit card payment receipt"
		return v, true, "receipt"
	}
	if in.IsDebit && r.store.IsCreditCardBillDebit(in.Text) {
		v.reasoning = "bank debit funding a credit card bill"
		return v, true, "bill debit"
	}
	return verdict{}, false, ""
}

func (r *Resolver) creditCardSpend(in Input) (verdict, bool, string) {
	if !in.IsDebit {
		return verdict{}, false, "not a debit"
	}
	if !r.store.IsCreditCardSpend(in.Text) {
		return verdict{}, false, ""
	}
	return verdict{
		nature:     models.NatureCreditCardSpend,
		tag:        models.RuleCreditCardSpend,
		confidence: models.ConfidenceCreditCardSpend,
		reasoning:  "credit card context with a spend verb",
	}, true, ""
}

func (r *Resolver) selfTransfer(in Input) (verdict, bool, string) {
	kw, ok := r.store.IsSelfTransfer(in.Text)
	if !ok {
		return verdict{}, false, ""
	}
	return verdict{
		nature:     models.NatureSelfTransfer,
		tag:        models.RuleSelfTransfer,
		confidence: models.ConfidenceSelfTransfer,
		reasoning:  fmt.Sprintf("explicit self-transfer wording %q", kw),
	}, true, kw
}

func (r *Resolver) income(in Input) (verdict, bool, string) {
	if !in.IsCredit || in.IsDebit {
		return verdict{}, false, "not a pure credit"
	}
	if tag, kw, ok := r.store.MatchIncomeRule(in.Text); ok {
		return verdict{
			nature:     models.NatureIncome,
			tag:        tag,
			confidence: models.ConfidenceExplicitIncome,
			reasoning:  fmt.Sprintf("income keyword %q", kw),
		}, true, kw
	}
	return verdict{
		nature:     models.NatureIncome,
		tag:        models.RuleIncomeUnidentified,
		confidence: models.ConfidenceLow,
		reasoning:  "credit without an identified income source",
	}, true, "unidentified"
}

func (r *Resolver) expense(in Input) (verdict, bool, string) {
	if !in.IsDebit {
		return verdict{}, false, "not a debit"
	}
	return verdict{
		nature:     models.NatureExpense,
		tag:        models.RuleExpense,
		confidence: models.ConfidenceLow,
		reasoning:  "debit with no specific rule",
	}, true, ""
}

func (r *Resolver) unclassified(Input) (verdict, bool, string) {
	return verdict{
		nature:     models.NatureExpense,
		tag:        models.RuleFallbackUnclassified,
		confidence: models.ConfidenceUnclassifiable,
		reasoning:  "direction unknown; defaulted to expense",
	}, true, ""
}

// TransactionType maps a resolution onto the persisted transaction type.
// Cashback income stays CASHBACK and an expense naming an exchange,
// brokerage or fund becomes INVESTMENT_OUTFLOW unless a non-investment
// merchant is named.
func (r *Resolver) TransactionType(res models.NatureResolution, text string) models.TransactionType {
	switch res.Nature {
	case models.NaturePending:
		return models.TypePending
	case models.NatureCreditCardPayment:
		return models.TypeLiabilityPayment
	case models.NatureCreditCardSpend:
		return models.TypeExpense
	case models.NatureSelfTransfer:
		return models.TypeTransfer
	case models.NatureIncome:
		if res.MatchedRule == models.RuleCashback {
			return models.TypeCashback
		}
		return models.TypeIncome
	default:
		if cat, ok := r.store.GetCategoryForMerchant(text); ok && cat != models.CategoryInvestment {
			return models.TypeExpense
		}
		if r.store.IsInvestment(text) {
			return models.TypeInvestmentOutflow
		}
		return models.TypeExpense
	}
}
