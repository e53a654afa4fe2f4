package nature

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"saikumar/sms-ledger/internal/models"
	"saikumar/sms-ledger/internal/patterns"
)

func newResolver() *Resolver {
	return New(patterns.New())
}

func TestResolve_Table(t *testing.T) {
	r := newResolver()

	tests := []struct {
		name       string
		text       string
		debit      bool
		credit     bool
		nature     models.Nature
		rule       models.RuleTag
		confidence float64
		txType     models.TransactionType
	}{
		{
			name:       "brand upi debit is a plain expense",
			text:       "Rs.500 debited from A/c XX1234 to swiggy@paytm for SWIGGY order. UPI:123456789012",
			debit:      true,
			nature:     models.NatureExpense,
			rule:       models.RuleExpense,
			confidence: models.ConfidenceLow,
			txType:     models.TypeExpense,
		},
		{
			name:       "transfer to a named person is not a self transfer",
			text:       "Dear SBI User, your A/c X2916-debited by Rs200.0 on 24May23 transfer to RAJEEV KUMAR Ref No 314442970240",
			debit:      true,
			nature:     models.NatureExpense,
			rule:       models.RuleExpense,
			confidence: models.ConfidenceLow,
			txType:     models.TypeExpense,
		},
		{
			name:       "card payment receipt",
			text:       "DEAR HDFCBANK CARDMEMBER, PAYMENT OF Rs. 1820.00 RECEIVED TOWARDS YOUR CREDIT CARD ENDING WITH 1404.",
			credit:     true,
			nature:     models.NatureCreditCardPayment,
			rule:       models.RuleCreditCardPayment,
			confidence: models.ConfidenceCreditCardPay,
			txType:     models.TypeLiabilityPayment,
		},
		{
			name:       "bank debit to bill app",
			text:       "ICICI Bank Acct XX294 debited for Rs 22678.00; CRED Club credited",
			debit:      true,
			nature:     models.NatureCreditCardPayment,
			rule:       models.RuleCreditCardPayment,
			confidence: models.ConfidenceCreditCardPay,
			txType:     models.TypeLiabilityPayment,
		},
		{
			name:       "pending debit",
			text:       "Rs 499 will be debited on 05-Jun for NETFLIX subscription",
			debit:      true,
			nature:     models.NaturePending,
			rule:       models.RulePending,
			confidence: models.ConfidenceCertain,
			txType:     models.TypePending,
		},
		{
			name:       "cashback beats card payment wording",
			text:       "Cashback of Rs 50 credited to your credit card ending 1234",
			credit:     true,
			nature:     models.NatureIncome,
			rule:       models.RuleCashback,
			confidence: models.ConfidenceCashback,
			txType:     models.TypeCashback,
		},
		{
			name:       "credit card spend",
			text:       "Rs 499 spent on your HDFC Bank Credit Card XX1404 at AMAZON",
			debit:      true,
			nature:     models.NatureCreditCardSpend,
			rule:       models.RuleCreditCardSpend,
			confidence: models.ConfidenceCreditCardSpend,
			txType:     models.TypeExpense,
		},
		{
			name:       "explicit self transfer",
			text:       "Rs 1000 transferred to self a/c XX99",
			debit:      true,
			nature:     models.NatureSelfTransfer,
			rule:       models.RuleSelfTransfer,
			confidence: models.ConfidenceSelfTransfer,
			txType:     models.TypeTransfer,
		},
		{
			name:       "salary credit",
			text:       "Rs 85,000 credited to A/c XX12 towards SALARY for MAY",
			credit:     true,
			nature:     models.NatureIncome,
			rule:       models.RuleSalary,
			confidence: models.ConfidenceExplicitIncome,
			txType:     models.TypeIncome,
		},
		{
			name:       "unidentified credit",
			text:       "Rs 200 credited to A/c XX12 by UPI",
			credit:     true,
			nature:     models.NatureIncome,
			rule:       models.RuleIncomeUnidentified,
			confidence: models.ConfidenceLow,
			txType:     models.TypeIncome,
		},
		{
			name:       "investment debit",
			text:       "Rs 5000 debited for SIP in Mutual Fund",
			debit:      true,
			nature:     models.NatureExpense,
			rule:       models.RuleExpense,
			confidence: models.ConfidenceLow,
			txType:     models.TypeInvestmentOutflow,
		},
		{
			name:       "unknown direction",
			text:       "Rs 200 something happened",
			nature:     models.NatureExpense,
			rule:       models.RuleFallbackUnclassified,
			confidence: models.ConfidenceUnclassifiable,
			txType:     models.TypeExpense,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := r.Resolve(tt.text, tt.debit, tt.credit)
			assert.Equal(t, tt.nature, res.Nature)
			assert.Equal(t, tt.rule, res.MatchedRule)
			assert.InDelta(t, tt.confidence, res.Confidence, 1e-9)
			assert.Empty(t, res.InvariantViolations)
			assert.NotEmpty(t, res.Reasoning)
			assert.Equal(t, tt.txType, r.TransactionType(res, tt.text))
		})
	}
}

func TestResolve_TraceRecordsEveryAttemptedLevel(t *testing.T) {
	r := newResolver()

	res := r.Resolve("DEAR HDFCBANK CARDMEMBER, PAYMENT OF Rs. 1820.00 RECEIVED TOWARDS YOUR CREDIT CARD ENDING WITH 1404.", false, true)
	assert.Equal(t, "PENDING:-,CASHBACK:-,CREDIT_CARD_PAYMENT:+", res.TraceString())

	res = r.Resolve("Rs 200 credited to A/c XX12 by UPI", false, true)
	require.Len(t, res.RuleTrace, 6)
	for i, e := range res.RuleTrace {
		assert.Equal(t, i+1, e.Level)
	}
	assert.True(t, res.RuleTrace[5].Matched)
	assert.Equal(t, models.RuleIncomeUnidentified, res.RuleTrace[5].Rule)

	res = r.Resolve("Rs 200 something happened", false, false)
	require.Len(t, res.RuleTrace, 8)
	assert.Equal(t, "not a pure credit", res.RuleTrace[5].Note)
	assert.Equal(t, "not a debit", res.RuleTrace[6].Note)
}

func TestResolve_FallbacksRequireConfirmation(t *testing.T) {
	r := newResolver()

	assert.True(t, r.Resolve("Rs 200 credited to A/c XX12 by UPI", false, true).RequiresUserConfirmation())
	assert.True(t, r.Resolve("Rs 90 debited from A/c XX12", true, false).RequiresUserConfirmation())
	assert.True(t, r.Resolve("Rs 90 moved", false, false).RequiresUserConfirmation())
	assert.False(t, r.Resolve("Rs 85,000 credited towards SALARY", false, true).RequiresUserConfirmation())
}

func TestResolve_DebitNeverIncome(t *testing.T) {
	r := newResolver()

	templates := []string{
		"Rs %d debited from A/c XX12 for %s",
		"INR %d.00 paid via UPI to merchant. %s",
		"Your A/c XX99 is debited by Rs %d; %s credited",
		"Rs.%d withdrawn at ATM. %s",
		"Rs %d sent to RAMESH KUMAR. %s",
	}
	keywords := []string{
		"salary", "NEFT", "interest", "bonus", "refund", "dividend", "cashback",
		"reward points", "payroll", "credited back", "",
	}
	for _, tmpl := range templates {
		for i, kw := range keywords {
			text := fmt.Sprintf(tmpl, 100+i, kw)
			t.Run(text, func(t *testing.T) {
				res := r.Resolve(text, true, false)
				assert.NotEqual(t, models.NatureIncome, res.Nature)
				if res.MatchedRule == models.RuleCashback {
					assert.Contains(t, res.InvariantViolations, ViolationDebitAsIncome)
					assert.True(t, res.RequiresUserConfirmation())
				}
			})
		}
	}
}

func TestResolve_ReceiptIsAlwaysCardPayment(t *testing.T) {
	r := newResolver()

	receipts := []string{
		"DEAR HDFCBANK CARDMEMBER, PAYMENT OF Rs. 1820.00 RECEIVED TOWARDS YOUR CREDIT CARD ENDING WITH 1404.",
		"Rs 5000 credited to your card ending 4321. Thank you",
		"Payment of INR 2,000 has been received on your Credit Card XX8899",
		"Thank you for the payment of Rs 3,400 towards your ICICI Bank Credit Card XX1111",
		"Dear Cardmember, we have received your payment of Rs 900. It has been credited.",
	}
	for _, text := range receipts {
		t.Run(text, func(t *testing.T) {
			for _, dir := range []struct{ debit, credit bool }{{false, true}, {true, false}, {false, false}} {
				res := r.Resolve(text, dir.debit, dir.credit)
				assert.Equal(t, models.NatureCreditCardPayment, res.Nature)
			}
		})
	}
}

func TestEnforceInvariants(t *testing.T) {
	r := newResolver()

	res := models.NatureResolution{Nature: models.NatureIncome, MatchedRule: models.RuleSalary, Confidence: 0.95, Reasoning: "x"}
	r.enforceInvariants(Input{Text: "Rs 10 debited", IsDebit: true}, &res)
	assert.Equal(t, models.NatureExpense, res.Nature)
	assert.Equal(t, []string{ViolationDebitAsIncome}, res.InvariantViolations)
	assert.InDelta(t, models.ConfidenceInvariantCorrect, res.Confidence, 1e-9)

	receipt := "Payment of Rs 100 received towards your credit card"
	res = models.NatureResolution{Nature: models.NatureExpense, MatchedRule: models.RuleExpense, Reasoning: "x"}
	r.enforceInvariants(Input{Text: receipt, IsDebit: true}, &res)
	assert.Equal(t, models.NatureCreditCardPayment, res.Nature)
	assert.Equal(t, models.RuleCreditCardPayment, res.MatchedRule)
	assert.Equal(t, []string{ViolationCardPaymentMisfiled}, res.InvariantViolations)
	assert.True(t, res.RequiresUserConfirmation())

	res = models.NatureResolution{Nature: models.NatureSelfTransfer, MatchedRule: models.RuleSelfTransfer}
	r.enforceInvariants(Input{Text: "to self", IsDebit: true}, &res)
	assert.Empty(t, res.InvariantViolations)
}

func TestTransactionType_BrandBeatsInvestmentKeyword(t *testing.T) {
	r := newResolver()
	text := "Rs 300 paid to SWIGGY via NSE gateway"
	res := models.NatureResolution{Nature: models.NatureExpense, MatchedRule: models.RuleExpense}
	assert.Equal(t, models.TypeExpense, r.TransactionType(res, text))

	text = "Rs 300 paid to ZERODHA BROKING"
	assert.Equal(t, models.TypeInvestmentOutflow, r.TransactionType(res, text))
}
