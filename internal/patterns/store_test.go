package patterns

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"saikumar/sms-ledger/internal/models"
)

const (
	scenarioA = "Rs.500 debited from A/c XX1234 to swiggy@paytm for SWIGGY order. UPI:123456789012"
	scenarioB = "Dear SBI User, your A/c X2916-debited by Rs200.0 on 24May23 transfer to RAJEEV KUMAR Ref No 314442970240"
	scenarioC = "DEAR HDFCBANK CARDMEMBER, PAYMENT OF Rs. 1820.00 RECEIVED TOWARDS YOUR CREDIT CARD ENDING WITH 1404."
	scenarioD = "ICICI Bank Acct XX294 debited for Rs 22678.00; CRED Club credited"
)

func TestStore_CreditCardPayment(t *testing.T) {
	s := New()

	tests := []struct {
		name string
		text string
		want bool
	}{
		{"issuer receipt", scenarioC, true},
		{"credited to card ending", "Rs 5000 credited to your card ending 4321. Thank you", true},
		{"payment received generic", "Payment of INR 2,000 has been received on your Credit Card XX8899", true},
		{"cashback blocks", "Cashback of Rs 50 credited to your card ending 4321", false},
		{"credit score blocks", "Payment received. Check your credit score on your credit card app", false},
		{"plain upi debit", scenarioA, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.IsCreditCardPayment(tt.text))
		})
	}
}

func TestStore_CreditCardBillDebit(t *testing.T) {
	s := New()
	assert.True(t, s.IsCreditCardBillDebit(scenarioD))
	assert.True(t, s.IsCreditCardBillDebit("Rs 900 debited from A/c XX11 towards your Credit Card bill"))
	assert.False(t, s.IsCreditCardBillDebit("Rs 900 debited; CRED Club credited as cashback"))
	assert.False(t, s.IsCreditCardBillDebit(scenarioB))
}

func TestStore_CreditCardSpend(t *testing.T) {
	s := New()

	assert.True(t, s.IsCreditCardSpend("Rs 499 spent on your HDFC Bank Credit Card XX1404 at AMAZON"))
	assert.True(t, s.IsCreditCardSpend("INR 1,250.00 spent on card ending 4321 at DMART"))
	assert.True(t, s.IsCreditCardSpend("Purchase of Rs 300 on your VISA card"))
	assert.False(t, s.IsCreditCardSpend("Rs 499 spent using your Debit Card XX1404 at AMAZON"))
	assert.False(t, s.IsCreditCardSpend("Rs 499 debited from credit card XX1404"), "no spend verb")
	assert.False(t, s.IsCreditCardSpend(scenarioA))
}

func TestStore_SelfTransfer(t *testing.T) {
	s := New()

	kw, ok := s.IsSelfTransfer("Rs 1000 transferred to self a/c XX99")
	assert.True(t, ok)
	assert.Equal(t, "TO SELF", kw)

	_, ok = s.IsSelfTransfer("Moved Rs 10 to own A/c XX12")
	assert.True(t, ok)

	_, ok = s.IsSelfTransfer(scenarioB)
	assert.False(t, ok, "a named third party is not a self transfer")

	_, ok = s.IsSelfTransfer("Buy a selfie stick at Rs 99")
	assert.False(t, ok)
}

func TestStore_IncomeRules(t *testing.T) {
	s := New()

	tests := []struct {
		name string
		text string
		want models.RuleTag
		ok   bool
	}{
		{"salary", "Rs 85,000 credited to A/c XX12 towards SALARY for MAY", models.RuleSalary, true},
		{"salary wins over neft", "NEFT credit of Rs 85000 salary from ACME", models.RuleSalary, true},
		{"neft", "Rs 5000 credited via NEFT from RAMESH", models.RuleNEFT, true},
		{"interest", "Interest of Rs 120 credited to your savings account", models.RuleInterest, true},
		{"refund", "Refund of Rs 300 credited by AMAZON", models.RuleRefund, true},
		{"dividend", "Dividend of Rs 45 credited for INFY", models.RuleDividend, true},
		{"none", "Rs 200 credited to A/c XX12 by UPI", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tag, _, ok := s.MatchIncomeRule(tt.text)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, tag)
		})
	}
}

func TestStore_SalaryPayersOverlay(t *testing.T) {
	base := New()
	text := "Rs 90000 credited by ACME TECHNOLOGIES PVT LTD"
	assert.False(t, base.IsSalaryCredit(text))

	withPayers := base.WithOverlay(Overlay{SalaryPayers: []string{"acme technologies"}})
	assert.True(t, withPayers.IsSalaryCredit(text))

	tag, kw, ok := withPayers.MatchIncomeRule(text)
	require.True(t, ok)
	assert.Equal(t, models.RuleSalary, tag)
	assert.Equal(t, "ACME TECHNOLOGIES", kw)

	assert.False(t, base.IsSalaryCredit(text), "overlay must not mutate the base snapshot")
}

func TestStore_MerchantLookup(t *testing.T) {
	s := New()

	kw, ok := s.ExtractMerchantKeyword(scenarioA)
	require.True(t, ok)
	assert.Equal(t, "SWIGGY", kw)

	cat, ok := s.GetCategoryForMerchant(scenarioA)
	require.True(t, ok)
	assert.Equal(t, models.CategoryFoodOutside, cat)

	_, ok = s.GetCategoryForMerchant(scenarioB)
	assert.False(t, ok)

	cat, ok = s.GetCategoryForMerchant("Rs 40 paid at INDIAN OIL petrol pump")
	require.True(t, ok)
	assert.Equal(t, "Fuel", cat)
}

func TestStore_OverlayCheckedFirst(t *testing.T) {
	s := New().WithOverlay(Overlay{MerchantPatterns: map[string]string{
		"swiggy instamart": "Groceries",
		"rajeev":           "Rent",
		"":                 "Ignored",
	}})

	cat, ok := s.GetCategoryForMerchant("Rs 300 paid to SWIGGY INSTAMART")
	require.True(t, ok)
	assert.Equal(t, "Groceries", cat)

	cat, ok = s.GetCategoryForMerchant("Rs 300 paid to SWIGGY")
	require.True(t, ok)
	assert.Equal(t, models.CategoryFoodOutside, cat)

	cat, ok = s.GetCategoryForMerchant(scenarioB)
	require.True(t, ok)
	assert.Equal(t, "Rent", cat)

	o := s.Overlay()
	assert.Len(t, o.MerchantPatterns, 2)
	assert.Equal(t, "Rent", o.MerchantPatterns["RAJEEV"])
}

func TestStore_DefaultMerchantCategoriesIsCopy(t *testing.T) {
	s := New()
	m := s.DefaultMerchantCategories()
	m["SWIGGY"] = "Changed"

	cat, _ := s.GetCategoryForMerchant("SWIGGY")
	assert.Equal(t, models.CategoryFoodOutside, cat)
}

func TestStore_Placeholders(t *testing.T) {
	s := New()

	tests := []struct {
		name string
		want bool
	}{
		{"CRED", true},
		{"CRED Club", true},
		{"HDFC BANK", true},
		{"HDFC Bank Ltd", true},
		{"Razorpay", true},
		{"Google Pay", true},
		{"RAJEEV KUMAR", false},
		{"SWIGGY", false},
		{"", false},
		{"Razorpay Swiggy", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.IsPlaceholder(tt.name))
		})
	}
}

func TestStore_FindIntermediary(t *testing.T) {
	s := New()

	kw, ok := s.FindIntermediary(scenarioD)
	require.True(t, ok)
	assert.Equal(t, "CRED", kw)

	_, ok = s.FindIntermediary(scenarioB)
	assert.False(t, ok, "bank names are not intermediaries")
}

func TestStore_ValidationTokens(t *testing.T) {
	s := New()

	assert.True(t, s.HasStopPhrase("TO BE PAID"))
	assert.True(t, s.HasStopPhrase("Amount Has Been"))
	assert.False(t, s.HasStopPhrase("RAJEEV KUMAR"))
	assert.False(t, s.HasStopPhrase("FORTUNE FOODS"))

	assert.True(t, s.HasMonetaryToken("Rs Kumar"))
	assert.True(t, s.HasMonetaryToken("INR FIVE"))
	assert.True(t, s.HasMonetaryToken("₹ Kumar"))
	assert.False(t, s.HasMonetaryToken("Rajeev Kumar"))

	assert.True(t, s.HasAccountToken("A/C Holder"))
	assert.True(t, s.HasAccountToken("XX1234 Kumar"))
	assert.True(t, s.HasAccountToken("Kumar 314442"))
	assert.False(t, s.HasAccountToken("Rao 00"))
	assert.False(t, s.HasAccountToken("Rajeev Kumar"))
}

func TestStore_Brands(t *testing.T) {
	s := New()

	assert.True(t, s.IsKnownBrand("Swiggy"))
	assert.True(t, s.IsKnownBrand("ZOMATO LTD"))
	assert.False(t, s.IsKnownBrand("RAJEEV KUMAR"))

	b, ok := s.FindBrand(scenarioA)
	require.True(t, ok)
	assert.Equal(t, "SWIGGY", b)
}

func TestStore_InvestmentAndPending(t *testing.T) {
	s := New()

	assert.True(t, s.IsInvestment("Rs 5000 debited for SIP in Mutual Fund"))
	assert.True(t, s.IsInvestment("Paid to INDIAN CLEARING CORP"))
	assert.False(t, s.IsInvestment(scenarioA))

	kw, ok := s.IsPending("Rs 499 will be debited on 05-Jun for NETFLIX subscription")
	require.True(t, ok)
	assert.Equal(t, "WILL BE DEBITED", kw)

	_, ok = s.IsPending(scenarioA)
	assert.False(t, ok)
}

func TestStore_DirectionKeywords(t *testing.T) {
	s := New()

	kw, ok := s.DebitKeyword(scenarioB)
	require.True(t, ok)
	assert.Equal(t, "DEBITED", kw)

	kw, ok = s.CreditKeyword(scenarioC)
	require.True(t, ok)
	assert.Equal(t, "RECEIVED", kw)

	_, ok = s.DebitKeyword(scenarioC)
	assert.False(t, ok)

	assert.True(t, s.IsReversal("Txn of Rs 200 failed and reversed to your account"))
	assert.False(t, s.IsReversal(scenarioA))
}

func TestStore_HasNameCandidate(t *testing.T) {
	s := New()

	assert.True(t, s.HasNameCandidate(scenarioA))
	assert.True(t, s.HasNameCandidate(scenarioB))
	assert.False(t, s.HasNameCandidate(scenarioD))
}

func TestRegexes_Amount(t *testing.T) {
	re := New().Regexes().Amount

	tests := []struct {
		text string
		want string
	}{
		{scenarioA, "500"},
		{scenarioB, "200.0"},
		{scenarioC, "1820.00"},
		{scenarioD, "22678.00"},
		{"INR 1,25,000.50 credited", "1,25,000.50"},
		{"₹99 paid", "99"},
		{"Rs. .75 cashback", "75"},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			m := re.FindStringSubmatch(tt.text)
			require.Len(t, m, 2)
			assert.Equal(t, tt.want, m[1])
		})
	}

	assert.Nil(t, re.FindStringSubmatch("Your OTP is 123456"))
	assert.Nil(t, re.FindStringSubmatch("Stars 500 awarded"))
}
