package extractor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"saikumar/sms-ledger/internal/models"
	"saikumar/sms-ledger/internal/patterns"
)

func newExtractor(opts ...Option) *Extractor {
	return New(patterns.New(), opts...)
}

func TestExtract_Scenarios(t *testing.T) {
	e := newExtractor()

	tests := []struct {
		name      string
		body      string
		amount    int64
		direction models.Direction
		merchant  string
		upi       string
	}{
		{
			name:      "upi debit to brand",
			body:      "Rs.500 debited from A/c XX1234 to swiggy@paytm for SWIGGY order. UPI:123456789012",
			amount:    50000,
			direction: models.DirectionDebit,
			merchant:  "SWIGGY",
			upi:       "swiggy@paytm",
		},
		{
			name:      "transfer to person",
			body:      "Dear SBI User, your A/c X2916-debited by Rs200.0 on 24May23 transfer to RAJEEV KUMAR Ref No 314442970240",
			amount:    20000,
			direction: models.DirectionDebit,
		},
		{
			name:      "card payment receipt",
			body:      "DEAR HDFCBANK CARDMEMBER, PAYMENT OF Rs. 1820.00 RECEIVED TOWARDS YOUR CREDIT CARD ENDING WITH 1404.",
			amount:    182000,
			direction: models.DirectionCredit,
		},
		{
			name:      "bill app",
			body:      "ICICI Bank Acct XX294 debited for Rs 22678.00; CRED Club credited",
			amount:    2267800,
			direction: models.DirectionDebit,
			merchant:  "CRED",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x := e.Extract(tt.body)
			require.True(t, x.HasAmount)
			assert.NoError(t, x.AmountErr)
			assert.Equal(t, tt.amount, x.Amount.MinorUnits)
			assert.Equal(t, tt.direction, x.Direction)
			assert.Equal(t, tt.merchant, x.Merchant)
			assert.Equal(t, tt.upi, x.UPIID)
			assert.Equal(t, models.HashBody(tt.body), x.Hash)
		})
	}
}

func TestExtract_DebitWinsTies(t *testing.T) {
	x := newExtractor().Extract("Rs 100 debited from A/c XX1 and credited to A/c XX2")
	assert.Equal(t, models.DirectionDebit, x.Direction)
	assert.Equal(t, "DEBITED", x.DirectionKeyword)
	assert.True(t, x.IsDebit())
	assert.False(t, x.IsCredit())
}

func TestExtract_NotATransaction(t *testing.T) {
	e := newExtractor()

	x := e.Extract("Your OTP for login is 482913. Do not share it.")
	assert.False(t, x.HasAmount)
	assert.NoError(t, x.AmountErr)
	assert.Equal(t, models.DirectionUnknown, x.Direction)

	x = e.Extract("Get flat Rs 500 off on your next order!")
	assert.True(t, x.HasAmount)
	assert.Equal(t, models.DirectionUnknown, x.Direction)
}

func TestExtract_AmountLimit(t *testing.T) {
	e := newExtractor(WithMaxAmount(100_000))

	x := e.Extract("Rs 5000.00 debited from A/c XX1")
	assert.False(t, x.HasAmount)
	assert.ErrorIs(t, x.AmountErr, models.ErrAmountOverLimit)

	x = e.Extract("Rs 0.00 debited from A/c XX1")
	assert.False(t, x.HasAmount)
	assert.ErrorIs(t, x.AmountErr, models.ErrNonPositiveAmount)

	x = e.Extract("Rs 999.99 debited from A/c XX1")
	assert.True(t, x.HasAmount)
	assert.Equal(t, int64(99999), x.Amount.MinorUnits)
}

func TestExtract_FirstAmountWins(t *testing.T) {
	x := newExtractor().Extract("Rs 250 debited from A/c XX12. Avl Bal Rs 10,000.00")
	assert.Equal(t, int64(25000), x.Amount.MinorUnits)
}

func TestExtract_Reversal(t *testing.T) {
	x := newExtractor().Extract("Your txn of Rs 300 to AMAZON has failed and reversed. Amount credited back.")
	assert.True(t, x.Reversal)
	assert.Equal(t, models.DirectionCredit, x.Direction)
}

func TestExtract_Reference(t *testing.T) {
	e := newExtractor()

	tests := []struct {
		name     string
		body     string
		ref      string
		kind     string
		bankCode string
	}{
		{
			name:     "neft rail reference",
			body:     "Rs 45,000 credited to A/c XX12 by NEFT-HDFCN52023061512345 from ACME CORP",
			ref:      "HDFCN52023061512345",
			kind:     "NEFT",
			bankCode: "HDFC",
		},
		{
			name: "imps with ref no",
			body: "Rs 2000 sent via IMPS to A/c XX88. Ref No 315612345678",
			ref:  "315612345678",
			kind: "IMPS",
		},
		{
			name:     "rtgs with ifsc",
			body:     "RTGS of Rs 3,00,000 received from KOTAK MAHINDRA (KKBK0000958) UTR: KKBKR52023111100012",
			ref:      "KKBKR52023111100012",
			kind:     "RTGS",
			bankCode: "KKBK",
		},
		{
			name: "no rail no reference",
			body: "Dear SBI User, your A/c X2916-debited by Rs200.0 on 24May23 transfer to RAJEEV KUMAR Ref No 314442970240",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x := e.Extract(tt.body)
			assert.Equal(t, tt.ref, x.Reference)
			assert.Equal(t, tt.kind, x.ReferenceKind)
			assert.Equal(t, tt.bankCode, x.BankCode)
		})
	}
}

func TestExtract_ProvisionalMerchantPattern(t *testing.T) {
	x := newExtractor().Extract("Rs 120 spent on card XX1404 at CAFE COFFEE DAY on 12-06-24")
	assert.Equal(t, "CAFE COFFEE DAY", x.Merchant)
	assert.Equal(t, MerchantSourcePattern, x.MerchantSource)
}

func TestExtract_ProvisionalMerchantIntermediary(t *testing.T) {
	x := newExtractor().Extract("Rs 99 debited from A/c XX12 via Razorpay")
	assert.Equal(t, "RAZORPAY", x.Merchant)
	assert.Equal(t, MerchantSourceIntermediary, x.MerchantSource)
}

func TestSnippet(t *testing.T) {
	s, truncated := Snippet("  Rs 500\n\ndebited   ", 120)
	assert.Equal(t, "Rs 500 debited", s)
	assert.False(t, truncated)

	long := strings.Repeat("word ", 40)
	s, truncated = Snippet(long, 20)
	assert.True(t, truncated)
	assert.Equal(t, "word word word word...", s)

	s, truncated = Snippet("₹₹₹₹₹", 3)
	assert.True(t, truncated)
	assert.Equal(t, "₹₹₹...", s)
}

func TestExtract_SnippetLengthOption(t *testing.T) {
	x := newExtractor(WithSnippetLength(10)).Extract("Rs 500 debited from A/c XX1234")
	assert.True(t, x.SnippetTruncated)
	assert.Equal(t, "Rs 500 deb...", x.Snippet)

	x = newExtractor(WithSnippetLength(0)).Extract("Rs 500 debited")
	assert.False(t, x.SnippetTruncated)
}
