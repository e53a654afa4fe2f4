package patterns

import "saikumar/sms-ledger/internal/models"

// Future or conditional language: the money has not moved yet.
var pendingKeywords = []string{
	"will be debited", "will be charged", "has requested money", "requested money",
	"due by", "due on", "due date", "standing instruction", "recurring charge",
	"subscription", "future payment", "collect request", "payment request",
}

var cashbackKeywords = []string{
	"cashback", "cash back", "reward", "rewards", "bonus", "credit score bonus",
	"reward points", "redeemed",
}

// Benefits that look like a card credit but are never a bill payment.
var creditCardNegativeSignals = []string{
	"cashback", "cash back", "reward", "rewards", "bonus", "interest credited", "credit score",
}

var creditCardContextKeywords = []string{
	"credit card", "cc", "card ending", "card no", "cardmember", "card member",
}

var creditCardIssuers = []string{
	"sbi card", "onecard", "amex", "american express", "hsbc card", "slice",
}

var cardNetworks = []string{
	"visa", "mastercard", "rupay", "diners", "diners club",
}

var creditCardSpendVerbs = []string{
	"spent", "purchase", "purchased", "card transaction", "swipe", "swiped",
}

// Third-party bill-payment apps whose "<app> credited" line on a bank debit
// means a credit card bill was paid.
var creditCardBillApps = []string{
	"cred",
}

var selfTransferKeywords = []string{
	"self", "own account", "your own account", "transfer between your accounts",
	"transfer to self", "self transfer", "to self",
}

var salaryKeywords = []string{
	"salary", "payroll", "sal cr", "salary credited",
}

var neftKeywords = []string{"neft"}

var interestKeywords = []string{"interest", "int.pd", "int pd"}

var bonusKeywords = []string{"bonus"}

var refundKeywords = []string{
	"refund", "refunded", "reversal", "reversed", "credited back", "reimbursement",
}

var dividendKeywords = []string{"dividend"}

var investmentKeywords = []string{
	"zerodha", "groww", "upstox", "kuvera", "angel one", "mutual fund", "mutual funds",
	"sip", "demat", "nse", "bse", "indian clearing", "iccl", "nsdl", "cdsl", "folio",
}

var debitVerbs = []string{
	"debited", "spent", "paid", "sent", "transferred", "withdrawn", "atm",
	"purchased", "charged", "deducted", "auto debit",
}

var creditVerbs = []string{
	"credited", "received", "deposited", "loaded", "recharge",
}

var reversalKeywords = []string{
	"reversed", "refunded", "unsuccessful", "failed and reversed", "has been reversed",
	"reversal", "failed",
}

// Banks, gateways and wallet apps. A merchant made only of these carries no
// business information.
var placeholderTokens = []string{
	"cred",
	"bank", "sbi", "state bank", "hdfc", "hdfcbank", "hdfc bank", "icici", "icici bank",
	"axis", "axis bank", "kotak", "kotak mahindra", "pnb", "bank of baroda", "bob",
	"canara", "union bank", "yes bank", "idfc", "indusind", "federal bank",
	"razorpay", "payu", "billdesk", "ccavenue", "cashfree", "npci", "upi",
	"paytm", "paytm payments", "phonepe", "gpay", "google pay", "amazon pay",
	"mobikwik", "freecharge", "bhim",
}

// Words that never occur inside a person name captured from an SMS.
var stopPhrases = []string{
	"to be", "has been", "for", "is", "your", "you", "the", "on", "at", "from", "to",
	"by", "with", "via", "dear", "user", "customer", "avl", "bal", "balance", "ref",
	"txn", "transaction", "payment", "amount", "info", "call", "sms", "block", "not",
	"if", "successfully", "has", "was", "and", "of", "self", "own",
}

var monetaryTokens = []string{"inr", "rs", "rupees", "₹"}

var accountTokens = []string{"a/c", "ac", "acct", "account", "card", "no"}

// defaultMerchantCategories maps a merchant keyword to a category name.
// Every key is also a known brand.
var defaultMerchantCategories = map[string]string{
	"SWIGGY":     models.CategoryFoodOutside,
	"ZOMATO":     models.CategoryFoodOutside,
	"DOMINOS":    models.CategoryFoodOutside,
	"STARBUCKS":  models.CategoryFoodOutside,
	"BLINKIT":    "Groceries",
	"ZEPTO":      "Groceries",
	"BIGBASKET":  "Groceries",
	"DMART":      "Groceries",
	"UBER":       "Transport",
	"OLA":        "Transport",
	"RAPIDO":     "Transport",
	"IRCTC":      "Travel",
	"MAKEMYTRIP": "Travel",
	"AMAZON":     "Shopping",
	"FLIPKART":   "Shopping",
	"MYNTRA":     "Shopping",
	"JIO":        "Mobile + WiFi",
	"AIRTEL":     "Mobile + WiFi",
	"NETFLIX":    "Entertainment",
	"SPOTIFY":    "Entertainment",
	"HOTSTAR":    "Entertainment",
	"ZERODHA":    models.CategoryInvestment,
	"GROWW":      models.CategoryInvestment,
	"UPSTOX":     models.CategoryInvestment,
	"HPCL":       "Fuel",
	"BPCL":       "Fuel",
	"INDIAN OIL": "Fuel",
	"APOLLO":     "Healthcare",
	"PHARMEASY":  "Healthcare",
	"LIC":        "Insurance",
	"BESCOM":     "Utilities",
}
