package report

import (
	"fmt"
	"strings"

	"saikumar/sms-ledger/internal/models"
)

// IssueKind classifies an audit finding.
type IssueKind string

const (
	IssueUnexpectedType        IssueKind = "UNEXPECTED_TYPE"
	IssueUnknownCategory       IssueKind = "UNKNOWN_CATEGORY"
	IssueMissingCounterparty   IssueKind = "MISSING_COUNTERPARTY"
	IssueAmbiguousCounterparty IssueKind = "AMBIGUOUS_COUNTERPARTY"
	IssueInvariantViolation    IssueKind = "INVARIANT_VIOLATION"
)

// maxListedIssues bounds the markdown listing.
const maxListedIssues = 100

// Issue is one audit finding.
type Issue struct {
	TransactionID string    `json:"transaction_id"`
	Kind          IssueKind `json:"kind"`
	Detail        string    `json:"detail"`
}

// Audit is the result of checking stored transactions.
type Audit struct {
	Scanned           int               `json:"scanned"`
	NeedsConfirmation int               `json:"needs_confirmation"`
	ByKind            map[IssueKind]int `json:"by_kind"`
	Issues            []Issue           `json:"issues"`
}

// AuditTransactions checks each record's type against the known types, its
// category against catalog and its counterparty for missing or fragment
// values. Self-transfers, card payments and income are not expected to name
// a counterparty.
func AuditTransactions(txns []models.Transaction, catalog []models.Category) *Audit {
	allowed := make(map[models.TransactionType]bool)
	for _, t := range models.AllTransactionTypes() {
		allowed[t] = true
	}

	a := &Audit{ByKind: make(map[IssueKind]int), Issues: []Issue{}}
	add := func(id string, kind IssueKind, detail string) {
		a.Issues = append(a.Issues, Issue{TransactionID: id, Kind: kind, Detail: detail})
		a.ByKind[kind]++
	}

	for _, t := range txns {
		a.Scanned++
		if t.RequiresConfirmation {
			a.NeedsConfirmation++
		}
		if !allowed[t.Type] {
			add(t.ID, IssueUnexpectedType, fmt.Sprintf("Unexpected type: %s", t.Type))
		}
		if _, ok := models.FindCategory(catalog, t.CategoryName); !ok {
			add(t.ID, IssueUnknownCategory, fmt.Sprintf("Unexpected category: %s", t.CategoryName))
		}

		party := t.Counterparty
		if party == "" {
			party = t.Merchant
		}
		if strings.TrimSpace(party) == "" && expectsCounterparty(t.Type) {
			add(t.ID, IssueMissingCounterparty, "Missing counterparty")
		}
		if strings.Contains(party, "...") || strings.Contains(party, "\n") {
			add(t.ID, IssueAmbiguousCounterparty, fmt.Sprintf("Ambiguous counterparty: %q", party))
		}
		if t.Violations != "" {
			add(t.ID, IssueInvariantViolation, t.Violations)
		}
	}
	return a
}

func expectsCounterparty(t models.TransactionType) bool {
	return t == models.TypeExpense || t == models.TypeInvestmentOutflow
}

// Markdown renders the audit summary and up to the first hundred issues.
func (a *Audit) Markdown() string {
	var b strings.Builder
	b.WriteString("# Transaction Audit\n\n")
	fmt.Fprintf(&b, "- Transactions scanned: %d\n", a.Scanned)
	fmt.Fprintf(&b, "- Awaiting confirmation: %d\n", a.NeedsConfirmation)
	fmt.Fprintf(&b, "- Issues found: %d\n", len(a.Issues))
	for _, kind := range []IssueKind{
		IssueUnexpectedType, IssueUnknownCategory, IssueMissingCounterparty,
		IssueAmbiguousCounterparty, IssueInvariantViolation,
	} {
		if n := a.ByKind[kind]; n > 0 {
			fmt.Fprintf(&b, "  - %s: %d\n", kind, n)
		}
	}
	if len(a.Issues) == 0 {
		return b.String()
	}

	b.WriteString("\n| Transaction | Issue | Detail |\n|---|---|---|\n")
	for i, issue := range a.Issues {
		if i == maxListedIssues {
			fmt.Fprintf(&b, "\n... and %d more issues\n", len(a.Issues)-maxListedIssues)
			break
		}
		fmt.Fprintf(&b, "| %s | %s | %s |\n", issue.TransactionID, issue.Kind, cell(issue.Detail))
	}
	return b.String()
}
