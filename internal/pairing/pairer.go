// Package pairing detects transfers between the user's own accounts by
// pairing equal-amount debits and credits that land within a few minutes of
// each other.
package pairing

import (
	"sort"

	"saikumar/sms-ledger/internal/models"
)

// DefaultMaxMinutesApart is the default pairing window.
const DefaultMaxMinutesApart = 5

const millisPerMinute = 60 * 1000

// Pair links the outgoing and incoming side of a probable self-transfer.
type Pair struct {
	DebitID      string `json:"debit_id" csv:"debit_id"`
	CreditID     string `json:"credit_id" csv:"credit_id"`
	AmountMinor  int64  `json:"amount_minor" csv:"amount_minor"`
	MinutesApart int64  `json:"minutes_apart" csv:"minutes_apart"`
}

// FindPairs sorts a copy of txns by time and, for each unpaired transaction,
// scans forward while the gap stays within maxMinutesApart. Two transactions
// pair when their amounts are equal and exactly one of them is INCOME. The
// first candidate found wins and both are marked used. Transactions already
// linked to a partner never pair again. maxMinutesApart <= 0 uses the default
// window.
func FindPairs(txns []models.Transaction, maxMinutesApart int) []Pair {
	if maxMinutesApart <= 0 {
		maxMinutesApart = DefaultMaxMinutesApart
	}
	window := int64(maxMinutesApart) * millisPerMinute

	sorted := make([]models.Transaction, len(txns))
	copy(sorted, txns)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TimestampMillis < sorted[j].TimestampMillis
	})

	used := make([]bool, len(sorted))
	for i, t := range sorted {
		used[i] = t.LinkedID != ""
	}
	var pairs []Pair
	for i := range sorted {
		if used[i] {
			continue
		}
		a := sorted[i]
		for j := i + 1; j < len(sorted); j++ {
			b := sorted[j]
			gap := b.TimestampMillis - a.TimestampMillis
			if gap > window {
				break
			}
			if used[j] || a.AmountMinor != b.AmountMinor {
				continue
			}
			aIncome := a.Nature == models.NatureIncome
			bIncome := b.Nature == models.NatureIncome
			if aIncome == bIncome {
				continue
			}

			p := Pair{AmountMinor: a.AmountMinor, MinutesApart: gap / millisPerMinute}
			if aIncome {
				p.DebitID, p.CreditID = b.ID, a.ID
			} else {
				p.DebitID, p.CreditID = a.ID, b.ID
			}
			pairs = append(pairs, p)
			used[i], used[j] = true, true
			break
		}
	}
	return pairs
}
