package models

// Direction tells whether money left or entered the user's account.
type Direction string

const (
	DirectionDebit   Direction = "DEBIT"
	DirectionCredit  Direction = "CREDIT"
	DirectionUnknown Direction = "UNKNOWN"
)

// IsDebit reports whether d is DEBIT.
func (d Direction) IsDebit() bool { return d == DirectionDebit }

// IsCredit reports whether d is CREDIT.
func (d Direction) IsCredit() bool { return d == DirectionCredit }

// IsKnown reports whether d is DEBIT or CREDIT.
func (d Direction) IsKnown() bool { return d == DirectionDebit || d == DirectionCredit }
