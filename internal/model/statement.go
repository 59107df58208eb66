package model

import "time"

// StatementEntry is one line of an imported bank statement. Amount is signed:
// deposits are positive, withdrawals negative.
type StatementEntry struct {
	Date   time.Time
	ID     string
	Name   string
	Type   string
	Amount float64
}

// Deposit reports whether money came into the account.
func (e StatementEntry) Deposit() bool {
	return e.Amount > 0
}
