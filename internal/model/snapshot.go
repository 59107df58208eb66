package model

// Totals are derived sums, always recomputed from the collections.
type Totals struct {
	Credit           float64 `json:"totalCredit"`
	SupplierCredit   float64 `json:"totalSupplierCredit"`
	InvestmentGiven  float64 `json:"totalInvestmentGiven"`
	InvestmentTaken  float64 `json:"totalInvestmentTaken"`
	PendingChecksIn  float64 `json:"pendingChecksComing"`
	PendingChecksOut float64 `json:"pendingChecksGiven"`
}

// Snapshot is a deep copy of the ledger at one point in time. Mutating a
// snapshot never affects the store it came from.
type Snapshot struct {
	Session     *User        `json:"user"`
	Profile     AdminProfile `json:"adminProfile"`
	Customers   []Customer   `json:"customers"`
	Suppliers   []Supplier   `json:"suppliers"`
	Investments []Investment `json:"investments"`
	Checks      []Check      `json:"checks"`
	Totals      Totals       `json:"totals"`
	Version     uint64       `json:"version"`
}
