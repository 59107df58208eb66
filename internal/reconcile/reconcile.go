// Package reconcile turns bank statement entries into ledger payments.
// Deposits settle customer balances and withdrawals settle supplier
// balances, matched on the counterparty name.
package reconcile

import (
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/Veraticus/creditbook/internal/ledger"
	"github.com/Veraticus/creditbook/internal/model"
)

// Ledger is the part of the store reconciliation reads and writes.
type Ledger interface {
	Customers() []model.Customer
	Suppliers() []model.Supplier
	ApplyPayment(target ledger.PaymentTarget, amount string) ledger.Outcome
}

// Match is an entry that was applied.
type Match struct {
	Entry  model.StatementEntry
	Target ledger.PaymentTarget
	Payee  string
}

// Report lists what happened to each entry.
type Report struct {
	Matched   []Match
	Unmatched []model.StatementEntry
	// Ambiguous entries name more than one record and are left for the user.
	Ambiguous []model.StatementEntry
	Rejected  []model.StatementEntry
}

// Total is the sum of applied amounts.
func (r Report) Total() float64 {
	var sum float64
	for _, m := range r.Matched {
		sum += math.Abs(m.Entry.Amount)
	}
	return sum
}

// Candidate is a customer or supplier an entry could be applied to.
type Candidate struct {
	ID     string
	Name   string
	Mobile string
}

// Apply records a payment for every entry whose name matches exactly one
// customer (deposits) or supplier (withdrawals), ignoring case and extra
// spaces. With dryRun set nothing is written.
func Apply(l Ledger, entries []model.StatementEntry, dryRun bool) Report {
	customers := index(customerCandidates(l))
	suppliers := index(supplierCandidates(l))

	var report Report
	for _, entry := range entries {
		if entry.Amount == 0 {
			report.Unmatched = append(report.Unmatched, entry)
			continue
		}

		kind, pool := Kind(entry), suppliers
		if kind == ledger.TargetCustomer {
			pool = customers
		}

		found := pool[normalize(entry.Name)]
		switch len(found) {
		case 0:
			report.Unmatched = append(report.Unmatched, entry)
			continue
		case 1:
		default:
			report.Ambiguous = append(report.Ambiguous, entry)
			continue
		}

		target := ledger.PaymentTarget{ID: found[0].ID, Kind: kind}
		if !dryRun {
			if outcome := Settle(l, entry, target); outcome != ledger.OK {
				slog.Warn("statement entry not applied", "id", entry.ID, "outcome", outcome)
				report.Rejected = append(report.Rejected, entry)
				continue
			}
		}
		report.Matched = append(report.Matched, Match{Entry: entry, Target: target, Payee: found[0].Name})
	}

	return report
}

// Kind is the collection an entry settles: customers for deposits,
// suppliers for withdrawals.
func Kind(entry model.StatementEntry) ledger.TargetKind {
	if entry.Deposit() {
		return ledger.TargetCustomer
	}
	return ledger.TargetSupplier
}

// Candidates lists every record of the entry's kind, those whose name
// matches the entry first.
func Candidates(l Ledger, entry model.StatementEntry) []Candidate {
	all := supplierCandidates(l)
	if Kind(entry) == ledger.TargetCustomer {
		all = customerCandidates(l)
	}

	name := normalize(entry.Name)
	var matching, rest []Candidate
	for _, c := range all {
		if normalize(c.Name) == name {
			matching = append(matching, c)
		} else {
			rest = append(rest, c)
		}
	}
	return append(matching, rest...)
}

// Settle applies the absolute entry amount as a payment against target.
func Settle(l Ledger, entry model.StatementEntry, target ledger.PaymentTarget) ledger.Outcome {
	return l.ApplyPayment(target, strconv.FormatFloat(math.Abs(entry.Amount), 'f', -1, 64))
}

func customerCandidates(l Ledger) []Candidate {
	customers := l.Customers()
	out := make([]Candidate, 0, len(customers))
	for _, c := range customers {
		out = append(out, Candidate{ID: c.ID, Name: c.Name, Mobile: c.Mobile})
	}
	return out
}

func supplierCandidates(l Ledger) []Candidate {
	suppliers := l.Suppliers()
	out := make([]Candidate, 0, len(suppliers))
	for _, s := range suppliers {
		out = append(out, Candidate{ID: s.ID, Name: s.Name, Mobile: s.Mobile})
	}
	return out
}

func index(candidates []Candidate) map[string][]Candidate {
	out := make(map[string][]Candidate, len(candidates))
	for _, c := range candidates {
		n := normalize(c.Name)
		out[n] = append(out[n], c)
	}
	return out
}

func normalize(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
