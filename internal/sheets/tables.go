package sheets

import (
	"time"

	"github.com/Veraticus/creditbook/internal/model"
)

// Tab names, in the order they appear in the spreadsheet.
const (
	TabCustomers   = "Customers"
	TabSuppliers   = "Suppliers"
	TabInvestments = "Investments"
	TabChecks      = "Checks"
	TabSummary     = "Summary"
)

// Table is the content of one tab. Rows[0] is the header.
type Table struct {
	Name string
	Rows [][]any
	// AmountColumn is the zero-based column formatted as currency.
	AmountColumn int
}

// Tables lays the snapshot out as one table per tab.
func Tables(snap model.Snapshot) []Table {
	customers := Table{
		Name:         TabCustomers,
		Rows:         [][]any{{"Name", "Mobile", "Credit"}},
		AmountColumn: 2,
	}
	for _, c := range snap.Customers {
		customers.Rows = append(customers.Rows, []any{c.Name, c.Mobile, c.Credit})
	}

	suppliers := Table{
		Name:         TabSuppliers,
		Rows:         [][]any{{"Name", "Mobile", "Credit"}},
		AmountColumn: 2,
	}
	for _, s := range snap.Suppliers {
		suppliers.Rows = append(suppliers.Rows, []any{s.Name, s.Mobile, s.Credit})
	}

	investments := Table{
		Name:         TabInvestments,
		Rows:         [][]any{{"Date", "Name", "Mobile", "Type", "Amount"}},
		AmountColumn: 4,
	}
	for _, inv := range snap.Investments {
		investments.Rows = append(investments.Rows, []any{
			inv.Date.Format(time.DateOnly), inv.Name, inv.Mobile, string(inv.Type), inv.Amount,
		})
	}

	checks := Table{
		Name:         TabChecks,
		Rows:         [][]any{{"Due Date", "Number", "Bank", "Name", "Contact", "Type", "Status", "Amount"}},
		AmountColumn: 7,
	}
	for _, c := range snap.Checks {
		checks.Rows = append(checks.Rows, []any{
			c.Date, c.Number, c.Bank, c.Name, c.Contact, string(c.Type), string(c.Status), c.Amount,
		})
	}

	t := snap.Totals
	shop := snap.Profile.ShopName
	if shop == "" {
		shop = "Shop Name"
	}
	summary := Table{
		Name: TabSummary,
		Rows: [][]any{
			{shop, "Amount"},
			{"Total Credit", t.Credit},
			{"Supplier Credit", t.SupplierCredit},
			{"Investment Given", t.InvestmentGiven},
			{"Investment Taken", t.InvestmentTaken},
			{"Pending Checks Coming", t.PendingChecksIn},
			{"Pending Checks Given", t.PendingChecksOut},
		},
		AmountColumn: 1,
	}

	return []Table{customers, suppliers, investments, checks, summary}
}
