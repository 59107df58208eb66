package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/creditbook/internal/cli"
	"github.com/Veraticus/creditbook/internal/model"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	sections := []string{
		m.renderHeader(),
		m.renderTotals(),
		m.renderTabs(),
	}
	if len(m.tab.filters()) > 0 {
		sections = append(sections, m.renderFilter())
	}
	sections = append(sections, m.table.View(), m.renderStatus(), m.help.View(m.keymap))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader() string {
	shop := m.snapshot.Profile.ShopName
	if shop == "" {
		shop = "Credit Book"
	}
	title := m.theme.Title.Render(cli.ShopIcon + " " + shop)

	user := m.theme.Subtitle.Render("not logged in")
	if m.snapshot.Session != nil {
		user = m.theme.Subtitle.Render("logged in as " + m.snapshot.Session.Username)
	}
	return title + "  " + user
}

func (m Model) renderTotals() string {
	t := m.snapshot.Totals
	cards := []struct {
		label string
		value float64
	}{
		{"Total Credit", t.Credit},
		{"Supplier Credit", t.SupplierCredit},
		{"Investment Given", t.InvestmentGiven},
		{"Investment Taken", t.InvestmentTaken},
		{"Checks Coming", t.PendingChecksIn},
		{"Checks Given", t.PendingChecksOut},
	}

	rendered := make([]string, 0, len(cards))
	for _, c := range cards {
		style := m.theme.Positive
		if c.value < 0 {
			style = m.theme.Negative
		}
		body := m.theme.TotalLabel.Render(c.label) + "\n" + style.Render(cli.FormatMoney(m.config.Currency, c.value))
		rendered = append(rendered, m.theme.TotalCard.Render(body))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m Model) renderTabs() string {
	counts := [tabCount]int{
		len(m.snapshot.Customers),
		len(m.snapshot.Suppliers),
		len(m.snapshot.Investments),
		len(m.snapshot.Checks),
	}

	tabs := make([]string, 0, tabCount)
	for t := Tab(0); t < tabCount; t++ {
		label := fmt.Sprintf("%s (%d)", t, counts[t])
		if t == m.tab {
			tabs = append(tabs, m.theme.ActiveTab.Render(label))
		} else {
			tabs = append(tabs, m.theme.InactiveTab.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) renderFilter() string {
	parts := make([]string, 0, 3)
	active := m.filter()
	for _, f := range m.tab.filters() {
		label := f
		if label == "" {
			label = "all"
		}
		if f == active {
			parts = append(parts, m.theme.Bold.Render("["+label+"]"))
		} else {
			parts = append(parts, m.theme.Subtitle.Render(label))
		}
	}
	return m.theme.Subtitle.Render("Type: ") + strings.Join(parts, " ")
}

func (m Model) renderStatus() string {
	if m.feedClosed {
		return m.theme.StatusError.Render("live updates stopped; press r to refresh")
	}
	return m.theme.StatusBar.Render(fmt.Sprintf("version %d · live", m.snapshot.Version))
}

// columns sizes the name column to take whatever width is left.
func columns(tab Tab, width int) []table.Column {
	var fixed []table.Column
	nameAt := 0
	switch tab {
	case TabCustomers, TabSuppliers:
		fixed = []table.Column{{Title: "Name"}, {Title: "Mobile", Width: 11}, {Title: "Credit", Width: 18}}
	case TabInvestments:
		fixed = []table.Column{{Title: "Date", Width: 10}, {Title: "Name"}, {Title: "Mobile", Width: 11}, {Title: "Type", Width: 6}, {Title: "Amount", Width: 18}}
		nameAt = 1
	case TabChecks:
		fixed = []table.Column{
			{Title: "Due", Width: 10}, {Title: "Number", Width: 10}, {Title: "Bank", Width: 10}, {Title: "Name"},
			{Title: "Type", Width: 6}, {Title: "Status", Width: 8}, {Title: "Amount", Width: 18},
		}
		nameAt = 3
	}

	used := 0
	for _, c := range fixed {
		used += c.Width + 2
	}
	fixed[nameAt].Width = max(10, width-used-2)
	return fixed
}

func rows(tab Tab, snap model.Snapshot, filter, currency string) []table.Row {
	money := func(v float64) string { return cli.FormatMoney(currency, v) }

	var out []table.Row
	switch tab {
	case TabCustomers:
		for _, c := range snap.Customers {
			out = append(out, table.Row{c.Name, c.Mobile, money(c.Credit)})
		}
	case TabSuppliers:
		for _, s := range snap.Suppliers {
			out = append(out, table.Row{s.Name, s.Mobile, money(s.Credit)})
		}
	case TabInvestments:
		for _, inv := range snap.Investments {
			if filter != "" && string(inv.Type) != filter {
				continue
			}
			out = append(out, table.Row{inv.Date.Local().Format(time.DateOnly), inv.Name, inv.Mobile, string(inv.Type), money(inv.Amount)})
		}
	case TabChecks:
		for _, c := range snap.Checks {
			if filter != "" && string(c.Type) != filter {
				continue
			}
			out = append(out, table.Row{c.Date, c.Number, c.Bank, c.Name, string(c.Type), string(c.Status), money(c.Amount)})
		}
	}
	return out
}
