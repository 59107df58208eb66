package main

import (
	"fmt"

	"github.com/Veraticus/creditbook/internal/cli"
	"github.com/spf13/cobra"
)

func summaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show ledger totals",
		Args:  cobra.NoArgs,
		RunE:  runSummary,
	}
}

func runSummary(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	snap := a.store.Snapshot()
	t := snap.Totals
	title := snap.Profile.ShopName
	if title == "" {
		title = "Credit Book"
	}

	writeLine(cmd.OutOrStdout(), cli.RenderBox(cli.ChartIcon+" "+title, cli.FormatKeyValues([][2]string{
		{"Customers", fmt.Sprint(len(snap.Customers))},
		{"Total credit", a.money(t.Credit)},
		{"Suppliers", fmt.Sprint(len(snap.Suppliers))},
		{"Owed to suppliers", a.money(t.SupplierCredit)},
		{"Investment given", a.money(t.InvestmentGiven)},
		{"Investment taken", a.money(t.InvestmentTaken)},
		{"Pending checks coming", a.money(t.PendingChecksIn)},
		{"Pending checks given", a.money(t.PendingChecksOut)},
	})))
	return nil
}
