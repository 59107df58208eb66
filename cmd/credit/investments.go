package main

import (
	"fmt"
	"time"

	"github.com/Veraticus/creditbook/internal/cli"
	"github.com/Veraticus/creditbook/internal/common"
	"github.com/Veraticus/creditbook/internal/model"
	"github.com/spf13/cobra"
)

func investmentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "investments",
		Aliases: []string{"investment"},
		Short:   "Track money lent out (given) or borrowed (taken)",
	}

	add := &cobra.Command{
		Use:   "add NAME AMOUNT",
		Short: "Record a new investment",
		Args:  cobra.ExactArgs(2),
		RunE:  runInvestmentsAdd,
	}
	add.Flags().String("type", string(model.InvestmentGiven), "given or taken")
	add.Flags().String("mobile", "", "contact number")

	list := &cobra.Command{
		Use:   "list",
		Short: "List investments",
		Args:  cobra.NoArgs,
		RunE:  runInvestmentsList,
	}
	list.Flags().String("type", "", "only show given or taken")

	cmd.AddCommand(
		add,
		list,
		&cobra.Command{
			Use:   "pay ID AMOUNT",
			Short: "Reduce the outstanding amount of an investment",
			Args:  cobra.ExactArgs(2),
			RunE:  runInvestmentsPay,
		},
	)
	return cmd
}

func runInvestmentsAdd(cmd *cobra.Command, args []string) error {
	typ, _ := cmd.Flags().GetString("type")
	mobile, _ := cmd.Flags().GetString("mobile")

	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	inv, err := a.store.AddInvestment(args[0], mobile, args[1], model.InvestmentType(typ))
	if err != nil {
		return common.NewUserError("Investment not added", err)
	}
	if err := a.saved(); err != nil {
		return err
	}

	writeLine(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Recorded %s investment %s (%s) of %s", inv.Type, inv.Name, shortID(inv.ID), a.money(inv.Amount))))
	return nil
}

func runInvestmentsList(cmd *cobra.Command, _ []string) error {
	typ, _ := cmd.Flags().GetString("type")
	if typ != "" {
		if _, err := model.ParseInvestmentType(typ); err != nil {
			return common.NewUserError("Type must be given or taken", err)
		}
	}

	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	investments := a.store.Investments(model.InvestmentType(typ))
	rows := make([][]string, 0, len(investments))
	for _, inv := range investments {
		rows = append(rows, []string{
			shortID(inv.ID), inv.Date.Local().Format(time.DateOnly), inv.Name, inv.Mobile, string(inv.Type), a.money(inv.Amount),
		})
	}

	out := cmd.OutOrStdout()
	writeLine(out, cli.FormatTitle("Investments"))
	writeLine(out, cli.RenderTable([]string{"ID", "Date", "Name", "Mobile", "Type", "Amount"}, rows))
	writeLine(out, cli.FormatKeyValues([][2]string{
		{"Given", a.money(a.store.TotalInvestment(model.InvestmentGiven))},
		{"Taken", a.money(a.store.TotalInvestment(model.InvestmentTaken))},
	}))
	return nil
}

func runInvestmentsPay(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	id, err := a.investmentID(args[0])
	if err != nil {
		return err
	}
	if err := outcomeError(a.store.ProcessInvestmentPayment(id, args[1]), "investment"); err != nil {
		return err
	}
	if err := a.saved(); err != nil {
		return err
	}

	inv, _ := a.store.Investment(id)
	writeLine(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Payment recorded. %s outstanding: %s", inv.Name, a.money(inv.Amount))))
	return nil
}
