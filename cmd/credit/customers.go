package main

import (
	"fmt"

	"github.com/Veraticus/creditbook/internal/cli"
	"github.com/Veraticus/creditbook/internal/common"
	"github.com/spf13/cobra"
)

func customersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "customers",
		Aliases: []string{"customer"},
		Short:   "Manage customers and their credit",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add NAME MOBILE",
			Short: "Add a customer with zero credit",
			Args:  cobra.ExactArgs(2),
			RunE:  runCustomersAdd,
		},
		&cobra.Command{
			Use:   "list",
			Short: "List customers and what they owe",
			Args:  cobra.NoArgs,
			RunE:  runCustomersList,
		},
		&cobra.Command{
			Use:   "debt ID AMOUNT",
			Short: "Record goods given on credit",
			Args:  cobra.ExactArgs(2),
			RunE:  runCustomersAmend(true),
		},
		&cobra.Command{
			Use:   "pay ID AMOUNT",
			Short: "Record a payment from a customer",
			Args:  cobra.ExactArgs(2),
			RunE:  runCustomersAmend(false),
		},
	)
	return cmd
}

func runCustomersAdd(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	c, err := a.store.AddCustomer(args[0], args[1])
	if err != nil {
		return common.NewUserError("Customer not added", err)
	}
	if err := a.saved(); err != nil {
		return err
	}

	writeLine(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Added customer %s (%s)", c.Name, shortID(c.ID))))
	return nil
}

func runCustomersList(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	customers := a.store.Customers()
	rows := make([][]string, 0, len(customers))
	for _, c := range customers {
		rows = append(rows, []string{shortID(c.ID), c.Name, c.Mobile, a.money(c.Credit)})
	}

	out := cmd.OutOrStdout()
	writeLine(out, cli.FormatTitle("Customers"))
	writeLine(out, cli.RenderTable([]string{"ID", "Name", "Mobile", "Credit"}, rows))
	writeLine(out, cli.BoldStyle.Render("Total credit: "+a.money(a.store.TotalCredit())))
	return nil
}

func runCustomersAmend(debt bool) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		id, err := a.customerID(args[0])
		if err != nil {
			return err
		}

		apply, verb := a.store.AddPayment, "Payment"
		if debt {
			apply, verb = a.store.AddDebt, "Debt"
		}
		if err := outcomeError(apply(id, args[1]), "customer"); err != nil {
			return err
		}
		if err := a.saved(); err != nil {
			return err
		}

		c, _ := a.store.Customer(id)
		writeLine(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("%s recorded. %s now owes %s", verb, c.Name, a.money(c.Credit))))
		return nil
	}
}
