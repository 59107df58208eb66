package main

import (
	"fmt"

	"github.com/Veraticus/creditbook/internal/cli"
	"github.com/Veraticus/creditbook/internal/common"
	"github.com/spf13/cobra"
)

func suppliersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "suppliers",
		Aliases: []string{"supplier"},
		Short:   "Manage suppliers and what the shop owes them",
	}

	add := &cobra.Command{
		Use:   "add NAME MOBILE",
		Short: "Add a supplier",
		Args:  cobra.ExactArgs(2),
		RunE:  runSuppliersAdd,
	}
	add.Flags().String("credit", "", "opening balance owed to the supplier")

	cmd.AddCommand(
		add,
		&cobra.Command{
			Use:   "list",
			Short: "List suppliers and balances",
			Args:  cobra.NoArgs,
			RunE:  runSuppliersList,
		},
		&cobra.Command{
			Use:   "pay ID AMOUNT",
			Short: "Record a payment to a supplier",
			Args:  cobra.ExactArgs(2),
			RunE:  runSuppliersPay,
		},
	)
	return cmd
}

func runSuppliersAdd(cmd *cobra.Command, args []string) error {
	credit, _ := cmd.Flags().GetString("credit")

	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	s, err := a.store.AddSupplier(args[0], args[1], credit)
	if err != nil {
		return common.NewUserError("Supplier not added", err)
	}
	if err := a.saved(); err != nil {
		return err
	}

	writeLine(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Added supplier %s (%s) owed %s", s.Name, shortID(s.ID), a.money(s.Credit))))
	return nil
}

func runSuppliersList(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	suppliers := a.store.Suppliers()
	rows := make([][]string, 0, len(suppliers))
	for _, s := range suppliers {
		rows = append(rows, []string{shortID(s.ID), s.Name, s.Mobile, a.money(s.Credit)})
	}

	out := cmd.OutOrStdout()
	writeLine(out, cli.FormatTitle("Suppliers"))
	writeLine(out, cli.RenderTable([]string{"ID", "Name", "Mobile", "Owed"}, rows))
	writeLine(out, cli.BoldStyle.Render("Total owed: "+a.money(a.store.TotalSupplierCredit())))
	return nil
}

func runSuppliersPay(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	id, err := a.supplierID(args[0])
	if err != nil {
		return err
	}
	if err := outcomeError(a.store.AddSupplierPayment(id, args[1]), "supplier"); err != nil {
		return err
	}
	if err := a.saved(); err != nil {
		return err
	}

	s, _ := a.store.Supplier(id)
	writeLine(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Payment recorded. %s is owed %s", s.Name, a.money(s.Credit))))
	return nil
}
