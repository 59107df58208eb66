package main

import (
	"fmt"

	"github.com/Veraticus/creditbook/internal/cli"
	"github.com/Veraticus/creditbook/internal/common"
	"github.com/Veraticus/creditbook/internal/ledger"
	"github.com/Veraticus/creditbook/internal/model"
	"github.com/spf13/cobra"
)

func checksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "checks",
		Aliases: []string{"check"},
		Short:   "Track checks received and written",
	}

	add := &cobra.Command{
		Use:   "add",
		Short: "Record a pending check",
		Args:  cobra.NoArgs,
		RunE:  runChecksAdd,
	}
	add.Flags().String("number", "", "check number")
	add.Flags().String("bank", "", "bank name")
	add.Flags().String("name", "", "who the check is from or to")
	add.Flags().String("contact", "", "contact number")
	add.Flags().String("date", "", "due date")
	add.Flags().String("type", string(model.CheckComing), "coming or given")
	add.Flags().Float64("amount", 0, "check amount")
	for _, name := range []string{"number", "bank", "name", "contact", "date", "amount"} {
		_ = add.MarkFlagRequired(name)
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List checks",
		Args:  cobra.NoArgs,
		RunE:  runChecksList,
	}
	list.Flags().String("type", "", "only show coming or given")

	cmd.AddCommand(
		add,
		list,
		&cobra.Command{
			Use:   "pass ID",
			Short: "Mark a pending check as cleared",
			Args:  cobra.ExactArgs(1),
			RunE:  runChecksSettle(true),
		},
		&cobra.Command{
			Use:   "bounce ID",
			Short: "Mark a pending check as bounced",
			Args:  cobra.ExactArgs(1),
			RunE:  runChecksSettle(false),
		},
	)
	return cmd
}

func runChecksAdd(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	in := model.CheckInput{}
	in.Number, _ = flags.GetString("number")
	in.Bank, _ = flags.GetString("bank")
	in.Name, _ = flags.GetString("name")
	in.Contact, _ = flags.GetString("contact")
	in.Date, _ = flags.GetString("date")
	in.Amount, _ = flags.GetFloat64("amount")
	typ, _ := flags.GetString("type")
	in.Type = model.CheckType(typ)

	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	c, err := a.store.AddCheck(in)
	if err != nil {
		return common.NewUserError("Check not added", err)
	}
	if err := a.saved(); err != nil {
		return err
	}

	writeLine(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Recorded %s check %s (%s) for %s", c.Type, c.Number, shortID(c.ID), a.money(c.Amount))))
	return nil
}

func runChecksList(cmd *cobra.Command, _ []string) error {
	typ, _ := cmd.Flags().GetString("type")
	if typ != "" {
		if _, err := model.ParseCheckType(typ); err != nil {
			return common.NewUserError("Type must be coming or given", err)
		}
	}

	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	checks := a.store.Checks(model.CheckType(typ))
	rows := make([][]string, 0, len(checks))
	for _, c := range checks {
		rows = append(rows, []string{
			shortID(c.ID), c.Date, c.Number, c.Bank, c.Name, c.Contact, string(c.Type), string(c.Status), a.money(c.Amount),
		})
	}

	out := cmd.OutOrStdout()
	writeLine(out, cli.FormatTitle("Checks"))
	writeLine(out, cli.RenderTable([]string{"ID", "Due", "Number", "Bank", "Name", "Contact", "Type", "Status", "Amount"}, rows))
	writeLine(out, cli.FormatKeyValues([][2]string{
		{"Pending coming", a.money(a.store.TotalChecks(model.CheckComing, model.CheckPending))},
		{"Pending given", a.money(a.store.TotalChecks(model.CheckGiven, model.CheckPending))},
	}))
	return nil
}

func runChecksSettle(pass bool) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		id, err := a.checkID(args[0])
		if err != nil {
			return err
		}

		settle := a.store.BounceCheck
		if pass {
			settle = a.store.PassCheck
		}
		switch outcome := settle(id); outcome {
		case ledger.OK:
		case ledger.InvalidInput:
			c, _ := a.store.Check(id)
			return common.NewUserError(fmt.Sprintf("Check %s is already %s", c.Number, c.Status), nil)
		default:
			return outcomeError(outcome, "check")
		}
		if err := a.saved(); err != nil {
			return err
		}

		c, _ := a.store.Check(id)
		writeLine(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Check %s is now %s", c.Number, c.Status)))
		return nil
	}
}
