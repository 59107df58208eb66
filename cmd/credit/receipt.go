package main

import (
	"fmt"
	"os"
	"time"

	"github.com/Veraticus/creditbook/internal/cli"
	"github.com/Veraticus/creditbook/internal/common"
	"github.com/Veraticus/creditbook/internal/ledger"
	"github.com/Veraticus/creditbook/internal/receipt"
	"github.com/spf13/cobra"
)

func receiptCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "receipt TARGET ID AMOUNT",
		Short: "Print a payment receipt",
		Long: `Print a receipt for a payment received from a customer, made to a
supplier, or made against an investment. TARGET is customer, supplier or
investment.

With --pay the payment is recorded first, so the receipt and the ledger
always agree.

Examples:
  credit receipt customer 3f2a 500 --pay
  credit receipt supplier 91bc 2500 --format html --output receipt.html`,
		Args: cobra.ExactArgs(3),
		RunE: runReceipt,
	}

	cmd.Flags().Bool("pay", false, "record the payment before printing")
	cmd.Flags().String("format", "text", "text, adoc or html")
	cmd.Flags().StringP("output", "o", "", "write to a file instead of stdout")

	return cmd
}

func runReceipt(cmd *cobra.Command, args []string) error {
	pay, _ := cmd.Flags().GetBool("pay")
	format, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")

	amount, ok := ledger.ParsePositiveAmount(args[2])
	if !ok {
		return common.NewUserError("Amount must be a positive number", common.ErrInvalidAmount)
	}

	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	target, err := a.paymentTarget(args[0], args[1])
	if err != nil {
		return err
	}
	if pay {
		if err := outcomeError(a.store.ApplyPayment(target, args[2]), target.Kind.String()); err != nil {
			return err
		}
		if err := a.saved(); err != nil {
			return err
		}
	}

	payee, _ := a.store.Payee(target)
	r := receipt.Receipt{
		Date:    time.Now(),
		Profile: a.store.AdminProfile(),
		Payee:   payee,
		Amount:  amount,
	}

	content, err := renderReceipt(receipt.NewRenderer(a.settings.Currency), r, format, output != "")
	if err != nil {
		return err
	}

	if output == "" {
		_, _ = fmt.Fprint(cmd.OutOrStdout(), content)
		return nil
	}
	if err := os.WriteFile(output, []byte(content), 0o600); err != nil {
		return fmt.Errorf("failed to write receipt: %w", err)
	}
	writeLine(cmd.OutOrStdout(), cli.FormatSuccess("Receipt written to "+output))
	return nil
}

// renderReceipt formats r. HTML written to a file is a complete page.
func renderReceipt(rn *receipt.Renderer, r receipt.Receipt, format string, standalone bool) (string, error) {
	switch format {
	case "text":
		return rn.Text(r), nil
	case "adoc":
		return rn.AsciiDoc(r), nil
	case "html":
		rn.Standalone = standalone
		return rn.HTML(r)
	default:
		return "", common.NewUserError(fmt.Sprintf("Unknown format %q (want text, adoc or html)", format), nil)
	}
}
