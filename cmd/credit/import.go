package main

import (
	"fmt"
	"io"
	"os"

	"github.com/Veraticus/creditbook/internal/cli"
	"github.com/Veraticus/creditbook/internal/importer"
	"github.com/spf13/cobra"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import customers and suppliers from CSV",
		Long: `Import customers and suppliers from a CSV file with a header row.

Required columns are kind, name and mobile; credit is optional. kind is
customer or supplier. A customer's credit is recorded as debt, a supplier's
as the opening balance. Rows that fail validation are reported and skipped.

Use - to read from standard input.`,
		Args: cobra.ExactArgs(1),
		RunE: runImport,
	}
	cmd.Flags().Bool("no-progress", false, "do not draw a progress bar")
	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	noProgress, _ := cmd.Flags().GetBool("no-progress")

	var in io.Reader = cmd.InOrStdin()
	if args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", args[0], err)
		}
		defer func() { _ = f.Close() }()
		in = f
	}

	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	handler := cli.NewInterruptHandler(cmd.ErrOrStderr(), "Import")
	ctx, stop := handler.HandleInterrupts(cmd.Context())
	defer stop()

	var progress io.Writer
	if !noProgress {
		progress = cmd.ErrOrStderr()
	}

	result, err := importer.New(a.store, progress).Import(ctx, in)
	if err != nil && !handler.WasInterrupted() {
		return fmt.Errorf("import failed: %w", err)
	}
	if err := a.saved(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	writeLine(out, cli.FormatSuccess(fmt.Sprintf("Imported %d customers and %d suppliers", result.Customers, result.Suppliers)))
	for _, rej := range result.Rejected {
		writeLine(out, cli.FormatWarning(rej.Error()))
	}
	return nil
}
