package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/Veraticus/creditbook/internal/cli"
	"github.com/Veraticus/creditbook/internal/ledger"
	"github.com/Veraticus/creditbook/internal/model"
	"github.com/Veraticus/creditbook/internal/ofx"
	"github.com/Veraticus/creditbook/internal/reconcile"
	"github.com/spf13/cobra"
)

func reconcileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reconcile FILES...",
		Short: "Apply bank statement payments to customers and suppliers",
		Long: `Read OFX or QFX statements and record each deposit as a payment from the
customer with the same name, and each withdrawal as a payment to the
supplier with the same name. Names are compared ignoring case.

Entries that match nobody, or more than one record, are listed. With
--interactive you pick the record for each of them instead.

Examples:
  credit reconcile ~/Downloads/boc_march.qfx --dry-run
  credit reconcile ~/Downloads/*.ofx --interactive`,
		Args: cobra.MinimumNArgs(1),
		RunE: runReconcile,
	}

	cmd.Flags().BoolP("dry-run", "d", false, "show what would be applied without changing the ledger")
	cmd.Flags().BoolP("interactive", "i", false, "resolve unmatched and ambiguous entries by hand")

	return cmd
}

func runReconcile(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	interactive, _ := cmd.Flags().GetBool("interactive")

	files, err := expandFiles(args)
	if err != nil {
		return err
	}

	entries, err := readStatements(cmd.Context(), files)
	if err != nil {
		return err
	}

	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	report := reconcile.Apply(a.store, entries, dryRun)
	out := cmd.OutOrStdout()

	if interactive && !dryRun {
		handler := cli.NewInterruptHandler(cmd.ErrOrStderr(), "Reconcile")
		ctx, stop := handler.HandleInterrupts(cmd.Context())
		defer stop()

		prompter := cli.NewPrompter(cmd.InOrStdin(), out)
		pending := append(append([]model.StatementEntry{}, report.Ambiguous...), report.Unmatched...)
		report.Ambiguous, report.Unmatched = nil, nil

		for i, entry := range pending {
			match, err := resolveEntry(ctx, a, prompter, entry)
			if errors.Is(err, cli.ErrInputCancelled) || errors.Is(err, io.EOF) || handler.WasInterrupted() {
				report.Unmatched = append(report.Unmatched, pending[i:]...)
				break
			}
			if err != nil {
				return err
			}
			if match == nil {
				report.Unmatched = append(report.Unmatched, entry)
				continue
			}
			report.Matched = append(report.Matched, *match)
		}
	}

	if err := a.saved(); err != nil {
		return err
	}
	printReport(out, a, report, dryRun)
	return nil
}

// resolveEntry asks which record an entry belongs to and applies it. A nil
// match means the user skipped it.
func resolveEntry(ctx context.Context, a *app, prompter *cli.Prompter, entry model.StatementEntry) (*reconcile.Match, error) {
	if entry.Amount == 0 {
		return nil, nil
	}

	candidates := reconcile.Candidates(a.store, entry)
	if len(candidates) == 0 {
		return nil, nil
	}

	kind := reconcile.Kind(entry)
	options := make([]string, 0, len(candidates))
	for _, c := range candidates {
		options = append(options, fmt.Sprintf("%s (%s) %s", c.Name, c.Mobile, cli.SubtleStyle.Render(shortID(c.ID))))
	}

	title := fmt.Sprintf("%s %s", describeEntry(entry), a.money(math.Abs(entry.Amount)))
	direction := "to"
	if entry.Deposit() {
		direction = "from"
	}
	details := fmt.Sprintf("%s on %s\nApply as a payment %s which %s?", entry.Name, entry.Date.Format(time.DateOnly), direction, kind)

	choice, err := prompter.Choose(ctx, title, details, options)
	if err != nil || choice == cli.Skip {
		return nil, err
	}

	target := ledger.PaymentTarget{ID: candidates[choice].ID, Kind: kind}
	if outcome := reconcile.Settle(a.store, entry, target); outcome != ledger.OK {
		slog.Warn("statement entry not applied", "id", entry.ID, "outcome", outcome)
		return nil, nil
	}
	return &reconcile.Match{Entry: entry, Target: target, Payee: candidates[choice].Name}, nil
}

func describeEntry(entry model.StatementEntry) string {
	if entry.Deposit() {
		return "Deposit"
	}
	return "Withdrawal"
}

func printReport(out io.Writer, a *app, report reconcile.Report, dryRun bool) {
	verb := "Applied"
	if dryRun {
		verb = "Would apply"
	}

	rows := make([][]string, 0, len(report.Matched))
	for _, m := range report.Matched {
		rows = append(rows, []string{
			m.Entry.Date.Format(time.DateOnly), m.Entry.Name, m.Target.Kind.String(), m.Payee, a.money(math.Abs(m.Entry.Amount)),
		})
	}
	writeLine(out, cli.FormatTitle("Statement Reconciliation"))
	writeLine(out, cli.RenderTable([]string{"Date", "Statement Name", "Type", "Record", "Amount"}, rows))
	writeLine(out, cli.FormatSuccess(fmt.Sprintf("%s %d payments totalling %s", verb, len(report.Matched), a.money(report.Total()))))

	for _, e := range report.Ambiguous {
		writeLine(out, cli.FormatWarning(fmt.Sprintf("Ambiguous: %s %s matches more than one record", e.Date.Format(time.DateOnly), e.Name)))
	}
	for _, e := range report.Unmatched {
		writeLine(out, cli.FormatInfo(fmt.Sprintf("Unmatched: %s %s %s", e.Date.Format(time.DateOnly), e.Name, a.money(e.Amount))))
	}
	for _, e := range report.Rejected {
		writeLine(out, cli.FormatError(fmt.Sprintf("Rejected: %s %s", e.Date.Format(time.DateOnly), e.Name)))
	}
}

// expandFiles expands glob patterns, keeping plain paths that exist.
func expandFiles(patterns []string) ([]string, error) {
	var files []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			if _, err := os.Stat(pattern); err == nil {
				files = append(files, pattern)
			} else {
				slog.Warn("No files found matching pattern", "pattern", pattern)
			}
			continue
		}
		files = append(files, matches...)
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no statement files found")
	}
	return files, nil
}

// readStatements parses every file, dropping entries already seen in an
// earlier file.
func readStatements(ctx context.Context, files []string) ([]model.StatementEntry, error) {
	parser := ofx.NewParser()
	seen := make(map[string]bool)
	var entries []model.StatementEntry

	for _, path := range files {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", path, err)
		}
		parsed, err := parser.ParseFile(ctx, f)
		_ = f.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}

		for _, e := range parsed {
			if e.ID != "" && seen[e.ID] {
				continue
			}
			seen[e.ID] = true
			entries = append(entries, e)
		}
		slog.Debug("read statement", "file", path, "entries", len(parsed))
	}
	return entries, nil
}
