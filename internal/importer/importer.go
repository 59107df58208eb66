// Package importer loads customers and suppliers in bulk from CSV.
//
// The file needs a header row naming at least kind, name and mobile; a
// credit column is optional. kind is "customer" or "supplier". A customer's
// credit becomes a debt (or a payment when negative); a supplier's credit is
// its opening balance.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/Veraticus/creditbook/internal/ledger"
	"github.com/Veraticus/creditbook/internal/model"
	"github.com/schollz/progressbar/v3"
)

// Ledger is the part of the store an import writes to.
type Ledger interface {
	AddCustomer(name, mobile string) (model.Customer, error)
	AddDebt(customerID, amount string) ledger.Outcome
	AddPayment(customerID, amount string) ledger.Outcome
	AddSupplier(name, mobile, initialCredit string) (model.Supplier, error)
}

// Errors describing a malformed file.
var (
	ErrMissingColumn = errors.New("missing required column")
	ErrEmptyFile     = errors.New("file has no header row")
)

var requiredColumns = []string{"kind", "name", "mobile"}

// RowError is a rejected data row. Line counts the header as line 1.
type RowError struct {
	Err  error
	Line int
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

// Result summarizes an import.
type Result struct {
	Rejected  []RowError
	Customers int
	Suppliers int
}

// Importer reads CSV rows into a ledger.
type Importer struct {
	ledger   Ledger
	progress io.Writer
}

// New creates an importer. When progress is non-nil a progress bar is
// drawn to it.
func New(l Ledger, progress io.Writer) *Importer {
	return &Importer{ledger: l, progress: progress}
}

type row struct {
	kind   string
	name   string
	mobile string
	credit string
	line   int
}

// Import adds every valid row. Bad rows are reported in the result and do
// not stop the import; only an unreadable file or a canceled context does.
func (im *Importer) Import(ctx context.Context, r io.Reader) (Result, error) {
	rows, err := readRows(r)
	if err != nil {
		return Result{}, err
	}

	bar := im.newProgressBar(len(rows))

	var result Result
	for _, rw := range rows {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		if err := im.apply(rw, &result); err != nil {
			result.Rejected = append(result.Rejected, RowError{Line: rw.line, Err: err})
			slog.Debug("rejected import row", "line", rw.line, "error", err)
		}

		if bar != nil {
			if err := bar.Add(1); err != nil {
				slog.Warn("Failed to update progress bar", "error", err)
			}
		}
	}

	return result, nil
}

func (im *Importer) apply(rw row, result *Result) error {
	if strings.TrimSpace(rw.name) == "" {
		return errors.New("name is required")
	}

	switch rw.kind {
	case "customer":
		credit, err := parseCredit(rw.credit)
		if err != nil {
			return err
		}
		c, err := im.ledger.AddCustomer(rw.name, rw.mobile)
		if err != nil {
			return err
		}

		amount := strconv.FormatFloat(math.Abs(credit), 'f', -1, 64)
		outcome := ledger.OK
		switch {
		case credit > 0:
			outcome = im.ledger.AddDebt(c.ID, amount)
		case credit < 0:
			outcome = im.ledger.AddPayment(c.ID, amount)
		}
		if outcome != ledger.OK {
			return fmt.Errorf("customer %s added without credit %s: %s", c.ID, rw.credit, outcome)
		}
		result.Customers++
		return nil

	case "supplier":
		if _, err := parseCredit(rw.credit); err != nil {
			return err
		}
		if _, err := im.ledger.AddSupplier(rw.name, rw.mobile, rw.credit); err != nil {
			return err
		}
		result.Suppliers++
		return nil

	default:
		return fmt.Errorf("unknown kind %q, expected customer or supplier", rw.kind)
	}
}

func parseCredit(s string) (float64, error) {
	if strings.TrimSpace(s) == "" {
		return 0, nil
	}
	v, ok := ledger.ParseAmount(s)
	if !ok {
		return 0, fmt.Errorf("invalid credit %q", s)
	}
	return v, nil
}

func readRows(r io.Reader) ([]row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
	}

	field := func(record []string, name string) string {
		i, ok := columns[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var rows []row
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read rows: %w", err)
		}
		line, _ := reader.FieldPos(0)

		rows = append(rows, row{
			line:   line,
			kind:   strings.ToLower(field(record, "kind")),
			name:   field(record, "name"),
			mobile: field(record, "mobile"),
			credit: field(record, "credit"),
		})
	}
	return rows, nil
}

func (im *Importer) newProgressBar(total int) *progressbar.ProgressBar {
	if im.progress == nil || total == 0 {
		return nil
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(im.progress),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Importing...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			_, _ = fmt.Fprintln(im.progress)
		}),
	)
}
