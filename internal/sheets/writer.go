package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/Veraticus/creditbook/internal/common"
	"github.com/Veraticus/creditbook/internal/model"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// spreadsheetAPI is the subset of the Sheets API the writer calls.
type spreadsheetAPI interface {
	Get(ctx context.Context, id string) (*sheets.Spreadsheet, error)
	Create(ctx context.Context, s *sheets.Spreadsheet) (*sheets.Spreadsheet, error)
	BatchUpdate(ctx context.Context, id string, req *sheets.BatchUpdateSpreadsheetRequest) error
	Clear(ctx context.Context, id, rng string) error
	Update(ctx context.Context, id, rng string, values [][]any) error
}

// Writer implements service.ReportWriter for Google Sheets.
type Writer struct {
	api    spreadsheetAPI
	logger *slog.Logger
	config Config
}

// NewWriter creates a new Google Sheets report writer.
func NewWriter(ctx context.Context, config Config, logger *slog.Logger) (*Writer, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	srv, err := createSheetsService(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return newWriter(googleAPI{srv: srv}, config, logger), nil
}

func newWriter(api spreadsheetAPI, config Config, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{api: api, config: config, logger: logger}
}

// Write replaces the content of every tab with the snapshot.
func (w *Writer) Write(ctx context.Context, snap model.Snapshot) error {
	tables := Tables(snap)
	w.logger.Info("starting sheets export",
		"customers", len(snap.Customers),
		"suppliers", len(snap.Suppliers),
		"version", snap.Version)

	spreadsheetID, sheetIDs, err := w.prepareSpreadsheet(ctx, tables)
	if err != nil {
		return err
	}

	retryOpts := common.RetryOptions{
		Retryable:    transient,
		MaxAttempts:  w.config.RetryAttempts,
		InitialDelay: w.config.RetryDelay,
		MaxDelay:     30 * time.Second,
	}

	for _, table := range tables {
		err := common.WithRetry(ctx, func() error {
			return w.writeTable(ctx, spreadsheetID, table)
		}, retryOpts)
		if err != nil {
			return fmt.Errorf("failed to write %s: %w", table.Name, err)
		}
	}

	if w.config.EnableFormatting {
		err = common.WithRetry(ctx, func() error {
			return w.api.BatchUpdate(ctx, spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
				Requests: formatRequests(tables, sheetIDs, w.config.Currency),
			})
		}, retryOpts)
		if err != nil {
			w.logger.Warn("failed to apply formatting", "error", err)
		}
	}

	w.logger.Info("sheets export completed", "spreadsheet_id", spreadsheetID, "tabs", len(tables))
	return nil
}

// transient retries rate limiting and server errors from Google; any
// other API status will fail the same way again.
func transient(err error) bool {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= http.StatusInternalServerError
	}
	return common.IsRetryable(err)
}

// prepareSpreadsheet returns the target spreadsheet, creating it or any
// missing tab, along with the sheet id of every tab.
func (w *Writer) prepareSpreadsheet(ctx context.Context, tables []Table) (string, map[string]int64, error) {
	if w.config.SpreadsheetID == "" {
		spreadsheet := &sheets.Spreadsheet{
			Properties: &sheets.SpreadsheetProperties{
				Title:    w.config.SpreadsheetName,
				TimeZone: w.config.TimeZone,
			},
		}
		for _, t := range tables {
			spreadsheet.Sheets = append(spreadsheet.Sheets, &sheets.Sheet{
				Properties: &sheets.SheetProperties{Title: t.Name},
			})
		}

		created, err := w.api.Create(ctx, spreadsheet)
		if err != nil {
			return "", nil, fmt.Errorf("unable to create spreadsheet: %w", err)
		}
		w.logger.Info("created new spreadsheet", "id", created.SpreadsheetId, "url", created.SpreadsheetUrl)
		return created.SpreadsheetId, sheetIDs(created), nil
	}

	existing, err := w.api.Get(ctx, w.config.SpreadsheetID)
	if err != nil {
		return "", nil, fmt.Errorf("unable to access spreadsheet %s: %w", w.config.SpreadsheetID, err)
	}

	ids := sheetIDs(existing)
	var add []*sheets.Request
	for _, t := range tables {
		if _, ok := ids[t.Name]; !ok {
			add = append(add, &sheets.Request{
				AddSheet: &sheets.AddSheetRequest{Properties: &sheets.SheetProperties{Title: t.Name}},
			})
		}
	}
	if len(add) == 0 {
		return w.config.SpreadsheetID, ids, nil
	}

	if err := w.api.BatchUpdate(ctx, w.config.SpreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{Requests: add}); err != nil {
		return "", nil, fmt.Errorf("unable to add tabs: %w", err)
	}
	refreshed, err := w.api.Get(ctx, w.config.SpreadsheetID)
	if err != nil {
		return "", nil, fmt.Errorf("unable to access spreadsheet %s: %w", w.config.SpreadsheetID, err)
	}
	return w.config.SpreadsheetID, sheetIDs(refreshed), nil
}

func (w *Writer) writeTable(ctx context.Context, spreadsheetID string, table Table) error {
	if err := w.api.Clear(ctx, spreadsheetID, fmt.Sprintf("'%s'!A:Z", table.Name)); err != nil {
		return fmt.Errorf("failed to clear: %w", err)
	}
	if err := w.api.Update(ctx, spreadsheetID, fmt.Sprintf("'%s'!A1", table.Name), table.Rows); err != nil {
		return fmt.Errorf("failed to update: %w", err)
	}
	w.logger.Debug("wrote tab", "tab", table.Name, "rows", len(table.Rows))
	return nil
}

func sheetIDs(s *sheets.Spreadsheet) map[string]int64 {
	ids := make(map[string]int64, len(s.Sheets))
	for _, sh := range s.Sheets {
		if sh.Properties != nil {
			ids[sh.Properties.Title] = sh.Properties.SheetId
		}
	}
	return ids
}

// formatRequests bolds and freezes each header row and formats the amount
// column as currency.
func formatRequests(tables []Table, ids map[string]int64, currency string) []*sheets.Request {
	var requests []*sheets.Request
	for _, t := range tables {
		id, ok := ids[t.Name]
		if !ok {
			continue
		}
		requests = append(requests,
			&sheets.Request{
				RepeatCell: &sheets.RepeatCellRequest{
					Range: &sheets.GridRange{SheetId: id, StartRowIndex: 0, EndRowIndex: 1},
					Cell: &sheets.CellData{
						UserEnteredFormat: &sheets.CellFormat{TextFormat: &sheets.TextFormat{Bold: true}},
					},
					Fields: "userEnteredFormat.textFormat",
				},
			},
			&sheets.Request{
				RepeatCell: &sheets.RepeatCellRequest{
					Range: &sheets.GridRange{
						SheetId:          id,
						StartRowIndex:    1,
						EndRowIndex:      int64(len(t.Rows)),
						StartColumnIndex: int64(t.AmountColumn),
						EndColumnIndex:   int64(t.AmountColumn + 1),
					},
					Cell: &sheets.CellData{
						UserEnteredFormat: &sheets.CellFormat{
							NumberFormat: &sheets.NumberFormat{
								Type:    "CURRENCY",
								Pattern: fmt.Sprintf(`"%s "#,##0.00`, currency),
							},
						},
					},
					Fields: "userEnteredFormat.numberFormat",
				},
			},
			&sheets.Request{
				UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
					Properties: &sheets.SheetProperties{
						SheetId:        id,
						GridProperties: &sheets.GridProperties{FrozenRowCount: 1},
					},
					Fields: "gridProperties.frozenRowCount",
				},
			},
			&sheets.Request{
				AutoResizeDimensions: &sheets.AutoResizeDimensionsRequest{
					Dimensions: &sheets.DimensionRange{
						SheetId:    id,
						Dimension:  "COLUMNS",
						StartIndex: 0,
						EndIndex:   int64(len(t.Rows[0])),
					},
				},
			},
		)
	}
	return requests
}

// createSheetsService creates a Google Sheets API service.
func createSheetsService(ctx context.Context, config Config) (*sheets.Service, error) {
	var tokenSource oauth2.TokenSource

	if config.ServiceAccountPath != "" {
		jsonKey, err := os.ReadFile(config.ServiceAccountPath)
		if err != nil {
			return nil, fmt.Errorf("unable to read service account key file: %w", err)
		}

		jwtConfig, err := google.JWTConfigFromJSON(jsonKey, sheets.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("unable to parse service account key: %w", err)
		}
		tokenSource = jwtConfig.TokenSource(ctx)
	} else {
		token := &oauth2.Token{RefreshToken: config.RefreshToken, TokenType: "Bearer"}
		tokenSource = oauthConfig(config.ClientID, config.ClientSecret, "").TokenSource(ctx, token)
	}

	srv, err := sheets.NewService(ctx, option.WithHTTPClient(oauth2.NewClient(ctx, tokenSource)))
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}
	return srv, nil
}

type googleAPI struct {
	srv *sheets.Service
}

func (g googleAPI) Get(ctx context.Context, id string) (*sheets.Spreadsheet, error) {
	return g.srv.Spreadsheets.Get(id).Context(ctx).Do()
}

func (g googleAPI) Create(ctx context.Context, s *sheets.Spreadsheet) (*sheets.Spreadsheet, error) {
	return g.srv.Spreadsheets.Create(s).Context(ctx).Do()
}

func (g googleAPI) BatchUpdate(ctx context.Context, id string, req *sheets.BatchUpdateSpreadsheetRequest) error {
	_, err := g.srv.Spreadsheets.BatchUpdate(id, req).Context(ctx).Do()
	return err
}

func (g googleAPI) Clear(ctx context.Context, id, rng string) error {
	_, err := g.srv.Spreadsheets.Values.Clear(id, rng, &sheets.ClearValuesRequest{}).Context(ctx).Do()
	return err
}

func (g googleAPI) Update(ctx context.Context, id, rng string, values [][]any) error {
	_, err := g.srv.Spreadsheets.Values.Update(id, rng, &sheets.ValueRange{Values: values}).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	return err
}
