package sheets

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/Veraticus/creditbook/internal/common"
	"github.com/Veraticus/creditbook/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/sheets/v4"
)

type fakeAPI struct {
	updates     map[string][][]any
	getErr      error
	updateErrs  int
	updateErr   error
	existing    []string
	cleared     []string
	batches     []*sheets.BatchUpdateSpreadsheetRequest
	created     *sheets.Spreadsheet
	updateCalls int
	mu          sync.Mutex
}

func newFakeAPI(existing ...string) *fakeAPI {
	return &fakeAPI{existing: existing, updates: map[string][][]any{}}
}

func (f *fakeAPI) spreadsheet(id string, titles []string) *sheets.Spreadsheet {
	s := &sheets.Spreadsheet{SpreadsheetId: id}
	for i, title := range titles {
		s.Sheets = append(s.Sheets, &sheets.Sheet{Properties: &sheets.SheetProperties{Title: title, SheetId: int64(100 + i)}})
	}
	return s
}

func (f *fakeAPI) Get(_ context.Context, id string) (*sheets.Spreadsheet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.spreadsheet(id, f.existing), nil
}

func (f *fakeAPI) Create(_ context.Context, s *sheets.Spreadsheet) (*sheets.Spreadsheet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = s
	var titles []string
	for _, sh := range s.Sheets {
		titles = append(titles, sh.Properties.Title)
	}
	return f.spreadsheet("new-sheet", titles), nil
}

func (f *fakeAPI) BatchUpdate(_ context.Context, _ string, req *sheets.BatchUpdateSpreadsheetRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batches = append(f.batches, req)
	for _, r := range req.Requests {
		if r.AddSheet != nil {
			f.existing = append(f.existing, r.AddSheet.Properties.Title)
		}
	}
	return nil
}

func (f *fakeAPI) Clear(_ context.Context, _ string, rng string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cleared = append(f.cleared, rng)
	return nil
}

func (f *fakeAPI) Update(_ context.Context, _ string, rng string, values [][]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateCalls++
	if f.updateErrs > 0 {
		f.updateErrs--
		if f.updateErr != nil {
			return f.updateErr
		}
		return errors.New("backend unavailable")
	}
	f.updates[rng] = values
	return nil
}

func testSnapshot() model.Snapshot {
	return model.Snapshot{
		Profile:   model.AdminProfile{ShopName: "Perera Stores"},
		Customers: []model.Customer{{ID: "c1", Name: "John", Mobile: "123456789", Credit: -50}},
		Suppliers: []model.Supplier{{ID: "s1", Name: "Wholesale", Mobile: "987654321", Credit: 5000}},
		Investments: []model.Investment{{
			ID: "i1", Name: "Kamal", Amount: 1000, Type: model.InvestmentGiven,
			Date: time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC),
		}},
		Checks: []model.Check{{
			ID: "k1", Number: "000123", Bank: "BOC", Name: "Nimal", Contact: "0771234567",
			Date: "2024-04-01", Type: model.CheckComing, Status: model.CheckPending, Amount: 2500,
		}},
		Totals: model.Totals{Credit: -50, SupplierCredit: 5000, InvestmentGiven: 1000, PendingChecksIn: 2500},
	}
}

func TestTables(t *testing.T) {
	tables := Tables(testSnapshot())
	require.Len(t, tables, 5)

	names := make([]string, 0, len(tables))
	for _, table := range tables {
		names = append(names, table.Name)
		assert.Less(t, table.AmountColumn, len(table.Rows[0]), table.Name)
	}
	assert.Equal(t, []string{TabCustomers, TabSuppliers, TabInvestments, TabChecks, TabSummary}, names)

	assert.Equal(t, []any{"John", "123456789", -50.0}, tables[0].Rows[1])
	assert.Equal(t, []any{"2024-03-05", "Kamal", "", "given", 1000.0}, tables[2].Rows[1])
	assert.Equal(t, "pending", tables[3].Rows[1][6])
	assert.Equal(t, []any{"Perera Stores", "Amount"}, tables[4].Rows[0])
	assert.Equal(t, []any{"Pending Checks Coming", 2500.0}, tables[4].Rows[5])
}

func TestWriteCreatesSpreadsheet(t *testing.T) {
	api := newFakeAPI()
	cfg := DefaultConfig()
	w := newWriter(api, cfg, nil)

	require.NoError(t, w.Write(context.Background(), testSnapshot()))

	require.NotNil(t, api.created)
	assert.Equal(t, DefaultSpreadsheetName, api.created.Properties.Title)
	assert.Len(t, api.created.Sheets, 5)
	assert.Contains(t, api.cleared, "'Customers'!A:Z")
	assert.Len(t, api.updates["'Checks'!A1"], 2)

	require.Len(t, api.batches, 1, "one formatting batch")
	assert.Len(t, api.batches[0].Requests, 5*4)
	numberFormat := api.batches[0].Requests[1].RepeatCell.Cell.UserEnteredFormat.NumberFormat
	assert.Equal(t, `"LKR "#,##0.00`, numberFormat.Pattern)
}

func TestWriteAddsMissingTabs(t *testing.T) {
	api := newFakeAPI(TabCustomers, TabSummary)
	cfg := DefaultConfig()
	cfg.SpreadsheetID = "existing"
	cfg.EnableFormatting = false
	w := newWriter(api, cfg, nil)

	require.NoError(t, w.Write(context.Background(), testSnapshot()))

	assert.Nil(t, api.created)
	require.Len(t, api.batches, 1)
	var added []string
	for _, r := range api.batches[0].Requests {
		added = append(added, r.AddSheet.Properties.Title)
	}
	assert.Equal(t, []string{TabSuppliers, TabInvestments, TabChecks}, added)
	assert.Len(t, api.updates, 5)
}

func TestWriteRetriesUpdates(t *testing.T) {
	api := newFakeAPI()
	api.updateErrs = 1
	cfg := DefaultConfig()
	cfg.RetryDelay = time.Millisecond
	cfg.EnableFormatting = false
	w := newWriter(api, cfg, nil)

	require.NoError(t, w.Write(context.Background(), testSnapshot()))
	assert.Equal(t, 6, api.updateCalls)
	assert.Len(t, api.updates, 5)
}

func TestWriteRetryPolicy(t *testing.T) {
	tests := []struct {
		err       error
		name      string
		wantCalls int
		wantErr   bool
	}{
		{name: "rate limited", err: &googleapi.Error{Code: http.StatusTooManyRequests}, wantCalls: 6},
		{name: "server error", err: &googleapi.Error{Code: http.StatusServiceUnavailable}, wantCalls: 6},
		{name: "bad request", err: &googleapi.Error{Code: http.StatusBadRequest}, wantCalls: 1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newFakeAPI()
			api.updateErrs = 1
			api.updateErr = tt.err
			cfg := DefaultConfig()
			cfg.RetryDelay = time.Millisecond
			cfg.EnableFormatting = false
			w := newWriter(api, cfg, nil)

			err := w.Write(context.Background(), testSnapshot())
			if tt.wantErr {
				require.Error(t, err)
				assert.NotErrorIs(t, err, common.ErrMaxRetries)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantCalls, api.updateCalls)
		})
	}
}

func TestWriteInaccessibleSpreadsheet(t *testing.T) {
	api := newFakeAPI()
	api.getErr = errors.New("forbidden")
	cfg := DefaultConfig()
	cfg.SpreadsheetID = "missing"
	w := newWriter(api, cfg, nil)

	err := w.Write(context.Background(), testSnapshot())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unable to access spreadsheet missing")
	assert.Empty(t, api.updates)
}

func TestAuthorizeWithoutCode(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := Authorize(ctx, "client", "secret", "127.0.0.1:0", func(consent string) {
		u, err := url.Parse(consent)
		if err != nil {
			return
		}
		redirect := u.Query().Get("redirect_uri")
		go func() {
			resp, err := http.Get(redirect)
			if err == nil {
				_ = resp.Body.Close()
			}
		}()
	})
	require.ErrorIs(t, err, ErrNoAuthCode)
}
