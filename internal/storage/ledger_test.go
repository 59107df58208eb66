package storage

import (
	"context"
	"testing"
	"time"

	"github.com/Veraticus/creditbook/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSnapshot() model.Snapshot {
	return model.Snapshot{
		Profile: model.AdminProfile{
			ShopName:      "Corner Store",
			AdminName:     "Sunil",
			ContactNumber: "771234567",
			Address:       "12 Main St",
		},
		Customers: []model.Customer{
			{ID: "c2", Name: "Mary", Mobile: "987654321", Credit: 12.5},
			{ID: "c1", Name: "John", Mobile: "123456789", Credit: -50},
		},
		Suppliers: []model.Supplier{
			{ID: "s1", Name: "Wholesale", Mobile: "111222333", Credit: 2500},
		},
		Investments: []model.Investment{
			{ID: "i1", Name: "Kamal", Type: model.InvestmentGiven, Amount: 1000, Date: time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)},
			{ID: "i2", Name: "Bank", Mobile: "777777777", Type: model.InvestmentTaken, Amount: -20, Date: time.Date(2024, 3, 2, 9, 30, 15, 500, time.UTC)},
		},
		Checks: []model.Check{
			{ID: "k1", Number: "000123", Bank: "People's Bank", Amount: 800, Name: "Nimal", Contact: "771234567", Type: model.CheckComing, Date: "2024-04-01", Status: model.CheckPending},
			{ID: "k2", Number: "000124", Bank: "BOC", Amount: 300, Name: "Ruwan", Contact: "772222222", Type: model.CheckGiven, Date: "2024-04-02", Status: model.CheckBounced},
		},
		Version: 42,
	}
}

func TestLedgerRoundTrip(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	want := testSnapshot()
	require.NoError(t, store.SaveLedger(ctx, want))

	got, err := store.LoadLedger(ctx)
	require.NoError(t, err)
	assert.Equal(t, want.Profile, got.Profile)
	assert.Equal(t, want.Customers, got.Customers, "order is preserved")
	assert.Equal(t, want.Suppliers, got.Suppliers)
	assert.Equal(t, want.Investments, got.Investments)
	assert.Equal(t, want.Checks, got.Checks)
	assert.Equal(t, want.Version, got.Version)
	assert.Nil(t, got.Session)
}

func TestSaveLedgerReplaces(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, store.SaveLedger(ctx, testSnapshot()))

	next := model.Snapshot{
		Customers: []model.Customer{{ID: "c9", Name: "Only", Mobile: "555555555"}},
		Version:   43,
	}
	require.NoError(t, store.SaveLedger(ctx, next))

	got, err := store.LoadLedger(ctx)
	require.NoError(t, err)
	assert.Equal(t, next.Customers, got.Customers)
	assert.Empty(t, got.Suppliers)
	assert.Empty(t, got.Investments)
	assert.Empty(t, got.Checks)
	assert.Equal(t, model.AdminProfile{}, got.Profile)
	assert.Equal(t, uint64(43), got.Version)
}

func TestLoadLedgerEmpty(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	got, err := store.LoadLedger(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got.Customers)
	assert.Empty(t, got.Customers)
	assert.Zero(t, got.Version)
}

func TestSaveLedgerValidation(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()
	require.NoError(t, store.SaveLedger(ctx, testSnapshot()))

	tests := []struct {
		mutate  func(*model.Snapshot)
		wantErr error
		name    string
	}{
		{
			name:    "missing id",
			mutate:  func(s *model.Snapshot) { s.Customers[0].ID = "" },
			wantErr: ErrInvalidSnapshot,
		},
		{
			name:    "duplicate id",
			mutate:  func(s *model.Snapshot) { s.Checks[1].ID = s.Checks[0].ID },
			wantErr: ErrDuplicateID,
		},
		{
			name:    "unknown investment type",
			mutate:  func(s *model.Snapshot) { s.Investments[0].Type = "loaned" },
			wantErr: ErrInvalidSnapshot,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := testSnapshot()
			tt.mutate(&snap)
			require.ErrorIs(t, store.SaveLedger(ctx, snap), tt.wantErr)

			got, err := store.LoadLedger(ctx)
			require.NoError(t, err)
			assert.Equal(t, testSnapshot().Customers, got.Customers, "failed saves leave stored rows intact")
		})
	}
}
