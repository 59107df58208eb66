package reconcile

import (
	"context"
	"testing"
	"time"

	"github.com/Veraticus/creditbook/internal/auth"
	"github.com/Veraticus/creditbook/internal/ledger"
	"github.com/Veraticus/creditbook/internal/model"
	"github.com/Veraticus/creditbook/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newStore(t *testing.T) *ledger.Store {
	t.Helper()
	reg := auth.NewRegistry(testutil.NewMemoryKV(), bcrypt.MinCost)
	require.NoError(t, reg.Load(context.Background()))
	return ledger.New(reg)
}

func entry(id, name string, amount float64) model.StatementEntry {
	return model.StatementEntry{ID: id, Name: name, Amount: amount, Date: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)}
}

func TestApply(t *testing.T) {
	store := newStore(t)
	john, err := store.AddCustomer("John", "123456789")
	require.NoError(t, err)
	require.Equal(t, ledger.OK, store.AddDebt(john.ID, "2000"))
	_, err = store.AddCustomer("Sam", "111111111")
	require.NoError(t, err)
	_, err = store.AddCustomer("sam", "222222222")
	require.NoError(t, err)
	wholesale, err := store.AddSupplier("Wholesale  Traders", "987654321", "5000")
	require.NoError(t, err)

	entries := []model.StatementEntry{
		entry("1", "john", 1500),
		entry("2", "Wholesale Traders", -2500),
		entry("3", "SAM", 100),
		entry("4", "Nobody", 50),
		entry("5", "John", -10),
		entry("6", "John", 0),
	}

	report := Apply(store, entries, false)

	require.Len(t, report.Matched, 2)
	assert.Equal(t, "John", report.Matched[0].Payee)
	assert.Equal(t, ledger.TargetCustomer, report.Matched[0].Target.Kind)
	assert.Equal(t, ledger.TargetSupplier, report.Matched[1].Target.Kind)
	assert.Equal(t, 4000.0, report.Total())

	require.Len(t, report.Ambiguous, 1)
	assert.Equal(t, "3", report.Ambiguous[0].ID)

	var unmatched []string
	for _, e := range report.Unmatched {
		unmatched = append(unmatched, e.ID)
	}
	assert.Equal(t, []string{"4", "5", "6"}, unmatched, "withdrawals never match customers")
	assert.Empty(t, report.Rejected)

	got, _ := store.Customer(john.ID)
	assert.Equal(t, 500.0, got.Credit)
	sup, _ := store.Supplier(wholesale.ID)
	assert.Equal(t, 2500.0, sup.Credit)
}

func TestApplyDryRun(t *testing.T) {
	store := newStore(t)
	john, err := store.AddCustomer("John", "123456789")
	require.NoError(t, err)
	before := store.Snapshot()

	report := Apply(store, []model.StatementEntry{entry("1", "John", 75)}, true)
	require.Len(t, report.Matched, 1)
	assert.Equal(t, john.ID, report.Matched[0].Target.ID)
	assert.Equal(t, before, store.Snapshot())
}

func TestCandidatesAndSettle(t *testing.T) {
	store := newStore(t)
	a, err := store.AddCustomer("Sam", "111111111")
	require.NoError(t, err)
	b, err := store.AddCustomer("Ann", "222222222")
	require.NoError(t, err)
	c, err := store.AddCustomer("sam", "333333333")
	require.NoError(t, err)
	_, err = store.AddSupplier("Sam", "444444444", "")
	require.NoError(t, err)

	deposit := entry("1", "SAM", 40)
	got := Candidates(store, deposit)
	require.Len(t, got, 3)
	assert.Equal(t, []string{a.ID, c.ID, b.ID}, []string{got[0].ID, got[1].ID, got[2].ID})
	assert.Equal(t, "111111111", got[0].Mobile)

	assert.Len(t, Candidates(store, entry("2", "Sam", -5)), 1)

	target := ledger.PaymentTarget{ID: c.ID, Kind: Kind(deposit)}
	require.Equal(t, ledger.OK, Settle(store, deposit, target))
	updated, _ := store.Customer(c.ID)
	assert.Equal(t, -40.0, updated.Credit)
}
