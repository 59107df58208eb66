package ledger

import (
	"testing"

	"github.com/Veraticus/creditbook/internal/common"
	"github.com/Veraticus/creditbook/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddInvestment(t *testing.T) {
	s := newTestStore(t)

	inv, err := s.AddInvestment("Kamal", "771234567", "5000", model.InvestmentGiven)
	require.NoError(t, err)
	assert.Equal(t, 5000.0, inv.Amount)
	assert.Equal(t, fixedNow, inv.Date)
	assert.Equal(t, model.InvestmentGiven, inv.Type)

	for _, amount := range []string{"0", "-10", "abc", ""} {
		_, err := s.AddInvestment("Kamal", "", amount, model.InvestmentTaken)
		require.ErrorIs(t, err, common.ErrInvalidAmount, amount)
	}

	_, err = s.AddInvestment("Kamal", "", "10", "loaned")
	require.ErrorIs(t, err, common.ErrInvalidInvestmentType)

	assert.Len(t, s.Investments(""), 1)
}

func TestProcessInvestmentPayment(t *testing.T) {
	s := newTestStore(t)
	inv, err := s.AddInvestment("Kamal", "", "100", model.InvestmentTaken)
	require.NoError(t, err)

	assert.Equal(t, OK, s.ProcessInvestmentPayment(inv.ID, "60"))
	assert.Equal(t, InvalidInput, s.ProcessInvestmentPayment(inv.ID, "-60"))
	assert.Equal(t, NotFound, s.ProcessInvestmentPayment("missing", "60"))

	// Overpaying is allowed and leaves a negative balance.
	assert.Equal(t, OK, s.ProcessInvestmentPayment(inv.ID, "60"))
	got, _ := s.Investment(inv.ID)
	assert.Equal(t, -20.0, got.Amount)
}

func TestInvestmentTotals(t *testing.T) {
	s := newTestStore(t)
	_, err := s.AddInvestment("A", "", "100", model.InvestmentGiven)
	require.NoError(t, err)
	_, err = s.AddInvestment("B", "", "250", model.InvestmentGiven)
	require.NoError(t, err)
	_, err = s.AddInvestment("C", "", "75", model.InvestmentTaken)
	require.NoError(t, err)

	assert.Equal(t, 350.0, s.TotalInvestment(model.InvestmentGiven))
	assert.Equal(t, 75.0, s.TotalInvestment(model.InvestmentTaken))
	assert.Len(t, s.Investments(model.InvestmentGiven), 2)
	assert.Len(t, s.Investments(model.InvestmentTaken), 1)

	totals := s.Totals()
	assert.Equal(t, 350.0, totals.InvestmentGiven)
	assert.Equal(t, 75.0, totals.InvestmentTaken)
}
