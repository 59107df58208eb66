package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckInputValidate(t *testing.T) {
	valid := CheckInput{
		Number:  "000123",
		Bank:    "BOC",
		Name:    "Silva Traders",
		Contact: "0771234567",
		Date:    "2026-11-01",
		Type:    CheckComing,
		Amount:  2500,
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		mutate  func(*CheckInput)
		name    string
		wantErr string
	}{
		{name: "missing number", mutate: func(c *CheckInput) { c.Number = "" }, wantErr: "number is required"},
		{name: "blank bank", mutate: func(c *CheckInput) { c.Bank = "   " }, wantErr: "bank is required"},
		{name: "missing date", mutate: func(c *CheckInput) { c.Date = "" }, wantErr: "date is required"},
		{name: "zero amount", mutate: func(c *CheckInput) { c.Amount = 0 }, wantErr: "amount must be positive"},
		{name: "negative amount", mutate: func(c *CheckInput) { c.Amount = -10 }, wantErr: "amount must be positive"},
		{name: "bad type", mutate: func(c *CheckInput) { c.Type = "sideways" }, wantErr: "unknown check type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			err := in.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCheckStatusTerminal(t *testing.T) {
	assert.False(t, CheckPending.Terminal())
	assert.True(t, CheckCleared.Terminal())
	assert.True(t, CheckBounced.Terminal())
}

func TestParseInvestmentType(t *testing.T) {
	typ, err := ParseInvestmentType("given")
	require.NoError(t, err)
	assert.Equal(t, InvestmentGiven, typ)

	_, err = ParseInvestmentType("GIVEN")
	assert.Error(t, err)
}
