package storage

import (
	"context"
	"testing"

	"github.com/Veraticus/creditbook/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestValidateArguments(t *testing.T) {
	canceled, cancel := context.WithCancel(context.Background())
	cancel()

	//nolint:staticcheck // nil context is the case under test
	assert.ErrorIs(t, validateContext(nil), ErrNilContext)
	assert.NoError(t, validateContext(canceled), "cancellation is reported by the query, not here")

	assert.NoError(t, validateString("creditApp_users", "key"))
	for _, blank := range []string{"", " \t\n"} {
		err := validateString(blank, "key")
		assert.ErrorIs(t, err, ErrEmptyString)
		assert.Contains(t, err.Error(), "key")
	}
}

func TestValidateSnapshot(t *testing.T) {
	tests := []struct {
		wantErr error
		snap    model.Snapshot
		name    string
	}{
		{
			name: "empty ledger",
		},
		{
			name: "same id in different collections",
			snap: model.Snapshot{
				Customers: []model.Customer{{ID: "a"}},
				Suppliers: []model.Supplier{{ID: "a"}},
			},
		},
		{
			name:    "blank id",
			snap:    model.Snapshot{Customers: []model.Customer{{ID: " "}}},
			wantErr: ErrInvalidSnapshot,
		},
		{
			name:    "duplicate id",
			snap:    model.Snapshot{Suppliers: []model.Supplier{{ID: "s1"}, {ID: "s1"}}},
			wantErr: ErrDuplicateID,
		},
		{
			name:    "unknown investment type",
			snap:    model.Snapshot{Investments: []model.Investment{{ID: "i1", Type: "lent"}}},
			wantErr: ErrInvalidSnapshot,
		},
		{
			name:    "unknown check type",
			snap:    model.Snapshot{Checks: []model.Check{{ID: "c1", Type: "outgoing"}}},
			wantErr: ErrInvalidSnapshot,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateSnapshot(tt.snap)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
