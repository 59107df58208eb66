package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		name     string
		currency string
		want     string
		amount   float64
	}{
		{"zero", "LKR", "LKR 0.00", 0},
		{"small", "LKR", "LKR 12.50", 12.5},
		{"thousands", "LKR", "LKR 1,234.50", 1234.5},
		{"millions", "USD", "USD 1,234,567.89", 1234567.89},
		{"negative", "LKR", "LKR -70.00", -70},
		{"negative thousands", "LKR", "LKR -2,500.00", -2500},
		{"rounds to zero", "LKR", "LKR 0.00", -0.001},
		{"default currency", "", "LKR 5.00", 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatMoney(tt.currency, tt.amount))
		})
	}
}

func TestRenderTable(t *testing.T) {
	out := RenderTable([]string{"Name", "Credit"}, [][]string{
		{"John", "LKR -50.00"},
		{"Mary", "LKR 20.00"},
	})
	for _, want := range []string{"Name", "Credit", "John", "LKR -50.00", "Mary"} {
		assert.Contains(t, out, want)
	}
	assert.Less(t, strings.Index(out, "John"), strings.Index(out, "Mary"))

	assert.Contains(t, RenderTable([]string{"Name"}, nil), "(none)")
}

func TestFormatKeyValues(t *testing.T) {
	out := FormatKeyValues([][2]string{{"Shop", "Perera Stores"}, {"Contact", "N/A"}})
	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Perera Stores")
	assert.Contains(t, lines[1], "N/A")
}

func TestFormatHelpersKeepMessage(t *testing.T) {
	assert.Contains(t, FormatSuccess("saved"), "saved")
	assert.Contains(t, FormatError("failed"), "failed")
	assert.Contains(t, FormatWarning("careful"), "careful")
	assert.Contains(t, FormatInfo("note"), "note")
	assert.Contains(t, FormatTitle("Summary"), "Summary")
	assert.Contains(t, RenderBox("Receipt", "Amount Paid"), "Amount Paid")
}
