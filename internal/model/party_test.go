package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidMobile(t *testing.T) {
	tests := []struct {
		mobile string
		want   bool
	}{
		{"123456789", true},
		{"000000000", true},
		{"12345678", false},
		{"1234567890", false},
		{"12345678a", false},
		{"", false},
		{" 12345678", false},
		{"１２３４５６７８９", false},
	}

	for _, tt := range tests {
		t.Run(tt.mobile, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidMobile(tt.mobile))
		})
	}
}
