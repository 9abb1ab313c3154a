package utils_test

import (
	"testing"

	"github.com/SscSPs/treasury_backoffice/internal/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "0,00"},
		{"8500", "8 500,00"},
		{"23500", "23 500,00"},
		{"1234567.891", "1 234 567,89"},
		{"-1234.5", "-1 234,50"},
		{"999", "999,00"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, utils.FormatAmount(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestFormatWithPrecision_NoDecimals(t *testing.T) {
	assert.Equal(t, "15 000", utils.FormatWithPrecision(decimal.NewFromInt(15000), 0))
}
