package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRound4(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "0.1234001", want: "0.1234"},
		{in: "0.12345", want: "0.1235"},
		{in: "-0.12345", want: "-0.1235"},
		{in: "2.5", want: "2.5"},
		{in: "1.99999", want: "2"},
		{in: "0", want: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := Round4(decimal.RequireFromString(tt.in))
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s", got)
		})
	}
}

func TestRound4Idempotent(t *testing.T) {
	for _, s := range []string{"0.00005", "123.456789", "-7.77775", "1e-9", "99999.99995"} {
		once := Round4(decimal.RequireFromString(s))
		assert.True(t, once.Equal(Round4(once)), s)
	}
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "1.5000", FormatAmount(decimal.RequireFromString("1.5")))
	assert.Equal(t, "0.0000", FormatAmount(decimal.Zero))
	assert.Equal(t, "3.3000", FormatAmount(decimal.NewFromFloat(3.3)))
}
