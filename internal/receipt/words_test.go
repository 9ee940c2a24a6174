package receipt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmountInWords(t *testing.T) {
	tests := []struct {
		amount string
		want   string
	}{
		{"5000", "five thousand only"},
		{"0", "zero only"},
		{"7", "seven only"},
		{"40", "forty only"},
		{"101", "one hundred and one only"},
		{"12345", "twelve thousand three hundred and forty five only"},
		{"40000", "forty thousand only"},
		{"100000", "one lakh only"},
		{"12500000", "one crore twenty five lakh only"},
		{"999999999", "ninety nine crore ninety nine lakh ninety nine thousand nine hundred and ninety nine only"},
		{" 2500 ", "two thousand five hundred only"},
		{"250.50", "two hundred and fifty and fifty paise only"},
		{"0.75", "seventy five paise only"},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			got, err := AmountInWords(tt.amount)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAmountInWords_Errors(t *testing.T) {
	for _, amount := range []string{"-1", "1000000000"} {
		_, err := AmountInWords(amount)
		assert.ErrorIs(t, err, ErrAmountOutOfRange, amount)
	}
	for _, amount := range []string{"", "abc", "12,000"} {
		_, err := AmountInWords(amount)
		assert.Error(t, err, amount)
	}
}
