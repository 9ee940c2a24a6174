package receipt

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrAmountOutOfRange is returned for amounts that cannot be spelled out:
// negative values, or values of a hundred crore and above.
var ErrAmountOutOfRange = errors.New("amount out of range for words")

var (
	ones = []string{"", "one", "two", "three", "four", "five", "six", "seven", "eight", "nine", "ten",
		"eleven", "twelve", "thirteen", "fourteen", "fifteen", "sixteen", "seventeen", "eighteen", "nineteen"}
	tens = []string{"", "", "twenty", "thirty", "forty", "fifty", "sixty", "seventy", "eighty", "ninety"}

	maxWordsAmount = decimal.NewFromInt(1_000_000_000)
)

// AmountInWords spells out a rupee amount using the Indian numbering system
// (crore, lakh, thousand, hundred), e.g. "12500" becomes
// "twelve thousand five hundred only". Paise are appended when present.
func AmountInWords(amount string) (string, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return "", fmt.Errorf("parse amount %q: %w", amount, err)
	}
	if d.IsNegative() || d.GreaterThanOrEqual(maxWordsAmount) {
		return "", fmt.Errorf("%w: %s", ErrAmountOutOfRange, amount)
	}

	d = d.Round(2)
	rupees := d.IntPart()
	paise := d.Sub(decimal.NewFromInt(rupees)).Shift(2).IntPart()

	words := spellRupees(rupees)
	if paise > 0 {
		if rupees == 0 {
			words = twoDigits(paise) + " paise"
		} else {
			words += " and " + twoDigits(paise) + " paise"
		}
	}
	return words + " only", nil
}

func spellRupees(n int64) string {
	if n == 0 {
		return "zero"
	}
	var parts []string
	for _, group := range []struct {
		value int64
		name  string
	}{
		{n / 10_000_000, "crore"},
		{n / 100_000 % 100, "lakh"},
		{n / 1000 % 100, "thousand"},
		{n / 100 % 10, "hundred"},
	} {
		if group.value != 0 {
			parts = append(parts, twoDigits(group.value)+" "+group.name)
		}
	}
	if rest := n % 100; rest != 0 {
		if len(parts) > 0 {
			parts = append(parts, "and")
		}
		parts = append(parts, twoDigits(rest))
	}
	return strings.Join(parts, " ")
}

// twoDigits spells 1..99.
func twoDigits(n int64) string {
	if n < 20 {
		return ones[n]
	}
	if n%10 == 0 {
		return tens[n/10]
	}
	return tens[n/10] + " " + ones[n%10]
}
