package calculator

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/feereceipt/internal/models"
)

var (
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrUnknownDenomination  = errors.New("unknown denomination")
	ErrFeeTotalMismatch     = errors.New("fee amounts do not add up to the total")
	ErrDenominationMismatch = errors.New("denominations do not add up to the total")
)

// Totals holds the three independently entered sums of a receipt.
type Totals struct {
	Fees          decimal.Decimal
	Total         decimal.Decimal
	Denominations decimal.Decimal
}

// ParseAmount parses a non-negative decimal string. Blank counts as zero.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: %q is negative", ErrInvalidAmount, s)
	}
	return d, nil
}

func parseCount(s string) (decimal.Decimal, error) {
	d, err := ParseAmount(s)
	if err != nil {
		return decimal.Zero, err
	}
	if !d.IsInteger() {
		return decimal.Zero, fmt.Errorf("%w: count %q is not a whole number", ErrInvalidAmount, s)
	}
	return d, nil
}

// Reconcile sums the fee amounts and the cash breakdown of rec and checks
// that both equal the stated total.
//
// Every fee is counted, including rows beyond what the printed table can hold.
// Each face value may appear once, and a line with an amount must carry
// exactly denomination × count.
func Reconcile(rec *models.ReceiptRecord) (*Totals, error) {
	if rec == nil {
		return &Totals{}, nil
	}

	totals := &Totals{}
	var err error
	if totals.Total, err = ParseAmount(rec.TotalAmount); err != nil {
		return nil, fmt.Errorf("total: %w", err)
	}

	for i, fee := range rec.Fees {
		amount, err := ParseAmount(fee.Amount)
		if err != nil {
			return nil, fmt.Errorf("fee %d (%s): %w", i+1, fee.Label, err)
		}
		totals.Fees = totals.Fees.Add(amount)
	}

	seen := make(map[int]bool, len(rec.Denominations))
	for _, d := range rec.Denominations {
		if seen[d.Denomination] {
			return nil, fmt.Errorf("%w: %d listed more than once", ErrDenominationMismatch, d.Denomination)
		}
		seen[d.Denomination] = true
		line, err := lineAmount(d)
		if err != nil {
			return nil, err
		}
		totals.Denominations = totals.Denominations.Add(line)
	}

	if !totals.Fees.Equal(totals.Total) {
		return totals, fmt.Errorf("%w: fees %s, total %s", ErrFeeTotalMismatch, totals.Fees, totals.Total)
	}
	if !totals.Denominations.Equal(totals.Total) {
		return totals, fmt.Errorf("%w: denominations %s, total %s", ErrDenominationMismatch, totals.Denominations, totals.Total)
	}
	return totals, nil
}

// FillDenominationAmounts sets the amount of every counted denomination
// line that was left blank.
func FillDenominationAmounts(rec *models.ReceiptRecord) error {
	if rec == nil {
		return nil
	}
	for i := range rec.Denominations {
		d := &rec.Denominations[i]
		if strings.TrimSpace(d.Amount) != "" || strings.TrimSpace(d.Count) == "" {
			continue
		}
		if !slices.Contains(models.Denominations, d.Denomination) {
			return fmt.Errorf("%w: %d", ErrUnknownDenomination, d.Denomination)
		}
		count, err := parseCount(d.Count)
		if err != nil {
			return fmt.Errorf("denomination %d: %w", d.Denomination, err)
		}
		d.Amount = count.Mul(decimal.NewFromInt(int64(d.Denomination))).String()
	}
	return nil
}

func lineAmount(d models.DenominationCount) (decimal.Decimal, error) {
	if !slices.Contains(models.Denominations, d.Denomination) {
		return decimal.Zero, fmt.Errorf("%w: %d", ErrUnknownDenomination, d.Denomination)
	}
	count, err := parseCount(d.Count)
	if err != nil {
		return decimal.Zero, fmt.Errorf("denomination %d: %w", d.Denomination, err)
	}
	want := count.Mul(decimal.NewFromInt(int64(d.Denomination)))

	if strings.TrimSpace(d.Amount) == "" {
		return want, nil
	}
	got, err := ParseAmount(d.Amount)
	if err != nil {
		return decimal.Zero, fmt.Errorf("denomination %d: %w", d.Denomination, err)
	}
	if !got.Equal(want) {
		return decimal.Zero, fmt.Errorf("%w: %d x %s is %s, not %s", ErrDenominationMismatch, d.Denomination, count, want, got)
	}
	return want, nil
}
