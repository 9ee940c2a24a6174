package models

// PaymentMethod is how the fee was paid.
type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "Cash"
	PaymentCheque PaymentMethod = "Cheque"
	PaymentDD     PaymentMethod = "DD"
)

// Valid reports whether m is one of the known payment methods.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCheque, PaymentDD:
		return true
	}
	return false
}

// Denominations is the fixed, descending set of currency notes a receipt
// reconciles cash against. The denominations table always has one row per entry.
var Denominations = []int{2000, 500, 200, 100, 50, 20, 10}

// MaxFeeRows is the number of fee items the fees table has room for.
// Items past this are not printed.
const MaxFeeRows = 5

// ReceiptRecord is one submitted fee-receipt form.
// Field names follow the JSON the form posts.
type ReceiptRecord struct {
	StudentName   string              `json:"studentName"`
	Number        string              `json:"number"`
	Term          string              `json:"term"`
	ClassName     string              `json:"className"`
	Date          string              `json:"date"`
	PaymentMethod PaymentMethod       `json:"paymentMethod"`
	Drawn         string              `json:"drawn"`
	Branch        string              `json:"branch"`
	Fees          []FeeItem           `json:"fees"`
	TotalAmount   string              `json:"totalAmount"`
	AmountInWords string              `json:"amountInWords"`
	Denominations []DenominationCount `json:"denominations"`
}

// FeeItem is one line of the fee breakdown. Amount is a decimal string.
type FeeItem struct {
	Label  string `json:"label"`
	Amount string `json:"amount"`
}

// DenominationCount records how many notes of one face value were paid.
// Count and Amount are kept as entered; Amount is Denomination × Count.
type DenominationCount struct {
	Denomination int    `json:"denomination"`
	Count        string `json:"count"`
	Amount       string `json:"amount"`
}

// VisibleFees returns the fee items that fit in the fees table.
func (r *ReceiptRecord) VisibleFees() []FeeItem {
	if len(r.Fees) > MaxFeeRows {
		return r.Fees[:MaxFeeRows]
	}
	return r.Fees
}

// Denomination returns the first entry for the given face value.
func (r *ReceiptRecord) Denomination(value int) (DenominationCount, bool) {
	for _, d := range r.Denominations {
		if d.Denomination == value {
			return d, true
		}
	}
	return DenominationCount{Denomination: value}, false
}
