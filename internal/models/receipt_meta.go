package models

// ReceiptMeta is the index entry kept for each stored receipt PDF.
// Search runs over this, never over the PDFs themselves.
type ReceiptMeta struct {
	// ID is the unique identifier for the entry (UUID format).
	ID string

	// StudentName is copied from the rendered record for search.
	StudentName string

	// Filename is the stored PDF's name inside the PDF directory.
	Filename string

	// Date is the receipt date as entered on the form.
	Date string

	// TotalAmount is the declared total as entered on the form.
	TotalAmount string

	// CreatedBy is the user ID who generated the receipt.
	CreatedBy string

	// CreatedAt is the Unix time in milliseconds when the receipt was generated.
	CreatedAt int64
}
