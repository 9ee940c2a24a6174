// Package models defines the core domain models for the fee receipt service.
//
// # Models
//
//   - ReceiptRecord: the submitted fee-receipt form, rendered into a PDF
//   - FeeItem: one line of the fee breakdown
//   - DenominationCount: cash notes of one face value handed over
//   - ReceiptMeta: index entry for a stored receipt, used by search
//   - User: a staff account allowed to generate and download receipts
//
// # Design Principles
//
// 1. **Strings for form data**: amounts and counts stay as the decimal strings
// the form submitted; parsing happens in the calculator, never in rendering
// 2. **Blank is valid**: every receipt field may be empty and still renders
// 3. **No pointers between models**: relationships use ID strings
package models
