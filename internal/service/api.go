package service

import (
	"net/url"

	"github.com/mmynk/feereceipt/internal/models"
)

const (
	AuthServiceName    = "feereceipt.v1.AuthService"
	ReceiptServiceName = "feereceipt.v1.ReceiptService"
)

const (
	AuthServiceRegisterProcedure           = "/" + AuthServiceName + "/Register"
	AuthServiceLoginProcedure              = "/" + AuthServiceName + "/Login"
	ReceiptServiceGenerateReceiptProcedure = "/" + ReceiptServiceName + "/GenerateReceipt"
	ReceiptServiceListReceiptsProcedure    = "/" + ReceiptServiceName + "/ListReceipts"
)

// DownloadPath is the route prefix stored PDFs are served under.
const DownloadPath = "/download/"

// downloadURL is the escaped download link for a stored file.
func downloadURL(filename string) string {
	return DownloadPath + url.PathEscape(filename)
}

type User struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	CreatedAt int64  `json:"createdAt"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type GenerateReceiptRequest struct {
	Receipt *models.ReceiptRecord `json:"receipt"`
}

type GenerateReceiptResponse struct {
	ID          string `json:"id"`
	Filename    string `json:"filename"`
	DownloadURL string `json:"downloadUrl"`
	// AmountInWords is the text printed on the receipt, filled in when the
	// request left it blank.
	AmountInWords string `json:"amountInWords"`
	// OmittedFees counts fee items that did not fit on the printed receipt.
	OmittedFees int `json:"omittedFees,omitempty"`
}

type ListReceiptsRequest struct {
	StudentName string `json:"studentName"`
}

type ReceiptSummary struct {
	ID          string `json:"id"`
	StudentName string `json:"studentName"`
	Filename    string `json:"filename"`
	Date        string `json:"date"`
	TotalAmount string `json:"totalAmount"`
	CreatedAt   int64  `json:"createdAt"`
	DownloadURL string `json:"downloadUrl"`
}

type ListReceiptsResponse struct {
	Receipts []*ReceiptSummary `json:"receipts"`
}

func toUser(u *models.User) *User {
	return &User{ID: u.ID, Username: u.Username, CreatedAt: u.CreatedAt}
}

func toSummary(m *models.ReceiptMeta) *ReceiptSummary {
	return &ReceiptSummary{
		ID:          m.ID,
		StudentName: m.StudentName,
		Filename:    m.Filename,
		Date:        m.Date,
		TotalAmount: m.TotalAmount,
		CreatedAt:   m.CreatedAt,
		DownloadURL: downloadURL(m.Filename),
	}
}
