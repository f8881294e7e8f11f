package dto

import (
	"agency-ledger/internal/models"

	"github.com/shopspring/decimal"
)

type BulkTransactionsRequest struct {
	Transactions []models.StagedTransaction `json:"transactions"`
}

type PayPaySaleRequest struct {
	Date          string          `json:"date"`
	Category      string          `json:"category"`
	UserID        string          `json:"user_id"`
	Name          string          `json:"name"`
	ReceiptNumber string          `json:"receipt_number"`
	Amount        decimal.Decimal `json:"amount"`
	Memo          string          `json:"memo,omitempty"`
}

type BulkPayPayRequest struct {
	Sales []PayPaySaleRequest `json:"sales"`
}

// BulkResponse answers both bulk endpoints.
type BulkResponse struct {
	Success  bool   `json:"success"`
	Inserted int    `json:"inserted"`
	Message  string `json:"message,omitempty"`
}

type TransactionResponse struct {
	ID              string  `json:"id"`
	TransactionDate string  `json:"transaction_date"`
	TransactionTime string  `json:"transaction_time,omitempty"`
	TransactionType string  `json:"transaction_type"`
	Category        string  `json:"category"`
	PaymentMethod   string  `json:"payment_method"`
	ItemName        string  `json:"item_name"`
	Amount          string  `json:"amount"`
	Memo            string  `json:"memo"`
	AssignedUserID  *string `json:"assigned_user_id"`
	CreatedAt       string  `json:"created_at"`
}

type TransactionSummaryResponse struct {
	Count           int64  `json:"count"`
	DepositTotal    string `json:"deposit_total"`
	WithdrawalTotal string `json:"withdrawal_total"`
	Net             string `json:"net"`
}

type PayPaySaleResponse struct {
	ID            string `json:"id"`
	Date          string `json:"date"`
	Category      string `json:"category"`
	UserID        string `json:"user_id"`
	Name          string `json:"name"`
	ReceiptNumber string `json:"receipt_number"`
	Amount        string `json:"amount"`
	Memo          string `json:"memo"`
	CreatedAt     string `json:"created_at"`
}

type UserSummaryResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// NewPayPaySaleRequest converts a staged payment-processor row to the sales wire shape.
func NewPayPaySaleRequest(row models.StagedTransaction) PayPaySaleRequest {
	return PayPaySaleRequest{
		Date:          row.TransactionDate,
		Category:      string(row.Category),
		UserID:        row.UserIdentifier,
		Name:          row.ItemName,
		ReceiptNumber: row.ReceiptNumber,
		Amount:        row.Amount,
		Memo:          row.Memo,
	}
}
