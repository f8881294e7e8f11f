package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PayPaySale struct {
	ID            uuid.UUID       `db:"id"`
	TenantID      uuid.UUID       `db:"tenant_id"`
	BatchID       *uuid.UUID      `db:"batch_id"`
	SaleDate      string          `db:"sale_date"`
	Category      string          `db:"category"`
	UserID        string          `db:"user_id"`
	Name          string          `db:"name"`
	ReceiptNumber string          `db:"receipt_number"`
	Amount        decimal.Decimal `db:"amount"`
	Memo          string          `db:"memo"`
	CreatedAt     time.Time       `db:"created_at"`
}
