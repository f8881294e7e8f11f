package dto

import (
	"agency-ledger/internal/models"

	"github.com/shopspring/decimal"
)

type SkippedRowResponse struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// PreviewRow is a staged row together with its position for edits.
type PreviewRow struct {
	Index int `json:"index"`
	models.StagedTransaction
}

type ImportPreviewResponse struct {
	SessionID        string               `json:"session_id"`
	Format           string               `json:"format"`
	FileName         string               `json:"file_name"`
	State            string               `json:"state"`
	Total            int                  `json:"total"`
	Skipped          int                  `json:"skipped"`
	SkippedRows      []SkippedRowResponse `json:"skipped_rows"`
	RulesApplied     int                  `json:"rules_applied"`
	RulesUnavailable bool                 `json:"rules_unavailable"`
	Offset           int                  `json:"offset"`
	Limit            int                  `json:"limit"`
	Rows             []PreviewRow         `json:"rows"`
	CreatedAt        string               `json:"created_at"`
}

// EditRowRequest patches one staged row; omitted fields stay as they are.
type EditRowRequest struct {
	TransactionDate *string          `json:"transactionDate"`
	TransactionType *string          `json:"transactionType"`
	Amount          *decimal.Decimal `json:"amount"`
	PaymentMethod   *string          `json:"paymentMethod"`
	Category        *string          `json:"category"`
	AssignedUserID  *string          `json:"assignedUserId"`
	ClearAssignee   bool             `json:"clearAssignee"`
	ItemName        *string          `json:"itemName"`
	Memo            *string          `json:"memo"`
}

type ConfirmImportResponse struct {
	Success  bool                        `json:"success"`
	Inserted int                         `json:"inserted"`
	Summary  *TransactionSummaryResponse `json:"summary,omitempty"`
}

type ImportBatchResponse struct {
	ID        string  `json:"id"`
	UserID    *string `json:"user_id"`
	Format    string  `json:"format"`
	FileName  string  `json:"file_name"`
	RowCount  int     `json:"row_count"`
	SkipCount int     `json:"skip_count"`
	CreatedAt string  `json:"created_at"`
}
