package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StagedTransaction is a mapped CSV row awaiting review. It only exists in memory
// until a batch commit persists it.
type StagedTransaction struct {
	TransactionDate string          `json:"transactionDate"`
	TransactionTime string          `json:"transactionTime,omitempty"`
	TransactionType TransactionType `json:"transactionType"`
	Amount          decimal.Decimal `json:"amount"`
	PaymentMethod   PaymentMethod   `json:"paymentMethod"`
	Category        Category        `json:"category"`
	AssignedUserID  *uuid.UUID      `json:"assignedUserId,omitempty"`
	ItemName        string          `json:"itemName"`
	Memo            string          `json:"memo,omitempty"`

	// Payment-processor rows only.
	DepositedAt    string `json:"depositedAt,omitempty"`
	UserIdentifier string `json:"userIdentifier,omitempty"`
	ReceiptNumber  string `json:"receiptNumber,omitempty"`

	// SourceLine is the 1-based line number in the decoded file.
	SourceLine int `json:"sourceLine,omitempty"`
}

// Clone returns a copy that shares no pointers with s.
func (s StagedTransaction) Clone() StagedTransaction {
	if s.AssignedUserID != nil {
		id := *s.AssignedUserID
		s.AssignedUserID = &id
	}
	return s
}

// CloneStaged deep-copies a staged list.
func CloneStaged(rows []StagedTransaction) []StagedTransaction {
	if rows == nil {
		return nil
	}
	out := make([]StagedTransaction, len(rows))
	for i, r := range rows {
		out[i] = r.Clone()
	}
	return out
}
