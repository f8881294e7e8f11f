package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeDeposit    TransactionType = "deposit"
	TransactionTypeWithdrawal TransactionType = "withdrawal"
)

func (t TransactionType) Valid() bool {
	return t == TransactionTypeDeposit || t == TransactionTypeWithdrawal
}

type Category string

const (
	CategoryUnspecified Category = "unspecified"
	CategorySelmaple    Category = "selmaple"
	CategoryCocomarke   Category = "cocomarke"
	CategoryOperating   Category = "operating"
	CategoryPayroll     Category = "payroll"
	CategoryRent        Category = "rent"
	CategoryTax         Category = "tax"
	CategoryOther       Category = "other"
)

var knownCategories = map[Category]bool{
	CategoryUnspecified: true,
	CategorySelmaple:    true,
	CategoryCocomarke:   true,
	CategoryOperating:   true,
	CategoryPayroll:     true,
	CategoryRent:        true,
	CategoryTax:         true,
	CategoryOther:       true,
}

// Known reports whether c is one of the ledger categories. PayPay sales use the
// applicant name as category and are not checked against this list.
func (c Category) Known() bool {
	return knownCategories[c]
}

type PaymentMethod string

const (
	PaymentMethodBankTransfer PaymentMethod = "bank-transfer"
	PaymentMethodCard         PaymentMethod = "card"
	PaymentMethodPayPay       PaymentMethod = "paypay"
	PaymentMethodPayPal       PaymentMethod = "paypal"
)

func (p PaymentMethod) Valid() bool {
	switch p {
	case PaymentMethodBankTransfer, PaymentMethodCard, PaymentMethodPayPay, PaymentMethodPayPal:
		return true
	}
	return false
}

// NormalizePaymentMethod folds legacy labels onto the current set.
// Unknown values are returned unchanged.
func NormalizePaymentMethod(p PaymentMethod) PaymentMethod {
	switch strings.ToLower(strings.TrimSpace(string(p))) {
	case "cash", "bank", "cash/bank", "bank transfer", "transfer":
		return PaymentMethodBankTransfer
	case "stripe", "paypal":
		return PaymentMethodPayPal
	case "":
		return PaymentMethodBankTransfer
	}
	return p
}

// Transaction is a persisted ledger row.
type Transaction struct {
	ID              uuid.UUID       `db:"id"`
	TenantID        uuid.UUID       `db:"tenant_id"`
	BatchID         *uuid.UUID      `db:"batch_id"`
	TransactionDate time.Time       `db:"transaction_date"`
	TransactionTime string          `db:"transaction_time"`
	TransactionType TransactionType `db:"transaction_type"`
	Category        Category        `db:"category"`
	PaymentMethod   PaymentMethod   `db:"payment_method"`
	ItemName        string          `db:"item_name"`
	Amount          decimal.Decimal `db:"amount"`
	Memo            string          `db:"memo"`
	AssignedUserID  *uuid.UUID      `db:"assigned_user_id"`
	CreatedAt       time.Time       `db:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at"`
}

// TransactionSummary aggregates a tenant's ledger for dashboards.
type TransactionSummary struct {
	Count           int64
	DepositTotal    decimal.Decimal
	WithdrawalTotal decimal.Decimal
}
