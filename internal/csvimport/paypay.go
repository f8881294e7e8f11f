package csvimport

import (
	"strings"
	"time"

	"agency-ledger/internal/models"
)

const payPayMinFields = 15

// PayPay deposit export columns.
const (
	payPayColUserID      = 1
	payPayColApplicant   = 2
	payPayColPayee       = 6
	payPayColAmount      = 11
	payPayColDepositedAt = 12
)

// mapPayPayRow takes the category verbatim from the applicant name; no rule
// matching applies to this layout.
func mapPayPayRow(fields []string) (models.StagedTransaction, error) {
	depositedAt := fields[payPayColDepositedAt]

	return models.StagedTransaction{
		TransactionDate: payPayDate(depositedAt),
		TransactionType: models.TransactionTypeDeposit,
		Amount:          ParseAmount(fields[payPayColAmount]),
		PaymentMethod:   models.PaymentMethodPayPay,
		Category:        models.Category(fields[payPayColApplicant]),
		ItemName:        fields[payPayColPayee],
		DepositedAt:     depositedAt,
		UserIdentifier:  fields[payPayColUserID],
	}, nil
}

// payPayDate extracts YYYY-MM-DD from a deposit timestamp such as
// "2025/11/05 10:30:00". Unrecognised values are passed through unchanged.
func payPayDate(ts string) string {
	if len(ts) < len("2006-01-02") {
		return ts
	}
	date := strings.ReplaceAll(ts[:10], "/", "-")
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return ts
	}
	return date
}
