package csvimport

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"agency-ledger/internal/models"
)

const bankMinFields = 12

// Bank export columns.
const (
	bankColYear        = 0
	bankColMonth       = 1
	bankColDay         = 2
	bankColHour        = 3
	bankColMinute      = 4
	bankColSecond      = 5
	bankColDescription = 7
	bankColWithdrawal  = 8
	bankColDeposit     = 9
	bankColMemo        = 11
)

const noDescription = "(no description)"

// Description markers, checked in order; the first hit decides the payment method.
var paymentMarkers = []struct {
	method  models.PaymentMethod
	markers []string
}{
	{models.PaymentMethodPayPay, []string{"PayPay", "ﾍﾟｲﾍﾟｲ", "ペイペイ"}},
	{models.PaymentMethodPayPal, []string{"Stripe", "ｽﾄﾗｲﾌﾟ", "PayPal"}},
	{models.PaymentMethodCard, []string{"Vデビット", "Vﾃﾞﾋﾞｯﾄ"}},
}

func mapBankRow(fields []string) (models.StagedTransaction, error) {
	date, err := bankDate(fields[bankColYear], fields[bankColMonth], fields[bankColDay])
	if err != nil {
		return models.StagedTransaction{}, err
	}

	row := models.StagedTransaction{
		TransactionDate: date,
		TransactionTime: bankTime(fields[bankColHour], fields[bankColMinute], fields[bankColSecond]),
		Category:        models.CategoryUnspecified,
		ItemName:        fields[bankColDescription],
		Memo:            fields[bankColMemo],
		PaymentMethod:   paymentMethodFor(fields[bankColDescription]),
	}
	if row.ItemName == "" {
		row.ItemName = noDescription
	}

	deposit := ParseAmount(fields[bankColDeposit])
	withdrawal := ParseAmount(fields[bankColWithdrawal])
	switch {
	case deposit.IsPositive():
		row.TransactionType = models.TransactionTypeDeposit
		row.Amount = deposit
	case withdrawal.IsPositive():
		row.TransactionType = models.TransactionTypeWithdrawal
		row.Amount = withdrawal
	default:
		return models.StagedTransaction{}, ErrNoAmount
	}

	return row, nil
}

func bankDate(year, month, day string) (string, error) {
	y, errY := strconv.Atoi(year)
	m, errM := strconv.Atoi(month)
	d, errD := strconv.Atoi(day)
	if errY != nil || errM != nil || errD != nil {
		return "", fmt.Errorf("%w: %q-%q-%q", ErrInvalidDate, year, month, day)
	}

	date := fmt.Sprintf("%04d-%02d-%02d", y, m, d)
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidDate, date)
	}
	return date, nil
}

// bankTime returns HH:MM:SS, or "" when any part is missing or out of range.
func bankTime(hour, minute, second string) string {
	h, errH := strconv.Atoi(hour)
	m, errM := strconv.Atoi(minute)
	s, errS := strconv.Atoi(second)
	if errH != nil || errM != nil || errS != nil {
		return ""
	}
	if h < 0 || h > 23 || m < 0 || m > 59 || s < 0 || s > 59 {
		return ""
	}
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

func paymentMethodFor(description string) models.PaymentMethod {
	for _, pm := range paymentMarkers {
		for _, marker := range pm.markers {
			if strings.Contains(description, marker) {
				return pm.method
			}
		}
	}
	if strings.Contains(strings.ToUpper(description), "CARD") {
		return models.PaymentMethodCard
	}
	return models.PaymentMethodBankTransfer
}
