package csvimport

import (
	"errors"
	"fmt"
	"strings"

	"agency-ledger/internal/models"
)

// FormatID identifies a CSV export layout.
type FormatID string

const (
	FormatBank   FormatID = "bank"
	FormatPayPay FormatID = "paypay"
)

// Reasons a data line produces no staged transaction.
var (
	ErrShortRow    = errors.New("too few fields")
	ErrInvalidDate = errors.New("invalid date")
	ErrNoAmount    = errors.New("no positive amount")
	ErrMalformed   = errors.New("malformed line")
)

// Format describes one source layout: how to decode it, how to split it, and how
// each record becomes a staged transaction.
type Format struct {
	ID        FormatID
	Encoding  Encoding
	Delimiter rune
	MinFields int
	// AutoMatch is false for layouts whose category comes straight from the file.
	AutoMatch bool
	mapRow    func(fields []string) (models.StagedTransaction, error)
}

// MapRecord converts one record, enforcing the minimum field count first.
func (f Format) MapRecord(rec Record) (models.StagedTransaction, error) {
	if len(rec.Fields) < f.MinFields {
		return models.StagedTransaction{}, fmt.Errorf("%w: got %d, want at least %d", ErrShortRow, len(rec.Fields), f.MinFields)
	}
	row, err := f.mapRow(rec.Fields)
	if err != nil {
		return models.StagedTransaction{}, err
	}
	row.SourceLine = rec.Line
	return row, nil
}

// BankFormat is the bank statement export: Shift-JIS, positional columns.
// bankEncoding overrides the default decoding; EncodingAuto guesses from the bytes.
func BankFormat(bankEncoding Encoding) Format {
	if bankEncoding == "" {
		bankEncoding = EncodingShiftJIS
	}
	return Format{
		ID:        FormatBank,
		Encoding:  bankEncoding,
		Delimiter: ',',
		MinFields: bankMinFields,
		AutoMatch: true,
		mapRow:    mapBankRow,
	}
}

// PayPayFormat is the payment processor's deposit export.
func PayPayFormat() Format {
	return Format{
		ID:        FormatPayPay,
		Encoding:  EncodingUTF8,
		Delimiter: ',',
		MinFields: payPayMinFields,
		AutoMatch: false,
		mapRow:    mapPayPayRow,
	}
}

// LookupFormat resolves a format name as sent by clients.
func LookupFormat(name string, bankEncoding Encoding) (Format, error) {
	switch FormatID(strings.ToLower(strings.TrimSpace(name))) {
	case FormatBank:
		return BankFormat(bankEncoding), nil
	case FormatPayPay:
		return PayPayFormat(), nil
	}
	return Format{}, fmt.Errorf("unknown import format %q", name)
}
