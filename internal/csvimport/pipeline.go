package csvimport

import (
	"errors"
	"sort"

	"agency-ledger/internal/models"
)

// SkippedRow is a data line that produced no staged transaction.
type SkippedRow struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// Result is the outcome of staging one file.
type Result struct {
	Format   FormatID
	Encoding Encoding
	Rows     []models.StagedTransaction
	Skipped  []SkippedRow
	// Matched counts rows that hit an auto-match rule.
	Matched int
}

// Stage decodes, tokenizes, maps, and auto-matches a file. Bad lines are skipped
// and reported; only an undecodable file is an error. A nil matcher, or a format
// without auto-match, leaves mapped rows as they are.
//
// Stage is pure: the same bytes, format, and rules always give the same result.
func Stage(data []byte, format Format, enc Encoding, matcher *Matcher) (*Result, error) {
	if enc == "" {
		enc = format.Encoding
	}

	text, used, err := Decode(data, enc)
	if err != nil {
		return nil, err
	}

	records, malformed := Tokenize(text, format.Delimiter)

	res := &Result{
		Format:   format.ID,
		Encoding: used,
		Rows:     make([]models.StagedTransaction, 0, len(records)),
	}
	for _, line := range malformed {
		res.Skipped = append(res.Skipped, SkippedRow{Line: line, Reason: ErrMalformed.Error()})
	}

	for _, rec := range records {
		row, err := format.MapRecord(rec)
		if err != nil {
			res.Skipped = append(res.Skipped, SkippedRow{Line: rec.Line, Reason: skipReason(err)})
			continue
		}

		if format.AutoMatch {
			var rule *models.AutoMatchRule
			row, rule = matcher.Match(row)
			if rule != nil {
				res.Matched++
			}
		}

		res.Rows = append(res.Rows, row)
	}

	sort.SliceStable(res.Skipped, func(i, j int) bool {
		return res.Skipped[i].Line < res.Skipped[j].Line
	})

	return res, nil
}

func skipReason(err error) string {
	for _, known := range []error{ErrShortRow, ErrInvalidDate, ErrNoAmount} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return err.Error()
}
