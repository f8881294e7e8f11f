package csvimport

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"
)

// Record is one tokenized data line.
type Record struct {
	Line   int
	Fields []string
}

// Tokenize splits decoded text into records. The text is cut into lines on '\n'
// first, so a quoted field never spans lines. Blank lines are dropped and the first
// remaining line is discarded as the header. Quoted fields may contain the
// delimiter; empty fields keep their position. Every field is trimmed.
//
// A line the reader cannot parse, such as one with an unclosed quote, is returned
// in malformed and the following lines are tokenized as usual.
func Tokenize(text string, delim rune) (records []Record, malformed []int) {
	headerSeen := false
	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if !headerSeen {
			headerSeen = true
			continue
		}

		fields, err := splitLine(line, delim)
		if err != nil {
			malformed = append(malformed, i+1)
			continue
		}
		if isBlank(fields) {
			continue
		}

		for j := range fields {
			fields[j] = strings.TrimSpace(fields[j])
		}
		records = append(records, Record{Line: i + 1, Fields: fields})
	}

	return records, malformed
}

func splitLine(line string, delim rune) ([]string, error) {
	r := csv.NewReader(strings.NewReader(line))
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	fields, err := r.Read()
	if err != nil {
		return nil, err
	}
	if _, err := r.Read(); !errors.Is(err, io.EOF) {
		return nil, errors.New("line continues past its record")
	}
	return fields, nil
}

func isBlank(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
