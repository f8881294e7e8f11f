package csvimport

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
)

// Encoding names a source text encoding.
type Encoding string

const (
	EncodingAuto     Encoding = "auto"
	EncodingUTF8     Encoding = "utf-8"
	EncodingShiftJIS Encoding = "shift_jis"
	EncodingEUCJP    Encoding = "euc-jp"
)

var ErrUnreadableFile = errors.New("failed to read file")

// ParseEncoding accepts the common spellings of the supported encodings.
func ParseEncoding(s string) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return EncodingAuto, nil
	case "utf-8", "utf8":
		return EncodingUTF8, nil
	case "shift_jis", "shift-jis", "sjis", "cp932", "windows-31j":
		return EncodingShiftJIS, nil
	case "euc-jp", "eucjp":
		return EncodingEUCJP, nil
	}
	return "", fmt.Errorf("unsupported encoding %q", s)
}

// Decode converts raw file bytes into text. With EncodingAuto, valid UTF-8 is taken
// as is; otherwise the legacy Japanese decoding yielding the most Japanese
// characters wins. The encoding actually used is returned.
func Decode(data []byte, enc Encoding) (string, Encoding, error) {
	if enc == EncodingAuto {
		enc = detectEncoding(data)
	}

	var text string
	switch enc {
	case EncodingUTF8:
		text = sanitizeUTF8(string(data))
	case EncodingShiftJIS:
		decoded, err := decodeWith(japanese.ShiftJIS, data)
		if err != nil {
			return "", enc, err
		}
		text = decoded
	case EncodingEUCJP:
		decoded, err := decodeWith(japanese.EUCJP, data)
		if err != nil {
			return "", enc, err
		}
		text = decoded
	default:
		return "", enc, fmt.Errorf("%w: unsupported encoding %q", ErrUnreadableFile, enc)
	}

	return strings.TrimPrefix(text, "\uFEFF"), enc, nil
}

func decodeWith(e encoding.Encoding, data []byte) (string, error) {
	out, err := e.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadableFile, err)
	}
	return string(out), nil
}

func detectEncoding(data []byte) Encoding {
	if utf8.Valid(data) {
		return EncodingUTF8
	}

	best, bestScore := EncodingUTF8, 0
	for _, candidate := range []struct {
		name Encoding
		enc  encoding.Encoding
	}{
		{EncodingShiftJIS, japanese.ShiftJIS},
		{EncodingEUCJP, japanese.EUCJP},
	} {
		decoded, err := candidate.enc.NewDecoder().Bytes(data)
		if err != nil {
			continue
		}
		if score := japaneseScore(string(decoded)); score > bestScore {
			best, bestScore = candidate.name, score
		}
	}
	return best
}

// japaneseScore counts kana and kanji, penalising replacement characters left
// behind by a wrong guess.
func japaneseScore(s string) int {
	score := 0
	for _, r := range s {
		switch {
		case r == utf8.RuneError:
			score -= 2
		case unicode.In(r, unicode.Hiragana, unicode.Katakana, unicode.Han):
			score++
		case r >= 0xFF61 && r <= 0xFF9F: // half-width katakana
			score++
		}
	}
	return score
}

// sanitizeUTF8 removes invalid UTF-8 sequences so they never reach PostgreSQL.
func sanitizeUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}

	var result strings.Builder
	result.Grow(len(s))

	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		if r == utf8.RuneError && size == 1 {
			s = s[1:]
			continue
		}
		result.WriteRune(r)
		s = s[size:]
	}

	return result.String()
}
