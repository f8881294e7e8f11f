package csvimport

import (
	"strings"

	"github.com/shopspring/decimal"
)

var amountNoise = strings.NewReplacer(",", "", "，", "", "¥", "", "￥", "", "円", "", " ", "", "　", "")

// ParseAmount reads a money cell. Thousands separators and yen marks are ignored;
// blank or unreadable cells are zero.
func ParseAmount(s string) decimal.Decimal {
	cleaned := amountNoise.Replace(strings.TrimSpace(s))
	if cleaned == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	return d
}
