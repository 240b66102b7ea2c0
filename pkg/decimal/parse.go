package decimal

import (
	"strings"

	"github.com/shopspring/decimal"
)

var amountCleaner = strings.NewReplacer("€", "", "EUR", "", "eur", "", " ", "", "\u00a0", "")

// ParseAmount parses a number written either way round: "1.234,56",
// "1,234.56", "1500,5" and "1500.5" all work. When both separators occur the
// last one is the decimal point. A single dot is always a decimal point.
func ParseAmount(s string) (decimal.Decimal, bool) {
	s = amountCleaner.Replace(strings.TrimSpace(s))
	if s == "" {
		return decimal.Zero, false
	}

	dot := strings.LastIndex(s, ".")
	comma := strings.LastIndex(s, ",")
	switch {
	case dot >= 0 && comma >= 0:
		if comma > dot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case comma >= 0:
		if strings.Count(s, ",") == 1 {
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case strings.Count(s, ".") > 1:
		s = strings.ReplaceAll(s, ".", "")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// ParseWhole parses s as an integer. Values with a zero fraction ("12,0")
// are accepted.
func ParseWhole(s string) (int, bool) {
	d, ok := ParseAmount(s)
	if !ok || !d.Equal(d.Truncate(0)) {
		return 0, false
	}
	return int(d.IntPart()), true
}
