package cli

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is how transaction dates are printed and accepted.
const DateLayout = "2006-01-02"

// FormatAmount prints an amount with two decimals and an explicit sign.
func FormatAmount(amount float64) string {
	d := decimal.NewFromFloat(amount).Round(2)
	s := d.StringFixed(2)
	if d.IsPositive() {
		s = "+" + s
	}
	return s
}

// FormatDecimal prints a decimal total with two places.
func FormatDecimal(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// StyleAmount colors expenses red and income teal.
func StyleAmount(amount float64) string {
	s := FormatAmount(amount)
	switch {
	case amount < 0:
		return ErrorStyle.Render(s)
	case amount > 0:
		return SuccessStyle.Render(s)
	default:
		return s
	}
}

// FormatDate prints a date in the local zone.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(DateLayout)
}

// FormatTags joins tags for a table cell.
func FormatTags(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	return "#" + strings.Join(tags, " #")
}
