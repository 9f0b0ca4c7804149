package tools

import (
	"strings"

	"github.com/shopspring/decimal"
)

const (
	_moneyPlaces    = 2
	_percentPlaces  = 2
	_quantityPlaces = 6
)

// RoundMoney rounds half away from zero to cents.
func RoundMoney(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(_moneyPlaces)
}

// FormatMoney renders an amount with two decimals and an optional currency code.
func FormatMoney(v float64, currency string) string {
	s := RoundMoney(v).StringFixed(_moneyPlaces)
	if currency == "" {
		return s
	}
	return s + " " + currency
}

// FormatPercent renders a signed percentage, e.g. "+6.25%" or "-6.25%".
func FormatPercent(v float64) string {
	d := decimal.NewFromFloat(v).Round(_percentPlaces)
	s := d.StringFixed(_percentPlaces)
	if d.IsPositive() {
		s = "+" + s
	}
	return s + "%"
}

// FormatQuantity renders fractional share quantities without trailing zeros.
func FormatQuantity(v float64) string {
	s := decimal.NewFromFloat(v).Round(_quantityPlaces).StringFixed(_quantityPlaces)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
