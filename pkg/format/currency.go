// Package format renders monetary amounts for human-readable output.
package format

import (
	"strings"

	"github.com/iwvelando/growth-forecast/pkg/constants"
	"github.com/shopspring/decimal"
)

// Currency returns a currency string with a dollar sign and thousands separators (e.g., "-$1,234.56").
func Currency(amount float64) string {
	formatted := formatPositiveCurrency(decimal.NewFromFloat(amount).Abs())
	if amount < 0 && formatted != "0.00" {
		return "-$" + formatted
	}
	return "$" + formatted
}

// NumericCurrency returns a currency string without a currency symbol but with separators (e.g., "-1,234.56").
func NumericCurrency(amount float64) string {
	formatted := formatPositiveCurrency(decimal.NewFromFloat(amount).Abs())
	if amount < 0 && formatted != "0.00" {
		return "-" + formatted
	}
	return formatted
}

// Plain returns the amount fixed to two decimals without separators, as used in CSV cells.
func Plain(amount float64) string {
	return decimal.NewFromFloat(amount).StringFixed(constants.CurrencyDecimalPlaces)
}

func formatPositiveCurrency(value decimal.Decimal) string {
	formatted := value.StringFixed(constants.CurrencyDecimalPlaces)
	parts := strings.SplitN(formatted, ".", 2)
	intPart := parts[0]
	decPart := "00"
	if len(parts) == 2 {
		decPart = parts[1]
	}

	if len(intPart) > 3 {
		var builder strings.Builder
		for i, digit := range intPart {
			if i > 0 && (len(intPart)-i)%3 == 0 {
				builder.WriteByte(',')
			}
			builder.WriteRune(digit)
		}
		intPart = builder.String()
	}

	return intPart + "." + decPart
}
