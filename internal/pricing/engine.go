package pricing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Money represents a monetary amount. Discount adjustments carry negative amounts.
type Money = decimal.Decimal

// Zero is the zero amount.
var Zero = decimal.Zero

// Summary aggregates the totals printed at the bottom of a receipt.
type Summary struct {
	Total      Money `json:"total"`
	Discounts  Money `json:"discounts"`
	GrandTotal Money `json:"grandTotal"`
}

// Compute splits amounts into charges (>= 0) and discounts (< 0) and sums both.
// GrandTotal is always exactly Total + Discounts.
func Compute(amounts []Money) Summary {
	total := decimal.Zero
	discounts := decimal.Zero
	for _, amt := range amounts {
		if amt.IsNegative() {
			discounts = discounts.Add(amt)
			continue
		}
		total = total.Add(amt)
	}
	return Summary{
		Total:      total,
		Discounts:  discounts,
		GrandTotal: total.Add(discounts),
	}
}

// ParseMoney parses a decimal amount such as "0.70" or "-2".
func ParseMoney(value string) (Money, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return decimal.Zero, fmt.Errorf("parse amount: empty value")
	}
	amt, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse amount %q: %w", trimmed, err)
	}
	return amt, nil
}

// MustParse behaves like ParseMoney but panics on error. Useful for fixtures and constants.
func MustParse(value string) Money {
	amt, err := ParseMoney(value)
	if err != nil {
		panic(err)
	}
	return amt
}

var printer = message.NewPrinter(language.English)

// FormatAmount renders the amount with two decimals and thousands separators, e.g. "1,234.50".
func FormatAmount(m Money) string {
	f, _ := m.Round(2).Float64()
	return printer.Sprintf("%.2f", f)
}
