package cart

import (
	"fmt"
	"strings"

	"github.com/noah-isme/toko-cart/internal/pricing"
)

var divider = strings.Repeat("-", 30)

// FormatText renders the fixed-width human readable receipt.
func FormatText(r Receipt) string {
	var b strings.Builder
	b.WriteString(divider + "\nReceipt\n" + divider + "\n")
	for _, li := range r.Lines {
		fmt.Fprintf(&b, "%20s %8s\n", li.ID, pricing.FormatAmount(li.Price))
	}
	b.WriteString(divider)
	fmt.Fprintf(&b, "\nTotal %23s", pricing.FormatAmount(r.Total))
	fmt.Fprintf(&b, "\nDiscounts %19s\n", pricing.FormatAmount(r.Discounts))
	b.WriteString(divider)
	fmt.Fprintf(&b, "\nGrand Total  %16s", pricing.FormatAmount(r.GrandTotal))
	return b.String()
}

// FormatCSV renders the receipt body as "id, price" rows that the catalog
// loader can parse back into the same line items. Summary rows are omitted.
func FormatCSV(r Receipt) string {
	rows := make([]string, 0, len(r.Lines))
	for _, li := range r.Lines {
		rows = append(rows, csvField(li.ID)+", "+li.Price.String())
	}
	return strings.Join(rows, "\n")
}

func csvField(value string) string {
	if !strings.ContainsAny(value, ",\"\r\n") && strings.TrimLeft(value, " \t") == value {
		return value
	}
	return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
}
