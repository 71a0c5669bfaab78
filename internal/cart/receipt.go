package cart

import (
	"slices"

	"github.com/noah-isme/toko-cart/internal/pricing"
)

// Ids of the summary rows appended after the receipt body.
const (
	RowTotal      = "total"
	RowDiscounts  = "discounts"
	RowGrandTotal = "grand_total"
)

// Receipt is the itemised result of a cart. Lines are grouped by id (ascending)
// with the highest price first inside each group.
type Receipt struct {
	Lines []LineItem `json:"lines"`
	pricing.Summary
}

// Rows returns the body lines followed by the total, discounts and grand_total rows.
func (r Receipt) Rows() []LineItem {
	rows := make([]LineItem, 0, len(r.Lines)+3)
	rows = append(rows, r.Lines...)
	rows = append(rows,
		LineItem{ID: RowTotal, Price: r.Total},
		LineItem{ID: RowDiscounts, Price: r.Discounts},
		LineItem{ID: RowGrandTotal, Price: r.GrandTotal},
	)
	return rows
}

func (r Receipt) clone() Receipt {
	r.Lines = slices.Clone(r.Lines)
	return r
}

// Receipt computes the receipt from the current contents and caches it. Once the
// cart is checked out the cached receipt is returned.
func (c *Cart) Receipt() Receipt {
	if c.checkedOut && c.receipt != nil {
		return c.receipt.clone()
	}
	r := buildReceipt(c.Contents())
	c.receipt = &r
	return r.clone()
}

func buildReceipt(g Grouped) Receipt {
	lines := make([]LineItem, 0)
	for _, id := range g.ids {
		group := slices.Clone(g.groups[id])
		slices.SortStableFunc(group, func(a, b LineItem) int {
			return b.Price.Cmp(a.Price)
		})
		lines = append(lines, group...)
	}
	amounts := make([]pricing.Money, 0, len(lines))
	for _, li := range lines {
		amounts = append(amounts, li.Price)
	}
	return Receipt{Lines: lines, Summary: pricing.Compute(amounts)}
}
