package cart

import (
	"slices"
	"strings"

	"github.com/noah-isme/toko-cart/internal/pricing"
)

// Grouped maps product ids to their line items. Ids iterate in ascending order;
// items inside a group keep their insertion order.
type Grouped struct {
	ids    []string
	groups map[string][]LineItem
}

// Group stable-sorts items by id and partitions them into contiguous runs.
func Group(items []LineItem) Grouped {
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b LineItem) int {
		return strings.Compare(a.ID, b.ID)
	})
	g := Grouped{groups: make(map[string][]LineItem)}
	for start := 0; start < len(sorted); {
		end := start + 1
		for end < len(sorted) && sorted[end].ID == sorted[start].ID {
			end++
		}
		id := sorted[start].ID
		g.ids = append(g.ids, id)
		g.groups[id] = sorted[start:end:end]
		start = end
	}
	return g
}

// IDs returns the product ids in ascending order.
func (g Grouped) IDs() []string {
	return slices.Clone(g.ids)
}

// Len returns the number of groups.
func (g Grouped) Len() int {
	return len(g.ids)
}

// Has reports whether id has at least one line item.
func (g Grouped) Has(id string) bool {
	_, ok := g.groups[id]
	return ok
}

// Items returns a copy of the line items recorded for id.
func (g Grouped) Items(id string) []LineItem {
	return slices.Clone(g.groups[id])
}

// Count returns the number of line items for id, discounts included.
func (g Grouped) Count(id string) int {
	return len(g.groups[id])
}

// Units returns the number of non-discount line items for id.
func (g Grouped) Units(id string) int {
	n := 0
	for _, it := range g.groups[id] {
		if !it.IsDiscount() {
			n++
		}
	}
	return n
}

// UnitPrice returns the price of the first non-discount line item for id.
func (g Grouped) UnitPrice(id string) (pricing.Money, bool) {
	for _, it := range g.groups[id] {
		if !it.IsDiscount() {
			return it.Price, true
		}
	}
	return pricing.Zero, false
}
