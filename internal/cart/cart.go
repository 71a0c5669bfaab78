package cart

import (
	"errors"
	"fmt"

	"github.com/noah-isme/toko-cart/internal/pricing"
)

var (
	// ErrInvalidState is returned when a checked out cart is mutated.
	ErrInvalidState = errors.New("cart: invalid state")
	// ErrAlreadyCheckedOut is returned by a second Checkout. It matches ErrInvalidState.
	ErrAlreadyCheckedOut = fmt.Errorf("%w: already checked out", ErrInvalidState)
	// ErrDuplicateDiscount indicates a product id already carries a discount.
	ErrDuplicateDiscount = errors.New("cart: duplicate discount")
)

// LineItem is one unit of a product or one discount adjustment (negative price).
type LineItem struct {
	ID    string        `json:"id"`
	Price pricing.Money `json:"price"`
}

// IsDiscount reports whether the line item is a discount adjustment.
func (li LineItem) IsDiscount() bool {
	return li.Price.IsNegative()
}

// Cart collects line items until checkout. It is a single-owner value: callers
// sharing a Cart across goroutines must serialise AddProducts, ApplyDiscount,
// Receipt and Checkout themselves.
type Cart struct {
	items      []LineItem
	discounted map[string]struct{}
	checkedOut bool
	receipt    *Receipt
}

// New returns an empty cart. The zero value is also ready to use.
func New() *Cart {
	return &Cart{discounted: make(map[string]struct{})}
}

// AddProducts appends the items to the cart log. Prices are not checked against
// any catalog; the caller guarantees consistent prices per id.
func (c *Cart) AddProducts(items ...LineItem) error {
	if c.checkedOut {
		return fmt.Errorf("add products: %w", ErrInvalidState)
	}
	c.items = append(c.items, items...)
	return nil
}

// ApplyDiscount appends a batch of discount items. The batch is rejected as a
// whole when any of its ids already received a discount. An empty batch is a
// no-op.
func (c *Cart) ApplyDiscount(items []LineItem) error {
	if c.checkedOut {
		return fmt.Errorf("apply discount: %w", ErrInvalidState)
	}
	if len(items) == 0 {
		return nil
	}
	for _, it := range items {
		if _, ok := c.discounted[it.ID]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateDiscount, it.ID)
		}
	}
	if err := c.AddProducts(items...); err != nil {
		return err
	}
	if c.discounted == nil {
		c.discounted = make(map[string]struct{}, len(items))
	}
	for _, it := range items {
		c.discounted[it.ID] = struct{}{}
	}
	return nil
}

// Contents returns the cart log grouped by product id.
func (c *Cart) Contents() Grouped {
	return Group(c.items)
}

// Items returns a copy of the cart log in insertion order.
func (c *Cart) Items() []LineItem {
	out := make([]LineItem, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of line items, discounts included.
func (c *Cart) Len() int {
	return len(c.items)
}

// Discounted reports whether id already received a discount.
func (c *Cart) Discounted(id string) bool {
	_, ok := c.discounted[id]
	return ok
}

// CheckedOut reports whether Checkout succeeded.
func (c *Cart) CheckedOut() bool {
	return c.checkedOut
}

// Checkout fixes the receipt and locks the cart. It succeeds exactly once.
func (c *Cart) Checkout() (Receipt, error) {
	if c.checkedOut {
		return Receipt{}, ErrAlreadyCheckedOut
	}
	r := c.Receipt()
	c.checkedOut = true
	return r, nil
}

// String renders the human readable receipt.
func (c *Cart) String() string {
	return FormatText(c.Receipt())
}
