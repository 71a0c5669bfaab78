package discount

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/toko-cart/internal/cart"
	"github.com/noah-isme/toko-cart/internal/pricing"
)

var (
	// ErrNotApplicable is the root of every reason a rule yields no discount.
	ErrNotApplicable = errors.New("discount not applicable")
	// ErrProductMissing indicates the qualifying product is not in the cart.
	ErrProductMissing = fmt.Errorf("%w: product not in cart", ErrNotApplicable)
	// ErrInsufficientQuantity indicates the cart holds too few units of the product.
	ErrInsufficientQuantity = fmt.Errorf("%w: insufficient quantity", ErrNotApplicable)
	// ErrTargetMissing indicates the discounted product is not in the cart.
	ErrTargetMissing = fmt.Errorf("%w: discounted product not in cart", ErrNotApplicable)
	// ErrInvalidParams indicates the rule parameters are out of range.
	ErrInvalidParams = fmt.Errorf("%w: invalid parameters", ErrNotApplicable)
)

// Rule kinds.
const (
	KindBuyXGetY   = "buy_x_get_y"
	KindPercentOff = "percent_off"
)

var one = decimal.NewFromInt(1)

// Result is the outcome of evaluating a rule. Either Items holds the discount
// line items to pass to Cart.ApplyDiscount, or Reason explains why none apply.
// Product is the id the discount items target.
type Result struct {
	Kind    string
	Product string
	Items   []cart.LineItem
	Reason  error
}

// Applicable reports whether the rule produced discount items.
func (r Result) Applicable() bool {
	return r.Reason == nil && len(r.Items) > 0
}

// Amount returns the sum of the discount items (zero or negative).
func (r Result) Amount() pricing.Money {
	total := decimal.Zero
	for _, it := range r.Items {
		total = total.Add(it.Price)
	}
	return total
}

func notApplicable(kind, product string, reason error) Result {
	return Result{Kind: kind, Product: product, Reason: reason}
}

// BuyXGetY discounts one unit of product for every complete buy+get cycle in
// the cart. Each discount item is priced at minus the product's unit price.
func BuyXGetY(contents cart.Grouped, product string, buy, get int) Result {
	if buy < 1 || get < 1 {
		return notApplicable(KindBuyXGetY, product, fmt.Errorf("%w: buy %d get %d", ErrInvalidParams, buy, get))
	}
	if !contents.Has(product) {
		return notApplicable(KindBuyXGetY, product, fmt.Errorf("%w: %s", ErrProductMissing, product))
	}
	cycle := buy + get
	units := contents.Units(product)
	if units < cycle {
		return notApplicable(KindBuyXGetY, product,
			fmt.Errorf("%w: %d of %s in cart, need %d", ErrInsufficientQuantity, units, product, cycle))
	}
	price, _ := contents.UnitPrice(product)
	n := units / cycle
	items := make([]cart.LineItem, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, cart.LineItem{ID: product, Price: price.Neg()})
	}
	return Result{Kind: KindBuyXGetY, Product: product, Items: items}
}

// PercentOff takes pctOff (a fraction in [0, 1]) off one unit of discounted
// when product is bought. An empty discounted means product itself, which then
// needs at least two units in the cart.
func PercentOff(contents cart.Grouped, product, discounted string, pctOff pricing.Money) Result {
	if discounted == "" {
		discounted = product
	}
	if pctOff.IsNegative() || pctOff.GreaterThan(one) {
		return notApplicable(KindPercentOff, discounted, fmt.Errorf("%w: percent off %s", ErrInvalidParams, pctOff.String()))
	}
	units := contents.Units(product)
	if units == 0 {
		return notApplicable(KindPercentOff, discounted, fmt.Errorf("%w: %s", ErrProductMissing, product))
	}
	if discounted == product {
		if units < 2 {
			return notApplicable(KindPercentOff, discounted,
				fmt.Errorf("%w: %d of %s in cart, need 2", ErrInsufficientQuantity, units, product))
		}
	} else if contents.Units(discounted) == 0 {
		return notApplicable(KindPercentOff, discounted, fmt.Errorf("%w: %s", ErrTargetMissing, discounted))
	}
	price, _ := contents.UnitPrice(discounted)
	return Result{
		Kind:    KindPercentOff,
		Product: discounted,
		Items:   []cart.LineItem{{ID: discounted, Price: price.Mul(pctOff).Neg()}},
	}
}
