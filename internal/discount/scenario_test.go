package discount_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/toko-cart/internal/cart"
	"github.com/noah-isme/toko-cart/internal/discount"
	"github.com/noah-isme/toko-cart/internal/pricing"
)

func sampleProducts() []cart.LineItem {
	return []cart.LineItem{
		{ID: "apple", Price: pricing.MustParse("0.15")},
		{ID: "ice cream", Price: pricing.MustParse("3.49")},
		{ID: "strawberries", Price: pricing.MustParse("2.00")},
		{ID: "snickers bar", Price: pricing.MustParse("0.70")},
		{ID: "mars bar", Price: pricing.MustParse("0.90")},
	}
}

func lastThree(t *testing.T, r cart.Receipt) (string, string, string) {
	t.Helper()
	rows := r.Rows()
	require.GreaterOrEqual(t, len(rows), 3)
	tail := rows[len(rows)-3:]
	require.Equal(t, cart.RowTotal, tail[0].ID)
	require.Equal(t, cart.RowDiscounts, tail[1].ID)
	require.Equal(t, cart.RowGrandTotal, tail[2].ID)
	return tail[0].Price.StringFixed(2), tail[1].Price.StringFixed(2), tail[2].Price.StringFixed(2)
}

func TestShoppingScenario(t *testing.T) {
	c := cart.New()
	for i := 0; i < 3; i++ {
		require.NoError(t, c.AddProducts(sampleProducts()...))
	}
	require.Equal(t, 15, c.Len())

	// buy one get one free on snickers
	bogo := discount.BuyXGetY(c.Contents(), "snickers bar", 1, 1)
	require.True(t, bogo.Applicable())
	require.Len(t, bogo.Items, 1)
	require.Equal(t, "-0.70", bogo.Items[0].Price.StringFixed(2))
	require.NoError(t, c.ApplyDiscount(bogo.Items))
	require.Equal(t, 16, c.Len())

	err := c.ApplyDiscount(bogo.Items)
	require.ErrorIs(t, err, cart.ErrDuplicateDiscount)
	require.Equal(t, 16, c.Len())

	// buy two strawberries, get the third free
	strawberries := discount.BuyXGetY(c.Contents(), "strawberries", 2, 1)
	require.True(t, strawberries.Applicable())
	require.Equal(t, "-2.00", strawberries.Amount().StringFixed(2))
	require.NoError(t, c.ApplyDiscount(strawberries.Items))
	require.Equal(t, 17, c.Len())

	// snickers already discounted
	pct := discount.PercentOff(c.Contents(), "mars bar", "snickers bar", pricing.MustParse("0.2"))
	require.True(t, pct.Applicable())
	require.ErrorIs(t, c.ApplyDiscount(pct.Items), cart.ErrDuplicateDiscount)
	require.Equal(t, 17, c.Len())

	receipt, err := c.Checkout()
	require.NoError(t, err)
	total, discounts, grand := lastThree(t, receipt)
	require.Equal(t, "21.72", total)
	require.Equal(t, "-2.70", discounts)
	require.Equal(t, "19.02", grand)

	_, err = c.Checkout()
	require.ErrorIs(t, err, cart.ErrInvalidState)
}

func TestPercentOffScenario(t *testing.T) {
	c := cart.New()
	require.NoError(t, c.AddProducts(sampleProducts()...))
	require.Equal(t, 5, c.Len())

	rule, err := discount.Offer{
		Kind:       discount.KindPercentOff,
		Product:    "mars bar",
		Discounted: "snickers bar",
		PercentOff: pricing.MustParse("0.2"),
	}.Rule()
	require.NoError(t, err)

	res := rule.Evaluate(c.Contents())
	require.True(t, res.Applicable())
	require.Equal(t, "-0.14", res.Items[0].Price.StringFixed(2))
	require.NoError(t, c.ApplyDiscount(res.Items))

	receipt, err := c.Checkout()
	require.NoError(t, err)
	total, discounts, grand := lastThree(t, receipt)
	require.Equal(t, "7.24", total)
	require.Equal(t, "-0.14", discounts)
	require.Equal(t, "7.10", grand)
}
