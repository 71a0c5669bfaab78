package discount

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/toko-cart/internal/cart"
)

func TestParseOffer(t *testing.T) {
	offer, err := ParseOffer("buy_x_get_y:snickers bar")
	require.NoError(t, err)
	require.Equal(t, Offer{Kind: KindBuyXGetY, Product: "snickers bar", Buy: 1, Get: 1}, offer)

	offer, err = ParseOffer("buy_x_get_y: strawberries :2:1")
	require.NoError(t, err)
	require.Equal(t, "strawberries", offer.Product)
	require.Equal(t, 2, offer.Buy)
	require.Equal(t, 1, offer.Get)

	offer, err = ParseOffer("percent_off:mars bar:snickers bar:0.2")
	require.NoError(t, err)
	require.Equal(t, KindPercentOff, offer.Kind)
	require.Equal(t, "mars bar", offer.Product)
	require.Equal(t, "snickers bar", offer.Discounted)
	require.Equal(t, "0.2", offer.PercentOff.String())
}

func TestParseOfferErrors(t *testing.T) {
	for _, value := range []string{
		"",
		"buy_x_get_y",
		"buy_x_get_y:apple:1",
		"buy_x_get_y:apple:0:1",
		"buy_x_get_y:apple:1:x",
		"percent_off:mars bar:0.2",
		"percent_off:mars bar:snickers bar:abc",
	} {
		_, err := ParseOffer(value)
		require.Error(t, err, "value %q", value)
	}
	_, err := ParseOffer("bundle:apple")
	require.ErrorIs(t, err, ErrUnknownKind)
}

func TestOfferRuleDefaults(t *testing.T) {
	rule, err := Offer{Kind: KindBuyXGetY, Product: "apple"}.Rule()
	require.NoError(t, err)
	require.Equal(t, BuyXGetYRule{Product: "apple", Buy: 1, Get: 1}, rule)

	g := cart.Group(units("apple", "0.15", 2))
	require.True(t, rule.Evaluate(g).Applicable())

	_, err = Offer{Kind: "bundle", Product: "apple"}.Rule()
	require.ErrorIs(t, err, ErrUnknownKind)
}
