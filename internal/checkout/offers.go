package checkout

import (
	"errors"

	"github.com/noah-isme/toko-cart/internal/cart"
	"github.com/noah-isme/toko-cart/internal/discount"
	"github.com/noah-isme/toko-cart/internal/obs"
	"github.com/noah-isme/toko-cart/internal/pricing"
)

// Offer outcome statuses.
const (
	StatusApplied       = "applied"
	StatusNotApplicable = "not_applicable"
	StatusDuplicate     = "duplicate"
	StatusInvalid       = "invalid"
)

// OfferOutcome reports what happened to one offer.
type OfferOutcome struct {
	Offer  discount.Offer  `json:"offer"`
	Status string          `json:"status"`
	Reason string          `json:"reason,omitempty"`
	Amount pricing.Money   `json:"amount"`
	Items  []cart.LineItem `json:"items,omitempty"`
}

// ApplyOffer evaluates offer against the cart contents and applies the
// resulting discount items. A rejected offer leaves the cart unchanged.
func ApplyOffer(c *cart.Cart, offer discount.Offer) OfferOutcome {
	out := OfferOutcome{Offer: offer, Amount: pricing.Zero}
	defer func() {
		obs.RecordDiscountOffer(offer.Kind, out.Status)
	}()

	rule, err := offer.Rule()
	if err != nil {
		out.Status, out.Reason = StatusInvalid, err.Error()
		return out
	}
	res := rule.Evaluate(c.Contents())
	if !res.Applicable() {
		out.Status, out.Reason = StatusNotApplicable, discount.ErrNotApplicable.Error()
		if res.Reason != nil {
			out.Reason = res.Reason.Error()
		}
		if errors.Is(res.Reason, discount.ErrInvalidParams) {
			out.Status = StatusInvalid
		}
		return out
	}
	if err := c.ApplyDiscount(res.Items); err != nil {
		out.Status, out.Reason = StatusInvalid, err.Error()
		if errors.Is(err, cart.ErrDuplicateDiscount) {
			out.Status = StatusDuplicate
		}
		return out
	}
	out.Status = StatusApplied
	out.Amount = res.Amount()
	out.Items = res.Items
	return out
}
