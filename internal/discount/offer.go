package discount

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/noah-isme/toko-cart/internal/cart"
	"github.com/noah-isme/toko-cart/internal/pricing"
)

// ErrUnknownKind is returned when an offer names an unsupported rule kind.
var ErrUnknownKind = errors.New("unknown offer kind")

// Rule evaluates cart contents without mutating the cart.
type Rule interface {
	Evaluate(contents cart.Grouped) Result
}

// BuyXGetYRule binds BuyXGetY parameters.
type BuyXGetYRule struct {
	Product string
	Buy     int
	Get     int
}

// Evaluate implements Rule.
func (r BuyXGetYRule) Evaluate(contents cart.Grouped) Result {
	return BuyXGetY(contents, r.Product, r.Buy, r.Get)
}

// PercentOffRule binds PercentOff parameters.
type PercentOffRule struct {
	Product    string
	Discounted string
	PercentOff pricing.Money
}

// Evaluate implements Rule.
func (r PercentOffRule) Evaluate(contents cart.Grouped) Result {
	return PercentOff(contents, r.Product, r.Discounted, r.PercentOff)
}

// Offer is the declarative form of a rule as accepted by the CLI and the HTTP API.
type Offer struct {
	Kind       string        `json:"kind" validate:"required,oneof=buy_x_get_y percent_off"`
	Product    string        `json:"product" validate:"required"`
	Buy        int           `json:"buy,omitempty" validate:"gte=0"`
	Get        int           `json:"get,omitempty" validate:"gte=0"`
	Discounted string        `json:"discounted,omitempty"`
	PercentOff pricing.Money `json:"percentOff"`
}

// Rule builds the rule described by the offer. Buy and Get default to 1.
func (o Offer) Rule() (Rule, error) {
	switch o.Kind {
	case KindBuyXGetY:
		buy, get := o.Buy, o.Get
		if buy == 0 {
			buy = 1
		}
		if get == 0 {
			get = 1
		}
		return BuyXGetYRule{Product: o.Product, Buy: buy, Get: get}, nil
	case KindPercentOff:
		return PercentOffRule{Product: o.Product, Discounted: o.Discounted, PercentOff: o.PercentOff}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, o.Kind)
	}
}

// ParseOffer parses the colon separated command line form:
//
//	buy_x_get_y:<product>[:<buy>:<get>]
//	percent_off:<product>:<discounted>:<fraction>
func ParseOffer(value string) (Offer, error) {
	parts := strings.Split(value, ":")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	if len(parts) < 2 || parts[1] == "" {
		return Offer{}, fmt.Errorf("parse offer %q: product is required", value)
	}
	offer := Offer{Kind: parts[0], Product: parts[1]}
	switch offer.Kind {
	case KindBuyXGetY:
		switch len(parts) {
		case 2:
			offer.Buy, offer.Get = 1, 1
		case 4:
			buy, err := strconv.Atoi(parts[2])
			if err != nil || buy < 1 {
				return Offer{}, fmt.Errorf("parse offer %q: invalid buy %q", value, parts[2])
			}
			get, err := strconv.Atoi(parts[3])
			if err != nil || get < 1 {
				return Offer{}, fmt.Errorf("parse offer %q: invalid get %q", value, parts[3])
			}
			offer.Buy, offer.Get = buy, get
		default:
			return Offer{}, fmt.Errorf("parse offer %q: expected %s:<product>:<buy>:<get>", value, KindBuyXGetY)
		}
	case KindPercentOff:
		if len(parts) != 4 {
			return Offer{}, fmt.Errorf("parse offer %q: expected %s:<product>:<discounted>:<fraction>", value, KindPercentOff)
		}
		pct, err := pricing.ParseMoney(parts[3])
		if err != nil {
			return Offer{}, fmt.Errorf("parse offer %q: %w", value, err)
		}
		offer.Discounted = parts[2]
		offer.PercentOff = pct
	default:
		return Offer{}, fmt.Errorf("parse offer %q: %w", value, ErrUnknownKind)
	}
	return offer, nil
}
