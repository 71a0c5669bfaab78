package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/noah-isme/toko-cart/internal/cart"
	"github.com/noah-isme/toko-cart/internal/catalog"
	"github.com/noah-isme/toko-cart/internal/discount"
	"github.com/noah-isme/toko-cart/internal/events"
	"github.com/noah-isme/toko-cart/internal/obs"
	"github.com/noah-isme/toko-cart/internal/pricing"
)

var (
	// ErrInvalidInput is returned when a quote request fails validation.
	ErrInvalidInput = errors.New("checkout: invalid input")
	// ErrUnknownProduct is returned when a quote references a product missing from the catalog.
	ErrUnknownProduct = errors.New("checkout: unknown product")
)

// ValidationError carries per-field validation failures.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %d field(s) failed validation", ErrInvalidInput, len(e.Fields))
}

// Unwrap makes ValidationError match ErrInvalidInput.
func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// Line requests quantity units of a catalog product.
type Line struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gte=1"`
}

// Input is a quote request.
type Input struct {
	Items  []Line           `json:"items" validate:"required,min=1,dive"`
	Offers []discount.Offer `json:"offers" validate:"dive"`
}

// Output is a priced receipt together with the outcome of every offer.
type Output struct {
	QuoteID string          `json:"quoteId"`
	Lines   []cart.LineItem `json:"lines"`
	pricing.Summary
	Offers  []OfferOutcome `json:"offers"`
	Receipt string         `json:"receipt"`
}

// Service prices baskets against a catalog.
type Service struct {
	Catalog     *catalog.Catalog
	Validator   *validator.Validate
	Events      *events.Bus
	Logger      zerolog.Logger
	MaxQuantity int
	NewID       func() string
}

// Quote builds a cart from the input, applies each offer in order and checks
// the cart out.
func (s *Service) Quote(ctx context.Context, in Input) (Output, error) {
	if s == nil || s.Catalog == nil {
		return Output{}, errors.New("checkout service not configured")
	}
	ctx, span := otel.Tracer("checkout").Start(ctx, "checkout.Quote")
	defer span.End()

	if err := s.validate(in); err != nil {
		span.SetStatus(codes.Error, "invalid input")
		return Output{}, err
	}

	c := cart.New()
	for _, line := range in.Items {
		price, ok := s.Catalog.Price(line.ProductID)
		if !ok {
			span.SetStatus(codes.Error, "unknown product")
			return Output{}, fmt.Errorf("%w: %s", ErrUnknownProduct, line.ProductID)
		}
		items := make([]cart.LineItem, line.Quantity)
		for i := range items {
			items[i] = cart.LineItem{ID: line.ProductID, Price: price}
		}
		if err := c.AddProducts(items...); err != nil {
			return Output{}, err
		}
	}

	quoteID := s.newID()
	outcomes := make([]OfferOutcome, 0, len(in.Offers))
	for _, offer := range in.Offers {
		outcome := ApplyOffer(c, offer)
		outcomes = append(outcomes, outcome)
		if outcome.Status != StatusApplied {
			s.emit(ctx, events.TopicDiscountRejected, quoteID, outcome)
		}
	}

	receipt, err := c.Checkout()
	if err != nil {
		span.RecordError(err)
		return Output{}, err
	}
	grand, _ := receipt.GrandTotal.Float64()
	obs.RecordReceipt(grand, len(receipt.Lines))
	span.SetAttributes(
		attribute.String("quote.id", quoteID),
		attribute.Int("quote.lines", len(receipt.Lines)),
		attribute.String("quote.grand_total", receipt.GrandTotal.String()),
	)

	s.emit(ctx, events.TopicReceiptIssued, quoteID, map[string]any{
		"quoteId":    quoteID,
		"lines":      len(receipt.Lines),
		"total":      receipt.Total,
		"discounts":  receipt.Discounts,
		"grandTotal": receipt.GrandTotal,
	})
	s.Logger.Debug().
		Str("quote_id", quoteID).
		Int("lines", len(receipt.Lines)).
		Str("grand_total", receipt.GrandTotal.StringFixed(2)).
		Msg("quote issued")

	return Output{
		QuoteID: quoteID,
		Lines:   receipt.Lines,
		Summary: receipt.Summary,
		Offers:  outcomes,
		Receipt: cart.FormatText(receipt),
	}, nil
}

func (s *Service) validate(in Input) error {
	v := s.Validator
	if v == nil {
		v = validator.New()
	}
	if err := v.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make(map[string]string, len(verrs))
			for _, fe := range verrs {
				fields[fe.Namespace()] = fe.Tag()
			}
			return &ValidationError{Fields: fields}
		}
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if s.MaxQuantity <= 0 {
		return nil
	}
	total := 0
	for _, line := range in.Items {
		// each term is bounded before it is added, so total cannot overflow
		if line.Quantity > s.MaxQuantity-total {
			return fmt.Errorf("%w: too many units requested, limit is %d", ErrInvalidInput, s.MaxQuantity)
		}
		total += line.Quantity
	}
	return nil
}

func (s *Service) emit(ctx context.Context, topic, quoteID string, payload any) {
	if s.Events == nil {
		return
	}
	if _, err := s.Events.Emit(ctx, topic, quoteID, payload); err != nil {
		s.Logger.Warn().Err(err).Str("topic", topic).Str("quote_id", quoteID).Msg("emit event")
	}
}

func (s *Service) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return uuid.NewString()
}
