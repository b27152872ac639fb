package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/ariefcatur/go-cart-checkout.git/internal/cart"
	kafkax "github.com/ariefcatur/go-cart-checkout.git/internal/kafka"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
)

type Store interface {
	PlaceOrder(ctx context.Context, userID string, d PaymentDetails, totalExtraCents int) (Order, error)
	GetOrder(ctx context.Context, userID, orderID string) (Order, error)
	UpdateStatus(ctx context.Context, orderID string, next Status) error
}

// Publisher is fire-and-forget; *kafka.Producer implements it.
type Publisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

type Service struct {
	Store            Store
	Producer         Publisher  // optional
	Cache            cart.Cache // optional
	ShippingFeeCents int
	ServiceName      string
}

// PlaceOrder validates, runs the atomic cart-to-order transaction, then
// hands the notification off out-of-band. A lost notification never rolls
// anything back or reaches the caller.
func (s *Service) PlaceOrder(ctx context.Context, userID string, d PaymentDetails) (Order, error) {
	if err := d.Validate(); err != nil {
		return Order{}, err
	}
	if DeniedPaymentRef(d.PaymentRef) {
		return Order{}, ErrInvalidPaymentRef
	}

	o, err := s.Store.PlaceOrder(ctx, userID, d, s.ShippingFeeCents)
	if err != nil {
		return Order{}, err
	}

	if s.Cache != nil {
		s.Cache.DeleteView(ctx, userID)
	}
	s.publishPlaced(ctx, o)
	return o, nil
}

func (s *Service) GetOrder(ctx context.Context, userID, orderID string) (Order, error) {
	return s.Store.GetOrder(ctx, userID, orderID)
}

// UpdateStatus drives the fulfillment workflow; only transitions in the
// table are admitted, the store enforces them under row lock.
func (s *Service) UpdateStatus(ctx context.Context, orderID string, next Status) error {
	if !KnownStatus(next) {
		return fmt.Errorf("%w: unknown status %q", ErrValidation, next)
	}
	return s.Store.UpdateStatus(ctx, orderID, next)
}

func (s *Service) publishPlaced(ctx context.Context, o Order) {
	if s.Producer == nil {
		return
	}
	items := make([]ItemPrice, 0, len(o.Lines))
	for _, l := range o.Lines {
		items = append(items, ItemPrice{ProductID: l.ProductID, Qty: l.Quantity, PriceCents: l.PriceCents})
	}
	ev := Envelope{
		EventID:       uuid.NewString(),
		EventType:     EventOrderPlaced,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      s.ServiceName,
		TraceID:       middleware.GetReqID(ctx),
		CorrelationID: o.ID,
		Payload: kafkax.MustMarshal(OrderPlacedPayload{
			OrderID:       o.ID,
			UserID:        o.UserID,
			CustomerName:  o.CustomerName,
			CustomerEmail: o.CustomerEmail,
			Items:         items,
			TotalCents:    o.TotalCents,
		}),
	}
	s.Producer.Publish(PartitionKey(o.ID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(EventOrderPlaced)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
