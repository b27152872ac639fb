package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/ariefcatur/go-cart-checkout.git/internal/checkout"
	kafkax "github.com/ariefcatur/go-cart-checkout.git/internal/kafka"
	"github.com/ariefcatur/go-cart-checkout.git/internal/redisx"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
)

// Mailer sends one message. LogMailer is the default; a real SMTP sender
// would slot in behind the same interface.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

type LogMailer struct{ From string }

func (m *LogMailer) Send(ctx context.Context, to, subject, body string) error {
	log.Printf("mail from=%s to=%s subject=%q body=%q", m.From, to, subject, body)
	return nil
}

type Service struct {
	Redis       *redis.Client // optional, dedup only
	Mailer      Mailer
	ServiceName string
}

// HandleOrderPlaced runs as the consumer handler. Send failures are logged
// and swallowed: the order is already committed, a retry storm over a dead
// mailbox helps nobody.
func (s *Service) HandleOrderPlaced(ctx context.Context, m kafkago.Message) error {
	var env checkout.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}
	if env.EventType != checkout.EventOrderPlaced {
		return nil
	}

	if s.Redis != nil {
		dkey := fmt.Sprintf(redisx.KeyDedup, "notify", env.EventID)
		exists, _ := redisx.Exists(ctx, s.Redis, dkey)
		if exists {
			return nil
		}
		_ = s.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()
	}

	p, err := kafkax.UnwrapPayload[checkout.OrderPlacedPayload](env.Payload)
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("Order %s confirmed", p.OrderID)
	body := fmt.Sprintf("Hi %s, we received your order %s. Total: %d cents, %d item(s).",
		p.CustomerName, p.OrderID, p.TotalCents, len(p.Items))
	if err := s.Mailer.Send(ctx, p.CustomerEmail, subject, body); err != nil {
		log.Printf("order confirmation failed: order=%s to=%s: %v", p.OrderID, p.CustomerEmail, err)
	}
	return nil
}
