package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ariefcatur/go-cart-checkout.git/internal/checkout"
	kafkax "github.com/ariefcatur/go-cart-checkout.git/internal/kafka"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMailer struct {
	sent []string // recipients
	err  error
}

func (f *fakeMailer) Send(ctx context.Context, to, subject, body string) error {
	f.sent = append(f.sent, to)
	return f.err
}

func orderPlacedMessage(t *testing.T) kafkago.Message {
	t.Helper()
	env := checkout.Envelope{
		EventID:       uuid.NewString(),
		EventType:     checkout.EventOrderPlaced,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      "checkout-api-test",
		CorrelationID: "o1",
		Payload: kafkax.MustMarshal(checkout.OrderPlacedPayload{
			OrderID:       "o1",
			UserID:        "u1",
			CustomerName:  "Alice",
			CustomerEmail: "alice@example.com",
			TotalCents:    3500,
			Items:         []checkout.ItemPrice{{ProductID: "pA", Qty: 2, PriceCents: 1500}},
		}),
	}
	return kafkago.Message{Key: checkout.PartitionKey("o1"), Value: kafkax.MustMarshal(env)}
}

func TestHandleOrderPlaced_SendsMail(t *testing.T) {
	mailer := &fakeMailer{}
	svc := &Service{Mailer: mailer, ServiceName: "notifier-test"}

	require.NoError(t, svc.HandleOrderPlaced(context.Background(), orderPlacedMessage(t)))
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "alice@example.com", mailer.sent[0])
}

func TestHandleOrderPlaced_MailFailureIsSwallowed(t *testing.T) {
	mailer := &fakeMailer{err: errors.New("smtp down")}
	svc := &Service{Mailer: mailer, ServiceName: "notifier-test"}

	// failure is logged, offset still commits: the order is already placed
	require.NoError(t, svc.HandleOrderPlaced(context.Background(), orderPlacedMessage(t)))
	assert.Len(t, mailer.sent, 1)
}

func TestHandleOrderPlaced_IgnoresOtherEvents(t *testing.T) {
	mailer := &fakeMailer{}
	svc := &Service{Mailer: mailer, ServiceName: "notifier-test"}

	env := checkout.Envelope{EventID: uuid.NewString(), EventType: "SomethingElse"}
	m := kafkago.Message{Value: kafkax.MustMarshal(env)}

	require.NoError(t, svc.HandleOrderPlaced(context.Background(), m))
	assert.Empty(t, mailer.sent)
}

func TestHandleOrderPlaced_BadEnvelope(t *testing.T) {
	svc := &Service{Mailer: &fakeMailer{}, ServiceName: "notifier-test"}
	err := svc.HandleOrderPlaced(context.Background(), kafkago.Message{Value: []byte("{broken")})
	require.Error(t, err)
}
