package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/ariefcatur/go-cart-checkout.git/internal/cart"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	placeErr   error
	placed     Order
	placeCalls int
	lastExtra  int

	statusErr  error
	lastStatus Status
}

func (f *fakeStore) PlaceOrder(ctx context.Context, userID string, d PaymentDetails, extra int) (Order, error) {
	f.placeCalls++
	f.lastExtra = extra
	if f.placeErr != nil {
		return Order{}, f.placeErr
	}
	o := f.placed
	o.UserID = userID
	o.CustomerName = d.CustomerName
	o.CustomerEmail = d.CustomerEmail
	o.PaymentRef = d.PaymentRef
	return o, nil
}

func (f *fakeStore) GetOrder(ctx context.Context, userID, orderID string) (Order, error) {
	if f.placed.ID == orderID && f.placed.UserID == userID {
		return f.placed, nil
	}
	return Order{}, ErrNotFound
}

func (f *fakeStore) UpdateStatus(ctx context.Context, orderID string, next Status) error {
	if f.placed.ID != orderID {
		return ErrNotFound
	}
	if f.statusErr != nil {
		return f.statusErr
	}
	f.lastStatus = next
	return nil
}

type capturedPublish struct {
	key   []byte
	value []byte
}

type fakePublisher struct {
	mu        sync.Mutex
	published []capturedPublish
}

func (f *fakePublisher) Publish(key, value []byte, headers ...kafkago.Header) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, capturedPublish{key: key, value: value})
}

type fakeCache struct {
	mu      sync.Mutex
	deletes []string
}

func (f *fakeCache) GetView(ctx context.Context, userID string) (cart.View, bool) {
	return cart.View{}, false
}
func (f *fakeCache) SetView(ctx context.Context, userID string, v cart.View) {}
func (f *fakeCache) DeleteView(ctx context.Context, userID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, userID)
}

func validDetails() PaymentDetails {
	return PaymentDetails{
		PaymentMethod:   "bkash",
		PaymentRef:      "TXN-8842-AC31",
		PaymentMobile:   "01700000000",
		ShippingAddress: "12 Main St",
		CustomerName:    "Alice",
		CustomerEmail:   "alice@example.com",
		CustomerPhone:   "01700000001",
	}
}

func newService(store *fakeStore) (*Service, *fakePublisher, *fakeCache) {
	pub := &fakePublisher{}
	cache := &fakeCache{}
	return &Service{
		Store:            store,
		Producer:         pub,
		Cache:            cache,
		ShippingFeeCents: 500,
		ServiceName:      "checkout-api-test",
	}, pub, cache
}

func TestPlaceOrder_MissingFields(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{}
	svc, pub, _ := newService(store)

	base := validDetails()
	blank := func(mut func(*PaymentDetails)) PaymentDetails {
		d := base
		mut(&d)
		return d
	}
	tests := map[string]PaymentDetails{
		"payment_method":   blank(func(d *PaymentDetails) { d.PaymentMethod = "" }),
		"payment_ref":      blank(func(d *PaymentDetails) { d.PaymentRef = "" }),
		"payment_mobile":   blank(func(d *PaymentDetails) { d.PaymentMobile = "" }),
		"shipping_address": blank(func(d *PaymentDetails) { d.ShippingAddress = "" }),
		"customer_name":    blank(func(d *PaymentDetails) { d.CustomerName = "" }),
		"customer_email":   blank(func(d *PaymentDetails) { d.CustomerEmail = "" }),
		"customer_phone":   blank(func(d *PaymentDetails) { d.CustomerPhone = "" }),
	}
	for field, d := range tests {
		t.Run(field, func(t *testing.T) {
			_, err := svc.PlaceOrder(ctx, "u1", d)
			require.ErrorIs(t, err, ErrValidation)
			assert.Contains(t, err.Error(), field)
		})
	}

	// validation fires before any read or write
	assert.Equal(t, 0, store.placeCalls)
	assert.Empty(t, pub.published)
}

func TestPlaceOrder_DenylistedRef(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{}
	svc, pub, cache := newService(store)

	d := validDetails()
	d.PaymentRef = "11111111"

	_, err := svc.PlaceOrder(ctx, "u1", d)
	require.ErrorIs(t, err, ErrInvalidPaymentRef)
	assert.Equal(t, 0, store.placeCalls) // rejected before touching state
	assert.Empty(t, pub.published)
	assert.Empty(t, cache.deletes)
}

func TestPlaceOrder_EmptyCart(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{placeErr: ErrEmptyCart}
	svc, pub, cache := newService(store)

	_, err := svc.PlaceOrder(ctx, "u1", validDetails())
	require.ErrorIs(t, err, ErrEmptyCart)
	assert.Empty(t, pub.published)
	assert.Empty(t, cache.deletes)
}

func TestPlaceOrder_StoreFailureIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{placeErr: errors.New("insert order_lines: connection reset")}
	svc, pub, cache := newService(store)

	_, err := svc.PlaceOrder(ctx, "u1", validDetails())
	require.Error(t, err)
	// a rolled-back checkout publishes nothing and invalidates nothing
	assert.Empty(t, pub.published)
	assert.Empty(t, cache.deletes)
}

func TestPlaceOrder_Success(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{placed: Order{
		ID:         "o1",
		Status:     StatusPlaced,
		TotalCents: 3500,
		Lines: []OrderLine{
			{ID: "ol1", OrderID: "o1", ProductID: "pA", Quantity: 2, PriceCents: 1500},
		},
	}}
	svc, pub, cache := newService(store)

	o, err := svc.PlaceOrder(ctx, "u1", validDetails())
	require.NoError(t, err)
	assert.Equal(t, "o1", o.ID)
	assert.Equal(t, StatusPlaced, o.Status)
	assert.Equal(t, 500, store.lastExtra) // flat shipping fee passed through

	// cached cart view dropped for this user
	assert.Equal(t, []string{"u1"}, cache.deletes)

	// one OrderPlaced event, keyed by order id
	require.Len(t, pub.published, 1)
	assert.Equal(t, []byte("o1"), pub.published[0].key)

	var env Envelope
	require.NoError(t, json.Unmarshal(pub.published[0].value, &env))
	assert.Equal(t, EventOrderPlaced, env.EventType)
	assert.Equal(t, 1, env.EventVersion)
	assert.Equal(t, "o1", env.CorrelationID)

	var p OrderPlacedPayload
	require.NoError(t, json.Unmarshal(env.Payload, &p))
	assert.Equal(t, "o1", p.OrderID)
	assert.Equal(t, "u1", p.UserID)
	assert.Equal(t, "alice@example.com", p.CustomerEmail)
	assert.Equal(t, 3500, p.TotalCents)
	require.Len(t, p.Items, 1)
	assert.Equal(t, ItemPrice{ProductID: "pA", Qty: 2, PriceCents: 1500}, p.Items[0])
}

func TestPlaceOrder_NoProducerStillSucceeds(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{placed: Order{ID: "o1", Status: StatusPlaced}}
	svc, _, _ := newService(store)
	svc.Producer = nil

	o, err := svc.PlaceOrder(ctx, "u1", validDetails())
	require.NoError(t, err)
	assert.Equal(t, "o1", o.ID)
}

func TestGetOrder(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{placed: Order{ID: "o1", UserID: "u1"}}
	svc, _, _ := newService(store)

	o, err := svc.GetOrder(ctx, "u1", "o1")
	require.NoError(t, err)
	assert.Equal(t, "o1", o.ID)

	// another user's order is invisible
	_, err = svc.GetOrder(ctx, "u2", "o1")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateStatus_UnknownStatusRejected(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{placed: Order{ID: "o1"}}
	svc, _, _ := newService(store)

	err := svc.UpdateStatus(ctx, "o1", Status("REFUNDED"))
	require.ErrorIs(t, err, ErrValidation)
	assert.Empty(t, store.lastStatus) // rejected before touching the store
}

func TestUpdateStatus(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{placed: Order{ID: "o1", Status: StatusPlaced}}
	svc, _, _ := newService(store)

	require.NoError(t, svc.UpdateStatus(ctx, "o1", StatusShipped))
	assert.Equal(t, StatusShipped, store.lastStatus)

	err := svc.UpdateStatus(ctx, "missing", StatusShipped)
	require.ErrorIs(t, err, ErrNotFound)

	store.statusErr = ErrBadTransition
	err = svc.UpdateStatus(ctx, "o1", StatusCancelled)
	require.ErrorIs(t, err, ErrBadTransition)
}

func TestValidateAcceptsCompleteDetails(t *testing.T) {
	require.NoError(t, validDetails().Validate())
}
