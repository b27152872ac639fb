package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/ariefcatur/go-cart-checkout.git/internal/cart"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// DBPool matches the methods from *pgxpool.Pool that Repo uses, so the
// transaction paths can run against a mock in tests.
type DBPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

type Repo struct{ DB DBPool }

// PlaceOrder converts the user's cart into an order in one transaction:
// load lines joined with live products, re-validate stock, snapshot prices,
// insert order + order lines, delete the cart lines. Anything failing rolls
// the whole thing back, leaving the cart exactly as it was.
//
// Prices are frozen at commit time: the rows the snapshot is written from
// are read inside this same transaction.
func (r *Repo) PlaceOrder(ctx context.Context, userID string, d PaymentDetails, totalExtraCents int) (Order, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Order{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var cartID string
	err = tx.QueryRow(ctx, `SELECT id FROM carts WHERE user_id=$1`, userID).Scan(&cartID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Order{}, ErrEmptyCart
		}
		return Order{}, err
	}

	type loaded struct {
		lineID     string
		productID  string
		qty        int
		priceCents int
		stock      int
		active     bool
	}
	rows, err := tx.Query(ctx, `
		SELECT cl.id, cl.product_id, cl.quantity, p.price_cents, p.stock, p.is_active
		FROM cart_lines cl
		JOIN products p ON p.id = cl.product_id
		WHERE cl.cart_id = $1
	`, cartID)
	if err != nil {
		return Order{}, err
	}
	var lines []loaded
	for rows.Next() {
		var l loaded
		if err := rows.Scan(&l.lineID, &l.productID, &l.qty, &l.priceCents, &l.stock, &l.active); err != nil {
			rows.Close()
			return Order{}, err
		}
		lines = append(lines, l)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return Order{}, err
	}
	if len(lines) == 0 {
		return Order{}, ErrEmptyCart
	}

	// re-validate against the live rows; the cart's stock ceiling is only
	// eventually consistent
	total := totalExtraCents
	for _, l := range lines {
		if !l.active || l.stock == 0 {
			return Order{}, fmt.Errorf("%w: product %s", cart.ErrProductUnavailable, l.productID)
		}
		if l.qty > l.stock {
			return Order{}, fmt.Errorf("%w: product %s", cart.ErrInsufficientStock, l.productID)
		}
		total += l.qty * l.priceCents
	}

	o := Order{
		ID:              uuid.NewString(),
		UserID:          userID,
		Status:          StatusPlaced,
		TotalCents:      total,
		CustomerName:    d.CustomerName,
		CustomerEmail:   d.CustomerEmail,
		CustomerPhone:   d.CustomerPhone,
		ShippingAddress: d.ShippingAddress,
		PaymentMethod:   d.PaymentMethod,
		PaymentMobile:   d.PaymentMobile,
		PaymentRef:      d.PaymentRef,
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO orders(id, user_id, status, total_cents,
		                   customer_name, customer_email, customer_phone,
		                   shipping_address, payment_method, payment_mobile, payment_ref)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING created_at
	`, o.ID, o.UserID, o.Status, o.TotalCents,
		o.CustomerName, o.CustomerEmail, o.CustomerPhone,
		o.ShippingAddress, o.PaymentMethod, o.PaymentMobile, o.PaymentRef).Scan(&o.CreatedAt)
	if err != nil {
		return Order{}, err
	}

	for _, l := range lines {
		ol := OrderLine{
			ID:         uuid.NewString(),
			OrderID:    o.ID,
			ProductID:  l.productID,
			Quantity:   l.qty,
			PriceCents: l.priceCents,
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO order_lines(id, order_id, product_id, quantity, price_cents)
			VALUES ($1,$2,$3,$4,$5)`,
			ol.ID, ol.OrderID, ol.ProductID, ol.Quantity, ol.PriceCents,
		); err != nil {
			return Order{}, err
		}
		o.Lines = append(o.Lines, ol)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM cart_lines WHERE cart_id=$1`, cartID); err != nil {
		return Order{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Order{}, err
	}
	return o, nil
}

func (r *Repo) GetOrder(ctx context.Context, userID, orderID string) (Order, error) {
	var o Order
	err := r.DB.QueryRow(ctx, `
		SELECT id, user_id, status, total_cents,
		       customer_name, customer_email, customer_phone,
		       shipping_address, payment_method, payment_mobile, payment_ref, created_at
		FROM orders WHERE id=$1 AND user_id=$2
	`, orderID, userID).Scan(&o.ID, &o.UserID, &o.Status, &o.TotalCents,
		&o.CustomerName, &o.CustomerEmail, &o.CustomerPhone,
		&o.ShippingAddress, &o.PaymentMethod, &o.PaymentMobile, &o.PaymentRef, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Order{}, ErrNotFound
		}
		return Order{}, err
	}

	rows, err := r.DB.Query(ctx, `
		SELECT id, order_id, product_id, quantity, price_cents
		FROM order_lines WHERE order_id=$1
	`, o.ID)
	if err != nil {
		return Order{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var ol OrderLine
		if err := rows.Scan(&ol.ID, &ol.OrderID, &ol.ProductID, &ol.Quantity, &ol.PriceCents); err != nil {
			return Order{}, err
		}
		o.Lines = append(o.Lines, ol)
	}
	return o, rows.Err()
}

// UpdateStatus is the fulfillment workflow's hook; the transition table is
// the only mutation an order admits.
func (r *Repo) UpdateStatus(ctx context.Context, orderID string, next Status) error {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var cur Status
	err = tx.QueryRow(ctx, `SELECT status FROM orders WHERE id=$1 FOR UPDATE`, orderID).Scan(&cur)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if !CanTransition(cur, next) {
		return fmt.Errorf("%w: %s -> %s", ErrBadTransition, cur, next)
	}
	if _, err := tx.Exec(ctx, `UPDATE orders SET status=$2 WHERE id=$1`, orderID, next); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
