package cart

import (
	"context"
	"errors"

	"github.com/ariefcatur/go-cart-checkout.git/internal/catalog"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ DB *pgxpool.Pool }

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// GetOrCreateCart is idempotent and safe under concurrent calls: the insert
// is a no-op when another request created the row first, the re-select
// returns whichever row won.
func (r *Repo) GetOrCreateCart(ctx context.Context, userID string) (Cart, error) {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO carts(id, user_id) VALUES ($1, $2)
		ON CONFLICT (user_id) DO NOTHING
	`, uuid.NewString(), userID)
	if err != nil {
		return Cart{}, err
	}

	var c Cart
	err = r.DB.QueryRow(ctx, `SELECT id, user_id, created_at FROM carts WHERE user_id=$1`, userID).
		Scan(&c.ID, &c.UserID, &c.CreatedAt)
	if err != nil {
		return Cart{}, err
	}
	return c, nil
}

func (r *Repo) FindLineByProduct(ctx context.Context, cartID, productID string) (Line, error) {
	var l Line
	err := r.DB.QueryRow(ctx, `SELECT id, cart_id, product_id, quantity, updated_at
	                           FROM cart_lines WHERE cart_id=$1 AND product_id=$2`, cartID, productID).
		Scan(&l.ID, &l.CartID, &l.ProductID, &l.Quantity, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Line{}, ErrNotFound
		}
		return Line{}, err
	}
	return l, nil
}

// GetLine is scoped by cart id, which is the ownership check.
func (r *Repo) GetLine(ctx context.Context, cartID, lineID string) (Line, error) {
	var l Line
	err := r.DB.QueryRow(ctx, `SELECT id, cart_id, product_id, quantity, updated_at
	                           FROM cart_lines WHERE id=$1 AND cart_id=$2`, lineID, cartID).
		Scan(&l.ID, &l.CartID, &l.ProductID, &l.Quantity, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Line{}, ErrNotFound
		}
		return Line{}, err
	}
	return l, nil
}

// InsertLine returns errDuplicateLine when the (cart_id, product_id) unique
// key trips; the caller falls back to the merge path.
func (r *Repo) InsertLine(ctx context.Context, cartID, productID string, qty int) (Line, error) {
	l := Line{ID: uuid.NewString(), CartID: cartID, ProductID: productID, Quantity: qty}
	err := r.DB.QueryRow(ctx, `
		INSERT INTO cart_lines(id, cart_id, product_id, quantity)
		VALUES ($1, $2, $3, $4)
		RETURNING updated_at
	`, l.ID, l.CartID, l.ProductID, l.Quantity).Scan(&l.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return Line{}, errDuplicateLine
		}
		return Line{}, err
	}
	return l, nil
}

func (r *Repo) UpdateLineQuantity(ctx context.Context, lineID string, qty int) (Line, error) {
	var l Line
	err := r.DB.QueryRow(ctx, `
		UPDATE cart_lines SET quantity=$2, updated_at=now()
		WHERE id=$1
		RETURNING id, cart_id, product_id, quantity, updated_at
	`, lineID, qty).Scan(&l.ID, &l.CartID, &l.ProductID, &l.Quantity, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Line{}, ErrNotFound
		}
		return Line{}, err
	}
	return l, nil
}

func (r *Repo) DeleteLine(ctx context.Context, lineID string) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM cart_lines WHERE id=$1`, lineID)
	return err
}

// LoadLines returns the cart's lines joined with their live product rows,
// most recently touched first.
func (r *Repo) LoadLines(ctx context.Context, cartID string) ([]LoadedLine, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT cl.id, cl.cart_id, cl.product_id, cl.quantity, cl.updated_at,
		       p.id, p.name, p.price_cents, p.stock, p.is_active, p.created_at, p.updated_at
		FROM cart_lines cl
		JOIN products p ON p.id = cl.product_id
		WHERE cl.cart_id = $1
		ORDER BY cl.updated_at DESC
	`, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LoadedLine
	for rows.Next() {
		var l Line
		var p catalog.Product
		if err := rows.Scan(&l.ID, &l.CartID, &l.ProductID, &l.Quantity, &l.UpdatedAt,
			&p.ID, &p.Name, &p.PriceCents, &p.Stock, &p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, LoadedLine{Line: l, Product: p})
	}
	return out, rows.Err()
}
