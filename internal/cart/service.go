package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/ariefcatur/go-cart-checkout.git/internal/catalog"
)

// Store is the slice of the repository the service needs; *Repo implements it.
type Store interface {
	GetOrCreateCart(ctx context.Context, userID string) (Cart, error)
	FindLineByProduct(ctx context.Context, cartID, productID string) (Line, error)
	GetLine(ctx context.Context, cartID, lineID string) (Line, error)
	InsertLine(ctx context.Context, cartID, productID string, qty int) (Line, error)
	UpdateLineQuantity(ctx context.Context, lineID string, qty int) (Line, error)
	DeleteLine(ctx context.Context, lineID string) error
	LoadLines(ctx context.Context, cartID string) ([]LoadedLine, error)
}

// Catalog is the stock ledger read; *catalog.Repo implements it.
type Catalog interface {
	Get(ctx context.Context, productID string) (catalog.Product, error)
}

type Service struct {
	Store   Store
	Catalog Catalog
	Cache   Cache // optional
}

// AddLine adds qty of a product to the user's cart, merging into an existing
// line. created reports whether a new line was inserted (vs. merged).
//
// A concurrent add for the same (cart, product) may win the unique key; that
// conflict is converted into the merge path with a single retry. No locks.
func (s *Service) AddLine(ctx context.Context, userID, productID string, qty int) (lv LineView, created bool, err error) {
	p, err := s.Catalog.Get(ctx, productID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return LineView{}, false, ErrNotFound
		}
		return LineView{}, false, err
	}
	if !p.IsActive || p.Stock == 0 {
		return LineView{}, false, ErrNotFound
	}
	if qty > p.Stock {
		return LineView{}, false, ErrInsufficientStock
	}

	c, err := s.Store.GetOrCreateCart(ctx, userID)
	if err != nil {
		return LineView{}, false, err
	}

	line, err := s.Store.FindLineByProduct(ctx, c.ID, productID)
	switch {
	case err == nil:
		line, err = s.merge(ctx, line, p, qty)
		if err != nil {
			return LineView{}, false, err
		}
	case errors.Is(err, ErrNotFound):
		line, err = s.Store.InsertLine(ctx, c.ID, productID, qty)
		if errors.Is(err, errDuplicateLine) {
			// lost the insert race; merge into the winner's line, once
			line, err = s.Store.FindLineByProduct(ctx, c.ID, productID)
			if err != nil {
				// deliberately not wrapped: the retry failing is a generic
				// internal error, never a NotFound to the caller
				return LineView{}, false, fmt.Errorf("resolve cart line conflict: %v", err)
			}
			line, err = s.merge(ctx, line, p, qty)
			if err != nil {
				if errors.Is(err, ErrInsufficientStock) {
					return LineView{}, false, err
				}
				return LineView{}, false, fmt.Errorf("resolve cart line conflict: %v", err)
			}
		} else if err != nil {
			return LineView{}, false, err
		} else {
			created = true
		}
	default:
		return LineView{}, false, err
	}

	s.invalidate(ctx, userID)
	return viewOf(line, p), created, nil
}

func (s *Service) merge(ctx context.Context, line Line, p catalog.Product, qty int) (Line, error) {
	newQty := line.Quantity + qty
	if newQty > p.Stock {
		return Line{}, ErrInsufficientStock
	}
	return s.Store.UpdateLineQuantity(ctx, line.ID, newQty)
}

// UpdateLine sets a line to qty; qty <= 0 removes it. removed is true when
// the line is gone afterwards (including the already-removed no-op).
func (s *Service) UpdateLine(ctx context.Context, userID, lineID string, qty int) (lv LineView, removed bool, err error) {
	c, err := s.Store.GetOrCreateCart(ctx, userID)
	if err != nil {
		return LineView{}, false, err
	}

	line, err := s.Store.GetLine(ctx, c.ID, lineID)
	if err != nil {
		if errors.Is(err, ErrNotFound) && qty <= 0 {
			// already removed; removal is idempotent
			return LineView{}, true, nil
		}
		return LineView{}, false, err
	}

	p, err := s.Catalog.Get(ctx, line.ProductID)
	if err != nil && !errors.Is(err, catalog.ErrNotFound) {
		return LineView{}, false, err
	}
	if errors.Is(err, catalog.ErrNotFound) || !p.IsActive || p.Stock == 0 {
		// cleanup-on-read: drop the dead line while reporting the failure
		if derr := s.Store.DeleteLine(ctx, line.ID); derr != nil {
			return LineView{}, false, derr
		}
		s.invalidate(ctx, userID)
		return LineView{}, false, ErrProductUnavailable
	}

	if qty <= 0 {
		if err := s.Store.DeleteLine(ctx, line.ID); err != nil {
			return LineView{}, false, err
		}
		s.invalidate(ctx, userID)
		return LineView{}, true, nil
	}

	if qty > p.Stock {
		return LineView{}, false, ErrInsufficientStock
	}

	line, err = s.Store.UpdateLineQuantity(ctx, line.ID, qty)
	if err != nil {
		return LineView{}, false, err
	}
	s.invalidate(ctx, userID)
	return viewOf(line, p), false, nil
}

// RemoveLine deletes a line; deleting an absent line is a no-op.
func (s *Service) RemoveLine(ctx context.Context, userID, lineID string) error {
	c, err := s.Store.GetOrCreateCart(ctx, userID)
	if err != nil {
		return err
	}
	line, err := s.Store.GetLine(ctx, c.ID, lineID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}
	if err := s.Store.DeleteLine(ctx, line.ID); err != nil {
		return err
	}
	s.invalidate(ctx, userID)
	return nil
}

// GetCart returns the sanitized view. Lines whose product went inactive or
// sold out are deleted from storage during the read, so the cart heals
// itself against catalog drift without a sweep job.
func (s *Service) GetCart(ctx context.Context, userID string) (View, error) {
	if s.Cache != nil {
		if v, ok := s.Cache.GetView(ctx, userID); ok {
			return v, nil
		}
	}

	c, err := s.Store.GetOrCreateCart(ctx, userID)
	if err != nil {
		return View{}, err
	}
	loaded, err := s.Store.LoadLines(ctx, c.ID)
	if err != nil {
		return View{}, err
	}

	v := View{Lines: []LineView{}}
	for _, l := range loaded {
		if !l.Valid() {
			if err := s.Store.DeleteLine(ctx, l.ID); err != nil {
				return View{}, err
			}
			continue
		}
		lv := viewOf(l.Line, l.Product)
		v.Lines = append(v.Lines, lv)
		v.TotalCents += lv.SubtotalCents
	}

	if s.Cache != nil {
		s.Cache.SetView(ctx, userID, v)
	}
	return v, nil
}

func (s *Service) invalidate(ctx context.Context, userID string) {
	if s.Cache != nil {
		s.Cache.DeleteView(ctx, userID)
	}
}
