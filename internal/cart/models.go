package cart

import (
	"time"

	"github.com/ariefcatur/go-cart-checkout.git/internal/catalog"
)

// Cart is created lazily on first access, one per user, never deleted.
type Cart struct {
	ID        string
	UserID    string
	CreatedAt time.Time
}

// Line pairs one product with a quantity; (cart_id, product_id) is unique.
type Line struct {
	ID        string
	CartID    string
	ProductID string
	Quantity  int
	UpdatedAt time.Time
}

// LoadedLine is a line joined with its live product row.
type LoadedLine struct {
	Line
	Product catalog.Product
}

func (l LoadedLine) Valid() bool {
	return l.Product.IsActive && l.Product.Stock > 0
}

// LineView is the client-facing snapshot of one line.
type LineView struct {
	LineID        string `json:"line_id"`
	ProductID     string `json:"product_id"`
	Name          string `json:"name"`
	PriceCents    int    `json:"price_cents"`
	Quantity      int    `json:"quantity"`
	SubtotalCents int    `json:"subtotal_cents"`
}

// View is the sanitized cart as returned to (and cached for) the client.
type View struct {
	Lines      []LineView `json:"lines"`
	TotalCents int        `json:"total_cents"`
}

func viewOf(l Line, p catalog.Product) LineView {
	return LineView{
		LineID:        l.ID,
		ProductID:     p.ID,
		Name:          p.Name,
		PriceCents:    p.PriceCents,
		Quantity:      l.Quantity,
		SubtotalCents: l.Quantity * p.PriceCents,
	}
}
