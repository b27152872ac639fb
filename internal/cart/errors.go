package cart

import "errors"

var (
	// ErrNotFound covers a missing/inactive/out-of-stock product on add,
	// and a line that does not belong to the caller's cart.
	ErrNotFound = errors.New("not found")

	// ErrProductUnavailable means the product behind an existing line went
	// inactive or out of stock; the line is deleted while reporting this.
	ErrProductUnavailable = errors.New("product unavailable")

	// ErrInsufficientStock means the requested or merged quantity exceeds
	// current stock. No state is touched.
	ErrInsufficientStock = errors.New("insufficient stock")

	// errDuplicateLine: a concurrent insert won the (cart_id, product_id)
	// unique key. Internal only, converted into the merge path.
	errDuplicateLine = errors.New("duplicate cart line")
)
