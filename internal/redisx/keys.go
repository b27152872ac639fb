package redisx

import "time"

const (
	// Sanitized cart view per user: cart_view:{user_id} -> JSON view
	KeyCartView = "cart_view:%s"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLCartView = 5 * time.Minute
	TTLDedup    = 48 * time.Hour
)
