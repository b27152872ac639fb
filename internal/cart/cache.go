package cart

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ariefcatur/go-cart-checkout.git/internal/redisx"
	"github.com/redis/go-redis/v9"
)

// Cache holds the sanitized view per user. Best-effort: cache errors are
// swallowed, the DB stays the source of truth.
type Cache interface {
	GetView(ctx context.Context, userID string) (View, bool)
	SetView(ctx context.Context, userID string, v View)
	DeleteView(ctx context.Context, userID string)
}

type RedisCache struct{ Client *redis.Client }

func (c *RedisCache) GetView(ctx context.Context, userID string) (View, bool) {
	key := fmt.Sprintf(redisx.KeyCartView, userID)
	s, err := c.Client.Get(ctx, key).Result()
	if err != nil || s == "" {
		return View{}, false
	}
	var v View
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return View{}, false
	}
	return v, true
}

func (c *RedisCache) SetView(ctx context.Context, userID string, v View) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	key := fmt.Sprintf(redisx.KeyCartView, userID)
	_ = c.Client.Set(ctx, key, b, redisx.TTLCartView).Err()
}

func (c *RedisCache) DeleteView(ctx context.Context, userID string) {
	key := fmt.Sprintf(redisx.KeyCartView, userID)
	_ = c.Client.Del(ctx, key).Err()
}
