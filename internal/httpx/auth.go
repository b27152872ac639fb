package httpx

import (
	"context"
	"net/http"
	"strings"
)

// Identity arrives pre-authenticated from the gateway as X-User-Id. This
// engine never authenticates; no header means the caller is rejected before
// any cart logic runs.
const HeaderUserID = "X-User-Id"

type ctxKey string

const ctxUserID ctxKey = "user_id"

func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid := strings.TrimSpace(r.Header.Get(HeaderUserID))
		if uid == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		ctx := context.WithValue(r.Context(), ctxUserID, uid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func UserID(ctx context.Context) string {
	if s, ok := ctx.Value(ctxUserID).(string); ok {
		return s
	}
	return ""
}
