package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/dinithim/storefront-checkout/internal/auth"
	"github.com/google/uuid"
)

const sessionCookie = "session_id"

type sessionKey struct{}

// Session identifies the shopper. A browser without a session cookie gets a
// fresh uuid, so the cart and checkout state survive page reloads but stay
// scoped to one browsing session. A bearer token, when present, rides along
// in the request context for the order gateway.
func Session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sid := ""
		if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
			if _, err := uuid.Parse(c.Value); err == nil {
				sid = c.Value
			}
		}
		if sid == "" {
			sid = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     sessionCookie,
				Value:    sid,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
				Expires:  time.Now().Add(24 * time.Hour),
			})
		}

		ctx := context.WithValue(r.Context(), sessionKey{}, sid)
		if token := bearerToken(r); token != "" {
			ctx = auth.WithToken(ctx, token)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SessionID returns the session identifier placed by the Session middleware.
func SessionID(ctx context.Context) string {
	sid, _ := ctx.Value(sessionKey{}).(string)
	return sid
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}
