package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/scheddesk/scheddesk/libs/auth"
	"github.com/scheddesk/scheddesk/libs/httpx"
)

// Actor is the operator behind the current request, taken from the session
// token. The username lands in created_by/updated_by audit columns.
type Actor struct {
	UserID   int
	Username string
}

type actorCtxKey struct{}

func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, actorCtxKey{}, a)
}

func ActorFrom(ctx context.Context) (Actor, bool) {
	a, ok := ctx.Value(actorCtxKey{}).(Actor)
	return a, ok
}

// RequireAuth verifies the Bearer token and stamps the actor into the
// request context. Requests without a valid token get a 401.
func RequireAuth(secret string) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				http.Error(w, "missing or invalid Authorization header", http.StatusUnauthorized)
				return
			}
			token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
			claims, err := auth.ParseAndVerifyHS256(token, secret)
			if err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}
			ctx := WithActor(r.Context(), Actor{UserID: claims.UserID, Username: claims.Sub})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
