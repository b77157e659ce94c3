package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"auth-gateway/internal/auth"
	"auth-gateway/internal/session"
)

// unexported, collision-proof context key
type accountContextKeyType struct{}

var accountKey = accountContextKeyType{}

// AccountFromContext returns the account attached by RequireAuth.
func AccountFromContext(ctx context.Context) (*auth.Account, bool) {
	acct, ok := ctx.Value(accountKey).(*auth.Account)
	return acct, ok && acct != nil
}

func WithAccount(ctx context.Context, acct *auth.Account) context.Context {
	return context.WithValue(ctx, accountKey, acct)
}

// SessionResolver is the part of session.Manager the guard needs.
type SessionResolver interface {
	CurrentAccount(ctx context.Context, sessionID string) *auth.Account
}

const defaultLookupTimeout = 5 * time.Second

type AuthMiddleware struct {
	Sessions SessionResolver
	Cookie   session.CookieOptions

	// Timeout bounds the session lookup; zero means five seconds.
	Timeout time.Duration
}

func NewAuthMiddleware(
	sessions SessionResolver,
	cookie session.CookieOptions,
	timeout time.Duration,
) *AuthMiddleware {
	return &AuthMiddleware{Sessions: sessions, Cookie: cookie, Timeout: timeout}
}

func (a *AuthMiddleware) lookup(r *http.Request, sessionID string) *auth.Account {
	timeout := a.Timeout
	if timeout <= 0 {
		timeout = defaultLookupTimeout
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()
	return a.Sessions.CurrentAccount(ctx, sessionID)
}

// RequireAuth lets the request through only when its session is bound to
// an account. It checks authentication only; role restrictions belong in
// a wrapper that reads AccountFromContext.
func (a *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID := session.FromRequest(r, a.Cookie)

		acct := a.lookup(r, sessionID)
		if acct == nil {
			unauthorized(w)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithAccount(r.Context(), acct)))
	})
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error": "authentication required",
	})
}
