package middleware

import (
	"net/http"

	"auth-gateway/internal/auth"

	"github.com/gin-gonic/gin"
)

// GinRequireAuth adapts the net/http AuthMiddleware to Gin, so both
// stacks share one access decision.
func GinRequireAuth(guard *AuthMiddleware) gin.HandlerFunc {
	return func(c *gin.Context) {
		passed := false

		// Bridge handler: carries the enriched request back into gin
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			passed = true
			c.Request = r
			c.Next()
		})

		guard.RequireAuth(next).ServeHTTP(c.Writer, c.Request)

		if !passed {
			c.Abort()
		}
	}
}

// GinAccount returns the account attached by GinRequireAuth.
func GinAccount(c *gin.Context) (*auth.Account, bool) {
	return AccountFromContext(c.Request.Context())
}
