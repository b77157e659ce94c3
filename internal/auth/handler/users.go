package handler

import (
	"net/http"

	"auth-gateway/internal/auth"
	"auth-gateway/internal/middleware"

	"github.com/gin-gonic/gin"
)

// ListUsers returns every account's public profile. Guarded.
func (h *Handler) ListUsers(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	list, err := h.accounts.List(ctx)
	if err != nil {
		h.fail(c, auth.Infra("list accounts", err))
		return
	}

	out := make([]auth.PublicProfile, 0, len(list))
	for i := range list {
		out = append(out, list[i].Profile())
	}
	c.JSON(http.StatusOK, out)
}

// Me returns the caller's own profile. Guarded.
func (h *Handler) Me(c *gin.Context) {
	acct, ok := middleware.GinAccount(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	c.JSON(http.StatusOK, acct.Profile())
}
