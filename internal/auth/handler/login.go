package handler

import (
	"net/http"

	"auth-gateway/internal/auth"
	"auth-gateway/internal/auth/credentials"
	"auth-gateway/internal/logger"
	"auth-gateway/internal/session"

	"github.com/gin-gonic/gin"
)

// Login accepts JSON or form credentials.
func (h *Handler) Login(c *gin.Context) {
	var req credentials.Credentials
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	acct, err := h.local.Authenticate(ctx, auth.Proof{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	if err := h.bindSession(ctx, c, acct); err != nil {
		h.fail(c, err)
		return
	}

	logger.Info("login succeeded", map[string]any{
		"account_id": acct.ID,
		"strategy":   h.local.Name(),
		"client_ip":  c.ClientIP(),
	})

	c.JSON(http.StatusOK, acct.Profile())
}

// Signup registers a local account and logs it in.
func (h *Handler) Signup(c *gin.Context) {
	var req credentials.Credentials
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	acct, err := h.credentials.Register(ctx, req)
	if err != nil {
		h.fail(c, err)
		return
	}

	if err := h.bindSession(ctx, c, acct); err != nil {
		h.fail(c, err)
		return
	}

	logger.Info("account registered", map[string]any{
		"account_id": acct.ID,
	})

	c.JSON(http.StatusOK, acct.Profile())
}

// Logout always succeeds; there may be nothing to unbind.
func (h *Handler) Logout(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	if sid := session.FromRequest(c.Request, h.cookie); sid != "" {
		if err := h.sessions.Unbind(ctx, sid); err != nil {
			logger.Warn("logout unbind failed", map[string]any{
				"error": err.Error(),
			})
		}
		if err := h.sessions.ClearHandshake(ctx, sid); err != nil {
			logger.Warn("logout clear handshake failed", map[string]any{
				"error": err.Error(),
			})
		}
	}

	session.ClearCookie(c.Writer, h.cookie)
	c.JSON(http.StatusOK, gin.H{"status": "logged_out"})
}

// Status reports the current account, or the anonymous sentinel. It never
// creates a session.
func (h *Handler) Status(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	acct := h.sessions.CurrentAccount(ctx, session.FromRequest(c.Request, h.cookie))
	if acct == nil {
		c.String(http.StatusOK, anonymousBody)
		return
	}
	c.JSON(http.StatusOK, acct.Profile())
}
