package handler

import (
	"errors"
	"net/http"
	"time"

	"auth-gateway/internal/auth"
	"auth-gateway/internal/auth/federation"
	"auth-gateway/internal/logger"
	"auth-gateway/internal/session"

	"github.com/gin-gonic/gin"
)

func (h *Handler) oauthLogin(c *gin.Context) {
	providerName := c.Param("provider")

	ctx, cancel := h.requestContext(c)
	defer cancel()

	// the handshake needs a session to hang off, even an anonymous one
	sid := session.FromRequest(c.Request, h.cookie)
	fresh := sid == ""
	if fresh {
		var err error
		if sid, err = session.GenerateID(); err != nil {
			h.fail(c, err)
			return
		}
	}

	authURL, err := h.federator.Initiate(ctx, sid, providerName, c.Query("returnTo"))
	if err != nil {
		h.fail(c, err)
		return
	}

	if fresh {
		// browser-session cookie; Bind replaces it on success
		session.SetCookie(c.Writer, sid, time.Time{}, h.cookie)
	}
	c.Redirect(http.StatusFound, authURL)
}

func (h *Handler) oauthCallback(c *gin.Context) {
	providerName := c.Param("provider")

	ctx, cancel := h.requestContext(c)
	defer cancel()

	out, err := h.federator.Callback(
		ctx,
		session.FromRequest(c.Request, h.cookie),
		providerName,
		federation.CallbackParams{
			Code:             c.Query("code"),
			State:            c.Query("state"),
			Error:            c.Query("error"),
			ErrorDescription: c.Query("error_description"),
		},
	)
	if err != nil {
		fields := map[string]any{
			"provider": providerName,
			"error":    err.Error(),
		}
		var fe *auth.FederationError
		if errors.As(err, &fe) {
			logger.Warn("oauth callback rejected", fields)
		} else {
			logger.Error("oauth callback failed", fields)
		}
		c.Redirect(http.StatusFound, out.Redirect)
		return
	}

	session.SetCookie(c.Writer, out.SessionID, time.Now().Add(h.sessions.TTL()), h.cookie)

	logger.Info("login succeeded", map[string]any{
		"account_id": out.Account.ID,
		"strategy":   providerName,
		"client_ip":  c.ClientIP(),
	})

	c.Redirect(http.StatusFound, out.Redirect)
}
