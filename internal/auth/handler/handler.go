package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"auth-gateway/internal/auth"
	"auth-gateway/internal/auth/credentials"
	"auth-gateway/internal/auth/federation"
	"auth-gateway/internal/logger"
	"auth-gateway/internal/session"

	"github.com/gin-gonic/gin"
)

// anonymousBody is what /loggedin returns when nobody is logged in; the
// client checks for it literally.
const anonymousBody = "0"

type Deps struct {
	Credentials *credentials.Service
	Federator   *federation.Federator
	Sessions    *session.Manager
	Accounts    auth.AccountStore
	Cookie      session.CookieOptions

	// RequestTimeout bounds the store and provider work of one request.
	RequestTimeout time.Duration
}

type Handler struct {
	credentials *credentials.Service
	local       auth.Strategy
	federator   *federation.Federator
	sessions    *session.Manager
	accounts    auth.AccountStore
	cookie      session.CookieOptions
	timeout     time.Duration
}

func NewHandler(d Deps) *Handler {
	timeout := d.RequestTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Handler{
		credentials: d.Credentials,
		local:       d.Credentials.Local(),
		federator:   d.Federator,
		sessions:    d.Sessions,
		accounts:    d.Accounts,
		cookie:      d.Cookie,
		timeout:     timeout,
	}
}

// RegisterRoutes mounts the gateway. guard protects the /rest group.
func (h *Handler) RegisterRoutes(r gin.IRouter, guard gin.HandlerFunc) {
	r.POST("/login", h.Login)
	r.POST("/signup", h.Signup)
	r.POST("/logout", h.Logout)
	r.GET("/loggedin", h.Status)

	r.GET("/auth/:provider", h.oauthLogin)
	r.GET("/auth/:provider/callback", h.oauthCallback)

	rest := r.Group("/rest", guard)
	rest.GET("/user", h.ListUsers)
	rest.GET("/me", h.Me)
}

func (h *Handler) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), h.timeout)
}

// bindSession rotates the caller's session onto acct and sends the new
// cookie.
func (h *Handler) bindSession(ctx context.Context, c *gin.Context, acct *auth.Account) error {
	newID, err := h.sessions.Bind(ctx, session.FromRequest(c.Request, h.cookie), acct)
	if err != nil {
		return err
	}
	session.SetCookie(c.Writer, newID, time.Now().Add(h.sessions.TTL()), h.cookie)
	return nil
}

// fail maps the error taxonomy onto status codes. Only validation
// messages are echoed to the client.
func (h *Handler) fail(c *gin.Context, err error) {
	var verr *auth.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": verr.Message,
			"field": verr.Field,
		})
	case errors.Is(err, auth.ErrAuthentication):
		c.JSON(http.StatusUnauthorized, gin.H{"error": auth.ErrAuthentication.Error()})
	case errors.Is(err, auth.ErrUsernameTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "username already taken"})
	case errors.Is(err, auth.ErrUnknownProvider):
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown oauth provider"})
	default:
		logger.Error("request failed", map[string]any{
			"path":  c.FullPath(),
			"error": err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
