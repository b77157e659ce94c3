package app

import (
	"context"
	"net/http"
	"path/filepath"
	"strings"

	"auth-gateway/internal/auth/accounts"
	"auth-gateway/internal/auth/credentials"
	"auth-gateway/internal/auth/federation"
	"auth-gateway/internal/auth/handler"
	"auth-gateway/internal/auth/provider"
	"auth-gateway/internal/auth/resolver"
	"auth-gateway/internal/config"
	"auth-gateway/internal/db"
	"auth-gateway/internal/middleware"
	"auth-gateway/internal/session"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
)

func setupHTTP(ctx context.Context, cfg config.Config) (*gin.Engine, func() error, error) {
	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	registry, err := setupProviders(ctx, cfg)
	if err != nil {
		_ = infra.Close()
		return nil, nil, err
	}

	router, err := newRouter(cfg, infra.DB, infra.Redis.Client, registry)
	if err != nil {
		_ = infra.Close()
		return nil, nil, err
	}
	return router, infra.Close, nil
}

// newRouter wires the gateway onto already-open backends.
func newRouter(
	cfg config.Config,
	database *db.DB,
	rdb *goredis.Client,
	registry *provider.Registry,
) (*gin.Engine, error) {

	// ----------------------------
	// Dependencies
	// ----------------------------

	accountStore := accounts.NewSQLStore(database)

	credentialService, err := credentials.NewService(
		accountStore,
		credentials.NewBcryptHasher(cfg.BcryptCost),
		cfg.DefaultRoles,
	)
	if err != nil {
		return nil, err
	}

	sessions := session.NewManager(
		session.NewRedisStore(rdb),
		accountStore,
		cfg.SessionTTL,
		cfg.HandshakeTTL,
	)

	federator := federation.New(
		registry,
		sessions,
		resolver.NewStoreResolver(accountStore, cfg.DefaultRoles),
		federation.Options{
			DefaultRedirect: cfg.DefaultRedirect,
			Allowlist:       cfg.ReturnToAllowlist,
		},
	)

	cookie := session.CookieOptions{
		Secure:   cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}

	authHandler := handler.NewHandler(handler.Deps{
		Credentials:    credentialService,
		Federator:      federator,
		Sessions:       sessions,
		Accounts:       accountStore,
		Cookie:         cookie,
		RequestTimeout: cfg.RequestTimeout,
	})

	guard := middleware.NewAuthMiddleware(sessions, cookie, cfg.RequestTimeout)

	// ----------------------------
	// Router
	// ----------------------------

	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger())

	authHandler.RegisterRoutes(router, middleware.GinRequireAuth(guard))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ----------------------------
	// SPA assets
	// ----------------------------

	if cfg.StaticDir != "" {
		router.NoRoute(staticHandler(cfg.StaticDir))
	}

	return router, nil
}

// staticHandler serves the client bundle for unmatched GETs and falls back
// to index.html so client-side routes load.
func staticHandler(dir string) gin.HandlerFunc {
	files := http.Dir(dir)
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}

		name := filepath.Clean("/" + strings.TrimPrefix(c.Request.URL.Path, "/"))
		if f, err := files.Open(name); err == nil {
			stat, serr := f.Stat()
			_ = f.Close()
			if serr == nil && !stat.IsDir() {
				c.File(filepath.Join(dir, filepath.FromSlash(name)))
				return
			}
		}
		c.File(filepath.Join(dir, "index.html"))
	}
}
