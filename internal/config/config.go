package config

import (
	"fmt"
	"strings"
	"time"

	"auth-gateway/internal/auth"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	AppPort string `env:"APP_PORT" envDefault:"3000"`

	DatabaseDriver string `env:"DATABASE_DRIVER" envDefault:"postgres"`
	DatabaseDSN    string `env:"DATABASE_DSN"`

	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	SessionTTL     time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	HandshakeTTL   time.Duration `env:"HANDSHAKE_TTL" envDefault:"5m"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"5s"`
	CookieSecure   bool          `env:"COOKIE_SECURE" envDefault:"true"`

	DefaultRedirect   string   `env:"DEFAULT_REDIRECT" envDefault:"/"`
	ReturnToAllowlist []string `env:"RETURN_TO_ALLOWLIST" envSeparator:","`

	BcryptCost   int      `env:"BCRYPT_COST" envDefault:"10"`
	DefaultRoles []string `env:"DEFAULT_ROLES" envSeparator:"," envDefault:"student"`

	StaticDir string `env:"STATIC_DIR"`

	GoogleClientID     string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string `env:"GOOGLE_REDIRECT_URL"`

	KeycloakIssuer        string `env:"KEYCLOAK_ISSUER"`
	KeycloakClientID      string `env:"KEYCLOAK_CLIENT_ID"`
	KeycloakRedirectURL   string `env:"KEYCLOAK_REDIRECT_URL"`
	KeycloakPublicBaseURL string `env:"KEYCLOAK_PUBLIC_BASE_URL"`
	KeycloakRealm         string `env:"KEYCLOAK_REALM" envDefault:"auth-service"`

	FacebookClientID     string `env:"FACEBOOK_CLIENT_ID"`
	FacebookClientSecret string `env:"FACEBOOK_CLIENT_SECRET"`
	FacebookRedirectURL  string `env:"FACEBOOK_REDIRECT_URL"`
}

// Load reads the configuration from the environment and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	cfg.ReturnToAllowlist = trimCSV(cfg.ReturnToAllowlist)
	cfg.DefaultRoles = trimCSV(cfg.DefaultRoles)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.DatabaseDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("config: unsupported DATABASE_DRIVER %q", c.DatabaseDriver)
	}
	if c.DatabaseDSN == "" {
		return fmt.Errorf("config: DATABASE_DSN is required")
	}
	if c.SessionTTL <= 0 || c.HandshakeTTL <= 0 || c.RequestTimeout <= 0 {
		return fmt.Errorf("config: SESSION_TTL, HANDSHAKE_TTL and REQUEST_TIMEOUT must be positive")
	}
	for _, role := range c.DefaultRoles {
		if !auth.ValidRole(role) {
			return fmt.Errorf("config: DEFAULT_ROLES entry %q is not a valid role", role)
		}
	}
	if !strings.HasPrefix(c.DefaultRedirect, "/") || strings.HasPrefix(c.DefaultRedirect, "//") {
		return fmt.Errorf("config: DEFAULT_REDIRECT must be a local path")
	}
	return nil
}

// GoogleEnabled reports whether all Google OAuth settings are present.
func (c Config) GoogleEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != "" && c.GoogleRedirectURL != ""
}

func (c Config) KeycloakEnabled() bool {
	return c.KeycloakIssuer != "" && c.KeycloakClientID != "" && c.KeycloakRedirectURL != ""
}

func (c Config) FacebookEnabled() bool {
	return c.FacebookClientID != "" && c.FacebookClientSecret != "" && c.FacebookRedirectURL != ""
}

func trimCSV(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
