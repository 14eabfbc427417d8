package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	authdomain "github.com/Black-And-White-Club/league-night/app/modules/auth/domain"
	authhandlers "github.com/Black-And-White-Club/league-night/app/modules/auth/infrastructure/handlers"
	authjwt "github.com/Black-And-White-Club/league-night/app/modules/auth/infrastructure/jwt"
	"github.com/Black-And-White-Club/league-night/app/shared/observability"
	"github.com/Black-And-White-Club/league-night/config"
	"github.com/go-chi/chi/v5"
	"golang.org/x/time/rate"
)

// Module verifies bearer tokens for the HTTP API. Tokens are issued by the
// league's identity provider with the shared secret.
type Module struct {
	Provider   authjwt.Provider
	limiter    *authhandlers.IPRateLimiter
	origins    []string
	defaultTTL time.Duration
	logger     *slog.Logger
}

// NewModule creates a new auth module.
func NewModule(ctx context.Context, cfg *config.Config, obs observability.Observability) (*Module, error) {
	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}
	obs.Logger.InfoContext(ctx, "Initializing auth module")

	return &Module{
		Provider:   authjwt.NewProvider(cfg.JWT.Secret, cfg.JWT.Issuer),
		limiter:    authhandlers.NewIPRateLimiter(rate.Limit(cfg.HTTP.RateLimit), cfg.HTTP.RateBurst),
		origins:    cfg.HTTP.AllowedOrigins,
		defaultTTL: cfg.JWT.DefaultTTL,
		logger:     obs.Logger,
	}, nil
}

// Protect installs CORS, per-IP rate limiting and bearer authentication on r.
func (m *Module) Protect(r chi.Router) {
	r.Use(authhandlers.CORSMiddleware(m.origins))
	r.Use(authhandlers.RateLimitMiddleware(m.limiter))
	r.Use(authhandlers.BearerAuth(m.Provider, m.logger))
}

// IssueToken signs claims with the configured TTL when ttl is zero.
func (m *Module) IssueToken(claims *authdomain.Claims, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = m.defaultTTL
	}
	return m.Provider.GenerateToken(claims, ttl)
}
