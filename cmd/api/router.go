package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/toko-cart/internal/catalog"
	"github.com/noah-isme/toko-cart/internal/checkout"
	"github.com/noah-isme/toko-cart/internal/common"
	"github.com/noah-isme/toko-cart/internal/config"
	"github.com/noah-isme/toko-cart/internal/health"
	"github.com/noah-isme/toko-cart/internal/obs"
	"github.com/noah-isme/toko-cart/internal/ratelimit"
	"github.com/noah-isme/toko-cart/internal/security"
)

type routerDeps struct {
	Config       *config.Config
	Logger       zerolog.Logger
	Catalog      *catalog.Catalog
	Quotes       *checkout.Handler
	Redis        *redis.Client
	QuoteLimiter ratelimit.Limiter
	ReadLimiter  ratelimit.Limiter
	HTTPMetrics  *obs.HTTPMetrics
	Metrics      http.Handler
	Tracing      bool
}

func newRouter(d routerDeps) http.Handler {
	cfg := d.Config
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(obs.RoutePatternMiddleware)
	if d.Tracing {
		r.Use(obs.TracingMiddleware)
	}
	if d.HTTPMetrics != nil {
		r.Use(obs.HTTPObs{Metrics: d.HTTPMetrics}.Middleware)
	}
	r.Use(obs.RequestLogger{Logger: d.Logger}.Middleware)
	r.Use(security.Headers{Enable: cfg.SecurityHeaders, EnableHSTS: cfg.EnableHSTS}.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins(cfg),
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "Idempotency-Key"},
		ExposedHeaders: []string{"X-Total-Count", "X-Quote-ID", "X-RateLimit-Remaining", "Idempotent-Replayed"},
		MaxAge:         300,
	}))

	if d.Metrics != nil {
		r.Handle("/metrics", d.Metrics)
	}

	healthHandler := health.Handler{
		Checker:      readinessChecker{catalog: d.Catalog, redis: d.Redis},
		RedisTimeout: 300 * time.Millisecond,
	}
	r.Get("/health/live", healthHandler.Live)
	r.Get("/health/ready", healthHandler.Ready)

	onLimitError := func(err error) {
		d.Logger.Warn().Err(err).Msg("rate limiter unavailable")
	}
	readLimit := ratelimit.Handler{
		Limiter: d.ReadLimiter,
		Config:  ratelimit.Config{Key: ratelimit.ByClientIP("catalog:"), Window: cfg.RateLimitWindow, Max: cfg.RateLimitMax},
		OnError: onLimitError,
	}
	quoteLimit := ratelimit.Handler{
		Limiter: d.QuoteLimiter,
		Config:  ratelimit.Config{Key: ratelimit.ByClientIP("quotes:"), Window: cfg.RateLimitWindow, Max: cfg.RateLimitMax},
		OnError: onLimitError,
	}
	idem := common.Idem{R: d.Redis, TTL: cfg.IdempotencyTTL}
	catalogHandler := catalog.NewHandler(catalog.HandlerConfig{Catalog: d.Catalog})

	r.Route("/api/v1", func(v chi.Router) {
		v.Group(func(g chi.Router) {
			g.Use(readLimit.Middleware)
			g.Get("/catalog", catalogHandler.Products)
			g.Get("/catalog/{id}", catalogHandler.Product)
		})
		v.With(
			security.Headers{Enable: cfg.SecurityHeaders, NoStore: true}.Middleware,
			quoteLimit.Middleware,
			middleware.RequestSize(cfg.MaxBodyBytes),
			idem.Middleware,
		).Post("/quotes", d.Quotes.Quote)
	})
	return r
}

func allowedOrigins(cfg *config.Config) []string {
	if len(cfg.CORSAllowedOrigins) == 0 {
		return []string{"*"}
	}
	return cfg.CORSAllowedOrigins
}

type readinessChecker struct {
	catalog *catalog.Catalog
	redis   *redis.Client
}

func (c readinessChecker) CheckCatalog(_ context.Context) error {
	if c.catalog.Len() == 0 {
		return catalog.ErrEmptyCatalog
	}
	return nil
}

func (c readinessChecker) PingRedis(ctx context.Context, timeout time.Duration) error {
	if c.redis == nil {
		return health.ErrDisabled
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return c.redis.Ping(ctx).Err()
}
