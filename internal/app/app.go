// AngelaMos | 2026
// app.go

package app

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/coworkflow/internal/activity"
	"github.com/carterperez-dev/coworkflow/internal/admin"
	"github.com/carterperez-dev/coworkflow/internal/auth"
	"github.com/carterperez-dev/coworkflow/internal/checkin"
	"github.com/carterperez-dev/coworkflow/internal/config"
	"github.com/carterperez-dev/coworkflow/internal/core"
	"github.com/carterperez-dev/coworkflow/internal/events"
	"github.com/carterperez-dev/coworkflow/internal/health"
	"github.com/carterperez-dev/coworkflow/internal/middleware"
	"github.com/carterperez-dev/coworkflow/internal/payment"
	"github.com/carterperez-dev/coworkflow/internal/pricing"
	"github.com/carterperez-dev/coworkflow/internal/qrcode"
	"github.com/carterperez-dev/coworkflow/internal/session"
	"github.com/carterperez-dev/coworkflow/internal/stats"
	"github.com/carterperez-dev/coworkflow/internal/user"
)

// Deps are the already-connected backends. Database and Redis may be nil,
// in which case health and admin report them as unconfigured and the rate
// limiter runs in-process.
type Deps struct {
	Config    *config.Config
	Stores    Stores
	Database  *core.Database
	Redis     *core.Redis
	Publisher events.Publisher
	Logger    *slog.Logger
	Now       func() time.Time
}

type App struct {
	Router   chi.Router
	Health   *health.Handler
	Sessions *session.Manager
	Users    *user.Service
	Auth     *auth.Service
	Activity *activity.Service
	CheckIns *checkin.Service
	Codes    *qrcode.Service
	Pricing  *pricing.Service
	Payments *payment.Service
	Stats    *stats.Service
}

// New wires services and routes. ctx bounds the rate limiter's background
// cleanup.
//
//nolint:funlen // wiring is inherently verbose
func New(ctx context.Context, deps Deps) *App {
	cfg := deps.Config

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	publisher := deps.Publisher
	if publisher == nil {
		publisher = events.NewNoopPublisher()
	}

	users := user.NewService(deps.Stores.Users)
	gate := users.Gate()

	sessions := session.NewManager(deps.Stores.Sessions, cfg.Session, cfg.IsProduction())
	activitySvc := activity.NewService(deps.Stores.Activity, users, gate, publisher)
	authSvc := auth.NewService(users, sessions, activitySvc)
	checkinSvc := checkin.NewService(deps.Stores.CheckIns, users, activitySvc, gate)
	codeSvc := qrcode.NewService(deps.Stores.Codes, users, checkinSvc, gate)
	pricingSvc := pricing.NewService(deps.Stores.Pricing, gate)
	paymentSvc := payment.NewService(deps.Stores.Payments, users, activitySvc, gate, cfg.Receipt)
	statsSvc := stats.NewService(activitySvc, checkinSvc, paymentSvc, gate)

	if deps.Now != nil {
		sessions.WithClock(deps.Now)
		activitySvc.WithClock(deps.Now)
		checkinSvc.WithClock(deps.Now)
		codeSvc.WithClock(deps.Now)
		pricingSvc.WithClock(deps.Now)
		paymentSvc.WithClock(deps.Now)
		statsSvc.WithClock(deps.Now)
	}

	healthDeps := []health.Dependency{
		{Name: "broker", Checker: publisher, Optional: true},
	}
	adminCfg := admin.HandlerConfig{
		BrokerPing: publisher.Ping,
		Sessions:   sessions,
		Pricing:    pricingSvc,
		Gate:       gate,
	}
	if deps.Database != nil {
		healthDeps = append(healthDeps, health.Dependency{Name: "database", Checker: deps.Database})
		adminCfg.DBStats = deps.Database.Stats
		adminCfg.DBPing = deps.Database.Ping
	}

	var rdb *core.Redis
	if deps.Redis != nil {
		rdb = deps.Redis
		healthDeps = append(healthDeps, health.Dependency{Name: "redis", Checker: rdb, Optional: true})
		adminCfg.RedisStats = rdb.PoolStats
		adminCfg.RedisPing = rdb.Ping
	}

	healthHandler := health.NewHandler(healthDeps...)

	globalLimiter := newLimiter(ctx, rdb, middleware.RateLimitConfig{
		Limit:  middleware.GlobalLimit(cfg.RateLimit),
		Prefix: "ratelimit:global",
	})
	credentialLimiter := newLimiter(ctx, rdb, middleware.RateLimitConfig{
		Limit:  middleware.CredentialLimit(cfg.RateLimit),
		Prefix: "ratelimit:credentials",
	})

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)

	router.Route("/api", func(r chi.Router) {
		r.Use(globalLimiter.Handler)
		r.Use(middleware.LoadSession(sessions))

		auth.NewHandler(authSvc, sessions).RegisterRoutes(r, credentialLimiter.Handler)
		qrcode.NewHandler(codeSvc).RegisterRoutes(r, credentialLimiter.Handler)
		user.NewHandler(users).RegisterRoutes(r)
		checkin.NewHandler(checkinSvc).RegisterRoutes(r)
		pricing.NewHandler(pricingSvc).RegisterRoutes(r)
		payment.NewHandler(paymentSvc).RegisterRoutes(r)
		activity.NewHandler(activitySvc).RegisterRoutes(r)
		stats.NewHandler(statsSvc).RegisterRoutes(r)
		admin.NewHandler(adminCfg).RegisterRoutes(r)
	})

	router.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		core.NotFound(w, "route")
	})

	return &App{
		Router:   router,
		Health:   healthHandler,
		Sessions: sessions,
		Users:    users,
		Auth:     authSvc,
		Activity: activitySvc,
		CheckIns: checkinSvc,
		Codes:    codeSvc,
		Pricing:  pricingSvc,
		Payments: paymentSvc,
		Stats:    statsSvc,
	}
}

func newLimiter(
	ctx context.Context,
	rdb *core.Redis,
	cfg middleware.RateLimitConfig,
) *middleware.RateLimiter {
	if rdb == nil {
		return middleware.NewRateLimiter(ctx, nil, cfg)
	}
	return middleware.NewRateLimiter(ctx, rdb.Client, cfg)
}
