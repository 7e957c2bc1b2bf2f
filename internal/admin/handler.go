// AngelaMos | 2026
// handler.go

package admin

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"runtime"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/carterperez-dev/coworkflow/internal/access"
	"github.com/carterperez-dev/coworkflow/internal/core"
	"github.com/carterperez-dev/coworkflow/internal/middleware"
)

type SessionPruner interface {
	Prune(ctx context.Context) (int64, error)
}

type PriceSweeper interface {
	ApplyDue(ctx context.Context) (int, error)
}

// Handler exposes super_admin maintenance endpoints. Any stats or ping
// func may be nil when the backing store is not configured.
type Handler struct {
	dbStats    func() sql.DBStats
	redisStats func() *redis.PoolStats
	redisPing  func(ctx context.Context) error
	dbPing     func(ctx context.Context) error
	brokerPing func(ctx context.Context) error
	sessions   SessionPruner
	pricing    PriceSweeper
	gate       middleware.Authorizer
}

type HandlerConfig struct {
	DBStats    func() sql.DBStats
	RedisStats func() *redis.PoolStats
	RedisPing  func(ctx context.Context) error
	DBPing     func(ctx context.Context) error
	BrokerPing func(ctx context.Context) error
	Sessions   SessionPruner
	Pricing    PriceSweeper
	Gate       middleware.Authorizer
}

func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		dbStats:    cfg.DBStats,
		redisStats: cfg.RedisStats,
		redisPing:  cfg.RedisPing,
		dbPing:     cfg.DBPing,
		brokerPing: cfg.BrokerPing,
		sessions:   cfg.Sessions,
		pricing:    cfg.Pricing,
		gate:       cfg.Gate,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.RequireSession)
		r.Use(middleware.RequireRole(h.gate, access.RoleSuperAdmin))

		r.Get("/system", h.GetSystemStats)
		r.Post("/sessions/prune", h.PruneSessions)
		r.Post("/pricing/sweep", h.SweepPricing)
	})
}

func (h *Handler) GetSystemStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	response := SystemStatsResponse{
		Database: DatabaseStatus{
			Healthy: pingOK(ctx, h.dbPing),
			Stats:   h.getDBStats(),
		},
		Redis: RedisStatus{
			Healthy: pingOK(ctx, h.redisPing),
			Stats:   h.getRedisStats(),
		},
		Broker: BrokerStatus{
			Healthy: pingOK(ctx, h.brokerPing),
		},
		Runtime: RuntimeStats{
			GoVersion:    runtime.Version(),
			NumGoroutine: runtime.NumGoroutine(),
			NumCPU:       runtime.NumCPU(),
			MemAlloc:     memStats.Alloc,
			MemSys:       memStats.Sys,
			NumGC:        memStats.NumGC,
		},
	}

	core.OK(w, response)
}

func (h *Handler) PruneSessions(w http.ResponseWriter, r *http.Request) {
	n, err := h.sessions.Prune(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	slog.Info("sessions pruned by admin",
		"count", n,
		"user_id", middleware.GetUserID(r.Context()),
	)
	core.OK(w, map[string]int64{"pruned": n})
}

// SweepPricing applies due scheduled price changes without waiting for
// the background sweeper. Partial failures still report the applied count.
func (h *Handler) SweepPricing(w http.ResponseWriter, r *http.Request) {
	n, err := h.pricing.ApplyDue(r.Context())
	if err != nil {
		slog.Error("manual price sweep incomplete",
			"applied", n,
			"error", err,
		)
		if n == 0 {
			core.InternalServerError(w, err)
			return
		}
	}

	core.OK(w, map[string]int{"applied": n})
}

// pingOK treats an unconfigured dependency as unhealthy.
func pingOK(ctx context.Context, ping func(context.Context) error) bool {
	if ping == nil {
		return false
	}
	return ping(ctx) == nil
}

func (h *Handler) getDBStats() *DBPoolStats {
	if h.dbStats == nil {
		return nil
	}

	stats := h.dbStats()
	return &DBPoolStats{
		MaxOpenConnections: stats.MaxOpenConnections,
		OpenConnections:    stats.OpenConnections,
		InUse:              stats.InUse,
		Idle:               stats.Idle,
		WaitCount:          stats.WaitCount,
		WaitDuration:       stats.WaitDuration.String(),
		MaxIdleClosed:      stats.MaxIdleClosed,
		MaxIdleTimeClosed:  stats.MaxIdleTimeClosed,
		MaxLifetimeClosed:  stats.MaxLifetimeClosed,
	}
}

func (h *Handler) getRedisStats() *RedisPoolStats {
	if h.redisStats == nil {
		return nil
	}

	stats := h.redisStats()
	return &RedisPoolStats{
		Hits:       stats.Hits,
		Misses:     stats.Misses,
		Timeouts:   stats.Timeouts,
		TotalConns: stats.TotalConns,
		IdleConns:  stats.IdleConns,
		StaleConns: stats.StaleConns,
	}
}

type SystemStatsResponse struct {
	Database DatabaseStatus `json:"database"`
	Redis    RedisStatus    `json:"redis"`
	Broker   BrokerStatus   `json:"broker"`
	Runtime  RuntimeStats   `json:"runtime"`
}

type DatabaseStatus struct {
	Healthy bool         `json:"healthy"`
	Stats   *DBPoolStats `json:"stats,omitempty"`
}

type RedisStatus struct {
	Healthy bool            `json:"healthy"`
	Stats   *RedisPoolStats `json:"stats,omitempty"`
}

type BrokerStatus struct {
	Healthy bool `json:"healthy"`
}

type DBPoolStats struct {
	MaxOpenConnections int    `json:"max_open_connections"`
	OpenConnections    int    `json:"open_connections"`
	InUse              int    `json:"in_use"`
	Idle               int    `json:"idle"`
	WaitCount          int64  `json:"wait_count"`
	WaitDuration       string `json:"wait_duration"`
	MaxIdleClosed      int64  `json:"max_idle_closed"`
	MaxIdleTimeClosed  int64  `json:"max_idle_time_closed"`
	MaxLifetimeClosed  int64  `json:"max_lifetime_closed"`
}

type RedisPoolStats struct {
	Hits       uint32 `json:"hits"`
	Misses     uint32 `json:"misses"`
	Timeouts   uint32 `json:"timeouts"`
	TotalConns uint32 `json:"total_conns"`
	IdleConns  uint32 `json:"idle_conns"`
	StaleConns uint32 `json:"stale_conns"`
}

type RuntimeStats struct {
	GoVersion    string `json:"go_version"`
	NumGoroutine int    `json:"num_goroutine"`
	NumCPU       int    `json:"num_cpu"`
	MemAlloc     uint64 `json:"mem_alloc_bytes"`
	MemSys       uint64 `json:"mem_sys_bytes"`
	NumGC        uint32 `json:"num_gc"`
}
