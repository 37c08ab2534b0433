package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Haleralex/ledgerhub/internal/adapters/http/middleware"
)

// ============================================
// Health Check Handler
// ============================================

// Pinger is the health-check view of an optional dependency (Redis).
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler answers the liveness and readiness probes.
type HealthHandler struct {
	pool      *pgxpool.Pool
	cache     Pinger
	version   string
	buildTime string
	startTime time.Time
}

// NewHealthHandler creates a HealthHandler. cache may be nil when Redis
// is disabled.
func NewHealthHandler(pool *pgxpool.Pool, cache Pinger, version, buildTime string) *HealthHandler {
	return &HealthHandler{
		pool:      pool,
		cache:     cache,
		version:   version,
		buildTime: buildTime,
		startTime: time.Now(),
	}
}

// ============================================
// Response Types
// ============================================

// HealthResponse is the health check answer.
type HealthResponse struct {
	Status    string            `json:"status"` // "healthy" or "unhealthy"
	Version   string            `json:"version"`
	BuildTime string            `json:"build_time"`
	Uptime    string            `json:"uptime"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// ReadinessResponse is the readiness probe answer.
type ReadinessResponse struct {
	Ready     bool              `json:"ready"`
	Checks    map[string]string `json:"checks"`
	Timestamp time.Time         `json:"timestamp"`
}

// ============================================
// HTTP Handlers
// ============================================

// Health handles GET /health. The ledger cannot answer anything without
// PostgreSQL, so the basic probe pings it too.
func (h *HealthHandler) Health(c *gin.Context) {
	checks := make(map[string]string)
	status := "healthy"
	code := http.StatusOK

	if err := h.pingDatabase(c.Request.Context(), checks); err != nil {
		status = "unhealthy"
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, HealthResponse{
		Status:    status,
		Version:   h.version,
		BuildTime: h.buildTime,
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Timestamp: time.Now().UTC(),
		Checks:    checks,
	})
}

// Ready handles GET /ready, checking every dependency.
func (h *HealthHandler) Ready(c *gin.Context) {
	checks := make(map[string]string)
	allReady := true

	if err := h.pingDatabase(c.Request.Context(), checks); err != nil {
		allReady = false
	}

	if h.cache != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := h.cache.Ping(ctx); err != nil {
			checks["redis"] = "unhealthy: " + err.Error()
			allReady = false
		} else {
			checks["redis"] = "healthy"
		}
	} else {
		checks["redis"] = "not configured"
	}

	code := http.StatusOK
	if !allReady {
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, ReadinessResponse{
		Ready:     allReady,
		Checks:    checks,
		Timestamp: time.Now().UTC(),
	})
}

// Live handles GET /live.
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}

// DetailedHealth handles GET /health/detailed, adding pool statistics to
// the basic probe.
func (h *HealthHandler) DetailedHealth(c *gin.Context) {
	checks := make(map[string]string)
	status := "healthy"

	if err := h.pingDatabase(c.Request.Context(), checks); err != nil {
		status = "unhealthy"
	} else if h.pool != nil {
		stats := h.pool.Stat()
		checks["db_total_conns"] = strconv.Itoa(int(stats.TotalConns()))
		checks["db_idle_conns"] = strconv.Itoa(int(stats.IdleConns()))
		checks["db_acquired_conns"] = strconv.Itoa(int(stats.AcquiredConns()))

		middleware.UpdateDBConnections(stats.IdleConns(), stats.AcquiredConns(), stats.MaxConns())
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:    status,
		Version:   h.version,
		BuildTime: h.buildTime,
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Timestamp: time.Now().UTC(),
		Checks:    checks,
	})
}

func (h *HealthHandler) pingDatabase(ctx context.Context, checks map[string]string) error {
	if h.pool == nil {
		checks["database"] = "not configured"
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := h.pool.Ping(ctx); err != nil {
		checks["database"] = "unhealthy: " + err.Error()
		return err
	}
	checks["database"] = "healthy"
	return nil
}

// RegisterRoutes registers the probe routes on the engine root, outside
// the authenticated API group.
//
//	GET /health          - Basic health check
//	GET /health/detailed - Health with pool statistics
//	GET /ready           - Readiness probe
//	GET /live            - Liveness probe
func (h *HealthHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/health", h.Health)
	router.GET("/health/detailed", h.DetailedHealth)
	router.GET("/ready", h.Ready)
	router.GET("/live", h.Live)
}
