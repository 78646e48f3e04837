// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging, panic recovery, metrics, CORS,
// security headers, idempotency, and rate limiting.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Production-ready CORS and security header posture
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/NamanHarbola/Rack-Management/internal/config"
	"github.com/NamanHarbola/Rack-Management/internal/domain"
	"github.com/NamanHarbola/Rack-Management/internal/http/handlers"
	"github.com/NamanHarbola/Rack-Management/internal/http/middleware"
	"github.com/NamanHarbola/Rack-Management/internal/repo"
	"github.com/NamanHarbola/Rack-Management/internal/services"
)

// BannerMessage is returned by the API root endpoint.
const BannerMessage = "MADAN STORE - Rack & Inventory Management System"

// rackRepoShim adapts the repository free functions to the services.RackRepo
// interface expected by the RackService. This keeps services decoupled from
// the concrete repo package while reusing existing functions.
type rackRepoShim struct{}

// CreateRack proxies repo.CreateRack.
func (rackRepoShim) CreateRack(ctx context.Context, db *gorm.DB, rackNumber, floor string, items []string) (*domain.Rack, error) {
	return repo.CreateRack(ctx, db, rackNumber, floor, items)
}

// GetRack proxies repo.GetRack.
func (rackRepoShim) GetRack(ctx context.Context, db *gorm.DB, id string) (*domain.Rack, error) {
	return repo.GetRack(ctx, db, id)
}

// UpdateRack proxies repo.UpdateRack.
func (rackRepoShim) UpdateRack(ctx context.Context, db *gorm.DB, id string, patch repo.RackUpdate) (*domain.Rack, error) {
	return repo.UpdateRack(ctx, db, id, patch)
}

// DeleteRack proxies repo.DeleteRack.
func (rackRepoShim) DeleteRack(ctx context.Context, db *gorm.DB, id string) (bool, error) {
	return repo.DeleteRack(ctx, db, id)
}

// ListFloors proxies repo.ListFloors (pagination support).
func (rackRepoShim) ListFloors(ctx context.Context, db *gorm.DB) ([]string, error) {
	return repo.ListFloors(ctx, db)
}

// ListRacksByFloors proxies repo.ListRacksByFloors (pagination support).
func (rackRepoShim) ListRacksByFloors(ctx context.Context, db *gorm.DB, floors []string) ([]domain.Rack, error) {
	return repo.ListRacksByFloors(ctx, db, floors)
}

// SearchRacks proxies repo.SearchRacks.
func (rackRepoShim) SearchRacks(ctx context.Context, db *gorm.DB, query string, limit int) ([]domain.Rack, error) {
	return repo.SearchRacks(ctx, db, query, limit)
}

// statusRepoShim adapts the status-check repository functions to the
// services.StatusRepo interface.
type statusRepoShim struct{}

func (statusRepoShim) CreateStatusCheck(ctx context.Context, db *gorm.DB, clientName string) (*domain.StatusCheck, error) {
	return repo.CreateStatusCheck(ctx, db, clientName)
}

func (statusRepoShim) ListStatusChecks(ctx context.Context, db *gorm.DB, limit int) ([]domain.StatusCheck, error) {
	return repo.ListStatusChecks(ctx, db, limit)
}

// idemStore implements handlers.IdempotencyStore on top of the GORM-backed
// idempotency_keys table.
type idemStore struct {
	db  *gorm.DB
	ttl time.Duration
}

// Find returns the rack id recorded for key within the TTL window.
func (s idemStore) Find(ctx context.Context, key string) (string, bool, error) {
	rec, err := repo.GetIdempotencyKey(ctx, s.db, key, time.Now().UTC())
	if err != nil {
		if err == repo.ErrNotFound {
			return "", false, nil
		}
		return "", false, err
	}
	return rec.RackID, true, nil
}

// Save records the key → rack binding. Duplicate writes (concurrent retries)
// are not an error: the first record wins.
func (s idemStore) Save(ctx context.Context, key, rackID string, status int) error {
	_, err := repo.CreateIdempotencyKey(ctx, s.db, key, rackID, status, s.ttl)
	if err == repo.ErrDuplicate {
		return nil
	}
	return err
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine. It configures observability (tracing, metrics), idempotency and rate
// limiting, CORS and security headers, health and metrics endpoints, and then
// mounts the public API under cfg.APIBasePath (default "/api").
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. Logger: structured access logs
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Metrics
//  7. Idempotency validator (before rate limiter to allow bypass on replay)
//  8. Rate limiter (per IP, bypass on replay)
//  9. CORS and Security headers
func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging
	r.Use(middleware.Logger())

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (1 MiB)
	r.Use(limitBody(1 << 20))

	// 6) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 7) Idempotency validation (before rate limiting)
	r.Use(middleware.IdempotencyValidator(
		middleware.IdempotencyOptions{
			MaxLen: 200,
		},
		func(ctx context.Context, key string, now time.Time) (bool, error) {
			rec, err := repo.GetIdempotencyKey(ctx, db, key, now)
			if err != nil || rec == nil {
				return false, nil
			}
			return true, nil
		},
	))

	// 8) Token-bucket rate limiter per IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByIP())
	r.Use(rl.Handler())

	// 9) CORS posture (safe defaults: allow all if none configured)
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Force ACAO: * even for requests without an Origin header (helps tests and simple health checks).
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "If-None-Match", middleware.HeaderIdempotencyKey},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length", "ETag"},
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		// Echo ACAO with the request Origin when it is in the allowlist (in addition to gin-contrib/cors).
		allowed := make(map[string]struct{}, len(cfg.CORS.AllowedOrigins))
		for _, o := range cfg.CORS.AllowedOrigins {
			allowed[o] = struct{}{}
		}
		r.Use(func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "If-None-Match", middleware.HeaderIdempotencyKey},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length", "ETag"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS).
	// NoStore stays false so ETag revalidation on the listing keeps working.
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// Dependency injection: services ← repo/db
	rackSvc := services.NewRackService(db, rackRepoShim{})
	if cfg.SearchLimit > 0 {
		rackSvc.SearchLimit = cfg.SearchLimit
	}
	statusSvc := services.NewStatusService(db, statusRepoShim{})

	h := handlers.New(rackSvc, statusSvc, idemStore{db: db, ttl: cfg.IdempotencyTTL})

	// Public API
	api := groupWithPrefix(r, cfg.APIBasePath) // e.g. "/api"
	{
		// Banner
		api.GET("", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": BannerMessage})
		})

		// Racks
		api.POST("/racks", h.CreateRack)
		api.GET("/racks", h.ListRacks)
		api.GET("/racks/search", h.SearchRacks)
		api.GET("/racks/:id", h.GetRack)
		api.PUT("/racks/:id", h.UpdateRack)
		api.DELETE("/racks/:id", h.DeleteRack)

		// Status checks (legacy ping log)
		api.POST("/status", h.CreateStatus)
		api.GET("/status", h.ListStatus)
	}
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
