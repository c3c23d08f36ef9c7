// Package http assembles the HTTP surface: router, middleware chain and
// server lifecycle.
package http

import (
	"net/http"

	"github.com/turtacn/TimebarKeeper/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/TimebarKeeper/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/TimebarKeeper/internal/interfaces/http/handlers"
	"github.com/turtacn/TimebarKeeper/internal/interfaces/http/middleware"
)

// RouterConfig aggregates the handler and middleware dependencies required
// to construct the complete HTTP route tree.  Optional fields may be nil;
// their routes or middleware are then skipped.
type RouterConfig struct {
	SchedulingHandler *handlers.SchedulingHandler
	HealthHandler     *handlers.HealthHandler

	CORSConfig      *middleware.CORSConfig
	LoggingConfig   *middleware.LoggingConfig
	RateLimiter     middleware.RateLimiter
	RateLimitConfig *middleware.RateLimitConfig

	Logger           logging.Logger
	MetricsCollector prometheus.MetricsCollector
	AppMetrics       *prometheus.AppMetrics
}

// NewRouter constructs the complete route tree: health probes and metrics
// outside the API group, the scheduling API under /api/v1, and the global
// middleware chain wrapped around everything.
func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	mux := http.NewServeMux()

	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterRoutes(mux)
	}
	if cfg.MetricsCollector != nil {
		mux.Handle("GET /metrics", cfg.MetricsCollector.Handler())
	}
	if cfg.SchedulingHandler != nil {
		cfg.SchedulingHandler.RegisterRoutes(mux)
	}

	// Innermost first: metrics and rate limiting see the request after
	// logging assigned it a status, recovery wraps everything.
	var handler http.Handler = mux

	if cfg.RateLimiter != nil {
		rlCfg := middleware.DefaultRateLimitConfig()
		if cfg.RateLimitConfig != nil {
			rlCfg = *cfg.RateLimitConfig
		}
		handler = middleware.RateLimit(cfg.RateLimiter, rlCfg)(handler)
	}
	if cfg.AppMetrics != nil {
		handler = middleware.Metrics(cfg.AppMetrics)(handler)
	}

	logCfg := middleware.DefaultLoggingConfig()
	if cfg.LoggingConfig != nil {
		logCfg = *cfg.LoggingConfig
	}
	handler = middleware.RequestLogging(logger, logCfg)(handler)

	corsCfg := middleware.DefaultCORSConfig()
	if cfg.CORSConfig != nil {
		corsCfg = *cfg.CORSConfig
	}
	handler = middleware.CORS(corsCfg)(handler)

	handler = middleware.Recovery(logger)(handler)

	return handler
}

//Personal.AI order the ending
