package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/meditriage/triage-api/internal/middleware"
	"github.com/meditriage/triage-api/pkg/logger"
)

// Handler is anything that can attach its routes to the API group.
type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

type Config struct {
	RateLimit      int
	RateBurst      int
	RequestTimeout time.Duration
}

// New assembles the gin engine with the standard middleware chain and
// mounts every handler under /api/v1. The metrics endpoint sits outside
// the versioned group.
func New(cfg Config, log *logger.Logger, handlers ...Handler) *gin.Engine {
	engine := gin.New()

	engine.Use(middleware.RequestID())
	engine.Use(middleware.Recovery(log))
	engine.Use(middleware.Logger(log))
	engine.Use(middleware.Metrics())
	engine.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit > 0 {
		engine.Use(middleware.NewRateLimiter(cfg.RateLimit, cfg.RateBurst).RateLimit())
	}
	if cfg.RequestTimeout > 0 {
		engine.Use(middleware.Timeout(cfg.RequestTimeout))
	}

	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := engine.Group("/api/v1")
	for _, h := range handlers {
		h.RegisterRoutes(api)
	}

	return engine
}
