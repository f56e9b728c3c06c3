package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/use-agent/shelfcheck/api/handler"
	"github.com/use-agent/shelfcheck/api/middleware"
	"github.com/use-agent/shelfcheck/catalog"
	"github.com/use-agent/shelfcheck/config"
	"github.com/use-agent/shelfcheck/metrics"
	"github.com/use-agent/shelfcheck/verifier"
)

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → Logger → CORS (all origins, preflight on every path)
//	Verify:  RateLimit (if enabled)
//
// The Spanish paths are kept as aliases for existing front-ends.
func NewRouter(cfg *config.Config, cr *catalog.Reader, v *verifier.Verifier, m *metrics.Metrics, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(cors.New(corsConfig()))

	r.GET("/health", handler.Health(cr, v, startTime))
	if m != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})))
	}

	api := r.Group("/api")

	// Catalog
	products := handler.Products(cr)
	api.GET("/products", products)
	api.GET("/productos", products)

	// Verification
	verify := make([]gin.HandlerFunc, 0, 2)
	if cfg.RateLimit.Enabled {
		verify = append(verify, middleware.RateLimit(cfg.RateLimit))
	}
	verify = append(verify, handler.Verify(v))
	api.POST("/verify", verify...)
	api.POST("/verificar", verify...)

	return r
}

func corsConfig() cors.Config {
	return cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		MaxAge:          12 * time.Hour,
	}
}
