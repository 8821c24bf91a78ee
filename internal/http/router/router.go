// Package router builds the Gin engine and shared middleware chain.
package router

import (
	"context"
	"net/http"
	"time"

	"servicehub_backend/platform/config"
	"servicehub_backend/platform/httpkit"
	"servicehub_backend/platform/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Pinger reports backend connectivity for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps holds the dependencies the router needs.
type Deps struct {
	Config *config.Config
	Logger *logger.Logger
	DB     Pinger
}

// Groups exposes the route groups modules attach to.
type Groups struct {
	Public    *gin.RouterGroup
	Protected *gin.RouterGroup
	Admin     *gin.RouterGroup
}

// New builds the Gin engine with the shared middleware chain and returns
// the engine plus the route groups.
func New(deps Deps) (*gin.Engine, *Groups) {
	if deps.Config.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(httpkit.RequestLogger(deps.Logger))
	engine.Use(httpkit.SecurityHeaders())
	engine.Use(corsMiddleware(deps.Config))

	engine.GET("/healthz", healthHandler(deps.DB))

	publicLimiter := httpkit.NewPublicRateLimiter(deps.Logger)
	apiLimiter := httpkit.NewIPRateLimiter(100, 200, deps.Logger)

	v1 := engine.Group("/api/v1")
	v1.Use(apiLimiter.RateLimit())

	public := v1.Group("/public")
	public.Use(publicLimiter.RateLimit())

	protected := v1.Group("")
	protected.Use(httpkit.AuthRequired(deps.Config))

	admin := protected.Group("")
	admin.Use(httpkit.RequireRole(httpkit.RoleAdmin))

	return engine, &Groups{
		Public:    public,
		Protected: protected,
		Admin:     admin,
	}
}

func corsMiddleware(cfg config.HTTPConfig) gin.HandlerFunc {
	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: cfg.GetCORSAllowCreds(),
		MaxAge:           12 * time.Hour,
	}

	if cfg.GetCORSAllowAll() {
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	} else {
		corsConfig.AllowOrigins = cfg.GetCORSOrigins()
	}

	return cors.New(corsConfig)
}

func healthHandler(db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db != nil {
			if err := db.Ping(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status": "degraded",
					"db":     "unreachable",
				})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
