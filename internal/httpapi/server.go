// Package httpapi is the backend-for-frontend surface: one gin engine that
// serves navigation decisions, form submissions and the dashboard stores for
// cookie-identified sessions.
package httpapi

import (
	"net/http"
	"time"

	"farmer-market-web/internal/app"
	"farmer-market-web/internal/config"
	"farmer-market-web/internal/logger"
	"farmer-market-web/internal/metrics"
	"farmer-market-web/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const ctxContainer = "container"

// NewEngine registers every route on a fresh gin engine.
func NewEngine(cfg *config.Config, reg *app.Registry, stats *metrics.HTTP) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.SessionHeader, "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":   "ok",
			"sessions": reg.Len(),
			"http":     stats.Snapshot(),
		})
	})

	withApp := r.Group("/", withContainer(reg))
	{
		withApp.GET("/app/*path", navigate)
		withApp.GET("/api/session", currentSession)
		withApp.GET("/api/system", systemSnapshot)

		registerAccount(withApp.Group("/api/account"))
		registerFarmer(withApp.Group("/api", requireRole(farmerOnly...)))
		registerBuyer(withApp.Group("/api", requireRole()))
	}

	return r
}

// NewHandler wraps the engine with request ids, access logs, request
// counters, sessions and rate limiting, outermost first.
func NewHandler(cfg *config.Config, reg *app.Registry, limiter *middleware.Limiter) http.Handler {
	stats := metrics.NewHTTP()
	var h http.Handler = NewEngine(cfg, reg, stats)
	if cfg.RateLimitEnable && limiter != nil {
		h = limiter.Middleware(h)
	}
	h = middleware.Session(cfg.SessionCookie, cfg.AppEnv == "production")(h)
	h = stats.Middleware(h)
	h = logger.LoggingMiddleware(h)
	return logger.RequestIDMiddleware(h)
}

// withContainer loads the container of the request's session.
func withContainer(reg *app.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		sid := logger.SessionIDFrom(ctx)
		if sid == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Missing session"})
			return
		}

		ct, err := reg.Get(ctx, sid)
		if err != nil {
			logger.FromCtx(ctx).Error("failed to open session storage", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"message": "Storage unavailable"})
			return
		}
		c.Set(ctxContainer, ct)
		c.Next()
	}
}

func container(c *gin.Context) *app.Container {
	return c.MustGet(ctxContainer).(*app.Container)
}

func message(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"message": msg})
}
