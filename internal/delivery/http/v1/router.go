package v1

import (
	"context"
	"net/http"
	"time"

	"skillmates-backend/config"
	"skillmates-backend/internal/delivery/http/middleware"
	"skillmates-backend/internal/delivery/http/response"
	"skillmates-backend/internal/domain"
	"skillmates-backend/pkg/auth"
	"skillmates-backend/pkg/metrics"
	"skillmates-backend/pkg/realtime"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// HealthChecker reports dependency status for /v1/health.
type HealthChecker interface {
	Check(ctx context.Context) map[string]string
}

type RouterDeps struct {
	AuthUC       domain.AuthUsecase
	ProfileUC    domain.ProfileUsecase
	DirectoryUC  domain.DirectoryUsecase
	ConnectionUC domain.ConnectionUsecase
	ChatUC       domain.ChatUsecase
	SearchUC     domain.SearchUsecase
	DashboardUC  domain.DashboardUsecase
	Health       HealthChecker
	Issuer       *auth.Issuer
	Hub          *realtime.Hub
	RateLimiter  *middleware.RateLimiter
	Config       *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	cfg := deps.Config
	window := time.Duration(cfg.RateLimitWindowSeconds) * time.Second

	r := gin.New()

	// CORS must be first so preflights short-circuit.
	r.Use(middleware.CORSMiddleware(cfg.FrontendURL, cfg.IsProduction()))
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	if cfg.Metrics {
		r.Use(metrics.Middleware())
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}
	r.Use(middleware.SecurityHeadersMiddleware(cfg.IsProduction()))
	r.Use(middleware.ErrorHandler())
	r.Use(deps.RateLimiter.Middleware(middleware.GlobalRateLimitConfig(cfg.RateLimitGlobalThreshold, window)))

	v1 := r.Group("/v1")

	v1.GET("/health", func(c *gin.Context) {
		status := deps.Health.Check(c.Request.Context())
		if status["status"] != "ok" {
			response.Error(c, http.StatusServiceUnavailable, "System degraded", status)
			return
		}
		response.Success(c, http.StatusOK, "System operational", status)
	})

	v1.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	optional := v1.Group("")
	optional.Use(middleware.OptionalAuth(deps.Issuer))

	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(deps.Issuer), middleware.CSRFMiddleware())
	{
		authLimit := deps.RateLimiter.Middleware(middleware.AuthRateLimitConfig(cfg.RateLimitLoginThreshold, window))
		NewAuthHandler(v1, protected, authLimit, deps.AuthUC, cfg.IsProduction())
		NewProfileHandler(optional, protected, deps.ProfileUC, deps.DirectoryUC)
		NewConnectionHandler(protected, deps.ConnectionUC)
		NewChatHandler(protected, deps.ChatUC, deps.Hub)
		NewSearchHandler(optional, protected, deps.SearchUC)
		NewDashboardHandler(protected, deps.DashboardUC)
	}

	r.NoRoute(func(c *gin.Context) {
		response.Error(c, http.StatusNotFound, "Route not found", nil)
	})

	return r
}
