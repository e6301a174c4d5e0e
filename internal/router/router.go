package router

import (
	"fmt"
	"strings"

	"github.com/Shatar6/Gereltjin-Cargo-App/internal/cache"
	"github.com/Shatar6/Gereltjin-Cargo-App/internal/config"
	apihandlers "github.com/Shatar6/Gereltjin-Cargo-App/internal/http/handlers/api"
	"github.com/Shatar6/Gereltjin-Cargo-App/internal/logger"
	"github.com/Shatar6/Gereltjin-Cargo-App/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter wires the HTTP surface.
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	handler := apihandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "gc"
	}
	redisClient := cache.Client()
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		Message:       "too many login attempts",
	}

	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// cargo photos
	r.Static("/uploads", cfg.Upload.Dir)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	apiV1 := r.Group("/api/v1")
	{
		auth := apiV1.Group("/auth")
		{
			auth.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("email")), handler.Login)
		}

		authed := apiV1.Group("")
		authed.Use(WorkerJWTAuthMiddleware(cfg.JWT.SecretKey, c.WorkerRepo))
		authed.Use(RBACMiddleware(c.AuthzService))
		{
			authed.GET("/auth/profile", handler.Profile)
			authed.PUT("/auth/password", handler.ChangePassword)

			authed.GET("/orders/next-order-number", handler.NextOrderNumber)
			authed.GET("/orders", handler.ListOrders)
			authed.POST("/orders", handler.CreateOrder)
			authed.GET("/orders/:id", handler.GetOrder)
			authed.PUT("/orders/:id", handler.UpdateOrder)
			authed.PUT("/orders/:id/status", handler.UpdateOrderStatus)
			authed.GET("/orders/:id/history", handler.OrderHistory)
			authed.DELETE("/orders/:id", handler.DeleteOrder)

			authed.GET("/workers", handler.ListWorkers)
		}
	}

	return r
}
