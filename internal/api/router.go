package api

import (
	"context"
	"net/http"
	"time"

	groceryHandler "trip-pantry/internal/api/handlers/grocery"
	"trip-pantry/internal/api/handlers/health"
	mealHandler "trip-pantry/internal/api/handlers/meal"
	"trip-pantry/internal/api/middleware"
	"trip-pantry/internal/core/grocery"
	"trip-pantry/internal/core/grocery/cache"
	"trip-pantry/internal/core/meal"
	"trip-pantry/internal/infrastructure/config"
	"trip-pantry/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	timeoutDuration = 30 * time.Second
	// Request body limit (1MB); the API carries only small JSON payloads.
	maxBodySize = 1 << 20
)

// SetupRouter wires middleware, services, and routes.
func SetupRouter(cfg *config.Config, snapshotCache cache.Cache) (*gin.Engine, error) {
	common.LogInfo("starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(requestid.New())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID", "X-User-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.Use(middleware.BodySizeLimit(maxBodySize))

	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}

	common.LogInfo("initializing services",
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
		zap.String("cache_driver", cfg.Cache.Driver),
		zap.String("grocery_api", cfg.GroceryAPI.BaseURL),
		zap.String("grocery_api_key", config.MaskAPIKey(cfg.GroceryAPI.APIKey)),
	)

	groceryClient := grocery.NewClient(&cfg.GroceryAPI)
	gateway := grocery.NewCachedGateway(groceryClient, snapshotCache)
	mealService := meal.NewService(gateway, common.UUIDGenerator{})

	// Per-request timeout, plus config and cache injected for the health
	// endpoint.
	router.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Set("config", cfg)
		c.Set("snapshot_cache", snapshotCache)

		c.Next()

		if ctx.Err() == context.DeadlineExceeded {
			common.LogError("request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", c.GetHeader("X-Request-ID")),
				zap.Duration("timeout", timeoutDuration),
			)
			c.JSON(http.StatusGatewayTimeout, gin.H{
				"error": "Request timeout",
				"code":  common.ErrCodeRequestTimeout,
				"details": gin.H{
					"timeout": timeoutDuration.String(),
				},
			})
			c.Abort()
			return
		}
	})

	router.GET("/health", health.HealthCheck)
	router.GET("/ready", health.ReadinessCheck)
	router.GET("/live", health.LivenessCheck)

	meals := mealHandler.NewHandler(mealService)
	groceries := groceryHandler.NewHandler(gateway)

	api := router.Group("/api/v1")
	{
		trips := api.Group("/trips/:tripID")

		mealGroup := trips.Group("/meals")
		{
			mealGroup.POST("", middleware.Deduplication(cfg), meals.HandlePropose)
			mealGroup.GET("", meals.HandleList)
			mealGroup.PUT("/:mealID/status", meals.HandleSetStatus)
			mealGroup.POST("/:mealID/upvote", meals.HandleToggleUpvote)
			mealGroup.POST("/:mealID/comments", middleware.Deduplication(cfg), meals.HandleAddComment)
		}

		groceryGroup := trips.Group("/grocery")
		{
			groceryGroup.GET("", groceries.HandleList)
			groceryGroup.POST("", groceries.HandleAdd)
		}
	}

	common.LogInfo("router setup completed",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
		zap.Duration("timeout", timeoutDuration),
		zap.Int64("max_body_size", maxBodySize),
	)

	return router, nil
}
