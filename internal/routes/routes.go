package routes

import (
	"context"
	"net/http"
	"time"

	_ "findtern_backend/docs"
	"findtern_backend/internal/handlers"
	"findtern_backend/internal/logger"
	"findtern_backend/internal/metrics"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Options - служебные маршруты рядом с /api
type Options struct {
	Metrics *metrics.Metrics
	// UploadsDir - раздача локального хранилища; пусто для S3
	UploadsDir string
	// Health проверяет зависимости (база, redis)
	Health func(ctx context.Context) error
}

// RegisterRoutes регистрирует все HTTP маршруты.
func RegisterRoutes(
	ginRouter *gin.Engine,
	appHandlers *handlers.AppHandlers,
	opts Options,
) {
	api := ginRouter.Group("/api")
	{
		appHandlers.AuthHandler.RegisterRoutes(api)
		appHandlers.EmployerHandler.RegisterRoutes(api)
		appHandlers.InternHandler.RegisterRoutes(api)
		appHandlers.OnboardingHandler.RegisterRoutes(api)
		appHandlers.InterviewHandler.RegisterRoutes(api)
		appHandlers.ProposalHandler.RegisterRoutes(api)
		appHandlers.ShortlistHandler.RegisterRoutes(api)
		appHandlers.AnalyticsHandler.RegisterRoutes(api)
		appHandlers.CalendarHandler.RegisterRoutes(api)
	}

	ginRouter.GET("/health", healthHandler(opts.Health))

	if opts.Metrics != nil {
		ginRouter.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}

	ginRouter.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	if opts.UploadsDir != "" {
		ginRouter.Static("/uploads", opts.UploadsDir)
		logger.Info("Serving local uploads", "dir", opts.UploadsDir)
	}
}

func healthHandler(check func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if check != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := check(ctx); err != nil {
				logger.CtxWithError(c.Request.Context(), "Health check failed", err)
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().UTC()})
	}
}
