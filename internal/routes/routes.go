package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Conversly/clinic-assist/internal/config"
	"github.com/Conversly/clinic-assist/internal/engine"
	"github.com/Conversly/clinic-assist/internal/loaders"
	"github.com/Conversly/clinic-assist/internal/middleware"
	"github.com/Conversly/clinic-assist/internal/session"
	"github.com/Conversly/clinic-assist/internal/webhook"
)

// SetupRoutes configures all application routes
func SetupRoutes(router *gin.Engine, db *loaders.PostgresClient, cfg *config.Config, dispatcher *engine.Dispatcher, sessions session.Store) {
	// Apply global middleware
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())

	// Setup route groups
	SetupHealthRoutes(router, db)
	webhook.RegisterRoutes(router, cfg, dispatcher, sessions)
	Setup404Handler(router)
}
