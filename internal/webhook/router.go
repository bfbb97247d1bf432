package webhook

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Conversly/clinic-assist/internal/config"
	"github.com/Conversly/clinic-assist/internal/engine"
	"github.com/Conversly/clinic-assist/internal/session"
	"github.com/Conversly/clinic-assist/internal/utils"
)

// RegisterRoutes registers the webhook endpoints. Meta sends GET for
// verification and POST for deliveries.
func RegisterRoutes(router *gin.Engine, cfg *config.Config, dispatcher *engine.Dispatcher, sessions session.Store) {
	ctrl := NewController(cfg, dispatcher, sessions)

	router.GET("/webhook", ctrl.Verify)
	router.POST("/webhook", ctrl.Receive)

	utils.Zlog.Info("webhook routes registered",
		zap.String("verify_endpoint", "/webhook [GET]"),
		zap.String("webhook_endpoint", "/webhook [POST]"))
}
