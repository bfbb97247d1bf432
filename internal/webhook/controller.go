package webhook

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Conversly/clinic-assist/internal/config"
	"github.com/Conversly/clinic-assist/internal/engine"
	"github.com/Conversly/clinic-assist/internal/session"
	"github.com/Conversly/clinic-assist/internal/utils"
)

// Controller handles the Meta webhook endpoints.
type Controller struct {
	cfg        *config.Config
	dispatcher *engine.Dispatcher
	sessions   session.Store
}

func NewController(cfg *config.Config, dispatcher *engine.Dispatcher, sessions session.Store) *Controller {
	return &Controller{
		cfg:        cfg,
		dispatcher: dispatcher,
		sessions:   sessions,
	}
}

// Verify handles Meta's verification handshake.
// GET /webhook
func (c *Controller) Verify(ctx *gin.Context) {
	mode := ctx.Query("hub.mode")
	token := ctx.Query("hub.verify_token")
	challenge := ctx.Query("hub.challenge")

	if mode == "subscribe" && token == c.cfg.VerifyToken && challenge != "" {
		ctx.String(http.StatusOK, challenge)
		return
	}

	utils.Zlog.Warn("webhook verification rejected",
		zap.String("mode", mode))
	ctx.JSON(http.StatusForbidden, gin.H{
		"error": "verification_failed",
	})
}

// Receive handles incoming webhook deliveries.
// POST /webhook
func (c *Controller) Receive(ctx *gin.Context) {
	body, err := io.ReadAll(ctx.Request.Body)
	if err != nil {
		utils.Zlog.Error("failed to read webhook body", zap.Error(err))
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid_payload"})
		return
	}

	// Signature check only runs when an app secret is configured.
	if c.cfg.WhatsAppSecret != "" {
		sig := ctx.GetHeader("X-Hub-Signature-256")
		if err := VerifySignature(sig, body, c.cfg.WhatsAppSecret); err != nil {
			utils.Zlog.Warn("webhook signature rejected", zap.Error(err))
			ctx.JSON(http.StatusForbidden, gin.H{"error": "invalid_signature"})
			return
		}
	}

	var payload Payload
	if err := json.Unmarshal(body, &payload); err != nil {
		utils.Zlog.Error("failed to parse webhook payload", zap.Error(err))
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid_payload"})
		return
	}

	ev, ok := Normalize(&payload)
	if !ok || ev.Kind == engine.EventOther {
		ctx.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	// The platform redelivers; drop anything already processed.
	first, err := c.sessions.MarkSeen(ctx.Request.Context(), ev.MessageID, session.DedupeTTL)
	if err != nil {
		utils.Zlog.Warn("dedupe check failed, processing anyway",
			zap.String("message_id", ev.MessageID),
			zap.Error(err))
	} else if !first {
		utils.Zlog.Debug("dropping duplicate delivery",
			zap.String("message_id", ev.MessageID))
		ctx.JSON(http.StatusOK, gin.H{"status": "duplicate"})
		return
	}

	utils.Zlog.Info("received webhook event",
		zap.String("sender_id", ev.SenderID),
		zap.String("kind", string(ev.Kind)),
		zap.String("message_id", ev.MessageID))

	// Respond immediately; Meta requires a fast ack. The transition and
	// outbound sends run in the background.
	ctx.JSON(http.StatusOK, gin.H{"status": "received"})

	go func() {
		c.dispatcher.Dispatch(context.Background(), ev)
	}()
}
