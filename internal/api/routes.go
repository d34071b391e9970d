package api

import (
	"fmt"
	"time"

	"receipt-relay/internal/config"
	"receipt-relay/internal/middleware"
	"receipt-relay/internal/receipt"
	"receipt-relay/internal/services"
	"receipt-relay/pkg/logging"

	"github.com/gin-gonic/gin"
)

const (
	// ReceiptsBasePath is where the per-platform submission routes are mounted.
	ReceiptsBasePath = "/iap/receipts"
	// WebhookPath is the single route gated by signature verification.
	WebhookPath = "/iap/webhook"
)

// SetupRoutes sets up all routes. The receipt surface requires the upstream
// access token; when it is absent that surface is not mounted and requests
// to it 404, while the webhook surface keeps working. Webhook-only
// deployments carry no upstream credential at all.
func SetupRoutes(r *gin.Engine, opts Options) error {
	if opts.WebhookHandler == nil {
		return fmt.Errorf("webhook handler is required")
	}

	// Signature verification runs globally, ahead of routing and body
	// parsing, and gates only the webhook path.
	r.Use(middleware.SignatureVerification(WebhookPath, config.AppConfig.WebhookHMACKey))
	r.Use(middleware.ErrorHandler())

	replayStore, err := newReplayStore()
	if err != nil {
		return err
	}

	webhook := r.Group("")
	webhook.Use(middleware.ReplayProtection(replayStore, config.AppConfig.WebhookHMACKey))
	{
		webhook.POST(WebhookPath, WebhookHandler(opts))
	}

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "receipt-relay",
		})
	})

	clientAPI, err := services.NewClientAPIService()
	if err != nil {
		logging.Errorf("receipt surface not mounted: %v", err)
		return nil
	}

	receipts := r.Group(ReceiptsBasePath)
	{
		receipts.POST("/ios", ReceiptHandler(receipt.PlatformIOS, opts, clientAPI))
		receipts.POST("/android", ReceiptHandler(receipt.PlatformAndroid, opts, clientAPI))
	}

	return nil
}

// newReplayStore picks Redis when configured, otherwise the in-memory store.
func newReplayStore() (services.ReplayStore, error) {
	ttl := time.Duration(config.AppConfig.ReplayTTLHours) * time.Hour
	if config.AppConfig.RedisURL != "" {
		return services.NewRedisReplayStore(config.AppConfig.RedisURL, ttl)
	}
	return services.NewMemoryReplayStore(ttl), nil
}
