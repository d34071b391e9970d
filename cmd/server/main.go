package main

import (
	"encoding/json"
	"log"

	"receipt-relay/internal/api"
	"receipt-relay/internal/config"
	"receipt-relay/pkg/logging"

	"github.com/gin-gonic/gin"
)

func main() {
	// Initialize configuration
	if err := config.InitConfig(); err != nil {
		log.Fatal("Failed to initialize config:", err)
	}

	// Initialize logging
	logging.InitLogging()

	// Set Gin mode
	gin.SetMode(config.AppConfig.Mode)

	// Create Gin engine
	r := gin.Default()

	// Setup routes. The default webhook handler only logs the event;
	// integrators replace it with their own dispatch logic.
	opts := api.Options{
		WebhookHandler: func(c *gin.Context, event json.RawMessage) error {
			logging.Infof("webhook event received: %s", event)
			return nil
		},
	}
	if err := api.SetupRoutes(r, opts); err != nil {
		log.Fatal("Failed to setup routes:", err)
	}

	// Start server
	port := config.AppConfig.Port
	logging.Infof("Starting server on port %s", port)

	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
