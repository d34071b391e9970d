package api

import (
	"encoding/json"
	"net/http"

	"receipt-relay/pkg/logging"

	"github.com/gin-gonic/gin"
)

// webhookRequest is the parsed body of a verified webhook callback. The
// event under data is opaque to this service.
type webhookRequest struct {
	Data json.RawMessage `json:"data"`
}

// WebhookHandler dispatches a verified, parsed webhook event to the
// caller-supplied handler. The handler is invoked at most once per accepted
// request; its failure is relayed to the error pipeline, never retried.
func WebhookHandler(opts Options) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req webhookRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.Error(err)
			c.Abort()
			return
		}

		logging.Debugf("incoming webhook - %d event bytes", len(req.Data))

		if err := opts.WebhookHandler(c, req.Data); err != nil {
			c.Error(err)
			c.Abort()
			return
		}

		c.Status(http.StatusOK)
	}
}
