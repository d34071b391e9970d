package api

import (
	"encoding/json"
	"net/http"

	"receipt-relay/internal/receipt"
	"receipt-relay/internal/services"
	"receipt-relay/pkg/logging"

	"github.com/gin-gonic/gin"
)

// Options configures the caller-supplied extension points. UserIdentifier
// and Metadata are optional pure functions of the inbound request; their
// results are attached to the upstream body only when the function is set.
// WebhookHandler is required for the webhook surface.
type Options struct {
	UserIdentifier func(c *gin.Context) string
	Metadata       func(c *gin.Context) map[string]interface{}
	WebhookHandler func(c *gin.Context, event json.RawMessage) error
}

// ReceiptHandler returns the submission handler for one platform: it
// normalizes the client payload, enriches it with request-derived fields
// and relays it to the upstream Client API. The upstream response body is
// returned to the client verbatim with status 200; every failure goes to
// the error pipeline untouched.
func ReceiptHandler(platform receipt.Platform, opts Options, clientAPI *services.ClientAPIService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var payload receipt.ClientPayload
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.Error(receipt.ErrMalformedPayload)
			c.Abort()
			return
		}

		logging.Debugf("incoming request - platform: %s", platform)

		body, err := receipt.Normalize(platform, &payload)
		if err != nil {
			c.Error(err)
			c.Abort()
			return
		}

		// Enrichment is assembled fresh per request, never cached.
		// Zero-valued extractor results are omitted, not sent as ""/null.
		body["ip_address"] = c.ClientIP()
		if opts.UserIdentifier != nil {
			if userIdentifier := opts.UserIdentifier(c); userIdentifier != "" {
				body["user_identifier"] = userIdentifier
			}
		}
		if opts.Metadata != nil {
			if metadata := opts.Metadata(c); metadata != nil {
				body["metadata"] = metadata
			}
		}

		upstreamBody, err := clientAPI.SubmitReceipt(c.Request.Context(), platform, body)
		if err != nil {
			c.Error(err)
			c.Abort()
			return
		}

		c.Data(http.StatusOK, "application/json", upstreamBody)
	}
}
