package middleware

import (
	"net/http"

	"receipt-relay/internal/services"
	"receipt-relay/pkg/logging"

	"github.com/gin-gonic/gin"
)

// ReplayProtection suppresses duplicate deliveries of an already-processed
// webhook. It keys on the verified digest header, so it must run after
// SignatureVerification and is disabled together with it: without a secret
// the digest is unverified client input and must not drive dedupe.
// Replays are acknowledged with an empty 200 and never reach the handler a
// second time.
func ReplayProtection(store services.ReplayStore, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}

		digest := c.GetHeader(DigestHeader)
		if digest == "" {
			c.Next()
			return
		}

		seen, err := store.Seen(c.Request.Context(), digest)
		if err != nil {
			// Replay store trouble must not drop legitimate webhooks.
			logging.Errorf("replay store check failed, delivering anyway: %v", err)
			c.Next()
			return
		}

		if seen {
			c.Status(http.StatusOK)
			c.Abort()
			return
		}

		c.Next()
	}
}
