package middleware

import (
	"bytes"
	"io"
	"net/http"

	"receipt-relay/internal/response"
	"receipt-relay/internal/signature"
	"receipt-relay/pkg/logging"

	"github.com/gin-gonic/gin"
)

// DigestHeader carries the hex HMAC-SHA256 digest of the raw webhook body.
const DigestHeader = "X-SHA256-Digest"

// SignatureVerification verifies webhook request bodies before they are
// parsed. It is installed globally and gates only webhookPath; every other
// route passes through untouched.
//
// Verification runs over the exact bytes received on the wire. The body is
// restored afterwards so downstream binding still works.
//
// When secret is empty, verification is disabled and all requests are
// accepted.
func SignatureVerification(webhookPath, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path != webhookPath {
			c.Next()
			return
		}

		if secret == "" {
			logging.Infof("not validating the request because no webhook HMAC key is set")
			c.Next()
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			response.AbortErrorJSON(c, http.StatusBadRequest, "Failed to read request body")
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewBuffer(body))

		headerDigest := c.GetHeader(DigestHeader)
		if err := signature.Verify(body, headerDigest, secret); err != nil {
			c.Error(err)
			switch err {
			case signature.ErrDigestMissing:
				response.AbortErrorJSON(c, http.StatusBadRequest, err.Error())
			default:
				response.AbortErrorJSON(c, http.StatusUnauthorized, err.Error())
			}
			return
		}

		logging.Debugf("successfully validated request body: %s matched with computed digest", DigestHeader)
		c.Next()
	}
}
