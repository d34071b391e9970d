package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"receipt-relay/internal/config"
	"receipt-relay/internal/signature"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postWebhook(r *gin.Engine, body []byte, secret string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, WebhookPath, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-SHA256-Digest", signature.Sign(body, secret))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestWebhookHandler_DispatchesEvent(t *testing.T) {
	var received json.RawMessage
	opts := Options{
		WebhookHandler: func(c *gin.Context, event json.RawMessage) error {
			received = event
			return nil
		},
	}
	r := newTestRouter(t, "https://api.example.com", opts)

	body := []byte(`{"data":{"event":"purchase_order.verified","id":"evt_1"}}`)
	w := postWebhook(r, body, "test-hmac-key")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String(), "webhook acknowledgement has an empty body")
	assert.JSONEq(t, `{"event":"purchase_order.verified","id":"evt_1"}`, string(received))
}

func TestWebhookHandler_HandlerFailureIsNotMasked(t *testing.T) {
	calls := 0
	opts := Options{
		WebhookHandler: func(c *gin.Context, event json.RawMessage) error {
			calls++
			return errors.New("downstream update failed")
		},
	}
	r := newTestRouter(t, "https://api.example.com", opts)

	body := []byte(`{"data":{"event":"e1"}}`)
	w := postWebhook(r, body, "test-hmac-key")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, 1, calls, "handler is invoked at most once, no retry")
}

func TestWebhookHandler_UnverifiedRequestNeverDispatched(t *testing.T) {
	calls := 0
	opts := Options{
		WebhookHandler: func(c *gin.Context, event json.RawMessage) error {
			calls++
			return nil
		},
	}
	r := newTestRouter(t, "https://api.example.com", opts)

	body := []byte(`{"data":{"event":"e1"}}`)
	req := httptest.NewRequest(http.MethodPost, WebhookPath, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-SHA256-Digest", signature.Sign(body, "wrong-secret"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Zero(t, calls, "handler must not run for a forged request")
}

func TestWebhookHandler_ReplaySuppressed(t *testing.T) {
	calls := 0
	opts := Options{
		WebhookHandler: func(c *gin.Context, event json.RawMessage) error {
			calls++
			return nil
		},
	}
	r := newTestRouter(t, "https://api.example.com", opts)

	body := []byte(`{"data":{"event":"e1","id":"evt_replayed"}}`)
	first := postWebhook(r, body, "test-hmac-key")
	second := postWebhook(r, body, "test-hmac-key")

	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusOK, second.Code, "replays are acknowledged, not errored")
	assert.Equal(t, 1, calls, "replayed delivery must not reach the handler again")
}

func TestWebhookHandler_NoDedupeWhenVerificationDisabled(t *testing.T) {
	// Without a secret the digest header is unverified client input; it
	// must not suppress deliveries.
	config.AppConfig = &config.Config{
		ClientAPIAccessToken: "test-token",
		ClientAPIBaseURL:     "https://api.example.com",
		WebhookHMACKey:       "",
		ReplayTTLHours:       1,
	}

	calls := 0
	gin.SetMode(gin.TestMode)
	r := gin.New()
	require.NoError(t, SetupRoutes(r, Options{
		WebhookHandler: func(c *gin.Context, event json.RawMessage) error {
			calls++
			return nil
		},
	}))

	body := []byte(`{"data":{"event":"e1"}}`)
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, WebhookPath, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-SHA256-Digest", "attacker-chosen-digest")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	}

	assert.Equal(t, 2, calls, "accept-all mode must deliver every request")
}

func TestWebhookHandler_MalformedBody(t *testing.T) {
	opts := Options{
		WebhookHandler: func(c *gin.Context, event json.RawMessage) error { return nil },
	}
	r := newTestRouter(t, "https://api.example.com", opts)

	w := postWebhook(r, []byte(`{not json`), "test-hmac-key")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
