package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"receipt-relay/internal/config"
	"receipt-relay/internal/receipt"
	"receipt-relay/pkg/logging"
)

// clientAPIEndpoints maps each platform to its upstream submission path.
var clientAPIEndpoints = map[receipt.Platform]string{
	receipt.PlatformAndroid: "/client/google_play/purchase_orders",
	receipt.PlatformIOS:     "/client/itunes_connect/receipts",
}

// ClientAPIService submits normalized receipts to the upstream Client API.
type ClientAPIService struct {
	httpClient  *http.Client
	baseURL     string
	accessToken string
}

// NewClientAPIService creates a new Client API service. It fails when the
// access token is not configured so that a misconfigured deployment is
// caught at setup time rather than on the first request.
func NewClientAPIService() (*ClientAPIService, error) {
	if config.AppConfig.ClientAPIAccessToken == "" {
		return nil, fmt.Errorf("MBAASY_CLIENT_API_ACCESS_TOKEN env var is missing")
	}

	return &ClientAPIService{
		httpClient: &http.Client{
			Timeout: time.Duration(config.AppConfig.UpstreamTimeoutSeconds) * time.Second,
		},
		baseURL:     config.AppConfig.ClientAPIBaseURL,
		accessToken: config.AppConfig.ClientAPIAccessToken,
	}, nil
}

// UpstreamError represents a non-2xx response from the Client API
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream Client API returned status %d: %s", e.StatusCode, e.Body)
}

// SubmitReceipt POSTs the assembled request body to the platform-specific
// upstream endpoint and returns the upstream response body unmodified.
// Failures are not retried; the caller relays them to the error pipeline.
func (s *ClientAPIService) SubmitReceipt(ctx context.Context, platform receipt.Platform, body map[string]interface{}) (json.RawMessage, error) {
	endpoint, ok := clientAPIEndpoints[platform]
	if !ok {
		return nil, fmt.Errorf("no Client API endpoint for platform %q", platform)
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	logging.Debugf("outgoing request - platform: %s, body: %s", platform, jsonData)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.accessToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call Client API: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read Client API response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	logging.Debugf("upstream response - platform: %s, body: %s", platform, respBody)

	return respBody, nil
}
