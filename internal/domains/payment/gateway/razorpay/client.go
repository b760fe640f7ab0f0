package razorpay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"bookstore-marketplace/internal/config"
	"bookstore-marketplace/internal/domains/payment/gateway"
)

// maxErrorBody giới hạn body lỗi đưa vào error message
const maxErrorBody = 512

// =====================================================
// RAZORPAY CLIENT IMPLEMENTATION
// =====================================================

type Client struct {
	baseURL    string
	keyID      string
	keySecret  string
	httpClient *http.Client
}

// NewClient - một lần gọi, không retry, timeout mặc định 30s
func NewClient(cfg config.RazorpayConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:   strings.TrimRight(cfg.APIURL, "/"),
		keyID:     cfg.KeyID,
		keySecret: cfg.KeySecret,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// CreateOrder - POST {baseURL}/v1/orders với basic auth key_id:key_secret
func (c *Client) CreateOrder(ctx context.Context, req gateway.CreateOrderRequest) (*gateway.ProviderOrder, error) {
	// Step 1: Build request body
	bodyJSON, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/orders", bytes.NewReader(bodyJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.SetBasicAuth(c.keyID, c.keySecret)

	// Step 2: Call Razorpay API
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to call Razorpay API: %w", err)
	}
	defer resp.Body.Close()

	// Step 3: Parse response
	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if len(bodyBytes) > maxErrorBody {
			bodyBytes = bodyBytes[:maxErrorBody]
		}
		return nil, fmt.Errorf("Razorpay API error: status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var order gateway.ProviderOrder
	if err := json.Unmarshal(bodyBytes, &order); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if order.ID == "" {
		return nil, fmt.Errorf("order id not found in response")
	}

	return &order, nil
}

func (c *Client) VerifySignature(providerOrderID, paymentID, signature string) bool {
	return VerifySignature(providerOrderID, paymentID, signature, c.keySecret)
}
