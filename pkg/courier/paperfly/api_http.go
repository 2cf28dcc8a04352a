package paperfly

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/srana86/framex-courier/pkg/courier"
)

// DefaultTrackerURL is Paperfly's public tracking endpoint. It is a separate
// host from the merchant API and only speaks form-encoded requests.
const DefaultTrackerURL = "http://paperfly.com.bd/trackerapi.php"

// HTTPAPIClient is the production implementation of APIClient using HTTP.
type HTTPAPIClient struct {
	baseURL    string
	trackerURL string
	username   string
	password   string
	httpClient *http.Client
}

// HTTPAPIClientConfig holds configuration for the HTTP client.
type HTTPAPIClientConfig struct {
	BaseURL    string
	TrackerURL string
	Username   string
	Password   string
	Timeout    time.Duration
}

// NewHTTPAPIClient creates a new HTTP-based API client for production use.
func NewHTTPAPIClient(cfg HTTPAPIClientConfig) *HTTPAPIClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	trackerURL := cfg.TrackerURL
	if trackerURL == "" {
		trackerURL = DefaultTrackerURL
	}

	return &HTTPAPIClient{
		baseURL:    cfg.BaseURL,
		trackerURL: trackerURL,
		username:   cfg.Username,
		password:   cfg.Password,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// CreateOrder registers a shipment via POST /merchant/api/service/new_order.php.
// The body is returned verbatim on 2xx; non-2xx bodies travel inside the
// returned error so the caller can inspect provider error text.
func (c *HTTPAPIClient) CreateOrder(ctx context.Context, req *OrderRequest) (*OrderResponse, error) {
	jsonBody, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal order request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/merchant/api/service/new_order.php", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.SetBasicAuth(c.username, c.password)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read order response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, courier.NewRequestError(carrierName, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return &OrderResponse{Raw: string(body)}, nil
}

// Track posts a form-encoded lookup to the public tracker endpoint.
func (c *HTTPAPIClient) Track(ctx context.Context, orderRef, phone string) (*TrackResponse, error) {
	form := url.Values{}
	form.Set("order_id", orderRef)
	form.Set("phone", phone)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.trackerURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read tracker response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, courier.NewRequestError(carrierName, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return &TrackResponse{Raw: string(body)}, nil
}

// Ensure HTTPAPIClient implements APIClient interface
var _ APIClient = (*HTTPAPIClient)(nil)
