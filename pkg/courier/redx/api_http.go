package redx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/srana86/framex-courier/pkg/courier"
)

// HTTPAPIClient is the production implementation of APIClient using HTTP.
type HTTPAPIClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// HTTPAPIClientConfig holds configuration for the HTTP client.
type HTTPAPIClientConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// NewHTTPAPIClient creates a new HTTP-based API client for production use.
func NewHTTPAPIClient(cfg HTTPAPIClientConfig) *HTTPAPIClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &HTTPAPIClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// ListAreas fetches the delivery-area list, filtered by district when given.
func (c *HTTPAPIClient) ListAreas(ctx context.Context, district string) ([]Area, error) {
	path := "/v1.0.0-beta/areas"
	if district != "" {
		path += "?district_name=" + url.QueryEscape(district)
	}

	resp, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read areas response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, c.parseError(resp.StatusCode, body)
	}

	var result areasResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode areas response: %w", err)
	}
	return result.Areas, nil
}

// CreateParcel registers a parcel via POST /v1.0.0-beta/parcel.
func (c *HTTPAPIClient) CreateParcel(ctx context.Context, req *ParcelRequest) (*ParcelResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/v1.0.0-beta/parcel", req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read parcel response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.parseError(resp.StatusCode, body)
	}

	var result ParcelResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode parcel response: %w", err)
	}
	result.Raw = string(body)
	return &result, nil
}

// GetParcelInfo fetches GET /v1.0.0-beta/parcel/info/{id}.
func (c *HTTPAPIClient) GetParcelInfo(ctx context.Context, trackingID string) (*ParcelInfoResponse, error) {
	path := fmt.Sprintf("/v1.0.0-beta/parcel/info/%s", url.PathEscape(trackingID))

	resp, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read parcel info response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, c.parseError(resp.StatusCode, body)
	}

	var result ParcelInfoResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode parcel info response: %w", err)
	}
	result.Raw = string(body)
	return &result, nil
}

// doRequest performs an HTTP request with the RedX access-token header.
func (c *HTTPAPIClient) doRequest(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	url := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("API-ACCESS-TOKEN", "Bearer "+c.apiKey)

	return c.httpClient.Do(req)
}

// parseError extracts error information from a non-2xx response.
func (c *HTTPAPIClient) parseError(statusCode int, body []byte) error {
	var simpleErr struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &simpleErr); err == nil {
		msg := simpleErr.Message
		if msg == "" {
			msg = simpleErr.Error
		}
		if msg != "" {
			return courier.NewRequestError(carrierName, statusCode, msg)
		}
	}
	return courier.NewRequestError(carrierName, statusCode, string(body))
}

// Ensure HTTPAPIClient implements APIClient interface
var _ APIClient = (*HTTPAPIClient)(nil)
