package pathao

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/srana86/framex-courier/pkg/courier"
)

// HTTPAPIClient is the production implementation of APIClient using HTTP.
type HTTPAPIClient struct {
	baseURL    string
	httpClient *http.Client
}

// HTTPAPIClientConfig holds configuration for the HTTP client.
type HTTPAPIClientConfig struct {
	BaseURL string
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
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// IssueToken performs the password-grant exchange against the token endpoint.
// The endpoint is known to return non-JSON bodies on failure and 200s without
// a token, so the response is parsed defensively: content is trusted over
// status.
func (c *HTTPAPIClient) IssueToken(ctx context.Context, req *TokenRequest) (*TokenResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/aladdin/api/v1/issue-token", "", req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read token response: %w", err)
	}

	return parseTokenResponse(resp.StatusCode, body)
}

// CreateOrder registers a consignment via POST /aladdin/api/v1/orders.
func (c *HTTPAPIClient) CreateOrder(ctx context.Context, accessToken string, req *OrderRequest) (*OrderResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/aladdin/api/v1/orders", accessToken, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read order response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.parseError(resp.StatusCode, body)
	}

	var result OrderResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode order response: %w", err)
	}
	result.Raw = string(body)
	return &result, nil
}

// GetOrderInfo fetches GET /aladdin/api/v1/orders/{id}/info. The body is
// returned raw; status extraction happens in the client layer.
func (c *HTTPAPIClient) GetOrderInfo(ctx context.Context, accessToken, consignmentID string) (*OrderInfoResponse, error) {
	path := fmt.Sprintf("/aladdin/api/v1/orders/%s/info", consignmentID)

	resp, err := c.doRequest(ctx, http.MethodGet, path, accessToken, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read order info response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.parseError(resp.StatusCode, body)
	}

	return &OrderInfoResponse{Raw: string(body)}, nil
}

// doRequest performs an HTTP request with proper headers and bearer auth.
func (c *HTTPAPIClient) doRequest(ctx context.Context, method, path, accessToken string, body interface{}) (*http.Response, error) {
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
	req.Header.Set("Accept", "application/json")
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

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

// parseTokenResponse interprets a token-endpoint response body. A body
// lacking an access_token is a failure even on HTTP 200; non-JSON bodies
// fall back to raw text, then to an HTTP-status-derived message.
func parseTokenResponse(statusCode int, body []byte) (*TokenResponse, error) {
	var token TokenResponse
	if err := json.Unmarshal(body, &token); err == nil && token.AccessToken != "" {
		return &token, nil
	}

	var structured struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &structured); err == nil {
		msg := structured.Message
		if msg == "" {
			msg = structured.Error
		}
		if msg != "" {
			return nil, courier.NewRequestError(carrierName, statusCode, msg)
		}
	}

	if len(bytes.TrimSpace(body)) > 0 {
		return nil, courier.NewRequestError(carrierName, statusCode, string(body))
	}
	return nil, courier.NewRequestError(carrierName, statusCode, "")
}

// Ensure HTTPAPIClient implements APIClient interface
var _ APIClient = (*HTTPAPIClient)(nil)
