// Package pathao provides integration with the Pathao merchant API.
package pathao

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/srana86/framex-courier/pkg/courier"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

const carrierName = courier.CarrierPathao

// Credential map keys as tenant configuration stores them.
const (
	credClientID     = "clientId"
	credClientSecret = "clientSecret"
	credUsername     = "username"
	credPassword     = "password"
)

// Config holds Pathao configuration.
type Config struct {
	ClientID     string
	ClientSecret string
	Username     string
	Password     string
	BaseURL      string
	Timeout      time.Duration
	UseMock      bool // When true, uses mock API client
}

// ConfigFromService builds a Config from an opaque tenant service record.
func ConfigFromService(svc courier.Service, baseURL string, timeout time.Duration) Config {
	return Config{
		ClientID:     svc.Credential(credClientID),
		ClientSecret: svc.Credential(credClientSecret),
		Username:     svc.Credential(credUsername),
		Password:     svc.Credential(credPassword),
		BaseURL:      baseURL,
		Timeout:      timeout,
	}
}

// Client is the Pathao courier client. It implements the courier.Courier
// interface and delegates API calls to the underlying APIClient (mock or HTTP).
// Every operation is self-contained: the password-grant token is exchanged
// fresh per call and never cached.
type Client struct {
	config    Config
	apiClient APIClient
	logger    *otelzap.Logger
}

// New creates a new Pathao client. If cfg.UseMock is true, it uses a mock
// API client for testing; otherwise the real HTTP API client.
func New(cfg Config, logger *otelzap.Logger) *Client {
	var apiClient APIClient

	if cfg.UseMock {
		apiClient = NewMockAPIClient()
	} else {
		apiClient = NewHTTPAPIClient(HTTPAPIClientConfig{
			BaseURL: cfg.BaseURL,
			Timeout: cfg.Timeout,
		})
	}

	return &Client{
		config:    cfg,
		apiClient: apiClient,
		logger:    logger,
	}
}

// NewWithAPIClient creates a new Pathao client with a custom API client.
// This is useful for injecting mock clients in tests.
func NewWithAPIClient(cfg Config, apiClient APIClient, logger *otelzap.Logger) *Client {
	return &Client{
		config:    cfg,
		apiClient: apiClient,
		logger:    logger,
	}
}

// Name returns the carrier name.
func (c *Client) Name() string {
	return carrierName
}

// CreateOrder registers a shipment with Pathao.
func (c *Client) CreateOrder(ctx context.Context, req *courier.CreateOrderRequest) (*courier.StatusResult, error) {
	if err := c.validateCredentials(); err != nil {
		return nil, err
	}

	phone, err := courier.NormalizePhone(req.RecipientPhone())
	if err != nil {
		return nil, err
	}

	token, err := c.authenticate(ctx)
	if err != nil {
		return nil, err
	}

	apiReq := &OrderRequest{
		MerchantOrderID:    merchantOrderID(req),
		RecipientName:      req.RecipientName(),
		RecipientPhone:     phone,
		RecipientAddress:   req.RecipientAddress(),
		RecipientCity:      req.City(),
		RecipientZone:      req.Area(),
		DeliveryType:       deliveryTypeNormal,
		ItemType:           itemTypeParcel,
		SpecialInstruction: specialInstruction(req),
		ItemQuantity:       req.ItemCount(),
		ItemWeight:         req.ItemWeightKG(),
		AmountToCollect:    courier.CollectionAmount(req.Order, req.Details),
	}

	c.logger.Info("Creating Pathao order",
		zap.String("merchant_order_id", apiReq.MerchantOrderID),
		zap.String("recipient_city", apiReq.RecipientCity),
		zap.Float64("amount_to_collect", apiReq.AmountToCollect),
	)

	apiResp, err := c.apiClient.CreateOrder(ctx, token, apiReq)
	if err != nil {
		c.logger.Error("Pathao API error", zap.Error(err))
		return nil, err
	}

	status := apiResp.Data.OrderStatus
	if status == "" {
		status = "pending"
	}

	return &courier.StatusResult{
		ConsignmentID:  apiResp.Data.ConsignmentID,
		DeliveryStatus: courier.NormalizeStatus(status),
		RawStatus:      apiResp.Raw,
	}, nil
}

// GetStatus queries Pathao for the current delivery status of a consignment.
func (c *Client) GetStatus(ctx context.Context, consignmentID string) (*courier.StatusResult, error) {
	if err := c.validateCredentials(); err != nil {
		return nil, err
	}

	token, err := c.authenticate(ctx)
	if err != nil {
		return nil, err
	}

	apiResp, err := c.apiClient.GetOrderInfo(ctx, token, consignmentID)
	if err != nil {
		c.logger.Error("Pathao API error", zap.Error(err))
		return nil, err
	}

	return &courier.StatusResult{
		ConsignmentID:  consignmentID,
		DeliveryStatus: courier.NormalizeStatus(extractOrderStatus(apiResp.Raw)),
		RawStatus:      apiResp.Raw,
	}, nil
}

// validateCredentials checks the four password-grant fields before any HTTP
// call. Only field names are reported, never values.
func (c *Client) validateCredentials() error {
	missing := make([]string, 0, 4)
	for name, value := range map[string]string{
		credClientID:     c.config.ClientID,
		credClientSecret: c.config.ClientSecret,
		credUsername:     c.config.Username,
		credPassword:     c.config.Password,
	} {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: pathao requires %s", courier.ErrMissingCredentials, strings.Join(missing, ", "))
	}
	return nil
}

// authenticate exchanges credentials for a bearer token.
func (c *Client) authenticate(ctx context.Context) (string, error) {
	resp, err := c.apiClient.IssueToken(ctx, &TokenRequest{
		ClientID:     strings.TrimSpace(c.config.ClientID),
		ClientSecret: strings.TrimSpace(c.config.ClientSecret),
		Username:     strings.TrimSpace(c.config.Username),
		Password:     strings.TrimSpace(c.config.Password),
		GrantType:    "password",
	})
	if err != nil {
		return "", err
	}
	return resp.AccessToken, nil
}

// ============================================================================
// Mapping helpers
// ============================================================================

const (
	deliveryTypeNormal = 48 // 48-hour standard delivery
	itemTypeParcel     = 2
)

func merchantOrderID(req *courier.CreateOrderRequest) string {
	if req.TrackingID != "" {
		return req.TrackingID
	}
	return req.Order.ID
}

func specialInstruction(req *courier.CreateOrderRequest) string {
	if req.Details != nil && req.Details.SpecialInstruction != "" {
		return req.Details.SpecialInstruction
	}
	return req.Order.Customer.Notes
}

// orderStatusFields is the ordered list of keys the status has been observed
// under across Pathao API revisions.
var orderStatusFields = []string{"order_status", "status", "delivery_status", "current_status"}

// extractOrderStatus probes a raw order-info body for the status field,
// checking the response root and its "data" envelope. Missing or unreadable
// status yields "unknown".
func extractOrderStatus(raw string) string {
	var payload map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return "unknown"
	}

	if data, ok := payload["data"]; ok {
		var nested map[string]json.RawMessage
		if err := json.Unmarshal(data, &nested); err == nil {
			if s := firstStringField(nested, orderStatusFields); s != "" {
				return s
			}
		}
	}
	if s := firstStringField(payload, orderStatusFields); s != "" {
		return s
	}
	return "unknown"
}

// firstStringField returns the first non-empty string value among the given
// keys, keeping the fallback order explicit.
func firstStringField(m map[string]json.RawMessage, keys []string) string {
	for _, key := range keys {
		rawVal, ok := m[key]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(rawVal, &s); err == nil && s != "" {
			return s
		}
	}
	return ""
}

var _ courier.Courier = (*Client)(nil)
