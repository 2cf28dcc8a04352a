// Package steadfast provides integration with the Steadfast merchant API.
package steadfast

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/srana86/framex-courier/pkg/courier"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

const carrierName = courier.CarrierSteadfast

// Credential map keys as tenant configuration stores them. The secret has
// shipped under two names over time; both must be honored.
const (
	credAPIKey       = "apiKey"
	credAppSecret    = "appSecret"
	credSecretKeyAlt = "secretKey"
)

// Config holds Steadfast configuration.
type Config struct {
	APIKey    string
	SecretKey string
	BaseURL   string
	Timeout   time.Duration
	UseMock   bool // When true, uses mock API client
}

// ConfigFromService builds a Config from an opaque tenant service record.
// The secret is taken from "appSecret" or "secretKey", first non-empty wins.
func ConfigFromService(svc courier.Service, baseURL string, timeout time.Duration) Config {
	secret := svc.Credential(credAppSecret)
	if secret == "" {
		secret = svc.Credential(credSecretKeyAlt)
	}

	return Config{
		APIKey:    svc.Credential(credAPIKey),
		SecretKey: secret,
		BaseURL:   baseURL,
		Timeout:   timeout,
	}
}

// Client is the Steadfast courier client. It implements the courier.Courier
// interface and delegates API calls to the underlying APIClient (mock or HTTP).
type Client struct {
	config    Config
	apiClient APIClient
	logger    *otelzap.Logger
}

// New creates a new Steadfast client. If cfg.UseMock is true, it uses a mock
// API client for testing; otherwise the real HTTP API client.
func New(cfg Config, logger *otelzap.Logger) *Client {
	var apiClient APIClient

	if cfg.UseMock {
		apiClient = NewMockAPIClient()
	} else {
		apiClient = NewHTTPAPIClient(HTTPAPIClientConfig{
			BaseURL:   cfg.BaseURL,
			APIKey:    cfg.APIKey,
			SecretKey: cfg.SecretKey,
			Timeout:   cfg.Timeout,
		})
	}

	return &Client{
		config:    cfg,
		apiClient: apiClient,
		logger:    logger,
	}
}

// NewWithAPIClient creates a new Steadfast client with a custom API client.
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

// CreateOrder registers a consignment with Steadfast.
func (c *Client) CreateOrder(ctx context.Context, req *courier.CreateOrderRequest) (*courier.StatusResult, error) {
	if err := c.validateCredentials(); err != nil {
		return nil, err
	}

	apiReq := &OrderRequest{
		Invoice:          invoiceID(req),
		RecipientName:    req.RecipientName(),
		RecipientPhone:   req.RecipientPhone(),
		RecipientEmail:   req.Order.Customer.Email,
		RecipientAddress: req.RecipientAddress(),
		CODAmount:        courier.CollectionAmount(req.Order, req.Details),
		Note:             note(req),
	}

	c.logger.Info("Creating Steadfast order",
		zap.String("invoice", apiReq.Invoice),
		zap.Float64("cod_amount", apiReq.CODAmount),
	)

	apiResp, err := c.apiClient.CreateOrder(ctx, apiReq)
	if err != nil {
		c.logger.Error("Steadfast API error", zap.Error(err))
		return nil, err
	}

	status := apiResp.Consignment.Status
	if status == "" {
		status = "pending"
	}

	return &courier.StatusResult{
		ConsignmentID:  apiResp.Consignment.ConsignmentID.String(),
		DeliveryStatus: courier.NormalizeStatus(status),
		RawStatus:      apiResp.Raw,
	}, nil
}

// GetStatus queries Steadfast for the current delivery status of a consignment.
func (c *Client) GetStatus(ctx context.Context, consignmentID string) (*courier.StatusResult, error) {
	if err := c.validateCredentials(); err != nil {
		return nil, err
	}

	apiResp, err := c.apiClient.GetStatusByConsignmentID(ctx, consignmentID)
	if err != nil {
		c.logger.Error("Steadfast API error", zap.Error(err))
		return nil, err
	}

	status := apiResp.DeliveryStatus
	if status == "" {
		status = "unknown"
	}

	return &courier.StatusResult{
		ConsignmentID:  consignmentID,
		DeliveryStatus: courier.NormalizeStatus(status),
		RawStatus:      apiResp.Raw,
	}, nil
}

// validateCredentials checks the key pair before any HTTP call. Only field
// names are reported, never values.
func (c *Client) validateCredentials() error {
	missing := make([]string, 0, 2)
	if strings.TrimSpace(c.config.APIKey) == "" {
		missing = append(missing, credAPIKey)
	}
	if strings.TrimSpace(c.config.SecretKey) == "" {
		missing = append(missing, credAppSecret)
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: steadfast requires %s", courier.ErrMissingCredentials, strings.Join(missing, ", "))
	}
	return nil
}

// ============================================================================
// Mapping helpers
// ============================================================================

func invoiceID(req *courier.CreateOrderRequest) string {
	if req.TrackingID != "" {
		return req.TrackingID
	}
	return req.Order.ID
}

func note(req *courier.CreateOrderRequest) string {
	if req.Details != nil && req.Details.SpecialInstruction != "" {
		return req.Details.SpecialInstruction
	}
	return req.Order.Customer.Notes
}

var _ courier.Courier = (*Client)(nil)
