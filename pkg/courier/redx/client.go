// Package redx provides integration with the RedX parcel API.
package redx

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/srana86/framex-courier/pkg/courier"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

const carrierName = courier.CarrierRedX

const credAPIKey = "apiKey"

// defaultParcelWeightGrams is used when the caller supplies no weight.
const defaultParcelWeightGrams = 500

// Config holds RedX configuration.
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
	UseMock bool // When true, uses mock API client

	// FuzzyThreshold is the minimum area-match overlap score; zero means
	// DefaultFuzzyThreshold.
	FuzzyThreshold float64
}

// ConfigFromService builds a Config from an opaque tenant service record.
func ConfigFromService(svc courier.Service, baseURL string, timeout time.Duration) Config {
	return Config{
		APIKey:  svc.Credential(credAPIKey),
		BaseURL: baseURL,
		Timeout: timeout,
	}
}

// Client is the RedX courier client. It implements the courier.Courier
// interface and delegates API calls to the underlying APIClient (mock or HTTP).
type Client struct {
	config    Config
	apiClient APIClient
	logger    *otelzap.Logger
}

// New creates a new RedX client. If cfg.UseMock is true, it uses a mock API
// client for testing; otherwise the real HTTP API client.
func New(cfg Config, logger *otelzap.Logger) *Client {
	var apiClient APIClient

	if cfg.UseMock {
		apiClient = NewMockAPIClient()
	} else {
		apiClient = NewHTTPAPIClient(HTTPAPIClientConfig{
			BaseURL: cfg.BaseURL,
			APIKey:  cfg.APIKey,
			Timeout: cfg.Timeout,
		})
	}

	return &Client{
		config:    cfg,
		apiClient: apiClient,
		logger:    logger,
	}
}

// NewWithAPIClient creates a new RedX client with a custom API client.
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

// CreateOrder registers a parcel with RedX. The free-text delivery area is
// resolved to the carrier's canonical (name, id) pair first; resolution
// failure aborts the call rather than guessing an area.
func (c *Client) CreateOrder(ctx context.Context, req *courier.CreateOrderRequest) (*courier.StatusResult, error) {
	if err := c.validateCredentials(); err != nil {
		return nil, err
	}

	area, err := c.resolveArea(ctx, req.City(), req.Area())
	if err != nil {
		return nil, err
	}

	apiReq := &ParcelRequest{
		CustomerName:         req.RecipientName(),
		CustomerPhone:        req.RecipientPhone(),
		DeliveryAreaName:     area.Name,
		DeliveryAreaID:       area.ID,
		CustomerAddress:      req.RecipientAddress(),
		MerchantInvoiceID:    invoiceID(req),
		CashCollectionAmount: courier.CollectionAmount(req.Order, req.Details),
		ParcelWeightGrams:    parcelWeightGrams(req),
		Instruction:          instruction(req),
		Value:                req.Order.Total,
		IsClosedBox:          true,
	}

	c.logger.Info("Creating RedX parcel",
		zap.String("invoice_id", apiReq.MerchantInvoiceID),
		zap.String("delivery_area", area.Name),
		zap.Int("delivery_area_id", area.ID),
		zap.Float64("cash_collection", apiReq.CashCollectionAmount),
	)

	apiResp, err := c.apiClient.CreateParcel(ctx, apiReq)
	if err != nil {
		c.logger.Error("RedX API error", zap.Error(err))
		return nil, err
	}

	return &courier.StatusResult{
		ConsignmentID:  apiResp.TrackingID,
		DeliveryStatus: courier.StatusPending,
		RawStatus:      apiResp.Raw,
	}, nil
}

// GetStatus queries RedX for the current delivery status of a parcel.
func (c *Client) GetStatus(ctx context.Context, consignmentID string) (*courier.StatusResult, error) {
	if err := c.validateCredentials(); err != nil {
		return nil, err
	}

	apiResp, err := c.apiClient.GetParcelInfo(ctx, consignmentID)
	if err != nil {
		c.logger.Error("RedX API error", zap.Error(err))
		return nil, err
	}

	status := apiResp.Parcel.Status
	if status == "" {
		status = "unknown"
	}

	return &courier.StatusResult{
		ConsignmentID:  consignmentID,
		DeliveryStatus: courier.NormalizeStatus(status),
		RawStatus:      apiResp.Raw,
	}, nil
}

func (c *Client) validateCredentials() error {
	if strings.TrimSpace(c.config.APIKey) == "" {
		return fmt.Errorf("%w: redx requires %s", courier.ErrMissingCredentials, credAPIKey)
	}
	return nil
}

// resolveArea matches the caller's free-text area against the canonical list:
// the city-scoped list first, then the global list, with exact, substring and
// fuzzy strategies tried in order inside each.
func (c *Client) resolveArea(ctx context.Context, city, query string) (*Area, error) {
	threshold := c.config.FuzzyThreshold
	if threshold <= 0 {
		threshold = DefaultFuzzyThreshold
	}

	cityAreas, err := c.apiClient.ListAreas(ctx, city)
	if err != nil {
		return nil, err
	}
	if area := matchArea(query, cityAreas, threshold); area != nil {
		return area, nil
	}

	globalAreas, err := c.apiClient.ListAreas(ctx, "")
	if err != nil {
		return nil, err
	}
	if area := matchArea(query, globalAreas, threshold); area != nil {
		c.logger.Warn("RedX area resolved outside the requested city",
			zap.String("query", query),
			zap.String("city", city),
			zap.String("matched", area.Name),
		)
		return area, nil
	}

	return nil, &courier.AreaResolutionError{
		Carrier:    carrierName,
		Query:      query,
		City:       city,
		Candidates: candidateNames(cityAreas),
	}
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

func instruction(req *courier.CreateOrderRequest) string {
	if req.Details != nil && req.Details.SpecialInstruction != "" {
		return req.Details.SpecialInstruction
	}
	return req.Order.Customer.Notes
}

// parcelWeightGrams converts the caller's kilograms to the grams RedX expects.
func parcelWeightGrams(req *courier.CreateOrderRequest) int {
	if req.Details != nil && req.Details.ItemWeightKG != nil && *req.Details.ItemWeightKG > 0 {
		return int(*req.Details.ItemWeightKG * 1000)
	}
	return defaultParcelWeightGrams
}

var _ courier.Courier = (*Client)(nil)
