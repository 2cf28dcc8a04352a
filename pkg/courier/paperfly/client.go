// Package paperfly provides integration with the Paperfly merchant API and
// its public tracker endpoint.
package paperfly

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

const carrierName = courier.CarrierPaperfly

// Credential map keys as tenant configuration stores them.
const (
	credUsername = "username"
	credPassword = "password"
)

// Config holds Paperfly configuration.
type Config struct {
	Username   string
	Password   string
	BaseURL    string
	TrackerURL string
	Timeout    time.Duration
	UseMock    bool // When true, uses mock API client
}

// ConfigFromService builds a Config from an opaque tenant service record.
func ConfigFromService(svc courier.Service, baseURL string, timeout time.Duration) Config {
	return Config{
		Username: svc.Credential(credUsername),
		Password: svc.Credential(credPassword),
		BaseURL:  baseURL,
		Timeout:  timeout,
	}
}

// Client is the Paperfly courier client. It implements the courier.Courier
// interface and delegates API calls to the underlying APIClient (mock or HTTP).
type Client struct {
	config    Config
	apiClient APIClient
	logger    *otelzap.Logger
}

// New creates a new Paperfly client. If cfg.UseMock is true, it uses a mock
// API client for testing; otherwise the real HTTP API client.
func New(cfg Config, logger *otelzap.Logger) *Client {
	var apiClient APIClient

	if cfg.UseMock {
		apiClient = NewMockAPIClient()
	} else {
		apiClient = NewHTTPAPIClient(HTTPAPIClientConfig{
			BaseURL:    cfg.BaseURL,
			TrackerURL: cfg.TrackerURL,
			Username:   cfg.Username,
			Password:   cfg.Password,
			Timeout:    cfg.Timeout,
		})
	}

	return &Client{
		config:    cfg,
		apiClient: apiClient,
		logger:    logger,
	}
}

// NewWithAPIClient creates a new Paperfly client with a custom API client.
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

// CreateOrder registers a shipment with Paperfly. Paperfly only accepts thana
// names that exactly match its internal gazetteer and exposes no lookup API,
// so the create request is retried across name variants until one lands.
func (c *Client) CreateOrder(ctx context.Context, req *courier.CreateOrderRequest) (*courier.StatusResult, error) {
	if err := c.validateCredentials(); err != nil {
		return nil, err
	}

	variants := thanaVariants(req.Area(), req.City())

	apiReq := &OrderRequest{
		MerchantOrderRef: orderRef(req),
		CustomerName:     req.RecipientName(),
		CustomerAddress:  req.RecipientAddress(),
		CustomerDistrict: req.City(),
		CustomerPhone:    req.RecipientPhone(),
		PackageWeight:    req.ItemWeightKG(),
		ProductBrief:     productBrief(req),
		PaymentType:      "COD",
		CollectionAmount: courier.CollectionAmount(req.Order, req.Details),
	}

	var lastErrText string
	for _, thana := range variants {
		apiReq.CustomerThana = thana

		c.logger.Info("Creating Paperfly order",
			zap.String("order_ref", apiReq.MerchantOrderRef),
			zap.String("thana", thana),
		)

		apiResp, err := c.apiClient.CreateOrder(ctx, apiReq)
		if err != nil {
			if !thanaNotFound(err.Error()) {
				c.logger.Error("Paperfly API error", zap.Error(err))
				return nil, err
			}
			lastErrText = err.Error()
			continue
		}

		// Some gazetteer misses come back as HTTP 200 with error text.
		if thanaNotFound(apiResp.Raw) {
			lastErrText = strings.TrimSpace(apiResp.Raw)
			continue
		}

		return c.createResult(apiReq, apiResp), nil
	}

	return nil, &courier.ThanaResolutionError{
		Carrier:   carrierName,
		Variants:  variants,
		LastError: lastErrText,
	}
}

// GetStatus queries the public tracker. The consignment id is the composite
// "orderRef|phone" key the tracker requires; a key missing either part fails
// before any request is made.
func (c *Client) GetStatus(ctx context.Context, consignmentID string) (*courier.StatusResult, error) {
	if err := c.validateCredentials(); err != nil {
		return nil, err
	}

	orderRef, phone, err := splitTrackingKey(consignmentID)
	if err != nil {
		return nil, err
	}

	apiResp, err := c.apiClient.Track(ctx, orderRef, phone)
	if err != nil {
		c.logger.Error("Paperfly tracker error", zap.Error(err))
		return nil, err
	}

	status := ExtractTrackerStatus(apiResp.Raw)
	if status == "" {
		status = "pending"
	}

	return &courier.StatusResult{
		ConsignmentID:  consignmentID,
		DeliveryStatus: courier.NormalizeStatus(status),
		RawStatus:      apiResp.Raw,
	}, nil
}

// validateCredentials checks the basic-auth pair before any HTTP call. Only
// field names are reported, never values.
func (c *Client) validateCredentials() error {
	missing := make([]string, 0, 2)
	if strings.TrimSpace(c.config.Username) == "" {
		missing = append(missing, credUsername)
	}
	if strings.TrimSpace(c.config.Password) == "" {
		missing = append(missing, credPassword)
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: paperfly requires %s", courier.ErrMissingCredentials, strings.Join(missing, ", "))
	}
	return nil
}

// createResult leniently extracts the reference and status from a create
// response body.
func (c *Client) createResult(apiReq *OrderRequest, apiResp *OrderResponse) *courier.StatusResult {
	fields := parseCreateBody(apiResp.Raw)

	ref := firstField(fields, orderRefFields)
	if ref == "" {
		ref = apiReq.MerchantOrderRef
	}

	status := firstField(fields, createStatusFields)
	if status == "" {
		status = "pending"
	}

	return &courier.StatusResult{
		ConsignmentID:  ref,
		DeliveryStatus: courier.NormalizeStatus(status),
		RawStatus:      apiResp.Raw,
	}
}

// ============================================================================
// Thana name variants
// ============================================================================

// thanaSuffixes are the administrative-unit suffixes customers type after an
// area name, in Latin and Bengali script.
var thanaSuffixes = []string{"Upazila", "Thana", "উপজেলা", "থানা"}

// thanaVariants builds the ordered candidate list for the gazetteer: the
// suffix-stripped area name, the raw area name, the raw name with an
// "Upazila" suffix rewritten to "Thana", and finally the district itself.
// Empty and duplicate entries are dropped, order preserved.
func thanaVariants(area, city string) []string {
	candidates := []string{stripThanaSuffix(area), area, upazilaToThana(area), city}

	seen := make(map[string]struct{}, len(candidates))
	variants := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" {
			continue
		}
		key := strings.ToLower(candidate)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		variants = append(variants, candidate)
	}
	return variants
}

func stripThanaSuffix(name string) string {
	trimmed := strings.TrimSpace(name)
	for _, suffix := range thanaSuffixes {
		if strings.HasSuffix(strings.ToLower(trimmed), strings.ToLower(suffix)) {
			return strings.TrimSpace(trimmed[:len(trimmed)-len(suffix)])
		}
	}
	return trimmed
}

func upazilaToThana(name string) string {
	trimmed := strings.TrimSpace(name)
	lower := strings.ToLower(trimmed)
	if !strings.HasSuffix(lower, "upazila") {
		return ""
	}
	base := strings.TrimSpace(trimmed[:len(trimmed)-len("upazila")])
	if base == "" {
		return ""
	}
	return base + " Thana"
}

// thanaNotFound reports whether provider error text indicates a gazetteer
// miss, the only failure worth retrying with another variant.
func thanaNotFound(text string) bool {
	return strings.Contains(strings.ToLower(text), "thana not found")
}

// ============================================================================
// Mapping helpers
// ============================================================================

// orderRefFields is the ordered list of keys the order reference has been
// observed under across Paperfly API revisions.
var orderRefFields = []string{"ReferenceNumber", "referenceNumber", "tracking_number", "trackingNumber", "order_id", "orderId"}

// createStatusFields mirrors orderRefFields for the shipment status.
var createStatusFields = []string{"status", "order_status", "delivery_status", "state"}

// parseCreateBody parses a create response as JSON. An unparseable body
// yields an empty map, never an error; a 200 with garbage in it is still a
// created shipment.
func parseCreateBody(raw string) map[string]interface{} {
	var fields map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &fields); err != nil || fields == nil {
		return map[string]interface{}{}
	}
	return fields
}

// firstField returns the first usable value among the given keys. Numeric
// references are rendered without an exponent.
func firstField(fields map[string]interface{}, keys []string) string {
	for _, key := range keys {
		switch v := fields[key].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return fmt.Sprintf("%.0f", v)
		}
	}
	return ""
}

// splitTrackingKey parses the composite "orderRef|phone" tracking key.
func splitTrackingKey(key string) (orderRef, phone string, err error) {
	parts := strings.SplitN(key, "|", 2)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("%w: %q must be \"orderId|phone\"", courier.ErrMalformedTrackingKey, key)
	}
	orderRef = strings.TrimSpace(parts[0])
	phone = strings.TrimSpace(parts[1])
	if orderRef == "" || phone == "" {
		return "", "", fmt.Errorf("%w: %q must be \"orderId|phone\"", courier.ErrMalformedTrackingKey, key)
	}
	return orderRef, phone, nil
}

func orderRef(req *courier.CreateOrderRequest) string {
	if req.TrackingID != "" {
		return req.TrackingID
	}
	return req.Order.ID
}

func productBrief(req *courier.CreateOrderRequest) string {
	if req.Details != nil && req.Details.SpecialInstruction != "" {
		return req.Details.SpecialInstruction
	}
	return req.Order.Customer.Notes
}

var _ courier.Courier = (*Client)(nil)
