package paperfly

import (
	"context"
)

// APIClient defines the interface for Paperfly API operations.
type APIClient interface {
	// CreateOrder registers a new shipment. The response body is returned
	// verbatim; Paperfly does not reliably emit JSON.
	CreateOrder(ctx context.Context, req *OrderRequest) (*OrderResponse, error)

	// Track queries the public tracker endpoint. It needs both the merchant
	// order reference and the recipient phone, and answers with an
	// HTML/JavaScript fragment.
	Track(ctx context.Context, orderRef, phone string) (*TrackResponse, error)
}

// ============================================================================
// API Request/Response Types (match the Paperfly merchant API)
// ============================================================================

// OrderRequest is the payload for POST /merchant/api/service/new_order.php.
type OrderRequest struct {
	MerchantOrderRef string  `json:"merOrderRef"`
	CustomerName     string  `json:"custname"`
	CustomerAddress  string  `json:"custaddress"`
	CustomerThana    string  `json:"customerThana"`
	CustomerDistrict string  `json:"customerDistrict"`
	CustomerPhone    string  `json:"custPhone"`
	PackageWeight    float64 `json:"max_weight"`
	ProductBrief     string  `json:"productBrief,omitempty"`
	PaymentType      string  `json:"payType"`
	CollectionAmount float64 `json:"collectionAmount"`
}

// OrderResponse is the create-order response. Paperfly's body may or may not
// be valid JSON, so only the raw text is carried; field extraction happens
// leniently in the client layer.
type OrderResponse struct {
	Raw string
}

// TrackResponse is the tracker endpoint response, an HTML/JavaScript
// fragment rather than JSON.
type TrackResponse struct {
	Raw string
}
