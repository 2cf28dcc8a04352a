package steadfast

import (
	"context"
	"encoding/json"
)

// APIClient defines the interface for Steadfast API operations.
type APIClient interface {
	// CreateOrder registers a new consignment.
	CreateOrder(ctx context.Context, req *OrderRequest) (*OrderResponse, error)

	// GetStatusByConsignmentID fetches the current delivery status.
	GetStatusByConsignmentID(ctx context.Context, consignmentID string) (*StatusResponse, error)
}

// ============================================================================
// API Request/Response Types (match the Steadfast merchant REST API)
// ============================================================================

// OrderRequest is the payload for POST /create_order. Email is optional and
// must be omitted entirely when absent, not sent as null or empty.
type OrderRequest struct {
	Invoice          string  `json:"invoice"`
	RecipientName    string  `json:"recipient_name"`
	RecipientPhone   string  `json:"recipient_phone"`
	RecipientEmail   string  `json:"recipient_email,omitempty"`
	RecipientAddress string  `json:"recipient_address"`
	CODAmount        float64 `json:"cod_amount"`
	Note             string  `json:"note,omitempty"`
}

// OrderResponse is the create-order response envelope.
type OrderResponse struct {
	Status      int    `json:"status"`
	Message     string `json:"message"`
	Consignment struct {
		ConsignmentID json.Number `json:"consignment_id"`
		Invoice       string      `json:"invoice"`
		TrackingCode  string      `json:"tracking_code"`
		Status        string      `json:"status"`
	} `json:"consignment"`

	// Raw preserves the provider's response body verbatim.
	Raw string `json:"-"`
}

// StatusResponse is the GET /status_by_cid/{id} response. The delivery
// status always sits at the response root.
type StatusResponse struct {
	Status         int    `json:"status"`
	DeliveryStatus string `json:"delivery_status"`

	Raw string `json:"-"`
}
