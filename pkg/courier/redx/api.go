package redx

import (
	"context"
)

// APIClient defines the interface for RedX API operations.
type APIClient interface {
	// ListAreas fetches the canonical delivery-area list, optionally
	// filtered by district. An empty district returns the global list.
	ListAreas(ctx context.Context, district string) ([]Area, error)

	// CreateParcel registers a new parcel.
	CreateParcel(ctx context.Context, req *ParcelRequest) (*ParcelResponse, error)

	// GetParcelInfo fetches tracking details for a parcel.
	GetParcelInfo(ctx context.Context, trackingID string) (*ParcelInfoResponse, error)
}

// ============================================================================
// API Request/Response Types (match the RedX v1.0.0-beta REST API)
// ============================================================================

// Area is one canonical delivery area from GET /v1.0.0-beta/areas.
type Area struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	DistrictName string `json:"district_name"`
	DivisionName string `json:"division_name"`
	PostCode     int    `json:"post_code"`
}

// areasResponse is the list envelope.
type areasResponse struct {
	Areas []Area `json:"areas"`
}

// ParcelRequest is the payload for POST /v1.0.0-beta/parcel.
// IsClosedBox must marshal as a genuine JSON boolean; the endpoint rejects
// stringified booleans.
type ParcelRequest struct {
	CustomerName         string  `json:"customer_name"`
	CustomerPhone        string  `json:"customer_phone"`
	DeliveryAreaName     string  `json:"delivery_area"`
	DeliveryAreaID       int     `json:"delivery_area_id"`
	CustomerAddress      string  `json:"customer_address"`
	MerchantInvoiceID    string  `json:"merchant_invoice_id"`
	CashCollectionAmount float64 `json:"cash_collection_amount"`
	ParcelWeightGrams    int     `json:"parcel_weight"`
	Instruction          string  `json:"instruction,omitempty"`
	Value                float64 `json:"value"`
	IsClosedBox          bool    `json:"is_closed_box"`
}

// ParcelResponse is the create-parcel response.
type ParcelResponse struct {
	TrackingID string `json:"tracking_id"`

	// Raw preserves the provider's response body verbatim.
	Raw string `json:"-"`
}

// ParcelInfoResponse is the GET /v1.0.0-beta/parcel/info/{id} response.
// The status always lives at parcel.status.
type ParcelInfoResponse struct {
	Parcel struct {
		TrackingID string `json:"tracking_id"`
		Status     string `json:"status"`
	} `json:"parcel"`

	Raw string `json:"-"`
}
