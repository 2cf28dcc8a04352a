package redx

import (
	"context"
	"fmt"
	"time"

	"github.com/srana86/framex-courier/pkg/courier"
)

// MockAPIClient is a mock implementation of APIClient for testing.
type MockAPIClient struct {
	SimulateErrors  bool
	SimulateLatency time.Duration

	// AreaCalls records each ListAreas district argument so tests can assert
	// the two-phase (city-scoped, then global) lookup order.
	AreaCalls []string

	OnListAreas     func(ctx context.Context, district string) ([]Area, error)
	OnCreateParcel  func(ctx context.Context, req *ParcelRequest) (*ParcelResponse, error)
	OnGetParcelInfo func(ctx context.Context, trackingID string) (*ParcelInfoResponse, error)
}

// NewMockAPIClient creates a new mock API client with default behavior.
func NewMockAPIClient() *MockAPIClient {
	return &MockAPIClient{}
}

// ListAreas returns mock delivery areas.
func (m *MockAPIClient) ListAreas(ctx context.Context, district string) ([]Area, error) {
	m.AreaCalls = append(m.AreaCalls, district)
	if m.SimulateLatency > 0 {
		time.Sleep(m.SimulateLatency)
	}
	if m.SimulateErrors {
		return nil, courier.NewRequestError(carrierName, 500, "areas unavailable")
	}
	if m.OnListAreas != nil {
		return m.OnListAreas(ctx, district)
	}

	return []Area{
		{ID: 1, Name: "Dhanmondi", DistrictName: "Dhaka"},
		{ID: 2, Name: "Mohammadpur (Dhaka)", DistrictName: "Dhaka"},
		{ID: 3, Name: "Mirpur", DistrictName: "Dhaka"},
	}, nil
}

// CreateParcel creates a mock parcel.
func (m *MockAPIClient) CreateParcel(ctx context.Context, req *ParcelRequest) (*ParcelResponse, error) {
	if m.SimulateLatency > 0 {
		time.Sleep(m.SimulateLatency)
	}
	if m.SimulateErrors {
		return nil, courier.NewRequestError(carrierName, 422, "invalid parcel payload")
	}
	if m.OnCreateParcel != nil {
		return m.OnCreateParcel(ctx, req)
	}

	trackingID := fmt.Sprintf("21A%d", 100000000+time.Now().UnixNano()%900000000)
	return &ParcelResponse{
		TrackingID: trackingID,
		Raw:        fmt.Sprintf(`{"tracking_id":%q}`, trackingID),
	}, nil
}

// GetParcelInfo returns mock parcel tracking details.
func (m *MockAPIClient) GetParcelInfo(ctx context.Context, trackingID string) (*ParcelInfoResponse, error) {
	if m.SimulateLatency > 0 {
		time.Sleep(m.SimulateLatency)
	}
	if m.SimulateErrors {
		return nil, courier.NewRequestError(carrierName, 404, "parcel not found")
	}
	if m.OnGetParcelInfo != nil {
		return m.OnGetParcelInfo(ctx, trackingID)
	}

	var resp ParcelInfoResponse
	resp.Parcel.TrackingID = trackingID
	resp.Parcel.Status = "delivery-in-progress"
	resp.Raw = fmt.Sprintf(`{"parcel":{"tracking_id":%q,"status":"delivery-in-progress"}}`, trackingID)
	return &resp, nil
}

var _ APIClient = (*MockAPIClient)(nil)
