package paperfly

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

	// CreateThanas records the thana sent with each create attempt so tests
	// can assert the variant retry order.
	CreateThanas []string

	OnCreateOrder func(ctx context.Context, req *OrderRequest) (*OrderResponse, error)
	OnTrack       func(ctx context.Context, orderRef, phone string) (*TrackResponse, error)
}

// NewMockAPIClient creates a new mock API client with default behavior.
func NewMockAPIClient() *MockAPIClient {
	return &MockAPIClient{}
}

// CreateOrder creates a mock shipment.
func (m *MockAPIClient) CreateOrder(ctx context.Context, req *OrderRequest) (*OrderResponse, error) {
	m.CreateThanas = append(m.CreateThanas, req.CustomerThana)
	if m.SimulateLatency > 0 {
		time.Sleep(m.SimulateLatency)
	}
	if m.SimulateErrors {
		return nil, courier.NewRequestError(carrierName, 500, "merchant API unavailable")
	}
	if m.OnCreateOrder != nil {
		return m.OnCreateOrder(ctx, req)
	}

	ref := fmt.Sprintf("PF%d", 10000000+time.Now().UnixNano()%90000000)
	return &OrderResponse{
		Raw: fmt.Sprintf(`{"success":{"message":"Order Successfully Submitted"},"ReferenceNumber":%q}`, ref),
	}, nil
}

// Track returns a mock tracker fragment in Paperfly's HTML/JS shape.
func (m *MockAPIClient) Track(ctx context.Context, orderRef, phone string) (*TrackResponse, error) {
	if m.SimulateLatency > 0 {
		time.Sleep(m.SimulateLatency)
	}
	if m.SimulateErrors {
		return nil, courier.NewRequestError(carrierName, 500, "tracker unavailable")
	}
	if m.OnTrack != nil {
		return m.OnTrack(ctx, orderRef, phone)
	}

	return &TrackResponse{
		Raw: `<script>$("#order_id").val("` + orderRef + `");$("#order_status_eng").val("In Transit");</script>`,
	}, nil
}

var _ APIClient = (*MockAPIClient)(nil)
