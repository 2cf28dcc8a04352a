package steadfast

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/srana86/framex-courier/pkg/courier"
)

// MockAPIClient is a mock implementation of APIClient for testing.
type MockAPIClient struct {
	SimulateErrors  bool
	SimulateLatency time.Duration

	OnCreateOrder              func(ctx context.Context, req *OrderRequest) (*OrderResponse, error)
	OnGetStatusByConsignmentID func(ctx context.Context, consignmentID string) (*StatusResponse, error)
}

// NewMockAPIClient creates a new mock API client with default behavior.
func NewMockAPIClient() *MockAPIClient {
	return &MockAPIClient{}
}

// CreateOrder creates a mock consignment.
func (m *MockAPIClient) CreateOrder(ctx context.Context, req *OrderRequest) (*OrderResponse, error) {
	if m.SimulateLatency > 0 {
		time.Sleep(m.SimulateLatency)
	}
	if m.SimulateErrors {
		return nil, courier.NewRequestError(carrierName, 400, "invalid order payload")
	}
	if m.OnCreateOrder != nil {
		return m.OnCreateOrder(ctx, req)
	}

	cid := 1000000 + time.Now().UnixNano()%9000000
	var resp OrderResponse
	resp.Status = 200
	resp.Message = "Consignment has been created successfully."
	resp.Consignment.ConsignmentID = json.Number(fmt.Sprintf("%d", cid))
	resp.Consignment.Invoice = req.Invoice
	resp.Consignment.Status = "in_review"
	resp.Raw = fmt.Sprintf(`{"status":200,"consignment":{"consignment_id":%d,"status":"in_review"}}`, cid)
	return &resp, nil
}

// GetStatusByConsignmentID returns a mock delivery status.
func (m *MockAPIClient) GetStatusByConsignmentID(ctx context.Context, consignmentID string) (*StatusResponse, error) {
	if m.SimulateLatency > 0 {
		time.Sleep(m.SimulateLatency)
	}
	if m.SimulateErrors {
		return nil, courier.NewRequestError(carrierName, 404, "consignment not found")
	}
	if m.OnGetStatusByConsignmentID != nil {
		return m.OnGetStatusByConsignmentID(ctx, consignmentID)
	}

	return &StatusResponse{
		Status:         200,
		DeliveryStatus: "delivered_approval_pending",
		Raw:            `{"status":200,"delivery_status":"delivered_approval_pending"}`,
	}, nil
}

var _ APIClient = (*MockAPIClient)(nil)
