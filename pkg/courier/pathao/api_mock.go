package pathao

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/srana86/framex-courier/pkg/courier"
)

// MockAPIClient is a mock implementation of APIClient for testing.
type MockAPIClient struct {
	SimulateErrors  bool
	SimulateLatency time.Duration

	// TokenCalls counts token exchanges, letting tests assert the adapter
	// fetches a fresh token per operation.
	TokenCalls int

	OnIssueToken   func(ctx context.Context, req *TokenRequest) (*TokenResponse, error)
	OnCreateOrder  func(ctx context.Context, accessToken string, req *OrderRequest) (*OrderResponse, error)
	OnGetOrderInfo func(ctx context.Context, accessToken, consignmentID string) (*OrderInfoResponse, error)
}

// NewMockAPIClient creates a new mock API client with default behavior.
func NewMockAPIClient() *MockAPIClient {
	return &MockAPIClient{}
}

// IssueToken returns a mock access token.
func (m *MockAPIClient) IssueToken(ctx context.Context, req *TokenRequest) (*TokenResponse, error) {
	m.TokenCalls++
	if m.SimulateLatency > 0 {
		time.Sleep(m.SimulateLatency)
	}
	if m.SimulateErrors {
		return nil, courier.NewRequestError(carrierName, 401, "invalid client credentials")
	}
	if m.OnIssueToken != nil {
		return m.OnIssueToken(ctx, req)
	}

	return &TokenResponse{
		AccessToken: "mock-token-" + uuid.New().String()[:8],
		TokenType:   "Bearer",
		ExpiresIn:   432000,
	}, nil
}

// CreateOrder creates a mock consignment.
func (m *MockAPIClient) CreateOrder(ctx context.Context, accessToken string, req *OrderRequest) (*OrderResponse, error) {
	if m.SimulateLatency > 0 {
		time.Sleep(m.SimulateLatency)
	}
	if m.SimulateErrors {
		return nil, courier.NewRequestError(carrierName, 422, "invalid order payload")
	}
	if m.OnCreateOrder != nil {
		return m.OnCreateOrder(ctx, accessToken, req)
	}

	var resp OrderResponse
	resp.Message = "Order Created Successfully"
	resp.Type = "success"
	resp.Code = 200
	resp.Data.ConsignmentID = fmt.Sprintf("DL%d", 100000000000+time.Now().UnixNano()%900000000000)
	resp.Data.MerchantOrderID = req.MerchantOrderID
	resp.Data.OrderStatus = "Pending"
	resp.Data.DeliveryFee = 60
	resp.Raw = `{"message":"Order Created Successfully","type":"success"}`
	return &resp, nil
}

// GetOrderInfo returns mock consignment details.
func (m *MockAPIClient) GetOrderInfo(ctx context.Context, accessToken, consignmentID string) (*OrderInfoResponse, error) {
	if m.SimulateLatency > 0 {
		time.Sleep(m.SimulateLatency)
	}
	if m.SimulateErrors {
		return nil, courier.NewRequestError(carrierName, 404, "consignment not found")
	}
	if m.OnGetOrderInfo != nil {
		return m.OnGetOrderInfo(ctx, accessToken, consignmentID)
	}

	return &OrderInfoResponse{
		Raw: fmt.Sprintf(`{"data":{"consignment_id":%q,"order_status":"in_transit"}}`, consignmentID),
	}, nil
}

var _ APIClient = (*MockAPIClient)(nil)
