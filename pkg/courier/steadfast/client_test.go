package steadfast_test

import (
	"context"
	"errors"
	"testing"

	"github.com/srana86/framex-courier/pkg/courier"
	"github.com/srana86/framex-courier/pkg/courier/steadfast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

func newTestClient(mockAPI *steadfast.MockAPIClient) *steadfast.Client {
	logger := otelzap.New(zap.NewNop())
	cfg := steadfast.Config{APIKey: "test-key", SecretKey: "test-secret"}
	return steadfast.NewWithAPIClient(cfg, mockAPI, logger)
}

func sampleRequest() *courier.CreateOrderRequest {
	return &courier.CreateOrderRequest{
		Order: &courier.Order{
			ID: "ord-3003",
			Customer: courier.Customer{
				Name:    "Salma Khatun",
				Phone:   "01512345678",
				Address: "22 Agrabad C/A",
				City:    "Chattogram",
			},
			Total:         1250.4,
			PaymentMethod: courier.PaymentMethodCOD,
			PaymentStatus: courier.PaymentStatusPending,
		},
	}
}

func TestClient_CreateOrder_Success(t *testing.T) {
	mockAPI := steadfast.NewMockAPIClient()
	var captured *steadfast.OrderRequest
	mockAPI.OnCreateOrder = func(ctx context.Context, req *steadfast.OrderRequest) (*steadfast.OrderResponse, error) {
		captured = req
		var resp steadfast.OrderResponse
		resp.Status = 200
		resp.Consignment.ConsignmentID = "1424107"
		resp.Consignment.Status = "in_review"
		resp.Raw = `{"status":200}`
		return &resp, nil
	}
	client := newTestClient(mockAPI)

	res, err := client.CreateOrder(context.Background(), sampleRequest())

	require.NoError(t, err)
	assert.Equal(t, "1424107", res.ConsignmentID)
	assert.Equal(t, "In Review", res.DeliveryStatus)

	require.NotNil(t, captured)
	assert.Equal(t, "ord-3003", captured.Invoice)
	assert.Equal(t, 1250.0, captured.CODAmount, "unpaid COD total is rounded")
	assert.Empty(t, captured.RecipientEmail, "email omitted when the order has none")
}

func TestClient_CreateOrder_EmailIncludedWhenPresent(t *testing.T) {
	mockAPI := steadfast.NewMockAPIClient()
	var captured *steadfast.OrderRequest
	mockAPI.OnCreateOrder = func(ctx context.Context, req *steadfast.OrderRequest) (*steadfast.OrderResponse, error) {
		captured = req
		return &steadfast.OrderResponse{}, nil
	}
	client := newTestClient(mockAPI)

	req := sampleRequest()
	req.Order.Customer.Email = "salma@example.com"
	_, err := client.CreateOrder(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, "salma@example.com", captured.RecipientEmail)
}

func TestClient_CreateOrder_PaidOrderCollectsNothing(t *testing.T) {
	mockAPI := steadfast.NewMockAPIClient()
	var captured *steadfast.OrderRequest
	mockAPI.OnCreateOrder = func(ctx context.Context, req *steadfast.OrderRequest) (*steadfast.OrderResponse, error) {
		captured = req
		return &steadfast.OrderResponse{}, nil
	}
	client := newTestClient(mockAPI)

	req := sampleRequest()
	req.Order.PaymentStatus = courier.PaymentStatusCompleted
	_, err := client.CreateOrder(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, 0.0, captured.CODAmount)
}

func TestClient_CreateOrder_NegativeOverrideClamped(t *testing.T) {
	mockAPI := steadfast.NewMockAPIClient()
	var captured *steadfast.OrderRequest
	mockAPI.OnCreateOrder = func(ctx context.Context, req *steadfast.OrderRequest) (*steadfast.OrderResponse, error) {
		captured = req
		return &steadfast.OrderResponse{}, nil
	}
	client := newTestClient(mockAPI)

	override := -50.0
	req := sampleRequest()
	req.Details = &courier.DeliveryDetails{AmountToCollect: &override}
	_, err := client.CreateOrder(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, 0.0, captured.CODAmount)
}

func TestClient_CreateOrder_MissingCredentials(t *testing.T) {
	mockAPI := steadfast.NewMockAPIClient()
	called := false
	mockAPI.OnCreateOrder = func(ctx context.Context, req *steadfast.OrderRequest) (*steadfast.OrderResponse, error) {
		called = true
		return &steadfast.OrderResponse{}, nil
	}
	logger := otelzap.New(zap.NewNop())
	client := steadfast.NewWithAPIClient(steadfast.Config{APIKey: "only-key"}, mockAPI, logger)

	_, err := client.CreateOrder(context.Background(), sampleRequest())

	require.Error(t, err)
	assert.True(t, errors.Is(err, courier.ErrMissingCredentials))
	assert.Contains(t, err.Error(), "appSecret")
	assert.False(t, called)
}

func TestClient_GetStatus(t *testing.T) {
	mockAPI := steadfast.NewMockAPIClient()
	client := newTestClient(mockAPI)

	res, err := client.GetStatus(context.Background(), "1424107")

	require.NoError(t, err)
	assert.Equal(t, "1424107", res.ConsignmentID)
	assert.Equal(t, "Delivered Approval Pending", res.DeliveryStatus)
	assert.NotEmpty(t, res.RawStatus)
}

func TestClient_GetStatus_MissingStatusDefaults(t *testing.T) {
	mockAPI := steadfast.NewMockAPIClient()
	mockAPI.OnGetStatusByConsignmentID = func(ctx context.Context, consignmentID string) (*steadfast.StatusResponse, error) {
		return &steadfast.StatusResponse{Status: 200, Raw: `{"status":200}`}, nil
	}
	client := newTestClient(mockAPI)

	res, err := client.GetStatus(context.Background(), "999")

	require.NoError(t, err)
	assert.Equal(t, "Unknown", res.DeliveryStatus)
}

func TestConfigFromService_SecretFieldFallback(t *testing.T) {
	tests := []struct {
		name        string
		credentials map[string]string
		wantSecret  string
	}{
		{
			name:        "appSecret preferred",
			credentials: map[string]string{"apiKey": "k", "appSecret": "s1", "secretKey": "s2"},
			wantSecret:  "s1",
		},
		{
			name:        "secretKey legacy fallback",
			credentials: map[string]string{"apiKey": "k", "secretKey": "s2"},
			wantSecret:  "s2",
		},
		{
			name:        "neither present",
			credentials: map[string]string{"apiKey": "k"},
			wantSecret:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := courier.Service{ID: "steadfast", Credentials: tt.credentials}
			cfg := steadfast.ConfigFromService(svc, "https://portal.packzy.com/api/v1", 0)
			assert.Equal(t, tt.wantSecret, cfg.SecretKey)
			assert.Equal(t, "k", cfg.APIKey)
		})
	}
}

func TestClient_Name(t *testing.T) {
	client := newTestClient(steadfast.NewMockAPIClient())
	assert.Equal(t, "steadfast", client.Name())
}
