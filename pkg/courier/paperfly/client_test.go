package paperfly_test

import (
	"context"
	"errors"
	"testing"

	"github.com/srana86/framex-courier/pkg/courier"
	"github.com/srana86/framex-courier/pkg/courier/paperfly"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

func newTestClient(mockAPI *paperfly.MockAPIClient) *paperfly.Client {
	logger := otelzap.New(zap.NewNop())
	cfg := paperfly.Config{Username: "merchant", Password: "secret"}
	return paperfly.NewWithAPIClient(cfg, mockAPI, logger)
}

func sampleRequest() *courier.CreateOrderRequest {
	return &courier.CreateOrderRequest{
		Order: &courier.Order{
			ID: "ord-4004",
			Customer: courier.Customer{
				Name:    "Jamal Uddin",
				Phone:   "01612345678",
				Address: "Savar Bazar Road",
				City:    "Dhaka",
			},
			Total:         980,
			PaymentMethod: courier.PaymentMethodCOD,
			PaymentStatus: courier.PaymentStatusPending,
		},
		Details: &courier.DeliveryDetails{Area: "Savar Upazila"},
	}
}

func TestClient_CreateOrder_FirstVariantSucceeds(t *testing.T) {
	mockAPI := paperfly.NewMockAPIClient()
	mockAPI.OnCreateOrder = func(ctx context.Context, req *paperfly.OrderRequest) (*paperfly.OrderResponse, error) {
		return &paperfly.OrderResponse{Raw: `{"ReferenceNumber":"PF900001","status":"submitted"}`}, nil
	}
	client := newTestClient(mockAPI)

	res, err := client.CreateOrder(context.Background(), sampleRequest())

	require.NoError(t, err)
	assert.Equal(t, "PF900001", res.ConsignmentID)
	assert.Equal(t, "Submitted", res.DeliveryStatus)
	assert.Equal(t, []string{"Savar"}, mockAPI.CreateThanas, "stops on first success")
}

func TestClient_CreateOrder_RetriesOnThanaNotFound(t *testing.T) {
	mockAPI := paperfly.NewMockAPIClient()
	mockAPI.OnCreateOrder = func(ctx context.Context, req *paperfly.OrderRequest) (*paperfly.OrderResponse, error) {
		if req.CustomerThana != "Savar Thana" {
			return nil, courier.NewRequestError("paperfly", 400, "Thana not found in coverage list")
		}
		return &paperfly.OrderResponse{Raw: `{"ReferenceNumber":"PF900002"}`}, nil
	}
	client := newTestClient(mockAPI)

	res, err := client.CreateOrder(context.Background(), sampleRequest())

	require.NoError(t, err)
	assert.Equal(t, "PF900002", res.ConsignmentID)
	assert.Equal(t, "Pending", res.DeliveryStatus, "newly created shipment defaults to pending")
	assert.Equal(t, []string{"Savar", "Savar Upazila", "Savar Thana"}, mockAPI.CreateThanas)
}

func TestClient_CreateOrder_ThanaMissReportedInBody(t *testing.T) {
	mockAPI := paperfly.NewMockAPIClient()
	mockAPI.OnCreateOrder = func(ctx context.Context, req *paperfly.OrderRequest) (*paperfly.OrderResponse, error) {
		if req.CustomerThana != "Dhaka" {
			return &paperfly.OrderResponse{Raw: `{"error":"THANA NOT FOUND"}`}, nil
		}
		return &paperfly.OrderResponse{Raw: `{"ReferenceNumber":"PF900003"}`}, nil
	}
	client := newTestClient(mockAPI)

	res, err := client.CreateOrder(context.Background(), sampleRequest())

	require.NoError(t, err)
	assert.Equal(t, "PF900003", res.ConsignmentID)
	assert.Len(t, mockAPI.CreateThanas, 4, "HTTP 200 misses still advance the variant list")
}

func TestClient_CreateOrder_UnrelatedErrorFailsFast(t *testing.T) {
	mockAPI := paperfly.NewMockAPIClient()
	mockAPI.OnCreateOrder = func(ctx context.Context, req *paperfly.OrderRequest) (*paperfly.OrderResponse, error) {
		return nil, courier.NewRequestError("paperfly", 401, "invalid merchant credentials")
	}
	client := newTestClient(mockAPI)

	_, err := client.CreateOrder(context.Background(), sampleRequest())

	require.Error(t, err)
	var reqErr *courier.RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, 401, reqErr.StatusCode)
	assert.Len(t, mockAPI.CreateThanas, 1, "auth failures must not burn remaining variants")
}

func TestClient_CreateOrder_AllVariantsExhausted(t *testing.T) {
	mockAPI := paperfly.NewMockAPIClient()
	mockAPI.OnCreateOrder = func(ctx context.Context, req *paperfly.OrderRequest) (*paperfly.OrderResponse, error) {
		return nil, courier.NewRequestError("paperfly", 400, "thana not found")
	}
	client := newTestClient(mockAPI)

	_, err := client.CreateOrder(context.Background(), sampleRequest())

	require.Error(t, err)
	var thanaErr *courier.ThanaResolutionError
	require.ErrorAs(t, err, &thanaErr)
	assert.Equal(t, []string{"Savar", "Savar Upazila", "Savar Thana", "Dhaka"}, thanaErr.Variants)
	assert.Contains(t, thanaErr.LastError, "thana not found")
}

func TestClient_CreateOrder_LenientBodyParsing(t *testing.T) {
	mockAPI := paperfly.NewMockAPIClient()
	mockAPI.OnCreateOrder = func(ctx context.Context, req *paperfly.OrderRequest) (*paperfly.OrderResponse, error) {
		return &paperfly.OrderResponse{Raw: "OK<br/>submitted"}, nil
	}
	client := newTestClient(mockAPI)

	res, err := client.CreateOrder(context.Background(), sampleRequest())

	require.NoError(t, err)
	assert.Equal(t, "ord-4004", res.ConsignmentID, "unparseable body falls back to the merchant reference")
	assert.Equal(t, "Pending", res.DeliveryStatus)
	assert.Equal(t, "OK<br/>submitted", res.RawStatus)
}

func TestClient_CreateOrder_MissingCredentials(t *testing.T) {
	mockAPI := paperfly.NewMockAPIClient()
	logger := otelzap.New(zap.NewNop())
	client := paperfly.NewWithAPIClient(paperfly.Config{Username: "merchant"}, mockAPI, logger)

	_, err := client.CreateOrder(context.Background(), sampleRequest())

	require.Error(t, err)
	assert.True(t, errors.Is(err, courier.ErrMissingCredentials))
	assert.Contains(t, err.Error(), "password")
	assert.Empty(t, mockAPI.CreateThanas)
}

func TestClient_GetStatus(t *testing.T) {
	mockAPI := paperfly.NewMockAPIClient()
	client := newTestClient(mockAPI)

	res, err := client.GetStatus(context.Background(), "ord-4004|01612345678")

	require.NoError(t, err)
	assert.Equal(t, "ord-4004|01612345678", res.ConsignmentID)
	assert.Equal(t, "In Transit", res.DeliveryStatus)
	assert.NotEmpty(t, res.RawStatus)
}

func TestClient_GetStatus_MalformedKey(t *testing.T) {
	mockAPI := paperfly.NewMockAPIClient()
	tracked := false
	mockAPI.OnTrack = func(ctx context.Context, orderRef, phone string) (*paperfly.TrackResponse, error) {
		tracked = true
		return &paperfly.TrackResponse{}, nil
	}
	client := newTestClient(mockAPI)

	for _, key := range []string{"ord-4004", "ord-4004|", "|01612345678"} {
		_, err := client.GetStatus(context.Background(), key)
		require.Error(t, err, "key %q", key)
		assert.True(t, errors.Is(err, courier.ErrMalformedTrackingKey))
	}
	assert.False(t, tracked, "malformed keys never reach the tracker")
}

func TestClient_GetStatus_UnrecognizableFragmentDefaults(t *testing.T) {
	mockAPI := paperfly.NewMockAPIClient()
	mockAPI.OnTrack = func(ctx context.Context, orderRef, phone string) (*paperfly.TrackResponse, error) {
		return &paperfly.TrackResponse{Raw: "<html>under maintenance</html>"}, nil
	}
	client := newTestClient(mockAPI)

	res, err := client.GetStatus(context.Background(), "ord-4004|01612345678")

	require.NoError(t, err)
	assert.Equal(t, "Pending", res.DeliveryStatus)
}

func TestClient_Name(t *testing.T) {
	client := newTestClient(paperfly.NewMockAPIClient())
	assert.Equal(t, "paperfly", client.Name())
}
