package server_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/srana86/framex-courier/internal/server"
	"github.com/srana86/framex-courier/pkg/courier"
	"github.com/srana86/framex-courier/pkg/courier/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T, couriers ...courier.Courier) (*server.Server, http.Handler) {
	t.Helper()

	logger := otelzap.New(zap.NewNop())
	registry := courier.NewRegistry()
	for _, c := range couriers {
		registry.Register(c)
	}

	srv := server.New(server.Config{Port: 8080}, registry, logger)
	return srv, srv.Handler()
}

func doJSON(t *testing.T, handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestServer_Health(t *testing.T) {
	_, handler := newTestServer(t)

	rec := doJSON(t, handler, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestServer_Metrics(t *testing.T) {
	_, handler := newTestServer(t)

	rec := doJSON(t, handler, http.MethodGet, "/metrics", "")

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_CreateShipment(t *testing.T) {
	mockCourier := mock.New("pathao")
	mockCourier.OnCreateOrder = func(ctx context.Context, req *courier.CreateOrderRequest) (*courier.StatusResult, error) {
		return &courier.StatusResult{ConsignmentID: "DL-1", DeliveryStatus: "Pending"}, nil
	}
	_, handler := newTestServer(t, mockCourier)

	body := `{"carrier":"pathao","order":{"id":"ord-1","customer":{"name":"A","phone":"01712345678","address":"x","city":"Dhaka"},"total":500,"paymentStatus":"pending","paymentMethod":"cod"}}`
	rec := doJSON(t, handler, http.MethodPost, "/api/v1/shipments", body)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var result courier.StatusResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "DL-1", result.ConsignmentID)
	assert.Equal(t, "Pending", result.DeliveryStatus)
	assert.Equal(t, 1, mockCourier.CreateCalls)
}

func TestServer_CreateShipment_Validation(t *testing.T) {
	mockCourier := mock.New("pathao")
	_, handler := newTestServer(t, mockCourier)

	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{`},
		{"missing carrier", `{"order":{"id":"ord-1"}}`},
		{"missing order", `{"carrier":"pathao"}`},
		{"order without id", `{"carrier":"pathao","order":{}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, handler, http.MethodPost, "/api/v1/shipments", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
	assert.Zero(t, mockCourier.CreateCalls)
}

func TestServer_CreateShipment_UnknownCarrier(t *testing.T) {
	_, handler := newTestServer(t, mock.New("pathao"))

	body := `{"carrier":"bogus","order":{"id":"ord-1"}}`
	rec := doJSON(t, handler, http.MethodPost, "/api/v1/shipments", body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "unsupported courier provider")
}

func TestServer_CreateShipment_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"missing credentials", fmt.Errorf("%w: pathao requires apiKey", courier.ErrMissingCredentials), http.StatusUnprocessableEntity},
		{"invalid phone", fmt.Errorf("%w: 123", courier.ErrInvalidPhone), http.StatusUnprocessableEntity},
		{"area resolution", &courier.AreaResolutionError{Carrier: "redx", Query: "q", City: "Dhaka"}, http.StatusUnprocessableEntity},
		{"thana resolution", &courier.ThanaResolutionError{Carrier: "paperfly", Variants: []string{"x"}}, http.StatusUnprocessableEntity},
		{"provider request", courier.NewRequestError("pathao", 503, "upstream down"), http.StatusBadGateway},
		{"internal", fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockCourier := mock.New("pathao")
			mockCourier.OnCreateOrder = func(ctx context.Context, req *courier.CreateOrderRequest) (*courier.StatusResult, error) {
				return nil, tt.err
			}
			_, handler := newTestServer(t, mockCourier)

			body := `{"carrier":"pathao","order":{"id":"ord-1"}}`
			rec := doJSON(t, handler, http.MethodPost, "/api/v1/shipments", body)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
		})
	}
}

func TestServer_GetStatus(t *testing.T) {
	mockCourier := mock.New("redx")
	_, handler := newTestServer(t, mockCourier)

	rec := doJSON(t, handler, http.MethodGet, "/api/v1/shipments/redx/status?consignment_id=21A1", "")

	require.Equal(t, http.StatusOK, rec.Code)

	var result courier.StatusResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "21A1", result.ConsignmentID)
	assert.Equal(t, "In Transit", result.DeliveryStatus)
}

func TestServer_GetStatus_MissingConsignmentID(t *testing.T) {
	mockCourier := mock.New("redx")
	_, handler := newTestServer(t, mockCourier)

	rec := doJSON(t, handler, http.MethodGet, "/api/v1/shipments/redx/status", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, mockCourier.StatusCalls)
}

func TestServer_GetStatus_MalformedTrackingKey(t *testing.T) {
	mockCourier := mock.New("paperfly")
	mockCourier.OnGetStatus = func(ctx context.Context, consignmentID string) (*courier.StatusResult, error) {
		return nil, fmt.Errorf("%w: %q", courier.ErrMalformedTrackingKey, consignmentID)
	}
	_, handler := newTestServer(t, mockCourier)

	rec := doJSON(t, handler, http.MethodGet, "/api/v1/shipments/paperfly/status?consignment_id=no-pipe", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "malformed tracking key")
}

func TestServer_Refresh(t *testing.T) {
	good := mock.New("redx")
	bad := mock.New("steadfast")
	bad.OnGetStatus = func(ctx context.Context, consignmentID string) (*courier.StatusResult, error) {
		return nil, courier.NewRequestError("steadfast", 404, "consignment not found")
	}
	_, handler := newTestServer(t, good, bad)

	body := `{"shipments":[{"carrier":"redx","consignmentId":"21A1"},{"carrier":"steadfast","consignmentId":"777"}]}`
	rec := doJSON(t, handler, http.MethodPost, "/api/v1/shipments/refresh", body)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Results []*courier.StatusResult `json:"results"`
		Errors  []string                `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 2)
	assert.NotNil(t, resp.Results[0])
	assert.Nil(t, resp.Results[1], "failed lookup keeps its slot as null")
	require.Len(t, resp.Errors, 1)
	assert.Contains(t, resp.Errors[0], "consignment not found")
}

func TestServer_Refresh_EmptyList(t *testing.T) {
	_, handler := newTestServer(t)

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/shipments/refresh", `{"shipments":[]}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_ListCarriers(t *testing.T) {
	_, handler := newTestServer(t, mock.New("redx"), mock.New("pathao"))

	rec := doJSON(t, handler, http.MethodGet, "/api/v1/carriers", "")

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string][]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"pathao", "redx"}, resp["carriers"], "sorted for stable output")
}
