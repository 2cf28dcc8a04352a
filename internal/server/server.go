// Package server exposes the courier dispatch layer over a JSON REST API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/srana86/framex-courier/internal/telemetry"
	"github.com/srana86/framex-courier/pkg/courier"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// Server is the HTTP server for the courier service.
type Server struct {
	port     int
	registry *courier.Registry
	logger   *otelzap.Logger
	metrics  *telemetry.Metrics
}

// Config holds server configuration.
type Config struct {
	Port int
}

// New creates a new server instance.
func New(cfg Config, registry *courier.Registry, logger *otelzap.Logger) *Server {
	return &Server{
		port:     cfg.Port,
		registry: registry,
		logger:   logger,
		metrics:  telemetry.NewMetrics(),
	}
}

// Handler builds the chi router with base middleware and all routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/shipments", s.handleCreateShipment)
		r.Get("/shipments/{carrier}/status", s.handleGetStatus)
		r.Post("/shipments/refresh", s.handleRefresh)
		r.Get("/carriers", s.handleListCarriers)
	})

	return r
}

// Run starts the HTTP server and blocks until context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 90 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting server", zap.Int("port", s.port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// createShipmentRequest is the POST /api/v1/shipments payload.
type createShipmentRequest struct {
	Carrier    string                   `json:"carrier"`
	Order      *courier.Order           `json:"order"`
	TrackingID string                   `json:"trackingId,omitempty"`
	Details    *courier.DeliveryDetails `json:"details,omitempty"`
}

func (s *Server) handleCreateShipment(w http.ResponseWriter, r *http.Request) {
	var req createShipmentRequest
	if ok := s.decodeJSON(w, r, &req); !ok {
		return
	}
	if req.Carrier == "" {
		s.writeError(w, r, http.StatusBadRequest, "carrier is required")
		return
	}
	if req.Order == nil || req.Order.ID == "" {
		s.writeError(w, r, http.StatusBadRequest, "order with id is required")
		return
	}

	start := time.Now()
	result, err := s.registry.CreateOrder(r.Context(), req.Carrier, &courier.CreateOrderRequest{
		Order:      req.Order,
		TrackingID: req.TrackingID,
		Details:    req.Details,
	})
	s.record("create_order", req.Carrier, err, time.Since(start))
	if err != nil {
		s.writeCarrierError(w, r, req.Carrier, err)
		return
	}

	s.writeJSON(w, r, http.StatusCreated, result)
}

func (s *Server) handleGetStatus(w http.ResponseWriter, r *http.Request) {
	carrier := chi.URLParam(r, "carrier")
	consignmentID := r.URL.Query().Get("consignment_id")
	if consignmentID == "" {
		s.writeError(w, r, http.StatusBadRequest, "consignment_id is required")
		return
	}

	start := time.Now()
	result, err := s.registry.GetStatus(r.Context(), carrier, consignmentID)
	s.record("get_status", carrier, err, time.Since(start))
	if err != nil {
		s.writeCarrierError(w, r, carrier, err)
		return
	}

	s.writeJSON(w, r, http.StatusOK, result)
}

// refreshRequest is the POST /api/v1/shipments/refresh payload.
type refreshRequest struct {
	Shipments []courier.Shipment `json:"shipments"`
}

// refreshResponse pairs per-shipment results with collected failures.
// Results keep the input order; failed lookups are null entries.
type refreshResponse struct {
	Results []*courier.StatusResult `json:"results"`
	Errors  []string                `json:"errors,omitempty"`
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if ok := s.decodeJSON(w, r, &req); !ok {
		return
	}
	if len(req.Shipments) == 0 {
		s.writeError(w, r, http.StatusBadRequest, "shipments list is empty")
		return
	}

	start := time.Now()
	results, errs := s.registry.RefreshStatuses(r.Context(), req.Shipments)
	s.record("refresh", "all", nil, time.Since(start))

	resp := refreshResponse{Results: results}
	for _, err := range errs {
		resp.Errors = append(resp.Errors, err.Error())
	}
	s.writeJSON(w, r, http.StatusOK, resp)
}

func (s *Server) handleListCarriers(w http.ResponseWriter, r *http.Request) {
	names := s.registry.Names()
	sort.Strings(names)
	s.writeJSON(w, r, http.StatusOK, map[string][]string{"carriers": names})
}

// record updates the operation metrics.
func (s *Server) record(operation, carrier string, err error, elapsed time.Duration) {
	status := "ok"
	if err != nil {
		status = "error"
		s.metrics.RecordError(carrier, errorType(err))
	}
	s.metrics.RecordRequest(operation, carrier, status, elapsed.Seconds())
}

// writeCarrierError maps the courier error taxonomy onto HTTP statuses.
func (s *Server) writeCarrierError(w http.ResponseWriter, r *http.Request, carrier string, err error) {
	s.logger.Error("Carrier operation failed",
		zap.String("carrier", carrier),
		zap.Error(err),
	)

	var reqErr *courier.RequestError
	var areaErr *courier.AreaResolutionError
	var thanaErr *courier.ThanaResolutionError

	switch {
	case errors.Is(err, courier.ErrUnsupportedProvider),
		errors.Is(err, courier.ErrMalformedTrackingKey):
		s.writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, courier.ErrMissingCredentials),
		errors.Is(err, courier.ErrInvalidPhone):
		s.writeError(w, r, http.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &areaErr), errors.As(err, &thanaErr):
		s.writeError(w, r, http.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &reqErr):
		s.writeError(w, r, http.StatusBadGateway, err.Error())
	default:
		s.writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}

// errorType labels an error for the carrier-error metric.
func errorType(err error) string {
	var reqErr *courier.RequestError
	var areaErr *courier.AreaResolutionError
	var thanaErr *courier.ThanaResolutionError

	switch {
	case errors.Is(err, courier.ErrUnsupportedProvider):
		return "unsupported_provider"
	case errors.Is(err, courier.ErrMissingCredentials):
		return "missing_credentials"
	case errors.Is(err, courier.ErrInvalidPhone):
		return "invalid_phone"
	case errors.Is(err, courier.ErrMalformedTrackingKey):
		return "malformed_tracking_key"
	case errors.As(err, &areaErr):
		return "area_resolution"
	case errors.As(err, &thanaErr):
		return "thana_resolution"
	case errors.As(err, &reqErr):
		return "provider_request"
	default:
		return "internal"
	}
}
