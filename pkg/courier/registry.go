package courier

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sync/errgroup"
)

// Registry manages registered delivery carriers and dispatches shipment
// operations to the adapter matching a service id.
type Registry struct {
	couriers map[string]Courier
	tracer   trace.Tracer
	mu       sync.RWMutex
}

// NewRegistry creates a new courier registry.
func NewRegistry() *Registry {
	return &Registry{
		couriers: make(map[string]Courier),
	}
}

// WithTracer attaches an OpenTelemetry tracer used to span dispatch operations.
func (r *Registry) WithTracer(tracer trace.Tracer) *Registry {
	r.tracer = tracer
	return r
}

// Register adds a courier to the registry.
func (r *Registry) Register(c Courier) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.couriers[c.Name()] = c
}

// Get returns a courier by carrier id. Unknown ids fail with
// ErrUnsupportedProvider before any network call is attempted.
func (r *Registry) Get(carrier string) (Courier, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if c, ok := r.couriers[carrier]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, carrier)
}

// All returns all registered couriers.
func (r *Registry) All() []Courier {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]Courier, 0, len(r.couriers))
	for _, c := range r.couriers {
		result = append(result, c)
	}
	return result
}

// Names returns the ids of all registered couriers.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.couriers))
	for name := range r.couriers {
		names = append(names, name)
	}
	return names
}

// Count returns the number of registered couriers.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.couriers)
}

// CreateOrder dispatches a shipment-creation call to the carrier identified
// by carrier id.
func (r *Registry) CreateOrder(ctx context.Context, carrier string, req *CreateOrderRequest) (*StatusResult, error) {
	c, err := r.Get(carrier)
	if err != nil {
		return nil, err
	}
	ctx, span := r.startSpan(ctx, "courier.create_order", carrier)
	defer span.End()
	return c.CreateOrder(ctx, req)
}

// GetStatus dispatches a status query to the carrier identified by carrier id.
func (r *Registry) GetStatus(ctx context.Context, carrier string, consignmentID string) (*StatusResult, error) {
	c, err := r.Get(carrier)
	if err != nil {
		return nil, err
	}
	ctx, span := r.startSpan(ctx, "courier.get_status", carrier)
	defer span.End()
	return c.GetStatus(ctx, consignmentID)
}

// Shipment identifies one tracked consignment for batch status refresh.
type Shipment struct {
	Carrier       string `json:"carrier"`
	ConsignmentID string `json:"consignmentId"`
}

// RefreshStatuses polls the carriers for every shipment in parallel.
// Errors from individual shipments are collected and don't fail the batch;
// results keep the input order, with nil entries where the lookup failed.
func (r *Registry) RefreshStatuses(ctx context.Context, shipments []Shipment) ([]*StatusResult, []error) {
	results := make([]*StatusResult, len(shipments))
	errs := make([]error, 0)
	mu := &sync.Mutex{}

	g, ctx := errgroup.WithContext(ctx)

	for i, sh := range shipments {
		i, sh := i, sh
		g.Go(func() error {
			res, err := r.GetStatus(ctx, sh.Carrier, sh.ConsignmentID)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, fmt.Errorf("%s %s: %w", sh.Carrier, sh.ConsignmentID, err))
				return nil
			}
			results[i] = res
			return nil
		})
	}

	g.Wait()
	return results, errs
}

func (r *Registry) startSpan(ctx context.Context, name, carrier string) (context.Context, trace.Span) {
	if r.tracer == nil {
		return noop.NewTracerProvider().Tracer("").Start(ctx, name)
	}
	return r.tracer.Start(ctx, name, trace.WithAttributes(attribute.String("courier.carrier", carrier)))
}
