// Package courier provides an abstraction layer for Bangladeshi delivery carriers.
package courier

import (
	"context"
)

// Courier defines the interface that all delivery carriers must implement.
type Courier interface {
	// Name returns the carrier identifier (e.g., "pathao", "redx", "steadfast", "paperfly").
	Name() string

	// CreateOrder registers a shipment with the carrier and returns the
	// provider-assigned consignment id plus the initial delivery status.
	CreateOrder(ctx context.Context, req *CreateOrderRequest) (*StatusResult, error)

	// GetStatus polls the carrier for the current delivery status of a shipment.
	GetStatus(ctx context.Context, consignmentID string) (*StatusResult, error)
}
