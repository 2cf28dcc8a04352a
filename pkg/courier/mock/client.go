// Package mock provides a mock courier implementation for testing.
package mock

import (
	"context"
	"fmt"
	"time"

	"github.com/srana86/framex-courier/pkg/courier"
)

// Client is a mock courier for testing.
type Client struct {
	name string

	// CreateCalls and StatusCalls count invocations, letting tests assert
	// that dispatch failures never reach an adapter.
	CreateCalls int
	StatusCalls int

	OnCreateOrder func(ctx context.Context, req *courier.CreateOrderRequest) (*courier.StatusResult, error)
	OnGetStatus   func(ctx context.Context, consignmentID string) (*courier.StatusResult, error)
}

// New creates a new mock courier.
func New(name string) *Client {
	return &Client{name: name}
}

// Name returns the carrier name.
func (c *Client) Name() string {
	return c.name
}

// CreateOrder registers a mock shipment.
func (c *Client) CreateOrder(ctx context.Context, req *courier.CreateOrderRequest) (*courier.StatusResult, error) {
	c.CreateCalls++
	if c.OnCreateOrder != nil {
		return c.OnCreateOrder(ctx, req)
	}
	return &courier.StatusResult{
		ConsignmentID:  fmt.Sprintf("%s-consignment-%d", c.name, time.Now().UnixNano()),
		DeliveryStatus: courier.StatusPending,
	}, nil
}

// GetStatus returns a mock delivery status.
func (c *Client) GetStatus(ctx context.Context, consignmentID string) (*courier.StatusResult, error) {
	c.StatusCalls++
	if c.OnGetStatus != nil {
		return c.OnGetStatus(ctx, consignmentID)
	}
	return &courier.StatusResult{
		ConsignmentID:  consignmentID,
		DeliveryStatus: "In Transit",
	}, nil
}

var _ courier.Courier = (*Client)(nil)
