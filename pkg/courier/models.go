package courier

import (
	"math"
)

// Carrier identifiers. These form the closed provider set the registry
// dispatches on.
const (
	CarrierPathao    = "pathao"
	CarrierRedX      = "redx"
	CarrierSteadfast = "steadfast"
	CarrierPaperfly  = "paperfly"
)

// PaymentMethod values as the order platform records them.
const (
	PaymentMethodCOD = "cod"
)

// PaymentStatus values as the order platform records them.
const (
	PaymentStatusCompleted = "completed"
	PaymentStatusPending   = "pending"
)

// Service is the tenant-level configuration for one carrier integration.
// Credentials is an opaque key-value map whose shape is provider-specific;
// it is created by tenant configuration and read-only here.
type Service struct {
	ID          string
	Credentials map[string]string
}

// Credential returns a credential field by name, empty string if absent.
func (s Service) Credential(key string) string {
	if s.Credentials == nil {
		return ""
	}
	return s.Credentials[key]
}

// Customer is the order's recipient as recorded by the platform.
type Customer struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Email      string `json:"email,omitempty"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

// OrderItem is a single line item of an order.
type OrderItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// CourierInfo carries the shipment state already attached to an order.
type CourierInfo struct {
	ConsignmentID  string `json:"consignmentId"`
	DeliveryStatus string `json:"deliveryStatus"`
	ServiceName    string `json:"serviceName"`
}

// Order is the platform order consumed read-only by the adapters.
type Order struct {
	ID            string       `json:"id"`
	Customer      Customer     `json:"customer"`
	Items         []OrderItem  `json:"items,omitempty"`
	Total         float64      `json:"total"`
	Shipping      float64      `json:"shipping,omitempty"`
	PaymentStatus string       `json:"paymentStatus"`
	PaymentMethod string       `json:"paymentMethod"`
	Courier       *CourierInfo `json:"courier,omitempty"`
}

// DeliveryDetails holds per-call overrides supplied by the caller when
// creating a shipment. Nil pointer fields mean "derive from the order".
type DeliveryDetails struct {
	RecipientName      string   `json:"recipientName,omitempty"`
	RecipientPhone     string   `json:"recipientPhone,omitempty"`
	RecipientAddress   string   `json:"recipientAddress,omitempty"`
	City               string   `json:"city,omitempty"`
	Area               string   `json:"area,omitempty"`
	AmountToCollect    *float64 `json:"amountToCollect,omitempty"`
	ItemWeightKG       *float64 `json:"itemWeight,omitempty"`
	SpecialInstruction string   `json:"specialInstruction,omitempty"`
}

// CreateOrderRequest is the input to every adapter's CreateOrder.
type CreateOrderRequest struct {
	Order      *Order
	TrackingID string
	Details    *DeliveryDetails
}

// StatusResult is the normalized output of both create and status-query
// operations. DeliveryStatus is always non-empty; RawStatus preserves the
// provider's raw response body for debugging and audit and is never parsed
// by callers.
type StatusResult struct {
	ConsignmentID  string `json:"consignmentId"`
	DeliveryStatus string `json:"deliveryStatus"`
	RawStatus      string `json:"rawStatus,omitempty"`
}

// recipientName resolves the shipment recipient name from overrides or the order.
func (r *CreateOrderRequest) RecipientName() string {
	if r.Details != nil && r.Details.RecipientName != "" {
		return r.Details.RecipientName
	}
	return r.Order.Customer.Name
}

// RecipientPhone resolves the shipment recipient phone from overrides or the order.
func (r *CreateOrderRequest) RecipientPhone() string {
	if r.Details != nil && r.Details.RecipientPhone != "" {
		return r.Details.RecipientPhone
	}
	return r.Order.Customer.Phone
}

// RecipientAddress resolves the shipment delivery address from overrides or the order.
func (r *CreateOrderRequest) RecipientAddress() string {
	if r.Details != nil && r.Details.RecipientAddress != "" {
		return r.Details.RecipientAddress
	}
	return r.Order.Customer.Address
}

// City resolves the delivery city from overrides or the order.
func (r *CreateOrderRequest) City() string {
	if r.Details != nil && r.Details.City != "" {
		return r.Details.City
	}
	return r.Order.Customer.City
}

// Area resolves the free-text delivery area. Falls back to the city when the
// caller supplied none.
func (r *CreateOrderRequest) Area() string {
	if r.Details != nil && r.Details.Area != "" {
		return r.Details.Area
	}
	return r.City()
}

// ItemWeightKG resolves the shipment weight in kilograms, defaulting to 0.5.
func (r *CreateOrderRequest) ItemWeightKG() float64 {
	if r.Details != nil && r.Details.ItemWeightKG != nil && *r.Details.ItemWeightKG > 0 {
		return *r.Details.ItemWeightKG
	}
	return 0.5
}

// ItemCount sums the order's item quantities, minimum 1.
func (r *CreateOrderRequest) ItemCount() int {
	count := 0
	for _, it := range r.Order.Items {
		count += it.Quantity
	}
	if count < 1 {
		count = 1
	}
	return count
}

// CollectionAmount applies the shared cash-on-delivery rule. An explicit
// caller override wins (clamped to non-negative); otherwise an unpaid COD
// order collects the rounded order total; everything else collects zero.
func CollectionAmount(order *Order, details *DeliveryDetails) float64 {
	if details != nil && details.AmountToCollect != nil {
		if *details.AmountToCollect < 0 {
			return 0
		}
		return *details.AmountToCollect
	}
	if order.PaymentMethod == PaymentMethodCOD && order.PaymentStatus != PaymentStatusCompleted {
		return math.Round(order.Total)
	}
	return 0
}
