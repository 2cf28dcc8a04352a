package pathao

import (
	"context"
)

// APIClient defines the interface for Pathao API operations. The abstraction
// allows mock implementations during testing and the real HTTP client in
// production.
type APIClient interface {
	// IssueToken performs the password-grant token exchange.
	IssueToken(ctx context.Context, req *TokenRequest) (*TokenResponse, error)

	// CreateOrder registers a new consignment.
	CreateOrder(ctx context.Context, accessToken string, req *OrderRequest) (*OrderResponse, error)

	// GetOrderInfo fetches details for an existing consignment.
	GetOrderInfo(ctx context.Context, accessToken, consignmentID string) (*OrderInfoResponse, error)
}

// ============================================================================
// API Request/Response Types (match the Pathao merchant API a.k.a. "aladdin")
// ============================================================================

// TokenRequest is the password-grant payload for POST /aladdin/api/v1/issue-token.
type TokenRequest struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	Username     string `json:"username"`
	Password     string `json:"password"`
	GrantType    string `json:"grant_type"`
}

// TokenResponse is the token-exchange response.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// OrderRequest is the payload for POST /aladdin/api/v1/orders.
type OrderRequest struct {
	MerchantOrderID    string  `json:"merchant_order_id"`
	RecipientName      string  `json:"recipient_name"`
	RecipientPhone     string  `json:"recipient_phone"`
	RecipientAddress   string  `json:"recipient_address"`
	RecipientCity      string  `json:"recipient_city,omitempty"`
	RecipientZone      string  `json:"recipient_zone,omitempty"`
	DeliveryType       int     `json:"delivery_type"`
	ItemType           int     `json:"item_type"`
	SpecialInstruction string  `json:"special_instruction,omitempty"`
	ItemQuantity       int     `json:"item_quantity"`
	ItemWeight         float64 `json:"item_weight"`
	AmountToCollect    float64 `json:"amount_to_collect"`
}

// OrderResponse is the create-order response envelope.
type OrderResponse struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    int    `json:"code"`
	Data    struct {
		ConsignmentID   string  `json:"consignment_id"`
		MerchantOrderID string  `json:"merchant_order_id"`
		OrderStatus     string  `json:"order_status"`
		DeliveryFee     float64 `json:"delivery_fee"`
	} `json:"data"`

	// Raw preserves the provider's response body verbatim.
	Raw string `json:"-"`
}

// OrderInfoResponse is the GET /aladdin/api/v1/orders/{id}/info response.
// The status field has moved between keys across API revisions, so the body
// is kept raw and probed with an ordered field list.
type OrderInfoResponse struct {
	Raw string `json:"-"`
}
