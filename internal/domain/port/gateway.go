package port

import (
	"context"

	"github.com/shopmitra/billing-api/internal/domain/entity"
)

// GatewayOrderRequest asks the payment gateway to reserve an order before
// the hosted checkout opens. Amount is in minor currency units (paise).
type GatewayOrderRequest struct {
	AmountMinor int64
	Currency    string
	Receipt     string
}

// PaymentGateway is the remote payment processor the card flow talks to.
type PaymentGateway interface {
	// CreateOrder reserves a gateway-side order for the given amount.
	CreateOrder(ctx context.Context, req GatewayOrderRequest) (*entity.GatewayOrder, error)
	// KeyID returns the public key id the hosted checkout is opened with.
	KeyID() string
}
