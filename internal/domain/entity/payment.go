package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopmitra/billing-api/internal/domain/enum"
)

// PaymentIntent is the ephemeral record of one payment attempt. It is
// created when a payment starts and discarded on success or failure;
// a retry always mints a fresh intent (and, for card, a fresh gateway
// order).
type PaymentIntent struct {
	ID             uuid.UUID          `json:"id"`
	Method         enum.PaymentMethod `json:"method"`
	Amount         float64            `json:"amount"`
	GatewayOrderID string             `json:"gateway_order_id,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
}

// GatewayOrder is the server-side reservation created with the payment
// gateway before the hosted checkout opens.
type GatewayOrder struct {
	ID          string `json:"id"`
	AmountMinor int64  `json:"amount"`
	Currency    string `json:"currency"`
}

// CheckoutPrefill carries customer fields for the hosted checkout form.
type CheckoutPrefill struct {
	Name  string `json:"name,omitempty"`
	Phone string `json:"contact,omitempty"`
	Email string `json:"email,omitempty"`
}

// CheckoutParams is what the UI needs to open the hosted checkout.
type CheckoutParams struct {
	KeyID       string          `json:"key_id"`
	OrderID     string          `json:"order_id"`
	AmountMinor int64           `json:"amount"`
	Currency    string          `json:"currency"`
	Prefill     CheckoutPrefill `json:"prefill"`
}

// PaymentConfirmation is the signed triple the hosted checkout hands back
// on success. The engine never verifies the signature itself; the triple
// is forwarded to the backend, which holds the gateway secret.
type PaymentConfirmation struct {
	OrderID   string `json:"gateway_order_id" binding:"required"`
	PaymentID string `json:"gateway_payment_id" binding:"required"`
	Signature string `json:"gateway_signature" binding:"required"`
}

// InvoiceRef is the only artifact surviving a successful submission.
type InvoiceRef struct {
	InvoiceNumber string  `json:"invoice_number"`
	PaidAmount    float64 `json:"paid_amount"`
}
