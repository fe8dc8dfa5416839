package request

import (
	"github.com/google/uuid"
)

// AddItemRequest carries the product picked from search. The engine
// trusts the backend's search response for price/tax/stock; the UI
// forwards it verbatim.
type AddItemRequest struct {
	ProductID  uuid.UUID `json:"product_id" binding:"required"`
	Name       string    `json:"name" binding:"required"`
	Price      float64   `json:"price" binding:"min=0"`
	CostPrice  float64   `json:"cost_price" binding:"min=0"`
	TaxPercent float64   `json:"tax" binding:"min=0,max=100"`
	Stock      int       `json:"stock"`
}

// UpdateItemRequest is a partial line edit. Discount is the raw string
// as typed, so in-progress input round-trips unharmed.
type UpdateItemRequest struct {
	Quantity *int    `json:"quantity" binding:"omitempty"`
	Discount *string `json:"discount"`
	Details  *string `json:"details"`
}

// SetCustomerRequest selects the customer the bill is for.
type SetCustomerRequest struct {
	CustomerID uuid.UUID `json:"customer_id" binding:"required"`
	Name       string    `json:"name" binding:"required"`
	Phone      string    `json:"phone"`
	Email      string    `json:"email"`
	State      string    `json:"state"`
}

// SetPaymentRequest selects the payment method and, optionally, a
// manual paying amount for partial billing.
type SetPaymentRequest struct {
	Method       string   `json:"method" binding:"required,oneof=cash card upi"`
	PayingAmount *float64 `json:"paying_amount"`
}

// StartPaymentRequest begins a payment attempt.
type StartPaymentRequest struct {
	Remarks string `json:"remarks"`
}

// CheckoutFailureRequest carries the hosted checkout's failure callback.
type CheckoutFailureRequest struct {
	Description string `json:"description"`
}
