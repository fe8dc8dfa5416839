package entity

import (
	"github.com/google/uuid"
)

// BillLine is one line of the submitted bill. DiscountPercent is always
// recomputed from the list/selling ratio at submission time so the backend
// sees a value consistent with the prices actually sent.
type BillLine struct {
	ProductID       uuid.UUID `json:"product_id"`
	Name            string    `json:"name"`
	Quantity        int       `json:"quantity"`
	ListPrice       float64   `json:"list_price"`
	SellingPrice    float64   `json:"selling_price"`
	DiscountPercent float64   `json:"discount_percent"`
	TaxPercent      float64   `json:"tax"`
	Total           float64   `json:"total"`
	Details         string    `json:"details,omitempty"`
}

// BillPayload is the finalized billing transaction sent to the shop
// backend. Gateway is set only for card payments and carries the signed
// checkout triple for backend-side verification.
type BillPayload struct {
	CustomerID      uuid.UUID            `json:"customer_id"`
	Items           []BillLine           `json:"items"`
	SellingSubtotal float64              `json:"selling_subtotal"`
	DiscountPercent float64              `json:"discount_percent"`
	Tax             float64              `json:"tax"`
	TaxBreakdown    map[string]float64   `json:"tax_breakdown,omitempty"`
	PaymentMethod   string               `json:"payment_method"`
	Remarks         string               `json:"remarks,omitempty"`
	PayingAmount    float64              `json:"paying_amount"`
	RemainingAmount float64              `json:"remaining_amount"`
	Gateway         *PaymentConfirmation `json:"gateway,omitempty"`
}
