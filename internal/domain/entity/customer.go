package entity

import (
	"github.com/google/uuid"
)

// Customer is the shape returned by the shop backend's customer search.
// State is the customer's GST state code and drives the CGST/SGST vs IGST
// split against the shop's own state.
type Customer struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Phone string    `json:"phone,omitempty"`
	Email string    `json:"email,omitempty"`
	State string    `json:"state,omitempty"`
}
