package entity

import (
	"github.com/google/uuid"
)

// Product is the catalog shape returned by the shop backend's product search.
// Prices are tax-inclusive decimals in the shop currency.
type Product struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Code       string    `json:"code,omitempty"`
	Price      float64   `json:"price"`
	CostPrice  float64   `json:"cost_price"`
	TaxPercent float64   `json:"tax"`
	Stock      int       `json:"stock"`
}

// InStock reports whether the product can be added to a cart.
func (p *Product) InStock() bool {
	return p.Stock > 0
}
