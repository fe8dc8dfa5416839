package entity

import (
	"encoding/json"
	"strconv"

	"github.com/google/uuid"
)

// Discount is a per-line discount percentage that may transiently hold
// unparseable user input. A valid discount carries a number in [0,100];
// a pending discount keeps the raw string so the UI can echo it back
// while the math ignores it.
type Discount struct {
	percent float64
	raw     string
	valid   bool
}

// ValidDiscount creates a discount with a parsed, in-range percentage.
func ValidDiscount(percent float64) Discount {
	return Discount{percent: percent, valid: true}
}

// PendingDiscount creates a discount holding raw, not-yet-valid input.
func PendingDiscount(raw string) Discount {
	return Discount{raw: raw}
}

// Percent returns the discount percentage and whether it is valid.
func (d Discount) Percent() (float64, bool) {
	return d.percent, d.valid
}

// Raw returns the unparsed user input for a pending discount.
func (d Discount) Raw() string {
	return d.raw
}

// IsValid reports whether the discount holds a usable percentage.
func (d Discount) IsValid() bool {
	return d.valid
}

// MarshalJSON emits the percentage as a number when valid, otherwise the
// raw input as a string.
func (d Discount) MarshalJSON() ([]byte, error) {
	if d.valid {
		return json.Marshal(d.percent)
	}
	return json.Marshal(d.raw)
}

// UnmarshalJSON accepts either a number or a string. A string that parses
// to a number in [0,100] becomes a valid discount; anything else stays raw.
func (d *Discount) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*d = ValidDiscount(f)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f >= 0 && f <= 100 {
		*d = ValidDiscount(f)
		return nil
	}
	*d = PendingDiscount(s)
	return nil
}

// LineItem is a cart line. ListPrice is the immutable catalog price;
// SellingPrice is the post-discount unit price, both tax-inclusive.
type LineItem struct {
	ProductID    uuid.UUID `json:"product_id"`
	Name         string    `json:"name"`
	ListPrice    float64   `json:"list_price"`
	SellingPrice float64   `json:"selling_price"`
	CostPrice    float64   `json:"cost_price"`
	TaxPercent   float64   `json:"tax"`
	Stock        int       `json:"stock"`
	Quantity     int       `json:"quantity"`
	Discount     Discount  `json:"discount"`
	Details      string    `json:"details,omitempty"`
}

// NewLineItem creates a line for a product fresh off search: quantity one,
// no discount, selling price at list.
func NewLineItem(p *Product) *LineItem {
	return &LineItem{
		ProductID:    p.ID,
		Name:         p.Name,
		ListPrice:    p.Price,
		SellingPrice: p.Price,
		CostPrice:    p.CostPrice,
		TaxPercent:   p.TaxPercent,
		Stock:        p.Stock,
		Quantity:     1,
		Discount:     ValidDiscount(0),
	}
}

// LineTotal returns the tax-inclusive amount charged for this line.
func (li *LineItem) LineTotal() float64 {
	return li.SellingPrice * float64(li.Quantity)
}

// EffectiveDiscountPercent derives the discount from the list/selling
// ratio, ignoring whatever the discount field currently holds.
func (li *LineItem) EffectiveDiscountPercent() float64 {
	if li.ListPrice <= 0 {
		return 0
	}
	return (li.ListPrice - li.SellingPrice) / li.ListPrice * 100
}
