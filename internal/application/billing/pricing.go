package billing

// Totals is the cart-level pricing snapshot. It is derived, never
// stored: every call to Aggregator.Totals walks the cart again, so a
// mutation can never leave a stale figure behind.
type Totals struct {
	// ActualSubtotal is the pre-discount reference value: list price
	// times quantity over all lines.
	ActualSubtotal float64 `json:"actual_subtotal"`
	// SellingSubtotal is what is actually charged, tax-inclusive.
	SellingSubtotal float64 `json:"selling_subtotal"`
	TotalTax        float64 `json:"total_tax"`
	TotalExTax      float64 `json:"total_ex_tax"`
	// DiscountPercent is the weighted cart-level discount derived from
	// the two subtotals, not an average of per-line percentages.
	DiscountPercent float64 `json:"discount_percent"`
	PayingAmount    float64 `json:"paying_amount"`
	DueAmount       float64 `json:"due_amount"`
	// TaxBreakdown maps bucket labels ("CGST @9%", "IGST @18%") to
	// accumulated amounts. Nil when either jurisdiction is unknown:
	// aggregate figures stay correct, only the detail is disabled.
	TaxBreakdown map[string]float64 `json:"tax_breakdown,omitempty"`
	// HasInvalidLines is set when any line carried a negative or
	// non-finite price or rate; such lines contribute zero tax and the
	// bill must not be submitted until they are fixed.
	HasInvalidLines bool `json:"has_invalid_lines,omitempty"`
}

// Aggregator derives cart totals and the GST breakdown. ShopState is
// the shop's own GST state code.
type Aggregator struct {
	shopState string
}

// NewAggregator creates an aggregator for a shop jurisdiction.
func NewAggregator(shopState string) *Aggregator {
	return &Aggregator{shopState: shopState}
}

// Totals computes the full pricing snapshot for the cart.
func (a *Aggregator) Totals(cart *Cart) *Totals {
	t := &Totals{}

	customerState := ""
	if cust := cart.Customer(); cust != nil {
		customerState = cust.State
	}
	splitKnown := a.shopState != "" && customerState != ""
	if splitKnown && !cart.IsEmpty() {
		t.TaxBreakdown = make(map[string]float64)
	}
	intra := IntraState(a.shopState, customerState)

	for _, li := range cart.Items() {
		t.ActualSubtotal += li.ListPrice * float64(li.Quantity)
		t.SellingSubtotal += li.LineTotal()

		tax, ok := LineTax(li.SellingPrice, li.Quantity, li.TaxPercent)
		if !ok {
			t.HasInvalidLines = true
			continue
		}
		t.TotalTax += tax

		if t.TaxBreakdown == nil || tax == 0 {
			continue
		}
		if intra {
			// Intra-state: split evenly into central and state halves.
			t.TaxBreakdown[BucketLabel("CGST", li.TaxPercent/2)] += tax / 2
			t.TaxBreakdown[BucketLabel("SGST", li.TaxPercent/2)] += tax / 2
		} else {
			t.TaxBreakdown[BucketLabel("IGST", li.TaxPercent)] += tax
		}
	}

	t.TotalExTax = t.SellingSubtotal - t.TotalTax
	if t.ActualSubtotal > 0 {
		t.DiscountPercent = (t.ActualSubtotal - t.SellingSubtotal) / t.ActualSubtotal * 100
	}

	if amount, manual := cart.PayingAmount(); manual {
		t.PayingAmount = amount
	} else {
		t.PayingAmount = t.SellingSubtotal
	}
	t.DueAmount = t.SellingSubtotal - t.PayingAmount

	return t
}
