package billing

import (
	"math"
	"strconv"
)

// Prices in the catalog are tax-inclusive, so the tax is extracted by
// division rather than added on top: base = selling / (1 + rate/100).

// LineBase returns the pre-tax unit price embedded in a tax-inclusive
// selling price. ok is false when an input is negative or non-finite;
// callers display zero but must flag the line as invalid.
func LineBase(sellingPrice, taxPercent float64) (float64, bool) {
	if !validAmount(sellingPrice) || !validAmount(taxPercent) {
		return 0, false
	}
	if taxPercent == 0 {
		return sellingPrice, true
	}
	return sellingPrice / (1 + taxPercent/100), true
}

// LineTax returns the tax amount embedded in a line of quantity units.
func LineTax(sellingPrice float64, quantity int, taxPercent float64) (float64, bool) {
	base, ok := LineBase(sellingPrice, taxPercent)
	if !ok || quantity < 0 {
		return 0, false
	}
	return (sellingPrice - base) * float64(quantity), true
}

// IntraState reports whether the customer and shop share a GST
// jurisdiction. States are compared exactly; normalization is the
// caller's job.
func IntraState(shopState, customerState string) bool {
	return shopState == customerState
}

// BucketLabel builds a tax-bucket label such as "CGST @9%" or
// "IGST @18%". Rates render without trailing zeros so 2.5 stays "2.5"
// and 9.0 becomes "9".
func BucketLabel(component string, ratePercent float64) string {
	return component + " @" + strconv.FormatFloat(ratePercent, 'f', -1, 64) + "%"
}

func validAmount(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
