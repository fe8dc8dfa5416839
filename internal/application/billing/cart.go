package billing

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopmitra/billing-api/internal/domain/entity"
	"github.com/shopmitra/billing-api/internal/domain/enum"
	"github.com/shopmitra/billing-api/pkg/apperror"
)

// Cart errors
var (
	ErrOutOfStock   = apperror.NewBadRequestError("Product is out of stock")
	ErrItemNotFound = apperror.NewNotFoundError("Cart item")
)

// Cart owns the in-progress bill for one billing session: line items,
// the selected customer, the payment method, and the partial-payment
// intent. It has a single logical writer; callers serialize access.
type Cart struct {
	customer      *entity.Customer
	items         []*entity.LineItem
	paymentMethod enum.PaymentMethod
	payingAmount  float64
	payingManual  bool
}

// NewCart creates an empty cart defaulting to cash payment.
func NewCart() *Cart {
	return &Cart{paymentMethod: enum.PaymentMethodCash}
}

// Customer returns the selected customer, or nil.
func (c *Cart) Customer() *entity.Customer {
	return c.customer
}

// SetCustomer selects the customer the bill is for.
func (c *Cart) SetCustomer(customer *entity.Customer) {
	c.customer = customer
}

// Items returns the cart lines in insertion order.
func (c *Cart) Items() []*entity.LineItem {
	return c.items
}

// Item looks up a line by product id.
func (c *Cart) Item(productID uuid.UUID) (*entity.LineItem, bool) {
	for _, li := range c.items {
		if li.ProductID == productID {
			return li, true
		}
	}
	return nil, false
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.items) == 0
}

// AddItem adds a product to the cart. Out-of-stock products are rejected
// and the cart is left unchanged. Adding a product already in the cart
// bumps its quantity by one without re-checking stock; the stock ceiling
// is enforced on direct quantity edits instead, which keeps scan-and-add
// fast.
func (c *Cart) AddItem(p *entity.Product) error {
	if !p.InStock() {
		return ErrOutOfStock
	}
	if li, ok := c.Item(p.ID); ok {
		li.Quantity++
		return nil
	}
	c.items = append(c.items, entity.NewLineItem(p))
	return nil
}

// RemoveItem removes a line unconditionally. Removing an absent id is a
// no-op.
func (c *Cart) RemoveItem(productID uuid.UUID) {
	for i, li := range c.items {
		if li.ProductID == productID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}

// SetQuantity sets a line's quantity, clamped into [1, stock].
func (c *Cart) SetQuantity(productID uuid.UUID, quantity int) error {
	li, ok := c.Item(productID)
	if !ok {
		return ErrItemNotFound
	}
	if quantity < 1 {
		quantity = 1
	}
	if quantity > li.Stock {
		quantity = li.Stock
	}
	li.Quantity = quantity
	return nil
}

// SetDetails replaces a line's free-text details.
func (c *Cart) SetDetails(productID uuid.UUID, details string) error {
	li, ok := c.Item(productID)
	if !ok {
		return ErrItemNotFound
	}
	li.Details = details
	return nil
}

// SetDiscount applies raw discount input to a line. An empty string
// clears the discount and restores the list price. A number in [0,100]
// recomputes the selling price. Anything else is kept verbatim so the
// UI can echo it back, and the selling price is left untouched.
func (c *Cart) SetDiscount(productID uuid.UUID, raw string) error {
	li, ok := c.Item(productID)
	if !ok {
		return ErrItemNotFound
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		li.Discount = entity.PendingDiscount("")
		li.SellingPrice = li.ListPrice
		return nil
	}
	percent, err := strconv.ParseFloat(raw, 64)
	if err != nil || percent < 0 || percent > 100 {
		li.Discount = entity.PendingDiscount(raw)
		return nil
	}
	li.Discount = entity.ValidDiscount(percent)
	li.SellingPrice = li.ListPrice * (1 - percent/100)
	return nil
}

// PaymentMethod returns the selected payment method.
func (c *Cart) PaymentMethod() enum.PaymentMethod {
	return c.paymentMethod
}

// SetPaymentMethod selects how the bill will be paid.
func (c *Cart) SetPaymentMethod(m enum.PaymentMethod) {
	c.paymentMethod = m
}

// PayingAmount returns the manually entered paying amount and whether it
// was set. While unset, the effective paying amount tracks the computed
// bill total (see Aggregator).
func (c *Cart) PayingAmount() (float64, bool) {
	return c.payingAmount, c.payingManual
}

// SetPayingAmount overrides the paying amount for partial billing and
// stops the auto-sync with the bill total until the cart is cleared.
func (c *Cart) SetPayingAmount(amount float64) {
	c.payingAmount = amount
	c.payingManual = true
}

// Clear resets the cart for a new bill: no customer, no items, cash
// payment, paying amount back on auto-sync.
func (c *Cart) Clear() {
	c.customer = nil
	c.items = nil
	c.paymentMethod = enum.PaymentMethodCash
	c.payingAmount = 0
	c.payingManual = false
}
