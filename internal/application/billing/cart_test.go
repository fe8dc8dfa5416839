package billing

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopmitra/billing-api/internal/domain/entity"
	"github.com/shopmitra/billing-api/internal/domain/enum"
)

func newTestProduct(name string, price, tax float64, stock int) *entity.Product {
	return &entity.Product{
		ID:         uuid.New(),
		Name:       name,
		Price:      price,
		TaxPercent: tax,
		Stock:      stock,
	}
}

func TestCartAddItem(t *testing.T) {
	cart := NewCart()
	p := newTestProduct("Soap", 40, 18, 10)

	if err := cart.AddItem(p); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if len(cart.Items()) != 1 {
		t.Fatalf("expected 1 item, got %d", len(cart.Items()))
	}

	li := cart.Items()[0]
	if li.Quantity != 1 {
		t.Errorf("new line quantity = %d, want 1", li.Quantity)
	}
	if li.SellingPrice != li.ListPrice {
		t.Errorf("new line selling price %v should equal list price %v", li.SellingPrice, li.ListPrice)
	}

	// Adding the same product again bumps quantity instead of a new line.
	if err := cart.AddItem(p); err != nil {
		t.Fatalf("AddItem again: %v", err)
	}
	if len(cart.Items()) != 1 {
		t.Fatalf("expected 1 item after re-add, got %d", len(cart.Items()))
	}
	if cart.Items()[0].Quantity != 2 {
		t.Errorf("quantity after re-add = %d, want 2", cart.Items()[0].Quantity)
	}
}

func TestCartAddItemOutOfStock(t *testing.T) {
	cart := NewCart()
	p := newTestProduct("Ghost", 10, 5, 0)

	err := cart.AddItem(p)
	if !errors.Is(err, ErrOutOfStock) {
		t.Fatalf("expected ErrOutOfStock, got %v", err)
	}
	if !cart.IsEmpty() {
		t.Error("cart should stay empty after a rejected add")
	}
}

func TestCartSetQuantityClamps(t *testing.T) {
	cart := NewCart()
	p := newTestProduct("Rice", 80, 5, 5)
	if err := cart.AddItem(p); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	if err := cart.SetQuantity(p.ID, 0); err != nil {
		t.Fatalf("SetQuantity: %v", err)
	}
	if q := cart.Items()[0].Quantity; q != 1 {
		t.Errorf("quantity clamped low = %d, want 1", q)
	}

	if err := cart.SetQuantity(p.ID, 99); err != nil {
		t.Fatalf("SetQuantity: %v", err)
	}
	if q := cart.Items()[0].Quantity; q != 5 {
		t.Errorf("quantity clamped high = %d, want 5", q)
	}

	if err := cart.SetQuantity(uuid.New(), 3); !errors.Is(err, ErrItemNotFound) {
		t.Errorf("expected ErrItemNotFound for unknown product, got %v", err)
	}
}

func TestCartSetDiscount(t *testing.T) {
	cart := NewCart()
	p := newTestProduct("Shirt", 200, 12, 10)
	if err := cart.AddItem(p); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	li := cart.Items()[0]

	// Valid percentage recomputes the selling price.
	if err := cart.SetDiscount(p.ID, "10"); err != nil {
		t.Fatalf("SetDiscount: %v", err)
	}
	if !li.Discount.IsValid() {
		t.Error("discount should be valid")
	}
	if !almostEqual(li.SellingPrice, 180) {
		t.Errorf("selling price = %v, want 180", li.SellingPrice)
	}

	// Garbage input is kept verbatim and the selling price stays put.
	if err := cart.SetDiscount(p.ID, "1o"); err != nil {
		t.Fatalf("SetDiscount: %v", err)
	}
	if li.Discount.IsValid() {
		t.Error("discount should be pending for unparseable input")
	}
	if li.Discount.Raw() != "1o" {
		t.Errorf("raw discount = %q, want %q", li.Discount.Raw(), "1o")
	}
	if !almostEqual(li.SellingPrice, 180) {
		t.Errorf("selling price moved on invalid input: %v", li.SellingPrice)
	}

	// Out-of-range numbers are pending too.
	if err := cart.SetDiscount(p.ID, "150"); err != nil {
		t.Fatalf("SetDiscount: %v", err)
	}
	if li.Discount.IsValid() {
		t.Error("out-of-range discount should be pending")
	}

	// Clearing restores the list price.
	if err := cart.SetDiscount(p.ID, ""); err != nil {
		t.Fatalf("SetDiscount: %v", err)
	}
	if !almostEqual(li.SellingPrice, 200) {
		t.Errorf("selling price after clear = %v, want 200", li.SellingPrice)
	}
}

func TestCartClear(t *testing.T) {
	cart := NewCart()
	p := newTestProduct("Pen", 10, 12, 50)
	if err := cart.AddItem(p); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	cart.SetCustomer(&entity.Customer{ID: uuid.New(), Name: "Asha", State: "29"})
	cart.SetPaymentMethod(enum.PaymentMethodCard)
	cart.SetPayingAmount(5)

	cart.Clear()

	if !cart.IsEmpty() {
		t.Error("cart should be empty after Clear")
	}
	if cart.Customer() != nil {
		t.Error("customer should be nil after Clear")
	}
	if cart.PaymentMethod() != enum.PaymentMethodCash {
		t.Errorf("payment method = %v, want cash", cart.PaymentMethod())
	}
	if _, manual := cart.PayingAmount(); manual {
		t.Error("paying amount should be back on auto-sync after Clear")
	}
}

func TestCartRemoveItem(t *testing.T) {
	cart := NewCart()
	p1 := newTestProduct("A", 10, 0, 5)
	p2 := newTestProduct("B", 20, 0, 5)
	if err := cart.AddItem(p1); err != nil {
		t.Fatal(err)
	}
	if err := cart.AddItem(p2); err != nil {
		t.Fatal(err)
	}

	cart.RemoveItem(p1.ID)
	if len(cart.Items()) != 1 || cart.Items()[0].ProductID != p2.ID {
		t.Fatal("wrong item removed")
	}

	// Removing an absent id is a no-op.
	cart.RemoveItem(uuid.New())
	if len(cart.Items()) != 1 {
		t.Error("no-op remove changed the cart")
	}
}
