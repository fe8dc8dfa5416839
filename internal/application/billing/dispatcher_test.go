package billing

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopmitra/billing-api/internal/domain/entity"
	"github.com/shopmitra/billing-api/internal/domain/enum"
	"github.com/shopmitra/billing-api/internal/domain/port"
	"github.com/shopmitra/billing-api/pkg/pagination"
)

type fakeGateway struct {
	lastReq port.GatewayOrderRequest
	orders  int
	err     error
}

func (g *fakeGateway) CreateOrder(ctx context.Context, req port.GatewayOrderRequest) (*entity.GatewayOrder, error) {
	if g.err != nil {
		return nil, g.err
	}
	g.lastReq = req
	g.orders++
	return &entity.GatewayOrder{
		ID:          "order_test_1",
		AmountMinor: req.AmountMinor,
		Currency:    req.Currency,
	}, nil
}

func (g *fakeGateway) KeyID() string { return "rzp_test_key" }

type fakeBackend struct {
	bills []*entity.BillPayload
	err   error
}

func (b *fakeBackend) SubmitBill(ctx context.Context, bill *entity.BillPayload) (*entity.InvoiceRef, error) {
	if b.err != nil {
		return nil, b.err
	}
	b.bills = append(b.bills, bill)
	return &entity.InvoiceRef{InvoiceNumber: "INV-0001", PaidAmount: bill.PayingAmount}, nil
}

func (b *fakeBackend) SearchProducts(ctx context.Context, query string, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.Product], error) {
	return pagination.NewPaginatedResult([]entity.Product{}, pagination.NewPagination(1, 15, 0)), nil
}

func (b *fakeBackend) SearchCustomers(ctx context.Context, query string, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.Customer], error) {
	return pagination.NewPaginatedResult([]entity.Customer{}, pagination.NewPagination(1, 15, 0)), nil
}

type dispatcherFixture struct {
	cart       *Cart
	dispatcher *Dispatcher
	gateway    *fakeGateway
	backend    *fakeBackend
}

func newDispatcherFixture(t *testing.T) *dispatcherFixture {
	t.Helper()
	cart := NewCart()
	agg := NewAggregator("29")
	gw := &fakeGateway{}
	be := &fakeBackend{}
	log := zerolog.Nop()
	sub := NewSubmitter(be, agg, ShopInfo{Name: "Test Store", State: "29"}, log)
	return &dispatcherFixture{
		cart:       cart,
		dispatcher: NewDispatcher(cart, agg, gw, sub, "INR", log),
		gateway:    gw,
		backend:    be,
	}
}

func (f *dispatcherFixture) fillCart(t *testing.T) *entity.Product {
	t.Helper()
	f.cart.SetCustomer(&entity.Customer{ID: uuid.New(), Name: "Asha", State: "29"})
	p := newTestProduct("Soap", 100, 18, 10)
	if err := f.cart.AddItem(p); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestStartPaymentCashSettlesDirectly(t *testing.T) {
	f := newDispatcherFixture(t)
	f.fillCart(t)

	result, err := f.dispatcher.StartPayment(context.Background(), "take two")
	if err != nil {
		t.Fatalf("StartPayment: %v", err)
	}
	if result.State != enum.DispatchStateSucceeded {
		t.Errorf("state = %v, want succeeded", result.State)
	}
	if result.Invoice == nil || result.Invoice.InvoiceNumber != "INV-0001" {
		t.Errorf("invoice = %+v", result.Invoice)
	}
	if f.gateway.orders != 0 {
		t.Error("cash payment must not touch the gateway")
	}
	if len(f.backend.bills) != 1 {
		t.Fatalf("expected 1 submitted bill, got %d", len(f.backend.bills))
	}
	if f.backend.bills[0].Remarks != "take two" {
		t.Errorf("remarks = %q", f.backend.bills[0].Remarks)
	}
	if !f.cart.IsEmpty() {
		t.Error("cart should be cleared after settlement")
	}
	if f.dispatcher.State() != enum.DispatchStateIdle {
		t.Errorf("resting state = %v, want idle", f.dispatcher.State())
	}
}

func TestStartPaymentValidation(t *testing.T) {
	t.Run("no customer", func(t *testing.T) {
		f := newDispatcherFixture(t)
		p := newTestProduct("Soap", 100, 18, 10)
		if err := f.cart.AddItem(p); err != nil {
			t.Fatal(err)
		}
		if _, err := f.dispatcher.StartPayment(context.Background(), ""); !errors.Is(err, ErrNoCustomer) {
			t.Errorf("expected ErrNoCustomer, got %v", err)
		}
	})

	t.Run("empty cart", func(t *testing.T) {
		f := newDispatcherFixture(t)
		f.cart.SetCustomer(&entity.Customer{ID: uuid.New(), Name: "Asha", State: "29"})
		if _, err := f.dispatcher.StartPayment(context.Background(), ""); !errors.Is(err, ErrEmptyCart) {
			t.Errorf("expected ErrEmptyCart, got %v", err)
		}
	})

	t.Run("invalid lines", func(t *testing.T) {
		f := newDispatcherFixture(t)
		f.fillCart(t)
		f.cart.Items()[0].TaxPercent = -1
		if _, err := f.dispatcher.StartPayment(context.Background(), ""); !errors.Is(err, ErrInvalidLines) {
			t.Errorf("expected ErrInvalidLines, got %v", err)
		}
	})

	t.Run("paying amount above total", func(t *testing.T) {
		f := newDispatcherFixture(t)
		f.fillCart(t)
		f.cart.SetPayingAmount(500)
		if _, err := f.dispatcher.StartPayment(context.Background(), ""); !errors.Is(err, ErrInvalidPayingAmount) {
			t.Errorf("expected ErrInvalidPayingAmount, got %v", err)
		}
	})

	t.Run("paying amount zero", func(t *testing.T) {
		f := newDispatcherFixture(t)
		f.fillCart(t)
		f.cart.SetPayingAmount(0)
		if _, err := f.dispatcher.StartPayment(context.Background(), ""); !errors.Is(err, ErrInvalidPayingAmount) {
			t.Errorf("expected ErrInvalidPayingAmount, got %v", err)
		}
	})
}

func TestStartPaymentValidationFailureKeepsCart(t *testing.T) {
	f := newDispatcherFixture(t)
	f.fillCart(t)
	f.cart.SetPayingAmount(500)

	_, err := f.dispatcher.StartPayment(context.Background(), "")
	if err == nil {
		t.Fatal("expected validation error")
	}
	if f.cart.IsEmpty() {
		t.Error("cart must survive a failed attempt")
	}
	if f.dispatcher.State() != enum.DispatchStateIdle {
		t.Errorf("state = %v, want idle", f.dispatcher.State())
	}
	if f.dispatcher.LastError() == "" {
		t.Error("last error should carry the failure message")
	}
}

func TestStartPaymentCardOpensCheckout(t *testing.T) {
	f := newDispatcherFixture(t)
	f.fillCart(t)
	f.cart.SetPaymentMethod(enum.PaymentMethodCard)

	result, err := f.dispatcher.StartPayment(context.Background(), "")
	if err != nil {
		t.Fatalf("StartPayment: %v", err)
	}
	if result.State != enum.DispatchStateGatewayPending {
		t.Errorf("state = %v, want gateway_pending", result.State)
	}
	if result.Checkout == nil {
		t.Fatal("checkout params missing")
	}
	if result.Checkout.OrderID != "order_test_1" {
		t.Errorf("order id = %q", result.Checkout.OrderID)
	}
	if result.Checkout.KeyID != "rzp_test_key" {
		t.Errorf("key id = %q", result.Checkout.KeyID)
	}
	// 100.00 in minor units.
	if f.gateway.lastReq.AmountMinor != 10000 {
		t.Errorf("amount minor = %d, want 10000", f.gateway.lastReq.AmountMinor)
	}
	if f.gateway.lastReq.Currency != "INR" {
		t.Errorf("currency = %q", f.gateway.lastReq.Currency)
	}
	if result.Checkout.Prefill.Name != "Asha" {
		t.Errorf("prefill name = %q", result.Checkout.Prefill.Name)
	}
	if len(f.backend.bills) != 0 {
		t.Error("nothing must be submitted before the checkout callback")
	}
	if f.cart.IsEmpty() {
		t.Error("cart must stay intact while checkout is pending")
	}
}

func TestCheckoutSuccessSettles(t *testing.T) {
	f := newDispatcherFixture(t)
	f.fillCart(t)
	f.cart.SetPaymentMethod(enum.PaymentMethodCard)

	start, err := f.dispatcher.StartPayment(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}

	conf := &entity.PaymentConfirmation{
		OrderID:   start.Checkout.OrderID,
		PaymentID: "pay_1",
		Signature: "sig_1",
	}
	result, err := f.dispatcher.HandleCheckoutSuccess(context.Background(), conf)
	if err != nil {
		t.Fatalf("HandleCheckoutSuccess: %v", err)
	}
	if result.State != enum.DispatchStateSucceeded {
		t.Errorf("state = %v, want succeeded", result.State)
	}
	if len(f.backend.bills) != 1 {
		t.Fatalf("expected 1 bill, got %d", len(f.backend.bills))
	}
	// The signed triple rides along for backend-side verification.
	if got := f.backend.bills[0].Gateway; got == nil || got.Signature != "sig_1" {
		t.Errorf("gateway confirmation on payload = %+v", got)
	}
	if !f.cart.IsEmpty() {
		t.Error("cart should be cleared after settlement")
	}
}

func TestCheckoutSuccessDuplicateRejected(t *testing.T) {
	f := newDispatcherFixture(t)
	f.fillCart(t)
	f.cart.SetPaymentMethod(enum.PaymentMethodCard)

	start, err := f.dispatcher.StartPayment(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}
	conf := &entity.PaymentConfirmation{OrderID: start.Checkout.OrderID, PaymentID: "pay_1", Signature: "sig"}

	if _, err := f.dispatcher.HandleCheckoutSuccess(context.Background(), conf); err != nil {
		t.Fatalf("first callback: %v", err)
	}
	if _, err := f.dispatcher.HandleCheckoutSuccess(context.Background(), conf); !errors.Is(err, ErrNoPendingPayment) {
		t.Errorf("duplicate callback should fail with ErrNoPendingPayment, got %v", err)
	}
	if len(f.backend.bills) != 1 {
		t.Errorf("duplicate callback produced %d bills", len(f.backend.bills))
	}
}

func TestCheckoutSuccessOrderMismatch(t *testing.T) {
	f := newDispatcherFixture(t)
	f.fillCart(t)
	f.cart.SetPaymentMethod(enum.PaymentMethodCard)

	if _, err := f.dispatcher.StartPayment(context.Background(), ""); err != nil {
		t.Fatal(err)
	}

	conf := &entity.PaymentConfirmation{OrderID: "order_someone_elses", PaymentID: "pay", Signature: "sig"}
	if _, err := f.dispatcher.HandleCheckoutSuccess(context.Background(), conf); !errors.Is(err, ErrOrderMismatch) {
		t.Errorf("expected ErrOrderMismatch, got %v", err)
	}
	// The pending intent survives a mismatched callback.
	if f.dispatcher.State() != enum.DispatchStateGatewayPending {
		t.Errorf("state = %v, want gateway_pending", f.dispatcher.State())
	}
}

func TestCheckoutFailurePreservesCart(t *testing.T) {
	f := newDispatcherFixture(t)
	f.fillCart(t)
	f.cart.SetPaymentMethod(enum.PaymentMethodCard)

	if _, err := f.dispatcher.StartPayment(context.Background(), ""); err != nil {
		t.Fatal(err)
	}

	if err := f.dispatcher.HandleCheckoutFailure("card declined"); err != nil {
		t.Fatalf("HandleCheckoutFailure: %v", err)
	}
	if f.dispatcher.State() != enum.DispatchStateIdle {
		t.Errorf("state = %v, want idle", f.dispatcher.State())
	}
	if f.dispatcher.LastError() != "card declined" {
		t.Errorf("last error = %q", f.dispatcher.LastError())
	}
	if f.cart.IsEmpty() {
		t.Error("cart must survive a failed checkout")
	}
	if len(f.backend.bills) != 0 {
		t.Error("failed checkout must not submit a bill")
	}

	// The attempt is retryable and gets a fresh order.
	if _, err := f.dispatcher.StartPayment(context.Background(), ""); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if f.gateway.orders != 2 {
		t.Errorf("gateway orders = %d, want 2", f.gateway.orders)
	}
}

func TestCheckoutFailureWithoutPending(t *testing.T) {
	f := newDispatcherFixture(t)
	if err := f.dispatcher.HandleCheckoutFailure("x"); !errors.Is(err, ErrNoPendingPayment) {
		t.Errorf("expected ErrNoPendingPayment, got %v", err)
	}
}

func TestGatewayErrorReturnsToIdle(t *testing.T) {
	f := newDispatcherFixture(t)
	f.fillCart(t)
	f.cart.SetPaymentMethod(enum.PaymentMethodCard)
	f.gateway.err = errors.New("gateway unreachable")

	_, err := f.dispatcher.StartPayment(context.Background(), "")
	if err == nil {
		t.Fatal("expected gateway error")
	}
	if f.dispatcher.State() != enum.DispatchStateIdle {
		t.Errorf("state = %v, want idle", f.dispatcher.State())
	}
	if f.cart.IsEmpty() {
		t.Error("cart must survive a gateway failure")
	}
}

func TestRestartAbandonsPendingCheckout(t *testing.T) {
	f := newDispatcherFixture(t)
	f.fillCart(t)
	f.cart.SetPaymentMethod(enum.PaymentMethodCard)

	first, err := f.dispatcher.StartPayment(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.dispatcher.StartPayment(context.Background(), ""); err != nil {
		t.Fatal(err)
	}

	// The abandoned order's callback is now worthless.
	conf := &entity.PaymentConfirmation{OrderID: first.Checkout.OrderID, PaymentID: "pay", Signature: "sig"}
	if _, err := f.dispatcher.HandleCheckoutSuccess(context.Background(), conf); err == nil {
		t.Error("callback for an abandoned intent should fail")
	}
}

func TestPartialPaymentSubmission(t *testing.T) {
	f := newDispatcherFixture(t)
	p := f.fillCart(t)
	if err := f.cart.SetQuantity(p.ID, 3); err != nil {
		t.Fatal(err)
	}
	f.cart.SetPayingAmount(120)

	result, err := f.dispatcher.StartPayment(context.Background(), "")
	if err != nil {
		t.Fatalf("StartPayment: %v", err)
	}
	if result.State != enum.DispatchStateSucceeded {
		t.Fatalf("state = %v", result.State)
	}

	bill := f.backend.bills[0]
	if !almostEqual(bill.PayingAmount, 120) {
		t.Errorf("paying amount = %v, want 120", bill.PayingAmount)
	}
	if !almostEqual(bill.RemainingAmount, 180) {
		t.Errorf("remaining amount = %v, want 180", bill.RemainingAmount)
	}
}
