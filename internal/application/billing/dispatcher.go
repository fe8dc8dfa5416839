package billing

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopmitra/billing-api/internal/domain/entity"
	"github.com/shopmitra/billing-api/internal/domain/enum"
	"github.com/shopmitra/billing-api/internal/domain/port"
	"github.com/shopmitra/billing-api/pkg/apperror"
)

// Dispatcher errors
var (
	ErrNoCustomer          = apperror.NewBadRequestError("Select a customer before billing")
	ErrEmptyCart           = apperror.NewBadRequestError("Cart is empty")
	ErrInvalidLines        = apperror.NewBadRequestError("Cart has lines with invalid price or tax values")
	ErrInvalidPayingAmount = apperror.NewBadRequestError("Paying amount must be greater than zero and must not exceed the bill total")
	ErrNothingToCollect    = apperror.NewBadRequestError("Amount to collect must be greater than zero")
	ErrNoPendingPayment    = apperror.NewConflictError("No payment is awaiting checkout")
	ErrOrderMismatch       = apperror.NewConflictError("Checkout response does not match the pending payment")
)

// PaymentResult reports the outcome of a dispatcher step. Invoice is set
// on a settled bill; Checkout is set when a hosted checkout must be
// opened and the flow continues through the callbacks.
type PaymentResult struct {
	State    enum.DispatchState      `json:"state"`
	Invoice  *entity.InvoiceRef      `json:"invoice,omitempty"`
	Checkout *entity.CheckoutParams  `json:"checkout,omitempty"`
	Intent   *entity.PaymentIntent   `json:"intent,omitempty"`
}

// Dispatcher drives one payment attempt for one cart. Cash and UPI
// settle directly; card runs the two-phase gateway flow (create remote
// order, wait for the hosted checkout's callback, then settle with the
// signed triple). A failure at any step leaves the cart untouched so the
// attempt can be retried.
type Dispatcher struct {
	cart      *Cart
	agg       *Aggregator
	gateway   port.PaymentGateway
	submitter *Submitter
	currency  string
	log       zerolog.Logger

	state   enum.DispatchState
	intent  *entity.PaymentIntent
	lastErr string
}

// NewDispatcher creates a payment dispatcher for one cart.
func NewDispatcher(cart *Cart, agg *Aggregator, gateway port.PaymentGateway, submitter *Submitter, currency string, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		cart:      cart,
		agg:       agg,
		gateway:   gateway,
		submitter: submitter,
		currency:  currency,
		log:       log.With().Str("component", "dispatcher").Logger(),
		state:     enum.DispatchStateIdle,
	}
}

// State returns the resting state of the machine: idle between attempts,
// gateway_pending while a hosted checkout is open.
func (d *Dispatcher) State() enum.DispatchState {
	return d.state
}

// LastError returns the user-facing message from the most recent failed
// attempt, or empty.
func (d *Dispatcher) LastError() string {
	return d.lastErr
}

// Intent returns the pending payment intent, or nil.
func (d *Dispatcher) Intent() *entity.PaymentIntent {
	return d.intent
}

// StartPayment begins a payment attempt for the cart's current method.
// Starting while a previous checkout is still open abandons that intent:
// intents are single-use and a retry always creates a fresh gateway
// order.
func (d *Dispatcher) StartPayment(ctx context.Context, remarks string) (*PaymentResult, error) {
	if d.state == enum.DispatchStateGatewayPending {
		d.log.Warn().Str("gateway_order_id", d.intent.GatewayOrderID).Msg("abandoning pending checkout for a new attempt")
		d.intent = nil
		d.state = enum.DispatchStateIdle
	}

	d.state = enum.DispatchStateValidating
	totals, err := d.validate()
	if err != nil {
		return nil, d.fail(err)
	}

	method := d.cart.PaymentMethod()
	if !method.RequiresGateway() {
		d.state = enum.DispatchStateDirectSubmit
		return d.settle(ctx, nil, remarks)
	}

	amountToPay := totals.PayingAmount
	if amountToPay <= 0 {
		return nil, d.fail(ErrNothingToCollect)
	}

	intent := &entity.PaymentIntent{
		ID:        uuid.New(),
		Method:    method,
		Amount:    amountToPay,
		CreatedAt: time.Now(),
	}

	order, err := d.gateway.CreateOrder(ctx, port.GatewayOrderRequest{
		AmountMinor: int64(math.Round(amountToPay * 100)),
		Currency:    d.currency,
		Receipt:     intent.ID.String(),
	})
	if err != nil {
		return nil, d.fail(err)
	}

	intent.GatewayOrderID = order.ID
	d.intent = intent
	d.state = enum.DispatchStateGatewayPending
	d.lastErr = ""
	d.log.Info().
		Str("gateway_order_id", order.ID).
		Float64("amount", amountToPay).
		Msg("gateway order created, awaiting checkout")

	checkout := &entity.CheckoutParams{
		KeyID:       d.gateway.KeyID(),
		OrderID:     order.ID,
		AmountMinor: order.AmountMinor,
		Currency:    order.Currency,
	}
	if cust := d.cart.Customer(); cust != nil {
		checkout.Prefill = entity.CheckoutPrefill{
			Name:  cust.Name,
			Phone: cust.Phone,
			Email: cust.Email,
		}
	}
	return &PaymentResult{State: d.state, Checkout: checkout, Intent: intent}, nil
}

// HandleCheckoutSuccess consumes the hosted checkout's success callback.
// The signed triple is forwarded to the backend for verification; the
// callback alone is never treated as proof of payment. The pending
// intent is consumed first, so a duplicate callback from the checkout
// widget is rejected instead of settling twice.
func (d *Dispatcher) HandleCheckoutSuccess(ctx context.Context, conf *entity.PaymentConfirmation) (*PaymentResult, error) {
	if d.state != enum.DispatchStateGatewayPending || d.intent == nil {
		return nil, ErrNoPendingPayment
	}
	if conf.OrderID != d.intent.GatewayOrderID {
		return nil, ErrOrderMismatch
	}
	d.intent = nil
	return d.settle(ctx, conf, "")
}

// HandleCheckoutFailure consumes the hosted checkout's failure callback,
// including the operator simply closing the checkout. The cart is left
// untouched and the machine returns to idle so the attempt can be
// retried without re-entering items.
func (d *Dispatcher) HandleCheckoutFailure(description string) error {
	if d.state != enum.DispatchStateGatewayPending || d.intent == nil {
		return ErrNoPendingPayment
	}
	if description == "" {
		description = "Payment was not completed"
	}
	d.log.Warn().Str("gateway_order_id", d.intent.GatewayOrderID).Str("reason", description).Msg("checkout failed")
	d.intent = nil
	d.lastErr = description
	d.state = enum.DispatchStateIdle
	return nil
}

func (d *Dispatcher) validate() (*Totals, error) {
	if d.cart.Customer() == nil {
		return nil, ErrNoCustomer
	}
	if d.cart.IsEmpty() {
		return nil, ErrEmptyCart
	}
	totals := d.agg.Totals(d.cart)
	if totals.HasInvalidLines {
		return nil, ErrInvalidLines
	}
	if _, manual := d.cart.PayingAmount(); manual {
		if totals.PayingAmount <= 0 || totals.PayingAmount > totals.SellingSubtotal {
			return nil, ErrInvalidPayingAmount
		}
	}
	return totals, nil
}

// settle hands the bill to the submission coordinator. This is the only
// path to a submission, and it is reachable only after validation (and,
// for card, only with the gateway's signed triple in hand).
func (d *Dispatcher) settle(ctx context.Context, conf *entity.PaymentConfirmation, remarks string) (*PaymentResult, error) {
	d.state = enum.DispatchStateSettling
	invoice, err := d.submitter.Submit(ctx, d.cart, conf, remarks)
	if err != nil {
		return nil, d.fail(err)
	}
	d.lastErr = ""
	d.state = enum.DispatchStateIdle
	return &PaymentResult{State: enum.DispatchStateSucceeded, Invoice: invoice}, nil
}

// fail records the failure and returns the machine to idle with the
// cart preserved.
func (d *Dispatcher) fail(err error) error {
	d.lastErr = apperror.GetAppError(err).Message
	d.state = enum.DispatchStateIdle
	return err
}
