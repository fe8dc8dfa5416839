package billing

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopmitra/billing-api/internal/domain/entity"
	"github.com/shopmitra/billing-api/internal/domain/port"
)

const notifyTimeout = 15 * time.Second

// ShopInfo identifies the shop on receipts and fixes its GST
// jurisdiction.
type ShopInfo struct {
	Name    string
	Address string
	Phone   string
	GSTIN   string
	State   string
}

// Submitter serializes a finalized bill to the shop backend exactly once
// per successful payment event. On success it clears the cart, keeps the
// invoice reference, and hands a receipt snapshot to the notifiers.
type Submitter struct {
	backend   port.BillingBackend
	agg       *Aggregator
	shop      ShopInfo
	notifiers []port.ReceiptNotifier
	log       zerolog.Logger

	lastInvoice *entity.InvoiceRef
}

// NewSubmitter creates a submission coordinator.
func NewSubmitter(backend port.BillingBackend, agg *Aggregator, shop ShopInfo, log zerolog.Logger, notifiers ...port.ReceiptNotifier) *Submitter {
	return &Submitter{
		backend:   backend,
		agg:       agg,
		shop:      shop,
		notifiers: notifiers,
		log:       log.With().Str("component", "submitter").Logger(),
	}
}

// Submit posts the bill built from the cart's current contents. conf is
// nil for cash/UPI and carries the signed checkout triple for card. On
// failure the cart is left untouched so the operator can retry; on
// success the cart is cleared and the invoice reference retained.
func (s *Submitter) Submit(ctx context.Context, cart *Cart, conf *entity.PaymentConfirmation, remarks string) (*entity.InvoiceRef, error) {
	payload := s.buildPayload(cart, conf, remarks)

	invoice, err := s.backend.SubmitBill(ctx, payload)
	if err != nil {
		s.log.Error().Err(err).Str("method", payload.PaymentMethod).Msg("bill submission failed")
		return nil, err
	}

	// Snapshot the receipt before the cart is gone.
	receipt := s.buildReceipt(cart, payload, invoice)

	cart.Clear()
	s.lastInvoice = invoice
	s.log.Info().
		Str("invoice_no", invoice.InvoiceNumber).
		Float64("paid", invoice.PaidAmount).
		Msg("bill submitted")

	s.dispatchReceipt(receipt)

	return invoice, nil
}

// LastInvoice returns the invoice reference from the most recent
// successful submission, or nil.
func (s *Submitter) LastInvoice() *entity.InvoiceRef {
	return s.lastInvoice
}

// ResetLastInvoice discards the retained invoice reference when a new
// bill starts.
func (s *Submitter) ResetLastInvoice() {
	s.lastInvoice = nil
}

// buildPayload assembles the submission payload, recomputing each line's
// discount from the list/selling ratio rather than trusting the stored
// discount field.
func (s *Submitter) buildPayload(cart *Cart, conf *entity.PaymentConfirmation, remarks string) *entity.BillPayload {
	totals := s.agg.Totals(cart)

	items := make([]entity.BillLine, 0, len(cart.Items()))
	for _, li := range cart.Items() {
		items = append(items, entity.BillLine{
			ProductID:       li.ProductID,
			Name:            li.Name,
			Quantity:        li.Quantity,
			ListPrice:       li.ListPrice,
			SellingPrice:    li.SellingPrice,
			DiscountPercent: li.EffectiveDiscountPercent(),
			TaxPercent:      li.TaxPercent,
			Total:           li.LineTotal(),
			Details:         li.Details,
		})
	}

	remaining := totals.DueAmount
	if remaining < 0 {
		remaining = 0
	}

	payload := &entity.BillPayload{
		Items:           items,
		SellingSubtotal: totals.SellingSubtotal,
		DiscountPercent: totals.DiscountPercent,
		Tax:             totals.TotalTax,
		TaxBreakdown:    totals.TaxBreakdown,
		PaymentMethod:   cart.PaymentMethod().String(),
		Remarks:         remarks,
		PayingAmount:    totals.PayingAmount,
		RemainingAmount: remaining,
		Gateway:         conf,
	}
	if cust := cart.Customer(); cust != nil {
		payload.CustomerID = cust.ID
	}
	return payload
}

func (s *Submitter) buildReceipt(cart *Cart, payload *entity.BillPayload, invoice *entity.InvoiceRef) *entity.Receipt {
	receipt := &entity.Receipt{
		Header: entity.ReceiptHeader{
			ShopName: s.shop.Name,
			Address:  s.shop.Address,
			Phone:    s.shop.Phone,
			GSTIN:    s.shop.GSTIN,
		},
		InvoiceNo:     invoice.InvoiceNumber,
		Date:          time.Now().Format("02/01/2006 15:04"),
		PaymentMethod: payload.PaymentMethod,
		SubTotal:      payload.SellingSubtotal - payload.Tax,
		Tax:           payload.Tax,
		Total:         payload.SellingSubtotal,
		Paid:          invoice.PaidAmount,
		Due:           payload.RemainingAmount,
	}
	if cust := cart.Customer(); cust != nil {
		receipt.Customer = cust.Name
		receipt.CustomerEmail = cust.Email
	}
	for _, it := range payload.Items {
		receipt.Items = append(receipt.Items, entity.ReceiptItem{
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: it.SellingPrice,
			Total:     it.Total,
		})
	}
	for label, amount := range payload.TaxBreakdown {
		receipt.TaxLines = append(receipt.TaxLines, entity.TaxLine{Label: label, Amount: amount})
	}
	sort.Slice(receipt.TaxLines, func(i, j int) bool {
		return receipt.TaxLines[i].Label < receipt.TaxLines[j].Label
	})
	return receipt
}

// dispatchReceipt fans the receipt out to the notifiers without blocking
// the payment response. Notifier failures are logged, never surfaced.
func (s *Submitter) dispatchReceipt(receipt *entity.Receipt) {
	for _, n := range s.notifiers {
		go func(n port.ReceiptNotifier) {
			ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
			defer cancel()
			if err := n.Notify(ctx, receipt); err != nil {
				s.log.Warn().Err(err).Str("invoice_no", receipt.InvoiceNo).Msg("receipt notification failed")
			}
		}(n)
	}
}
