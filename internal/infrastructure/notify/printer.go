package notify

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopmitra/billing-api/internal/domain/entity"
	"github.com/shopmitra/billing-api/internal/domain/port"
	"github.com/shopmitra/billing-api/pkg/printer"
)

// PrinterNotifier prints a receipt on the terminal's thermal printer
// after a bill settles.
type PrinterNotifier struct {
	printer printer.Printer
	width   int
	log     zerolog.Logger
}

var _ port.ReceiptNotifier = (*PrinterNotifier)(nil)

// NewPrinterNotifier creates a printing notifier. width is the paper
// width in characters (32 for 58mm, 48 for 80mm).
func NewPrinterNotifier(p printer.Printer, width int, log zerolog.Logger) *PrinterNotifier {
	if width <= 0 {
		width = 32
	}
	return &PrinterNotifier{
		printer: p,
		width:   width,
		log:     log.With().Str("component", "printer").Logger(),
	}
}

// Notify renders the receipt to ESC/POS and sends it to the printer.
func (n *PrinterNotifier) Notify(_ context.Context, receipt *entity.Receipt) error {
	data := FormatReceipt(receipt, n.width)
	if err := n.printer.Print(data); err != nil {
		return fmt.Errorf("printing receipt %s: %w", receipt.InvoiceNo, err)
	}
	n.log.Info().Str("invoice_no", receipt.InvoiceNo).Msg("receipt printed")
	return nil
}

// FormatReceipt converts a Receipt into ESC/POS bytes.
func FormatReceipt(r *entity.Receipt, width int) []byte {
	doc := printer.NewDocument(width)

	// Header
	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		Text(r.Header.ShopName).
		SetFontSize(printer.FontNormal).
		SetBold(false)

	if r.Header.Address != "" {
		doc.Text(r.Header.Address)
	}
	if r.Header.Phone != "" {
		doc.Text(r.Header.Phone)
	}
	if r.Header.GSTIN != "" {
		doc.TextF("GSTIN: %s", r.Header.GSTIN)
	}

	doc.SetAlign(printer.AlignLeft).
		Separator('-')

	doc.KeyValue("Invoice:", r.InvoiceNo).
		KeyValue("Date:", r.Date)

	if r.Customer != "" {
		doc.KeyValue("Customer:", r.Customer)
	}
	if r.PaymentMethod != "" {
		doc.KeyValue("Payment:", r.PaymentMethod)
	}

	doc.Separator('-')

	for _, item := range r.Items {
		doc.ItemLine(item.Quantity, item.Name, fmt.Sprintf("%.2f", item.Total))
		if item.Quantity > 1 {
			doc.TextF("  @ %.2f each", item.UnitPrice)
		}
	}

	doc.Separator('-')

	doc.KeyValue("Subtotal:", fmt.Sprintf("%.2f", r.SubTotal))
	if len(r.TaxLines) > 0 {
		for _, tl := range r.TaxLines {
			doc.KeyValue(tl.Label+":", fmt.Sprintf("%.2f", tl.Amount))
		}
	} else if r.Tax > 0 {
		doc.KeyValue("GST:", fmt.Sprintf("%.2f", r.Tax))
	}
	doc.SetBold(true).
		KeyValue("TOTAL:", fmt.Sprintf("%.2f", r.Total)).
		SetBold(false)

	if r.Paid > 0 {
		doc.KeyValue("Paid:", fmt.Sprintf("%.2f", r.Paid))
	}
	if r.Due > 0 {
		doc.KeyValue("Due:", fmt.Sprintf("%.2f", r.Due))
	}

	doc.Separator('-')

	doc.SetAlign(printer.AlignCenter).
		LineFeed().
		Text("Thank you for your business!").
		LineFeed().
		SetAlign(printer.AlignLeft)

	doc.FeedLines(3).
		PartialCut()

	return doc.Bytes()
}
