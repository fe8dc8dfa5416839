package notify

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopmitra/billing-api/internal/domain/entity"
	"github.com/shopmitra/billing-api/internal/domain/port"
	"github.com/shopmitra/billing-api/pkg/email"
)

// EmailNotifier mails the invoice summary to the customer after a bill
// settles. Customers without an email address are skipped silently.
type EmailNotifier struct {
	svc *email.EmailService
	log zerolog.Logger
}

var _ port.ReceiptNotifier = (*EmailNotifier)(nil)

// NewEmailNotifier creates an emailing notifier.
func NewEmailNotifier(svc *email.EmailService, log zerolog.Logger) *EmailNotifier {
	return &EmailNotifier{
		svc: svc,
		log: log.With().Str("component", "email").Logger(),
	}
}

// Notify sends the invoice email.
func (n *EmailNotifier) Notify(_ context.Context, receipt *entity.Receipt) error {
	if receipt.CustomerEmail == "" {
		return nil
	}

	data := email.InvoiceEmailData{
		ShopName:  receipt.Header.ShopName,
		Customer:  receipt.Customer,
		InvoiceNo: receipt.InvoiceNo,
		Date:      receipt.Date,
		SubTotal:  fmt.Sprintf("%.2f", receipt.SubTotal),
		Tax:       fmt.Sprintf("%.2f", receipt.Tax),
		Total:     fmt.Sprintf("%.2f", receipt.Total),
		Paid:      fmt.Sprintf("%.2f", receipt.Paid),
	}
	if receipt.Due > 0 {
		data.Due = fmt.Sprintf("%.2f", receipt.Due)
	}
	for _, it := range receipt.Items {
		data.Items = append(data.Items, email.InvoiceEmailItem{
			Name:     it.Name,
			Quantity: it.Quantity,
			Total:    fmt.Sprintf("%.2f", it.Total),
		})
	}

	if err := n.svc.SendInvoiceEmail(receipt.CustomerEmail, data); err != nil {
		return err
	}
	n.log.Info().Str("invoice_no", receipt.InvoiceNo).Str("to", receipt.CustomerEmail).Msg("invoice email sent")
	return nil
}
