package email

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
)

// EmailConfig holds SMTP configuration
type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromName     string
	FromEmail    string
}

// EmailService handles email sending
type EmailService struct {
	config EmailConfig
}

// NewEmailService creates a new email service
func NewEmailService(config EmailConfig) *EmailService {
	return &EmailService{config: config}
}

// InvoiceEmailItem is one bill line in the invoice email.
type InvoiceEmailItem struct {
	Name     string
	Quantity int
	Total    string
}

// InvoiceEmailData carries everything the invoice email template needs.
type InvoiceEmailData struct {
	ShopName  string
	Customer  string
	InvoiceNo string
	Date      string
	Items     []InvoiceEmailItem
	SubTotal  string
	Tax       string
	Total     string
	Paid      string
	Due       string
}

// SendInvoiceEmail sends the invoice summary for a settled bill.
func (s *EmailService) SendInvoiceEmail(toEmail string, data InvoiceEmailData) error {
	htmlContent, err := s.renderInvoiceEmail(data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	subject := fmt.Sprintf("Invoice %s - %s", data.InvoiceNo, data.ShopName)
	message := s.buildHTMLEmail(toEmail, subject, htmlContent)

	return s.sendEmail(toEmail, message)
}

// sendEmail sends an email using SMTP
func (s *EmailService) sendEmail(to string, message []byte) error {
	addr := fmt.Sprintf("%s:%d", s.config.SMTPHost, s.config.SMTPPort)

	auth := smtp.PlainAuth("", s.config.SMTPUsername, s.config.SMTPPassword, s.config.SMTPHost)

	if err := smtp.SendMail(addr, auth, s.config.FromEmail, []string{to}, message); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

// buildHTMLEmail builds an HTML email message
func (s *EmailService) buildHTMLEmail(to, subject, htmlBody string) []byte {
	headers := fmt.Sprintf(
		"From: %s <%s>\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=\"UTF-8\"\r\n"+
			"\r\n",
		s.config.FromName,
		s.config.FromEmail,
		to,
		subject,
	)
	return append([]byte(headers), []byte(htmlBody)...)
}

var invoiceTemplate = template.Must(template.New("invoice").Parse(`
<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333; max-width: 560px; margin: 0 auto;">
  <h2 style="margin-bottom: 0;">{{.ShopName}}</h2>
  <p style="margin-top: 4px; color: #777;">Invoice {{.InvoiceNo}} &middot; {{.Date}}</p>
  {{if .Customer}}<p>Billed to: <strong>{{.Customer}}</strong></p>{{end}}
  <table width="100%" cellpadding="6" cellspacing="0" style="border-collapse: collapse;">
    <tr style="border-bottom: 1px solid #ddd; text-align: left;">
      <th>Item</th><th>Qty</th><th style="text-align: right;">Amount</th>
    </tr>
    {{range .Items}}
    <tr style="border-bottom: 1px solid #eee;">
      <td>{{.Name}}</td><td>{{.Quantity}}</td><td style="text-align: right;">{{.Total}}</td>
    </tr>
    {{end}}
    <tr><td colspan="2">Subtotal (ex. tax)</td><td style="text-align: right;">{{.SubTotal}}</td></tr>
    <tr><td colspan="2">Tax</td><td style="text-align: right;">{{.Tax}}</td></tr>
    <tr style="font-weight: bold;"><td colspan="2">Total</td><td style="text-align: right;">{{.Total}}</td></tr>
    <tr><td colspan="2">Paid</td><td style="text-align: right;">{{.Paid}}</td></tr>
    {{if .Due}}<tr><td colspan="2">Balance due</td><td style="text-align: right;">{{.Due}}</td></tr>{{end}}
  </table>
  <p style="color: #777; margin-top: 24px;">Thank you for your business!</p>
</body>
</html>`))

func (s *EmailService) renderInvoiceEmail(data InvoiceEmailData) (string, error) {
	var buf bytes.Buffer
	if err := invoiceTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
