package notification

import (
	"bytes"
	"fmt"
	"html/template"

	"donation-platform.backend/internal/domain/entities"
)

var receiptTemplate = template.Must(template.New("receipt").Parse(`<h1>Thank You for Your Donation!</h1>
<p>Dear {{.DonorName}},</p>
<p>Thank you for your generous donation to {{.CharityName}}.</p>
<div style="background: #f8f9fa; padding: 20px; margin: 20px 0;">
  <h3>Donation Details:</h3>
  <p><strong>Receipt Number:</strong> {{.ReceiptNumber}}</p>
  <p><strong>Amount:</strong> ${{.Amount}} {{.Currency}}</p>
  <p><strong>Date:</strong> {{.Date}}</p>
  <p><strong>Charity:</strong> {{.CharityName}}</p>
  <p><strong>Payment Method:</strong> {{.PaymentMethod}}</p>
  {{- if .Message}}
  <p><strong>Message:</strong> {{.Message}}</p>
  {{- end}}
</div>
<p>This receipt may be used for tax purposes.</p>
<p>Thank you for making a difference!</p>
<p>Sincerely,<br>The Donation Platform Team</p>
`))

// Receipt is a rendered receipt email
type Receipt struct {
	To      string
	Subject string
	HTML    []byte
}

// RenderReceipt builds the receipt email for a completed donation.
func RenderReceipt(d *entities.Donation, charityName string) (*Receipt, error) {
	var buf bytes.Buffer
	err := receiptTemplate.Execute(&buf, struct {
		DonorName     string
		CharityName   string
		ReceiptNumber string
		Amount        string
		Currency      string
		Date          string
		PaymentMethod string
		Message       string
	}{
		DonorName:     d.Donor.Name,
		CharityName:   charityName,
		ReceiptNumber: d.ReceiptNumber,
		Amount:        d.Amount.StringFixed(2),
		Currency:      d.Currency,
		Date:          d.CreatedAt.Format("January 2, 2006"),
		PaymentMethod: string(d.PaymentMethod),
		Message:       d.Message.String,
	})
	if err != nil {
		return nil, fmt.Errorf("render receipt: %w", err)
	}

	return &Receipt{
		To:      d.Donor.Email,
		Subject: "Donation Receipt - " + d.ReceiptNumber,
		HTML:    buf.Bytes(),
	}, nil
}
