package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
)

func init() {
	// Amounts go over the wire as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// PaymentMethod is how the donor paid
type PaymentMethod string

const (
	PaymentMethodStripe       PaymentMethod = "stripe"
	PaymentMethodPaypal       PaymentMethod = "paypal"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
)

// Valid reports whether m is a supported payment method
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodStripe, PaymentMethodPaypal, PaymentMethodBankTransfer:
		return true
	}
	return false
}

// DonationStatus is the payment state of a donation
type DonationStatus string

const (
	DonationPending   DonationStatus = "pending"
	DonationCompleted DonationStatus = "completed"
	DonationFailed    DonationStatus = "failed"
	DonationRefunded  DonationStatus = "refunded"
)

// MinDonationAmount is the smallest accepted donation
var MinDonationAmount = decimal.NewFromInt(1)

// MaxDonationAmount is the largest value a numeric(14,2) amount column holds
var MaxDonationAmount = decimal.RequireFromString("999999999999.99")

// AmountPlaces is the number of decimal places an amount is stored with
const AmountPlaces = 2

// DefaultCurrency is used when no currency is configured
const DefaultCurrency = "USD"

// Donor is a snapshot of who gave, copied onto the donation
type Donor struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Anonymous bool   `json:"anonymous"`
}

// Donation represents one donation attempt
type Donation struct {
	ID            uuid.UUID       `json:"id"`
	Donor         Donor           `json:"donor"`
	CharityID     uuid.UUID       `json:"charityId"`
	Charity       *Charity        `json:"charity,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	PaymentMethod PaymentMethod   `json:"paymentMethod"`
	PaymentID     null.String     `json:"paymentId"`
	Status        DonationStatus  `json:"status"`
	ReceiptSent   bool            `json:"receiptSent"`
	ReceiptNumber string          `json:"receiptNumber"`
	Message       null.String     `json:"message"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// CreateDonationInput is the donation form payload. Amount accepts both JSON
// numbers and numeric strings.
type CreateDonationInput struct {
	CharityID     string          `json:"charityId"`
	Amount        decimal.Decimal `json:"amount"`
	Donor         Donor           `json:"donor"`
	PaymentMethod PaymentMethod   `json:"paymentMethod"`
	PaymentToken  string          `json:"paymentToken"`
	Message       string          `json:"message"`
}

// CreateDonationResult is returned after a donation is recorded
type CreateDonationResult struct {
	Success       bool      `json:"success"`
	Donation      *Donation `json:"donation"`
	ReceiptNumber string    `json:"receiptNumber"`
}

// DonationFilter narrows donation listings. Zero values are ignored.
type DonationFilter struct {
	CharityID  *uuid.UUID
	DonorEmail string
	StartDate  *time.Time
	EndDate    *time.Time
}

// CharityAggregate is the recomputed total/count of completed donations for a charity
type CharityAggregate struct {
	CharityID uuid.UUID
	Total     decimal.Decimal
	Count     int64
}

// Summary is the admin dashboard snapshot
type Summary struct {
	UsersCount     int64           `json:"usersCount"`
	CharitiesCount int64           `json:"charitiesCount"`
	DonationsCount int64           `json:"donationsCount"`
	TotalDonated   decimal.Decimal `json:"totalDonated"`
}
