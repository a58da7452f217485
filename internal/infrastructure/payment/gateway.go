package payment

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// ErrGatewayDisabled is returned by Charge when no processor is configured.
var ErrGatewayDisabled = errors.New("payment gateway not configured")

// ChargeRequest describes a single card charge
type ChargeRequest struct {
	Amount      decimal.Decimal
	Currency    string
	Token       string
	Description string
	CharityID   string
	DonorEmail  string
}

// Gateway charges a donor through an external processor and returns the
// processor's payment id.
type Gateway interface {
	Enabled() bool
	Charge(ctx context.Context, req ChargeRequest) (string, error)
}

// Disabled is the gateway used when no processor key is configured.
type Disabled struct{}

func (Disabled) Enabled() bool { return false }

func (Disabled) Charge(context.Context, ChargeRequest) (string, error) {
	return "", ErrGatewayDisabled
}

// New returns a Stripe gateway when secretKey is set, otherwise Disabled.
func New(secretKey string) Gateway {
	if secretKey == "" {
		return Disabled{}
	}
	return NewStripeGateway(secretKey)
}
