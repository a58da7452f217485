package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"go.uber.org/zap"

	"donation-platform.backend/pkg/logger"
)

var createPaymentIntent = func(api *client.API, params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
	return api.PaymentIntents.New(params)
}

// StripeGateway charges through Stripe payment intents, confirmed immediately.
type StripeGateway struct {
	api *client.API
}

func NewStripeGateway(secretKey string) *StripeGateway {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeGateway{api: api}
}

func (g *StripeGateway) Enabled() bool { return true }

func (g *StripeGateway) Charge(ctx context.Context, req ChargeRequest) (string, error) {
	if req.Token == "" {
		return "", errors.New("missing payment token")
	}
	cents := req.Amount.Shift(2).Round(0).IntPart()
	if cents <= 0 {
		return "", errors.New("amount must be positive")
	}

	params := &stripe.PaymentIntentParams{
		Amount:        stripe.Int64(cents),
		Currency:      stripe.String(strings.ToLower(req.Currency)),
		PaymentMethod: stripe.String(req.Token),
		Confirm:       stripe.Bool(true),
		Description:   stripe.String(req.Description),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled:        stripe.Bool(true),
			AllowRedirects: stripe.String("never"),
		},
	}
	params.Context = ctx
	params.AddMetadata("charityId", req.CharityID)
	params.AddMetadata("donorEmail", req.DonorEmail)

	intent, err := createPaymentIntent(g.api, params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.Msg != "" {
			return "", errors.New(stripeErr.Msg)
		}
		return "", err
	}

	switch intent.Status {
	case stripe.PaymentIntentStatusSucceeded, stripe.PaymentIntentStatusProcessing:
		return intent.ID, nil
	default:
		logger.Warn(ctx, "Payment intent not settled", zap.String("payment_id", intent.ID), zap.String("status", string(intent.Status)))
		return "", fmt.Errorf("payment not completed: %s", intent.Status)
	}
}
