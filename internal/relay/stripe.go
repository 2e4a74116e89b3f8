package relay

import (
	"context"
	"errors"
	"fmt"

	stripe "github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/client"
)

// stripeAPIVersion is pinned so the ephemeral key stays compatible with the
// mobile SDK consuming it.
const stripeAPIVersion = "2024-06-20"

// SheetParams are the credentials a client needs to show a payment sheet.
type SheetParams struct {
	PaymentIntent  string `json:"paymentIntent"`
	EphemeralKey   string `json:"ephemeralKey"`
	Customer       string `json:"customer"`
	PublishableKey string `json:"publishableKey"`
}

// SheetMinter obtains payment-sheet credentials from the payment provider.
type SheetMinter interface {
	MintPaymentSheet(ctx context.Context, amountCents int64, currency string) (*SheetParams, error)
}

// StripeMinter mints credentials against the Stripe API: a fresh customer, an
// ephemeral key scoped to that customer, and a payment intent for the amount.
type StripeMinter struct {
	api            *client.API
	publishableKey string
}

func NewStripeMinter(secretKey, publishableKey string) (*StripeMinter, error) {
	if secretKey == "" {
		return nil, errors.New("stripe secret key is required")
	}
	if publishableKey == "" {
		return nil, errors.New("stripe publishable key is required")
	}
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeMinter{api: api, publishableKey: publishableKey}, nil
}

func (m *StripeMinter) MintPaymentSheet(ctx context.Context, amountCents int64, currency string) (*SheetParams, error) {
	customerParams := &stripe.CustomerParams{}
	customerParams.Context = ctx
	customer, err := m.api.Customers.New(customerParams)
	if err != nil {
		return nil, providerError("create customer", err)
	}

	keyParams := &stripe.EphemeralKeyParams{
		Customer:      stripe.String(customer.ID),
		StripeVersion: stripe.String(stripeAPIVersion),
	}
	keyParams.Context = ctx
	ephemeralKey, err := m.api.EphemeralKeys.New(keyParams)
	if err != nil {
		return nil, providerError("create ephemeral key", err)
	}

	intentParams := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountCents),
		Currency: stripe.String(currency),
		Customer: stripe.String(customer.ID),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	intentParams.Context = ctx
	intent, err := m.api.PaymentIntents.New(intentParams)
	if err != nil {
		return nil, providerError("create payment intent", err)
	}

	return &SheetParams{
		PaymentIntent:  intent.ClientSecret,
		EphemeralKey:   ephemeralKey.Secret,
		Customer:       customer.ID,
		PublishableKey: m.publishableKey,
	}, nil
}

// providerError keeps Stripe's own message when one exists so the relay can
// pass it through to the caller.
func providerError(op string, err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) && stripeErr.Msg != "" {
		return fmt.Errorf("%s: %s", op, stripeErr.Msg)
	}
	return fmt.Errorf("%s: %w", op, err)
}
