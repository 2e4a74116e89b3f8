package checkout

import (
	"math"

	"github.com/google/uuid"
)

// SheetParams are the secrets minted by the payment relay for one checkout
// attempt. All four fields come back from POST /payment-sheet.
type SheetParams struct {
	PaymentIntentSecret string `json:"paymentIntent"`
	EphemeralKeySecret  string `json:"ephemeralKey"`
	CustomerID          string `json:"customer"`
	PublishableKey      string `json:"publishableKey"`
}

// Session is one checkout attempt. It is created when initialization starts
// and discarded on completion, failure, or navigation away. The amount is
// captured once from the cart total at initialization time; it is not
// refreshed if the cart changes afterwards.
type Session struct {
	ID          string
	AmountCents int64
	Currency    string
	Params      SheetParams
}

func newSession(amountCents int64, currency string) *Session {
	return &Session{
		ID:          uuid.New().String(),
		AmountCents: amountCents,
		Currency:    currency,
	}
}

// MinorUnits converts a decimal amount to integer minor currency units
// (cents for USD), rounding half away from zero.
func MinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
