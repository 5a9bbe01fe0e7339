package booking

import (
	"context"
	"fmt"
	"math"
	"strings"

	"carebook/config"
	"carebook/models"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
)

// StripeCheckoutProvider implements PaymentProvider over Stripe hosted
// Checkout Sessions. The global stripe.Key is set from config in main.
type StripeCheckoutProvider struct {
	SuccessURL string
	CancelURL  string
}

// NewStripeCheckoutProvider builds a provider using the configured redirect URLs.
func NewStripeCheckoutProvider() *StripeCheckoutProvider {
	return &StripeCheckoutProvider{
		SuccessURL: config.AppConfig.CheckoutSuccessURL,
		CancelURL:  config.AppConfig.CheckoutCancelURL,
	}
}

// CreatePaymentIntent creates one Checkout Session for the booking and
// returns its hosted URL. Stripe wants amounts in the currency's minor unit.
func (p *StripeCheckoutProvider) CreatePaymentIntent(ctx context.Context, req models.PaymentRequest) (string, error) {
	minorUnits := int64(math.Round(req.Amount * 100))
	if minorUnits <= 0 {
		return "", fmt.Errorf("amount %v rounds to zero %s", req.Amount, req.Currency)
	}

	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		ClientReferenceID: stripe.String(req.BookingID),
		SuccessURL:        stripe.String(p.SuccessURL),
		CancelURL:         stripe.String(p.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(strings.ToLower(req.Currency)),
					UnitAmount: stripe.Int64(minorUnits),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(fmt.Sprintf("Carebook booking %s", req.BookingID)),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	params.Context = ctx

	sess, err := session.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe checkout session creation failed: %w", err)
	}
	return sess.URL, nil
}
