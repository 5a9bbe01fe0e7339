package models

import "time"

// PaymentIntentStatus is the lifecycle position of a payment intent.
type PaymentIntentStatus string

const (
	PaymentUninitiated PaymentIntentStatus = "uninitiated"
	PaymentPending     PaymentIntentStatus = "pending"
	PaymentSucceeded   PaymentIntentStatus = "succeeded"
	PaymentFailed      PaymentIntentStatus = "failed"
)

// MaxPaymentRetries caps manual retries after provider failures. Beyond this
// the intent is terminal until the booking id changes.
const MaxPaymentRetries = 3

// PaymentIntentState tracks at-most-once payment-intent issuance for one
// booking. Owned by the flow that initiated the booking, never module-global.
type PaymentIntentState struct {
	BookingID   string              `json:"bookingId"`
	Amount      float64             `json:"amount"`
	Status      PaymentIntentStatus `json:"status"`
	RetryCount  int                 `json:"retryCount"`
	CheckoutURL string              `json:"checkoutUrl,omitempty"`
	LastError   string              `json:"lastError,omitempty"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

// Terminal reports whether the intent can make no further provider calls.
func (s PaymentIntentState) Terminal() bool {
	return s.Status == PaymentSucceeded ||
		(s.Status == PaymentFailed && s.RetryCount >= MaxPaymentRetries)
}

// PaymentRequest is the outbound shape handed to the payment provider adapter.
type PaymentRequest struct {
	BookingID string  `json:"bookingId"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	Method    string  `json:"method"`
}

// CheckoutOutcome is the caller-facing result of the payment gate.
type CheckoutOutcome struct {
	Succeeded   bool   `json:"succeeded"`
	CheckoutURL string `json:"checkoutUrl,omitempty"`
	Reason      string `json:"reason,omitempty"`
	// Retryable distinguishes "Try again" from "Refresh page" affordances.
	Retryable bool `json:"retryable"`
}
