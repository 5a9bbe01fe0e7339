package booking

import (
	"context"
	"fmt"
	"sync"
	"time"

	"carebook/models"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// PaymentProvider creates a payment intent with the external provider and
// returns a hosted checkout URL. Treated as non-idempotent: the gate's
// single-flight discipline is the caller-side compensation.
type PaymentProvider interface {
	CreatePaymentIntent(ctx context.Context, req models.PaymentRequest) (string, error)
}

// TerminalFailureMessage is shown once the retry budget is exhausted.
const TerminalFailureMessage = "Payment could not be started after several attempts. Please refresh the page and try again."

// PaymentIntentGate guarantees at most one payment-intent creation request is
// in flight or already succeeded per booking id. State is explicit and owned
// by the gate instance, never module-global. Concurrent calls for the same
// booking+amount share one outbound request and one outcome; a booking-id or
// amount change starts a fresh single-flight lineage and stale in-flight
// results are discarded.
type PaymentIntentGate struct {
	provider PaymentProvider
	currency string
	logger   *zap.Logger

	group  singleflight.Group
	mu     sync.Mutex
	states map[string]*models.PaymentIntentState
}

// NewPaymentIntentGate constructs a gate over the given provider.
func NewPaymentIntentGate(provider PaymentProvider, currency string, logger *zap.Logger) *PaymentIntentGate {
	return &PaymentIntentGate{
		provider: provider,
		currency: currency,
		logger:   logger,
		states:   make(map[string]*models.PaymentIntentState),
	}
}

// EnsureCheckout returns a checkout URL for the booking, issuing at most one
// provider request per attempt. Provider failures are converted into state
// transitions; raw provider errors never escape. Retry is manual: a later
// call after a failure is the retry, capped at models.MaxPaymentRetries.
func (g *PaymentIntentGate) EnsureCheckout(ctx context.Context, bookingID string, amount float64) (*models.CheckoutOutcome, error) {
	if bookingID == "" {
		return nil, fmt.Errorf("missing booking id")
	}
	if amount <= 0 {
		return nil, fmt.Errorf("invalid payment amount: %v", amount)
	}

	g.mu.Lock()
	state, ok := g.states[bookingID]
	if ok && state.Amount != amount {
		// New payable context: drop the old lineage entirely. Any response
		// still in flight for the old amount will fail the lineage check
		// below and be ignored.
		g.group.Forget(flightKey(bookingID, state.Amount))
		ok = false
	}
	if !ok {
		state = &models.PaymentIntentState{
			BookingID: bookingID,
			Amount:    amount,
			Status:    models.PaymentUninitiated,
			UpdatedAt: time.Now(),
		}
		g.states[bookingID] = state
	}

	switch {
	case state.Status == models.PaymentSucceeded:
		url := state.CheckoutURL
		g.mu.Unlock()
		return &models.CheckoutOutcome{Succeeded: true, CheckoutURL: url}, nil
	case state.Terminal():
		g.mu.Unlock()
		return &models.CheckoutOutcome{
			Succeeded: false,
			Reason:    TerminalFailureMessage,
			Retryable: false,
		}, nil
	}
	g.mu.Unlock()

	key := flightKey(bookingID, amount)
	outcome, err, _ := g.group.Do(key, func() (interface{}, error) {
		return g.createIntent(ctx, bookingID, amount)
	})
	if err != nil {
		return nil, err
	}
	return outcome.(*models.CheckoutOutcome), nil
}

// createIntent performs the single outbound provider call for a lineage and
// applies the result to the gate state, unless the lineage changed while the
// request was in flight.
func (g *PaymentIntentGate) createIntent(ctx context.Context, bookingID string, amount float64) (*models.CheckoutOutcome, error) {
	if !g.transition(bookingID, amount, models.PaymentPending, "", "") {
		return &models.CheckoutOutcome{
			Succeeded: false,
			Reason:    "Payment context changed. Please try again.",
			Retryable: true,
		}, nil
	}

	url, err := g.provider.CreatePaymentIntent(ctx, models.PaymentRequest{
		BookingID: bookingID,
		Amount:    amount,
		Currency:  g.currency,
		Method:    "card",
	})
	if err != nil {
		g.logger.Warn("payment intent creation failed",
			zap.String("bookingID", bookingID), zap.Error(err))
		if !g.transition(bookingID, amount, models.PaymentFailed, "", err.Error()) {
			// Stale response for an abandoned lineage; drop it.
			return &models.CheckoutOutcome{
				Succeeded: false,
				Reason:    "Payment context changed. Please try again.",
				Retryable: true,
			}, nil
		}
		return g.failureOutcome(bookingID), nil
	}

	if !g.transition(bookingID, amount, models.PaymentSucceeded, url, "") {
		return &models.CheckoutOutcome{
			Succeeded: false,
			Reason:    "Payment context changed. Please try again.",
			Retryable: true,
		}, nil
	}
	g.logger.Info("payment intent created",
		zap.String("bookingID", bookingID), zap.Float64("amount", amount))
	return &models.CheckoutOutcome{Succeeded: true, CheckoutURL: url}, nil
}

// transition applies a state change iff the gate still tracks the same
// bookingID+amount lineage that initiated the request. Returns false when the
// result is stale.
func (g *PaymentIntentGate) transition(bookingID string, amount float64, status models.PaymentIntentStatus, url, lastError string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	state, ok := g.states[bookingID]
	if !ok || state.Amount != amount {
		return false
	}

	state.Status = status
	state.UpdatedAt = time.Now()
	switch status {
	case models.PaymentSucceeded:
		state.CheckoutURL = url
		state.LastError = ""
	case models.PaymentFailed:
		state.RetryCount++
		state.LastError = lastError
	}
	return true
}

// failureOutcome builds the caller-facing result after a failed attempt,
// distinguishing "Try again" from "Refresh page".
func (g *PaymentIntentGate) failureOutcome(bookingID string) *models.CheckoutOutcome {
	g.mu.Lock()
	defer g.mu.Unlock()

	state := g.states[bookingID]
	if state != nil && state.Terminal() {
		return &models.CheckoutOutcome{
			Succeeded: false,
			Reason:    TerminalFailureMessage,
			Retryable: false,
		}
	}
	return &models.CheckoutOutcome{
		Succeeded: false,
		Reason:    "We couldn't start the payment. Please try again.",
		Retryable: true,
	}
}

// StateSnapshot returns a copy of the gate's state for a booking, for audit
// records and UI affordances. The zero value is returned for unknown ids.
func (g *PaymentIntentGate) StateSnapshot(bookingID string) models.PaymentIntentState {
	g.mu.Lock()
	defer g.mu.Unlock()

	if state, ok := g.states[bookingID]; ok {
		return *state
	}
	return models.PaymentIntentState{BookingID: bookingID, Status: models.PaymentUninitiated}
}

// Reset drops all state for a booking id, e.g. when the whole booking is
// abandoned. The next EnsureCheckout starts a fresh lineage.
func (g *PaymentIntentGate) Reset(bookingID string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if state, ok := g.states[bookingID]; ok {
		g.group.Forget(flightKey(bookingID, state.Amount))
		delete(g.states, bookingID)
	}
}

func flightKey(bookingID string, amount float64) string {
	return fmt.Sprintf("%s|%.2f", bookingID, amount)
}
