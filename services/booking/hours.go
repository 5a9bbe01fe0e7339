package booking

import (
	"math"

	"carebook/models"
)

// hoursEpsilon absorbs floating-point noise in fractional-hour arithmetic
// (1.5h sessions, 0.1h adjustments) at the sufficiency boundary.
const hoursEpsilon = 1e-6

// BalanceDecision is the outcome of an hours-balance check. Shortfall carries
// the exact top-up needed for "add N more hours" messaging.
type BalanceDecision struct {
	Sufficient bool
	Remaining  float64
	Shortfall  float64
	Message    string
	// Invalid marks a proposed-hours value the ledger refuses to reason
	// about (NaN or negative). Always insufficient.
	Invalid bool
}

// CheckBalance decides whether the package has enough unconsumed hours to
// cover the proposed session length. Fails closed on NaN or negative input.
func CheckBalance(pkg models.HourPackage, proposedHours float64) BalanceDecision {
	remaining := pkg.RemainingHours()

	if math.IsNaN(proposedHours) || proposedHours < 0 {
		return BalanceDecision{
			Sufficient: false,
			Remaining:  remaining,
			Invalid:    true,
			Message:    Message(models.ReasonInsufficientHours, remaining, 0.0),
		}
	}

	if proposedHours <= remaining+hoursEpsilon {
		return BalanceDecision{Sufficient: true, Remaining: remaining}
	}

	shortfall := proposedHours - remaining
	return BalanceDecision{
		Sufficient: false,
		Remaining:  remaining,
		Shortfall:  shortfall,
		Message:    Message(models.ReasonInsufficientHours, remaining, shortfall),
	}
}

// ProjectBalanceAfter returns the package balance once the proposed hours are
// consumed, for session-summary display. Floors at zero.
func ProjectBalanceAfter(pkg models.HourPackage, proposedHours float64) float64 {
	if math.IsNaN(proposedHours) || proposedHours < 0 {
		return pkg.RemainingHours()
	}
	after := pkg.RemainingHours() - proposedHours
	if after < 0 {
		return 0
	}
	return after
}
