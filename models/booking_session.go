package models

// BookingSession holds context between validation and checkout. Cached in
// Redis under the session id for the lifetime of one booking attempt.
type BookingSession struct {
	SessionID        string            `json:"sessionId"`
	Request          BookingRequest    `json:"request"`
	MatchedTrainers  []TrainerDTO      `json:"matchedTrainers,omitempty"`
	FallbackTrainers []TrainerDTO      `json:"fallbackTrainers,omitempty"`
	Validation       *ValidationResult `json:"validation,omitempty"`
	Amount           float64           `json:"amount"`
	Currency         string            `json:"currency"`
	UserID           string            `json:"userId,omitempty"`
	DeviceName       string            `json:"deviceName,omitempty"`
}

// BookingResponse is the composite payload returned by booking endpoints.
type BookingResponse struct {
	SessionID        string            `json:"sessionID,omitempty"`
	Trainers         []TrainerDTO      `json:"trainers,omitempty"`
	FallbackTrainers []TrainerDTO      `json:"fallbackTrainers,omitempty"`
	Validation       *ValidationResult `json:"validation,omitempty"`
	Checkout         *CheckoutOutcome  `json:"checkout,omitempty"`
}
