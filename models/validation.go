package models

// ReasonCode identifies one specific booking rule outcome. Every code maps to
// exactly one canonical user-facing message template.
type ReasonCode string

const (
	ReasonPast                ReasonCode = "past"
	ReasonToday               ReasonCode = "today"
	ReasonTomorrowAfterCutoff ReasonCode = "tomorrow_after_cutoff"
	ReasonInvalidDate         ReasonCode = "invalid_date"
	ReasonTooShort            ReasonCode = "too_short"
	ReasonTooLong             ReasonCode = "too_long"
	ReasonConflict            ReasonCode = "conflict"
	ReasonDuplicate           ReasonCode = "duplicate"
	ReasonInsufficientHours   ReasonCode = "insufficient_hours"
	ReasonNoTrainerMatch      ReasonCode = "no_trainer_match"
)

// ValidationIssue is one blocking error or non-blocking warning attached to a
// validation pass.
type ValidationIssue struct {
	Code    ReasonCode `json:"code"`
	Message string     `json:"message"`
	// SlotIndex points at the offending proposed slot, -1 for request-level
	// issues (hours balance, trainer matching).
	SlotIndex int `json:"slotIndex"`
}

// ValidationResult is the outcome of one validation pass over a booking
// request. Valid is true iff Errors is empty; Warnings never block.
type ValidationResult struct {
	Valid    bool              `json:"valid"`
	Errors   []ValidationIssue `json:"errors"`
	Warnings []ValidationIssue `json:"warnings"`
}

// AddError appends a blocking issue and flips Valid off.
func (r *ValidationResult) AddError(issue ValidationIssue) {
	r.Errors = append(r.Errors, issue)
	r.Valid = false
}

// AddWarning appends a non-blocking issue.
func (r *ValidationResult) AddWarning(issue ValidationIssue) {
	r.Warnings = append(r.Warnings, issue)
}
