package booking

import (
	"fmt"

	"carebook/models"
)

// Canonical message templates, one per reason code. Every call site renders
// through Message (or the no_trainer_match dead-end variants below) so wording
// never drifts between the validator, the session flow, and the HTTP layer.
var messageTemplates = map[models.ReasonCode]string{
	models.ReasonPast:                "This date has already passed. Please pick a future date.",
	models.ReasonToday:               "Same-day bookings aren't available. The earliest you can book is %s.",
	models.ReasonTomorrowAfterCutoff: "Bookings for tomorrow close at %02d:00. The earliest you can book is %s.",
	models.ReasonInvalidDate:         "We couldn't read the date %q. Please re-select it from the calendar.",
	models.ReasonTooShort:            "Sessions must be at least %.1f hours. Add %.1f more hours to this session.",
	models.ReasonTooLong:             "Sessions must finish by 23:59 on the same day. Shorten this session by %.1f hours.",
	models.ReasonConflict:            "This session overlaps an existing booking on %s. Please choose a different time.",
	models.ReasonDuplicate:           "You already booked this exact session on %s.",
	models.ReasonInsufficientHours:   "Your package has %.1f hours left. Add %.1f more hours to cover this booking.",
	models.ReasonNoTrainerMatch:      "No trainer covers your exact area, but %d trainers who can usually help are shown below.",
}

// no_trainer_match covers three distinct dead ends; the fallback-count
// template only fits the "no area match, alternatives shown" case.
const (
	rosterEmptyMessage    = "No trainers are available right now. Please check back soon."
	pinnedMismatchMessage = "Your chosen trainer doesn't offer this service. Please pick a different trainer or change the service type."
)

// Message renders the canonical template for a reason code.
func Message(code models.ReasonCode, args ...interface{}) string {
	tmpl, ok := messageTemplates[code]
	if !ok {
		return string(code)
	}
	return fmt.Sprintf(tmpl, args...)
}
