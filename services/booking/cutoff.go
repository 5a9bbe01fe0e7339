package booking

import (
	"time"

	"carebook/models"
)

// dateLayout is the calendar-day wire format used throughout the booking flow.
const dateLayout = "2006-01-02"

// CutoffPolicy holds the cutoff-rule constants. Defaults match the service
// policy: no same-day bookings, next-day bookings close at 18:00 local.
type CutoffPolicy struct {
	// Location is the single fixed zone all wall-clock comparisons use.
	Location *time.Location
	// CutoffHour is the local hour after which tomorrow becomes unbookable.
	CutoffHour int
}

// DefaultCutoffPolicy returns the UK production policy.
func DefaultCutoffPolicy() CutoffPolicy {
	loc, err := time.LoadLocation("Europe/London")
	if err != nil {
		loc = time.UTC
	}
	return CutoffPolicy{Location: loc, CutoffHour: 18}
}

// CutoffDecision classifies one candidate calendar date.
type CutoffDecision struct {
	Bookable bool
	Reason   models.ReasonCode
	Message  string
}

// Classify decides whether the given calendar date is bookable at the instant
// now. Rules are evaluated in order, first match wins:
//  1. date before today            -> past
//  2. date is today                -> today (same-day booking never permitted)
//  3. date is tomorrow, local time at or past the cutoff hour -> tomorrow_after_cutoff
//  4. otherwise bookable
//
// The same now instant drives both the date comparison and the cutoff-hour
// check; the clock is never re-sampled mid-decision.
func (p CutoffPolicy) Classify(date string, now time.Time) CutoffDecision {
	local := now.In(p.Location)
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, p.Location)

	candidate, err := time.ParseInLocation(dateLayout, date, p.Location)
	if err != nil {
		return CutoffDecision{
			Bookable: false,
			Reason:   models.ReasonInvalidDate,
			Message:  Message(models.ReasonInvalidDate, date),
		}
	}

	earliest := p.EarliestBookableDate(now)

	switch {
	case candidate.Before(today):
		return CutoffDecision{
			Bookable: false,
			Reason:   models.ReasonPast,
			Message:  Message(models.ReasonPast),
		}
	case candidate.Equal(today):
		return CutoffDecision{
			Bookable: false,
			Reason:   models.ReasonToday,
			Message:  Message(models.ReasonToday, earliest),
		}
	case candidate.Equal(today.AddDate(0, 0, 1)) && local.Hour() >= p.CutoffHour:
		return CutoffDecision{
			Bookable: false,
			Reason:   models.ReasonTomorrowAfterCutoff,
			Message:  Message(models.ReasonTomorrowAfterCutoff, p.CutoffHour, earliest),
		}
	}
	return CutoffDecision{Bookable: true}
}

// EarliestBookableDate returns the smallest date Classify would accept at the
// instant now, for "earliest you can book is ..." messaging.
func (p CutoffPolicy) EarliestBookableDate(now time.Time) string {
	local := now.In(p.Location)
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, p.Location)
	if local.Hour() >= p.CutoffHour {
		return today.AddDate(0, 0, 2).Format(dateLayout)
	}
	return today.AddDate(0, 0, 1).Format(dateLayout)
}
