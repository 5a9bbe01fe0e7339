package booking

import (
	"math"

	"carebook/models"
)

// Session length policy. Times are minutes from midnight, so the
// until-midnight ceiling is simply "end by 23:59 on the same day".
const (
	MinSessionHours = 3.0
	MaxSessionHours = 24.0
	// lastBookableMinute is 23:59; sessions may not span midnight.
	lastBookableMinute = 23*60 + 59
)

// DurationDecision is the outcome of a session-length check. ShortBy/LongBy
// carry the corrective delta in hours so the UI can suggest an exact fix.
type DurationDecision struct {
	Valid   bool
	Reason  models.ReasonCode
	Message string
	Hours   float64
	ShortBy float64
	LongBy  float64
}

// ValidateDuration decides whether a session from startMin to endMin (minutes
// from midnight) is a legal length. Fails closed: any non-positive duration is
// invalid, reported as too short by the full minimum.
func ValidateDuration(startMin, endMin int) DurationDecision {
	hours := float64(endMin-startMin) / 60.0

	if math.IsNaN(hours) || hours <= 0 {
		return DurationDecision{
			Valid:   false,
			Reason:  models.ReasonTooShort,
			Message: Message(models.ReasonTooShort, MinSessionHours, MinSessionHours),
			Hours:   0,
			ShortBy: MinSessionHours,
		}
	}

	if hours < MinSessionHours {
		shortBy := MinSessionHours - hours
		return DurationDecision{
			Valid:   false,
			Reason:  models.ReasonTooShort,
			Message: Message(models.ReasonTooShort, MinSessionHours, shortBy),
			Hours:   hours,
			ShortBy: shortBy,
		}
	}

	// The ceiling is the lesser of 24h and the time remaining until 23:59.
	maxHours := math.Min(MaxSessionHours, float64(lastBookableMinute-startMin)/60.0)
	if endMin > lastBookableMinute || hours > maxHours {
		longBy := hours - maxHours
		if endMin > lastBookableMinute {
			longBy = float64(endMin-lastBookableMinute) / 60.0
		}
		return DurationDecision{
			Valid:   false,
			Reason:  models.ReasonTooLong,
			Message: Message(models.ReasonTooLong, longBy),
			Hours:   hours,
			LongBy:  longBy,
		}
	}

	return DurationDecision{Valid: true, Hours: hours}
}

// HoursNeededForMinimum returns how many more hours a proposed session needs
// to reach the minimum length, or 0 when it already qualifies.
func HoursNeededForMinimum(startMin, endMin int) float64 {
	hours := float64(endMin-startMin) / 60.0
	if math.IsNaN(hours) || hours <= 0 {
		return MinSessionHours
	}
	if hours >= MinSessionHours {
		return 0
	}
	return MinSessionHours - hours
}
