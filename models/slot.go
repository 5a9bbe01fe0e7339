package models

// SessionSlot is one proposed care session. Dates are UK local calendar days
// in "YYYY-MM-DD" format; start/end are minutes from midnight, so a slot can
// never span midnight by construction.
type SessionSlot struct {
	Date        string   `bson:"date" json:"date"`
	Start       int      `bson:"start" json:"start"`
	End         int      `bson:"end" json:"end"`
	TrainerID   string   `bson:"trainer_id,omitempty" json:"trainerId,omitempty"`
	ActivityIDs []string `bson:"activity_ids,omitempty" json:"activityIds,omitempty"`
}

// DurationHours returns the session length in fractional hours. Negative when
// the slot is inverted; callers validate before trusting it.
func (s SessionSlot) DurationHours() float64 {
	return float64(s.End-s.Start) / 60.0
}

// ExistingBooking is a child-scoped prior session already confirmed or pending.
// Supplied by the bookings repository and never mutated by the validation core.
type ExistingBooking struct {
	ID        string `bson:"id" json:"id"`
	ChildID   string `bson:"child_id" json:"childId"`
	TrainerID string `bson:"trainer_id,omitempty" json:"trainerId,omitempty"`
	Date      string `bson:"date" json:"date"`
	Start     int    `bson:"start" json:"start"`
	End       int    `bson:"end" json:"end"`
	Status    string `bson:"status" json:"status"` // "Confirmed" or "Pending"
}
