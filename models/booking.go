package models

import "time"

// BookingRequest is one submission attempt from the parent-facing flow.
// It is transient: the validation core never persists it.
type BookingRequest struct {
	ChildID   string         `json:"childId"`
	PackageID string         `json:"packageId"`
	Slots     []SessionSlot  `json:"slots"`
	ModeKey   string         `json:"modeKey"` // service mode, e.g. "one_to_one", "school_run"
	Family    FamilyLocation `json:"family"`
}

// PinnedTrainerID returns the trainer explicitly chosen across the proposed
// slots, or "" when the family left trainer selection to matching. The flow
// pins one trainer per submission; the first non-empty id wins.
func (r BookingRequest) PinnedTrainerID() string {
	for _, s := range r.Slots {
		if s.TrainerID != "" {
			return s.TrainerID
		}
	}
	return ""
}

// TotalProposedHours sums the duration of every proposed slot.
func (r BookingRequest) TotalProposedHours() float64 {
	var total float64
	for _, s := range r.Slots {
		total += s.DurationHours()
	}
	return total
}

// Booking represents a confirmed booking record written back after checkout.
type Booking struct {
	ID         string    `bson:"id" json:"id"`
	ChildID    string    `bson:"child_id" json:"childId"`
	TrainerID  string    `bson:"trainer_id" json:"trainerId"`
	PackageID  string    `bson:"package_id" json:"packageId"`
	Date       string    `bson:"date" json:"date"`
	Start      int       `bson:"start" json:"start"`
	End        int       `bson:"end" json:"end"`
	Hours      float64   `bson:"hours" json:"hours"`
	TotalPrice float64   `bson:"total_price" json:"totalPrice"`
	Status     string    `bson:"status" json:"status"` // e.g. "Confirmed", "Pending"
	CreatedAt  time.Time `bson:"created_at" json:"createdAt"`
}
