package booking

import "carebook/models"

// Conflict is a partial overlap between a proposed slot and another session.
// The corrective action is "choose a different time".
type Conflict struct {
	SlotIndex int    `json:"slotIndex"`
	Date      string `json:"date"`
	// WithBookingID names the existing booking involved; empty for a clash
	// between two slots of the same submission.
	WithBookingID string `json:"withBookingId,omitempty"`
	// WithSlotIndex identifies the other proposed slot for same-batch
	// clashes; -1 otherwise.
	WithSlotIndex int `json:"withSlotIndex"`
}

// Duplicate is the stricter case: the same child, date, start, and end as an
// already-existing booking. The corrective action is "you already booked this".
type Duplicate struct {
	SlotIndex     int    `json:"slotIndex"`
	Date          string `json:"date"`
	WithBookingID string `json:"withBookingId"`
}

// ConflictReport carries both findings; duplicates are not re-reported as
// conflicts.
type ConflictReport struct {
	Conflicts  []Conflict
	Duplicates []Duplicate
}

// HasFindings reports whether the check found anything at all.
func (r ConflictReport) HasFindings() bool {
	return len(r.Conflicts) > 0 || len(r.Duplicates) > 0
}

// CheckConflicts checks every proposed slot independently against the child's
// full existing set, and against the other proposed slots in the same
// submission. Overlap uses half-open interval semantics on the same date:
// back-to-back sessions (one ending 12:00, the next starting 12:00) do not
// conflict.
func CheckConflicts(existing []models.ExistingBooking, proposed []models.SessionSlot, childID string) ConflictReport {
	var report ConflictReport

	for i, slot := range proposed {
		for _, booked := range existing {
			if booked.Date != slot.Date {
				continue
			}
			if booked.ChildID == childID && booked.Start == slot.Start && booked.End == slot.End {
				report.Duplicates = append(report.Duplicates, Duplicate{
					SlotIndex:     i,
					Date:          slot.Date,
					WithBookingID: booked.ID,
				})
				continue
			}
			if overlaps(slot.Start, slot.End, booked.Start, booked.End) {
				report.Conflicts = append(report.Conflicts, Conflict{
					SlotIndex:     i,
					Date:          slot.Date,
					WithBookingID: booked.ID,
					WithSlotIndex: -1,
				})
			}
		}

		// Same-batch self-conflicts: each unordered pair reported once,
		// against the earlier slot.
		for j := 0; j < i; j++ {
			other := proposed[j]
			if other.Date != slot.Date {
				continue
			}
			if overlaps(slot.Start, slot.End, other.Start, other.End) {
				report.Conflicts = append(report.Conflicts, Conflict{
					SlotIndex:     i,
					Date:          slot.Date,
					WithSlotIndex: j,
				})
			}
		}
	}

	return report
}

// overlaps implements half-open range intersection on minutes from midnight.
func overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && bStart < aEnd
}
