package models

// HourPackage is a purchased block of care hours. UsedHours is maintained by
// the bookings pipeline; the ledger check enforces UsedHours <= TotalHours at
// decision time rather than the struct enforcing it on itself.
type HourPackage struct {
	ID         string  `bson:"id" json:"id"`
	TotalHours float64 `bson:"total_hours" json:"totalHours"`
	UsedHours  float64 `bson:"used_hours" json:"usedHours"`
	Price      float64 `bson:"price" json:"price"`
	HourlyRate float64 `bson:"hourly_rate" json:"hourlyRate"`
	Currency   string  `bson:"currency" json:"currency"`
}

// RemainingHours returns the unconsumed balance.
func (p HourPackage) RemainingHours() float64 {
	return p.TotalHours - p.UsedHours
}
