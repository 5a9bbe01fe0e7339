package trainerRepo

import "carebook/models"

// TrainerSearchCriteria narrows the roster fetch before in-memory matching.
// All fields are optional; a zero criteria returns the full active roster.
type TrainerSearchCriteria struct {
	Capability models.CapabilityTag
	// MaxDistanceKm plus a centre point enables a Mongo $geoNear pre-filter.
	// Trainers without coordinates are still returned (region/postcode
	// matching happens in memory).
	MaxDistanceKm float64
	LocationGeo   models.GeoPoint
	// AvailableOn prunes trainers with no open diary on the given date.
	AvailableOn string
}

// TrainerRepository defines the interface for trainer roster access.
type TrainerRepository interface {
	ListAvailableTrainers(criteria TrainerSearchCriteria) ([]models.Trainer, error)
	GetTrainerByID(id string) (*models.Trainer, error)
}
