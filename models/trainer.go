package models

// CapabilityTag is an enumerated trainer skill/service-mode flag.
type CapabilityTag string

const (
	CapabilityTravelEscort CapabilityTag = "travel_escort"
	CapabilitySchoolRun    CapabilityTag = "school_run"
	CapabilityRespite      CapabilityTag = "respite"
	CapabilityOvernight    CapabilityTag = "overnight"
	CapabilitySENSupport   CapabilityTag = "sen_support"
	CapabilityOneToOne     CapabilityTag = "one_to_one"
)

// TrainerProfile carries presentation and ranking data for a trainer.
type TrainerProfile struct {
	Name     string  `bson:"name" json:"name"`
	Rating   float64 `bson:"rating" json:"rating"`
	Verified bool    `bson:"verified" json:"verified"`
}

// Trainer is a care professional on the roster. Service area is expressed as
// any combination of regions, alphabetic postcode prefixes, and a home
// location with a travel radius in km.
type Trainer struct {
	ID                      string          `bson:"id" json:"id"`
	Profile                 TrainerProfile  `bson:"profile" json:"profile"`
	ServiceRegions          []string        `bson:"service_regions,omitempty" json:"serviceRegions,omitempty"`
	ServicePostcodePrefixes []string        `bson:"service_postcode_prefixes,omitempty" json:"servicePostcodePrefixes,omitempty"`
	LocationGeo             GeoPoint        `bson:"location_geo,omitempty" json:"locationGeo,omitempty"`
	ServiceRadiusKm         float64         `bson:"service_radius_km,omitempty" json:"serviceRadiusKm,omitempty"`
	Capabilities            []CapabilityTag `bson:"capabilities,omitempty" json:"capabilities,omitempty"`
	CompletedBookings       int             `bson:"completed_bookings" json:"completedBookings"`
}

// HasCapability reports whether the trainer carries the given tag.
func (t Trainer) HasCapability(tag CapabilityTag) bool {
	for _, c := range t.Capabilities {
		if c == tag {
			return true
		}
	}
	return false
}

// TrainerDTO is the ranked trainer shape returned to callers of matching.
type TrainerDTO struct {
	ID           string          `json:"id"`
	Profile      TrainerProfile  `json:"profile"`
	Capabilities []CapabilityTag `json:"capabilities,omitempty"`
	Preferred    bool            `json:"preferred"`
	// Proximity is the distance from the family in metres, when both sides
	// have coordinates. Zero otherwise.
	Proximity float64 `json:"proximity"`
}

// FamilyLocation locates the family requesting care. At least one of region,
// postcode, or coordinates must be present for matching to be attempted.
type FamilyLocation struct {
	Region   string   `bson:"region,omitempty" json:"region,omitempty"`
	Postcode string   `bson:"postcode,omitempty" json:"postcode,omitempty"`
	Geo      GeoPoint `bson:"geo,omitempty" json:"geo,omitempty"`
}

// HasAnyLocation reports whether matching can be attempted at all.
func (f FamilyLocation) HasAnyLocation() bool {
	return f.Region != "" || f.Postcode != "" || f.Geo.HasCoordinates()
}
