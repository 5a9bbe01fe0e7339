package booking

import (
	"testing"

	"carebook/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func geoPoint(lat, lon float64) models.GeoPoint {
	return models.GeoPoint{Type: "Point", Coordinates: []float64{lon, lat}}
}

func TestMatchTrainersPostcodePrefix(t *testing.T) {
	family := models.FamilyLocation{Postcode: "AL10 1AA"}
	trainer := models.Trainer{
		ID:                      "t1",
		ServicePostcodePrefixes: []string{"AL"},
	}

	result := MatchTrainers(family, []models.Trainer{trainer}, "")
	require.Len(t, result.Matched, 1)
	assert.Equal(t, "t1", result.Matched[0].Trainer.ID)
	assert.True(t, result.Matched[0].Preferred)
	assert.Empty(t, result.Fallback)
}

func TestMatchTrainersPostcodePrefixCaseInsensitive(t *testing.T) {
	family := models.FamilyLocation{Postcode: "al10 1aa"}
	trainer := models.Trainer{ID: "t1", ServicePostcodePrefixes: []string{"Al"}}

	result := MatchTrainers(family, []models.Trainer{trainer}, "")
	assert.Len(t, result.Matched, 1)
}

func TestMatchTrainersSingleLetterPrefix(t *testing.T) {
	family := models.FamilyLocation{Postcode: "N1 9GU"}
	matching := models.Trainer{ID: "n", ServicePostcodePrefixes: []string{"N"}}
	other := models.Trainer{ID: "nw", ServicePostcodePrefixes: []string{"NW"}}

	result := MatchTrainers(family, []models.Trainer{matching, other}, "")
	require.Len(t, result.Matched, 1)
	assert.Equal(t, "n", result.Matched[0].Trainer.ID)
}

func TestMatchTrainersRegion(t *testing.T) {
	family := models.FamilyLocation{Region: "Hertfordshire"}
	trainer := models.Trainer{ID: "t1", ServiceRegions: []string{"Essex", "Hertfordshire"}}

	result := MatchTrainers(family, []models.Trainer{trainer}, "")
	assert.Len(t, result.Matched, 1)
}

func TestMatchTrainersRadiusBoundaryInclusive(t *testing.T) {
	// Two points roughly 10km apart on a meridian; the radius is set to the
	// exact computed distance so the trainer sits precisely on the boundary.
	familyLat, familyLon := 51.7520, -0.3360
	trainerLat, trainerLon := 51.8420, -0.3360
	distance := haversine(familyLat, familyLon, trainerLat, trainerLon)
	require.InDelta(t, 10.0, distance, 0.1)

	trainer := models.Trainer{
		ID:              "t1",
		LocationGeo:     geoPoint(trainerLat, trainerLon),
		ServiceRadiusKm: distance,
	}
	family := models.FamilyLocation{Geo: geoPoint(familyLat, familyLon)}

	result := MatchTrainers(family, []models.Trainer{trainer}, "")
	assert.Len(t, result.Matched, 1, "a trainer exactly at the radius boundary matches")

	// Nudge the radius under the distance and the match disappears.
	trainer.ServiceRadiusKm = distance - 0.001
	result = MatchTrainers(family, []models.Trainer{trainer}, "")
	assert.Empty(t, result.Matched)
	assert.Len(t, result.Fallback, 1)
}

func TestMatchTrainersStrategiesAreUnioned(t *testing.T) {
	// Postcode matches even though region and radius both fail.
	family := models.FamilyLocation{
		Region:   "Kent",
		Postcode: "AL10 1AA",
		Geo:      geoPoint(51.75, -0.33),
	}
	trainer := models.Trainer{
		ID:                      "t1",
		ServiceRegions:          []string{"Essex"},
		ServicePostcodePrefixes: []string{"AL"},
		LocationGeo:             geoPoint(53.48, -2.24), // Manchester, far away
		ServiceRadiusKm:         5,
	}

	result := MatchTrainers(family, []models.Trainer{trainer}, "")
	assert.Len(t, result.Matched, 1)
}

func TestMatchTrainersCapabilityFilterFallsBack(t *testing.T) {
	family := models.FamilyLocation{Postcode: "AL10 1AA"}
	trainer := models.Trainer{
		ID:                      "t1",
		ServicePostcodePrefixes: []string{"AL"},
		Capabilities:            []models.CapabilityTag{models.CapabilitySchoolRun},
	}

	// Capability mismatch must not dead-end: the area match comes back as
	// fallback instead.
	result := MatchTrainers(family, []models.Trainer{trainer}, models.CapabilityRespite)
	assert.Empty(t, result.Matched)
	require.Len(t, result.Fallback, 1)
	assert.Equal(t, "t1", result.Fallback[0].Trainer.ID)

	// With the capability present the trainer is a full match.
	result = MatchTrainers(family, []models.Trainer{trainer}, models.CapabilitySchoolRun)
	assert.Len(t, result.Matched, 1)
	assert.Empty(t, result.Fallback)
}

func TestMatchTrainersNoAreaMatchFallsBackToRoster(t *testing.T) {
	// A family in Hatfield vs a trainer who only covers Essex by region and
	// has no coordinates: not matched, but as the only trainer in the system
	// it must appear in fallback.
	family := models.FamilyLocation{Postcode: "AL10 1AA"}
	trainer := models.Trainer{ID: "t1", ServiceRegions: []string{"Essex"}}

	result := MatchTrainers(family, []models.Trainer{trainer}, "")
	assert.Empty(t, result.Matched)
	require.Len(t, result.Fallback, 1)
	assert.Equal(t, "t1", result.Fallback[0].Trainer.ID)
	assert.True(t, result.Fallback[0].Preferred)
}

func TestMatchTrainersNoFamilyLocationFallsBackToRoster(t *testing.T) {
	// No region, postcode, or coordinates on the family side: nothing can
	// match, so the whole roster comes back as fallback, still ranked.
	family := models.FamilyLocation{}
	trainers := []models.Trainer{
		{ID: "a", ServicePostcodePrefixes: []string{"AL"}, Profile: models.TrainerProfile{Rating: 4.8}},
		{ID: "b", ServiceRegions: []string{"Essex"}},
	}

	result := MatchTrainers(family, trainers, "")
	assert.Empty(t, result.Matched)
	require.Len(t, result.Fallback, 2)
	assert.Equal(t, "a", result.Fallback[0].Trainer.ID)
	assert.True(t, result.Fallback[0].Preferred)
}

func TestMatchTrainersIdempotent(t *testing.T) {
	family := models.FamilyLocation{Postcode: "AL10 1AA", Geo: geoPoint(51.75, -0.33)}
	trainers := []models.Trainer{
		{ID: "a", ServicePostcodePrefixes: []string{"AL"}, Profile: models.TrainerProfile{Rating: 4.5}, CompletedBookings: 30},
		{ID: "b", LocationGeo: geoPoint(51.76, -0.34), ServiceRadiusKm: 15, Profile: models.TrainerProfile{Rating: 4.9}, CompletedBookings: 80},
		{ID: "c", ServiceRegions: []string{"Essex"}},
	}

	first := MatchTrainers(family, trainers, "")
	second := MatchTrainers(family, trainers, "")
	assert.Equal(t, ExtractTrainerDTOs(first.Matched), ExtractTrainerDTOs(second.Matched))
	assert.Equal(t, ExtractTrainerDTOs(first.Fallback), ExtractTrainerDTOs(second.Fallback))
}

func TestMatchTrainersRankingPrefersCloserAndStronger(t *testing.T) {
	family := models.FamilyLocation{Geo: geoPoint(51.7520, -0.3360)}
	near := models.Trainer{
		ID:                "near",
		LocationGeo:       geoPoint(51.7550, -0.3360),
		ServiceRadiusKm:   20,
		Profile:           models.TrainerProfile{Rating: 4.8},
		CompletedBookings: 60,
	}
	far := models.Trainer{
		ID:                "far",
		LocationGeo:       geoPoint(51.9000, -0.3360),
		ServiceRadiusKm:   20,
		Profile:           models.TrainerProfile{Rating: 3.0},
		CompletedBookings: 2,
	}

	result := MatchTrainers(family, []models.Trainer{far, near}, "")
	require.Len(t, result.Matched, 2)
	assert.Equal(t, "near", result.Matched[0].Trainer.ID)
	assert.True(t, result.Matched[0].Preferred)
	assert.False(t, result.Matched[1].Preferred)
}

func TestPostcodeAlphaPrefix(t *testing.T) {
	tests := []struct {
		postcode string
		want     string
	}{
		{"AL10 1AA", "AL"},
		{"al10 1aa", "AL"},
		{"N1 9GU", "N"},
		{"SW1A 2AA", "SW"},
		{"  EC2M 7PY ", "EC"},
		{"10 Downing St", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, postcodeAlphaPrefix(tt.postcode), "postcode %q", tt.postcode)
	}
}
