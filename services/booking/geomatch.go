package booking

import (
	"math"
	"sort"
	"strings"
	"sync"
	"unicode"

	"carebook/models"
)

// RankedTrainer holds trainer data along with computed score and proximity.
type RankedTrainer struct {
	Trainer    models.Trainer
	RankPoints float64
	Preferred  bool
	// ProximityKm is the Haversine distance to the family, or NaN when either
	// side has no coordinates.
	ProximityKm float64
}

// MatchResult carries the matched set plus the degrade-gracefully fallback.
// Fallback is populated only when Matched would otherwise dead-end the caller:
// either the capability filter emptied a non-empty area match, or no trainer
// covered the area at all (then Fallback is the full roster).
type MatchResult struct {
	Matched  []RankedTrainer
	Fallback []RankedTrainer
}

// MatchTrainers returns the trainers eligible to serve the family, ranked.
// A trainer matches when ANY strategy succeeds (logical OR, all attempted):
//  1. region membership in the trainer's service regions
//  2. postcode alpha-prefix (first 1-2 letters, case-insensitive)
//  3. Haversine distance within the trainer's service radius
//
// When requiredCapability is non-empty the matched set is filtered to trainers
// carrying it; if that empties the set, the pre-filter matches come back as
// Fallback instead of a dead end. Pure function: identical inputs yield
// identical results.
func MatchTrainers(family models.FamilyLocation, trainers []models.Trainer, requiredCapability models.CapabilityTag) MatchResult {
	if len(trainers) == 0 {
		return MatchResult{}
	}

	type matchData struct {
		trainer    models.Trainer
		matched    bool
		distanceKm float64
		score      float64
	}

	// Without any family location data no strategy can succeed; every trainer
	// goes straight to the full-roster fallback below.
	hasLocation := family.HasAnyLocation()

	resultsCh := make(chan matchData, len(trainers))
	var wg sync.WaitGroup

	for _, t := range trainers {
		wg.Add(1)
		go func(t models.Trainer) {
			defer wg.Done()
			distanceKm := math.NaN()
			if family.Geo.HasCoordinates() && t.LocationGeo.HasCoordinates() {
				distanceKm = haversine(family.Geo.Lat(), family.Geo.Lon(), t.LocationGeo.Lat(), t.LocationGeo.Lon())
			}
			matched := hasLocation &&
				(matchesRegion(family, t) ||
					matchesPostcodePrefix(family, t) ||
					matchesRadius(distanceKm, t))
			resultsCh <- matchData{
				trainer:    t,
				matched:    matched,
				distanceKm: distanceKm,
				score:      scoreTrainer(t, distanceKm, requiredCapability),
			}
		}(t)
	}

	wg.Wait()
	close(resultsCh)

	var all []matchData
	for md := range resultsCh {
		all = append(all, md)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].score != all[j].score {
			return all[i].score > all[j].score
		}
		// Stable outcome for equal scores.
		return all[i].trainer.ID < all[j].trainer.ID
	})

	var areaMatched []RankedTrainer
	for _, md := range all {
		if md.matched {
			areaMatched = append(areaMatched, RankedTrainer{
				Trainer:     md.trainer,
				RankPoints:  md.score,
				ProximityKm: md.distanceKm,
			})
		}
	}

	// Nobody covers the area: never present zero options while at least one
	// trainer exists system-wide.
	if len(areaMatched) == 0 {
		var fallback []RankedTrainer
		for _, md := range all {
			fallback = append(fallback, RankedTrainer{
				Trainer:     md.trainer,
				RankPoints:  md.score,
				ProximityKm: md.distanceKm,
			})
		}
		markPreferred(fallback)
		return MatchResult{Fallback: fallback}
	}

	if requiredCapability == "" {
		markPreferred(areaMatched)
		return MatchResult{Matched: areaMatched}
	}

	var capable []RankedTrainer
	for _, rt := range areaMatched {
		if rt.Trainer.HasCapability(requiredCapability) {
			capable = append(capable, rt)
		}
	}
	if len(capable) == 0 {
		// "No exact match, here are trainers who can usually help."
		markPreferred(areaMatched)
		return MatchResult{Fallback: areaMatched}
	}
	markPreferred(capable)
	return MatchResult{Matched: capable}
}

func markPreferred(ranked []RankedTrainer) {
	if len(ranked) > 0 {
		ranked[0].Preferred = true
	}
}

func matchesRegion(family models.FamilyLocation, t models.Trainer) bool {
	if family.Region == "" {
		return false
	}
	for _, region := range t.ServiceRegions {
		if strings.EqualFold(strings.TrimSpace(region), strings.TrimSpace(family.Region)) {
			return true
		}
	}
	return false
}

func matchesPostcodePrefix(family models.FamilyLocation, t models.Trainer) bool {
	prefix := postcodeAlphaPrefix(family.Postcode)
	if prefix == "" {
		return false
	}
	for _, p := range t.ServicePostcodePrefixes {
		if strings.EqualFold(strings.TrimSpace(p), prefix) {
			return true
		}
	}
	return false
}

// postcodeAlphaPrefix extracts the leading 1-2 alphabetic characters of a UK
// postcode ("AL10 1AA" -> "AL", "N1 9GU" -> "N").
func postcodeAlphaPrefix(postcode string) string {
	trimmed := strings.TrimSpace(postcode)
	var prefix []rune
	for _, r := range trimmed {
		if !unicode.IsLetter(r) || len(prefix) == 2 {
			break
		}
		prefix = append(prefix, unicode.ToUpper(r))
	}
	return string(prefix)
}

// matchesRadius compares the unrounded distance against the trainer's travel
// radius; a trainer exactly at the boundary matches.
func matchesRadius(distanceKm float64, t models.Trainer) bool {
	if math.IsNaN(distanceKm) || t.ServiceRadiusKm <= 0 {
		return false
	}
	return distanceKm <= t.ServiceRadiusKm
}

// scoreTrainer ranks by proximity first, then capability fit, then rating and
// track record.
func scoreTrainer(t models.Trainer, distanceKm float64, requiredCapability models.CapabilityTag) float64 {
	const (
		MaxProximityPts = 45.0
		CapabilityBonus = 20.0
		MaxCompletedPts = 20.0
		MaxRatingPts    = 15.0
	)

	var proximityScore float64
	if !math.IsNaN(distanceKm) && t.ServiceRadiusKm > 0 && distanceKm < t.ServiceRadiusKm {
		proximityScore = MaxProximityPts * (1 - distanceKm/t.ServiceRadiusKm)
	}
	var capabilityScore float64
	if requiredCapability != "" && t.HasCapability(requiredCapability) {
		capabilityScore = CapabilityBonus
	}
	completedScore := math.Log10(float64(t.CompletedBookings+1)) * MaxCompletedPts / math.Log10(101)
	rating := t.Profile.Rating
	if rating > 5 {
		rating = 5
	}
	ratingScore := (rating / 5) * MaxRatingPts

	return proximityScore + capabilityScore + completedScore + ratingScore
}

func haversine(lat1, lon1, lat2, lon2 float64) float64 {
	const R = 6371
	dLat := (lat2 - lat1) * (math.Pi / 180)
	dLon := (lon2 - lon1) * (math.Pi / 180)
	lat1Rad := lat1 * (math.Pi / 180)
	lat2Rad := lat2 * (math.Pi / 180)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return R * c
}

// ExtractTrainerDTOs converts ranked trainers to the caller-facing shape.
func ExtractTrainerDTOs(ranked []RankedTrainer) []models.TrainerDTO {
	var dtos []models.TrainerDTO
	for _, rt := range ranked {
		proximity := 0.0
		if !math.IsNaN(rt.ProximityKm) {
			// Convert km to metres.
			proximity = rt.ProximityKm * 1000
		}
		dtos = append(dtos, models.TrainerDTO{
			ID:           rt.Trainer.ID,
			Profile:      rt.Trainer.Profile,
			Capabilities: rt.Trainer.Capabilities,
			Preferred:    rt.Preferred,
			Proximity:    proximity,
		})
	}
	return dtos
}
