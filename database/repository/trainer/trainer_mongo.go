package trainerRepo

import (
	"context"
	"fmt"
	"time"

	"carebook/database"
	"carebook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoTrainerRepo implements TrainerRepository using MongoDB.
type MongoTrainerRepo struct {
	coll      *mongo.Collection
	diaryColl *mongo.Collection
}

// NewMongoTrainerRepo constructs a new instance of MongoTrainerRepo.
func NewMongoTrainerRepo() TrainerRepository {
	db := database.MongoClient.Database("carebook")
	repo := &MongoTrainerRepo{
		coll:      db.Collection("trainers"),
		diaryColl: db.Collection("trainer_diaries"),
	}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("trainer repo: failed to ensure indexes: %v\n", err)
	}
	return repo
}

// GetTrainerByID retrieves a trainer document by ID.
func (r *MongoTrainerRepo) GetTrainerByID(id string) (*models.Trainer, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var trainer models.Trainer
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&trainer); err != nil {
		return nil, fmt.Errorf("error fetching trainer with id %s: %w", id, err)
	}
	return &trainer, nil
}

// ListAvailableTrainers returns the active roster, optionally pre-filtered by
// capability, geo radius, and diary availability for a date. Geo filtering is
// a coarse pre-filter only: trainers without coordinates always pass through
// so region/postcode matching can still consider them.
func (r *MongoTrainerRepo) ListAvailableTrainers(criteria TrainerSearchCriteria) ([]models.Trainer, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{"status": bson.M{"$in": []string{"active", "online"}}}
	if criteria.Capability != "" {
		filter["capabilities"] = string(criteria.Capability)
	}
	if criteria.MaxDistanceKm > 0 && criteria.LocationGeo.HasCoordinates() {
		// Radians: $centerSphere expects radius / earth radius (6371 km).
		filter["$or"] = bson.A{
			bson.M{"location_geo": bson.M{"$geoWithin": bson.M{"$centerSphere": bson.A{
				criteria.LocationGeo.Coordinates,
				criteria.MaxDistanceKm / 6371.0,
			}}}},
			bson.M{"location_geo": bson.M{"$exists": false}},
			bson.M{"location_geo.coordinates": bson.M{"$size": 0}},
		}
	}

	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("trainer roster query failed: %w", err)
	}
	defer cursor.Close(ctx)

	var trainers []models.Trainer
	if err := cursor.All(ctx, &trainers); err != nil {
		return nil, fmt.Errorf("failed to decode trainers: %w", err)
	}

	if criteria.AvailableOn != "" && len(trainers) > 0 {
		trainers, err = r.pruneByDiary(ctx, trainers, criteria.AvailableOn)
		if err != nil {
			return nil, err
		}
	}
	return trainers, nil
}

// pruneByDiary drops trainers whose diary marks the date as fully closed.
func (r *MongoTrainerRepo) pruneByDiary(ctx context.Context, trainers []models.Trainer, date string) ([]models.Trainer, error) {
	ids := make([]string, 0, len(trainers))
	for _, t := range trainers {
		ids = append(ids, t.ID)
	}

	cursor, err := r.diaryColl.Find(ctx, bson.M{
		"trainer_id": bson.M{"$in": ids},
		"date":       date,
		"closed":     true,
	})
	if err != nil {
		return nil, fmt.Errorf("diary lookup failed: %w", err)
	}
	defer cursor.Close(ctx)

	type diaryEntry struct {
		TrainerID string `bson:"trainer_id"`
	}
	closed := make(map[string]bool)
	for cursor.Next(ctx) {
		var entry diaryEntry
		if err := cursor.Decode(&entry); err != nil {
			continue
		}
		closed[entry.TrainerID] = true
	}

	var open []models.Trainer
	for _, t := range trainers {
		if !closed[t.ID] {
			open = append(open, t)
		}
	}
	return open, nil
}
