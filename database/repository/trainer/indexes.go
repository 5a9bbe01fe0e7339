package trainerRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ensureIndexes creates indexes for frequently used fields in queries.
func (r *MongoTrainerRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "capabilities", Value: 1}}},
		{Keys: bson.D{{Key: "service_regions", Value: 1}}},
		{Keys: bson.D{{Key: "service_postcode_prefixes", Value: 1}}},
		{Keys: bson.D{{Key: "location_geo", Value: "2dsphere"}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create trainer indexes: %w", err)
	}

	diaryIdx := []mongo.IndexModel{
		{Keys: bson.D{{Key: "trainer_id", Value: 1}, {Key: "date", Value: 1}}},
	}
	if _, err := r.diaryColl.Indexes().CreateMany(ctx, diaryIdx); err != nil {
		return fmt.Errorf("failed to create diary indexes: %w", err)
	}
	return nil
}
