package hourpackageRepo

import (
	"context"
	"fmt"
	"time"

	"carebook/database"
	"carebook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoPackageRepo implements PackageRepository using MongoDB.
type MongoPackageRepo struct {
	coll *mongo.Collection
}

// NewMongoPackageRepo constructs a new instance of MongoPackageRepo.
func NewMongoPackageRepo() PackageRepository {
	db := database.MongoClient.Database("carebook")
	return &MongoPackageRepo{
		coll: db.Collection("hour_packages"),
	}
}

// GetPackageByID retrieves an hour package by its ID.
func (r *MongoPackageRepo) GetPackageByID(id string) (*models.HourPackage, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var pkg models.HourPackage
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&pkg); err != nil {
		return nil, fmt.Errorf("hour package not found: %w", err)
	}
	return &pkg, nil
}

// RecordConsumedHours increments the used-hours counter after a confirmed
// booking. The ledger check at validation time is the enforcement point; this
// write just keeps the counter current.
func (r *MongoPackageRepo) RecordConsumedHours(id string, hours float64) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	filter := bson.M{"id": id}
	update := bson.M{"$inc": bson.M{"used_hours": hours}}
	if _, err := r.coll.UpdateOne(ctx, filter, update); err != nil {
		return fmt.Errorf("error recording consumed hours for package %s: %w", id, err)
	}
	return nil
}
