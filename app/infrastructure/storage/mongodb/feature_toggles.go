package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/mark47B/browser-data-service/app/domain/entity"
	"github.com/mark47B/browser-data-service/app/domain/repository"
)

type mongoFeatureToggles struct {
	coll *mongo.Collection
}

func NewMongoFeatureToggles(db *mongo.Database) repository.FeatureTogglesRepository {
	return &mongoFeatureToggles{coll: db.Collection(featureTogglesCollection)}
}

func (r *mongoFeatureToggles) Insert(ctx context.Context, toggle entity.FeatureToggle) error {
	_, err := r.coll.ReplaceOne(ctx, bson.M{"_id": toggle.Name}, toggle, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("replace toggle %s: %w", toggle.Name, err)
	}
	return nil
}

func (r *mongoFeatureToggles) Get(ctx context.Context, featureName string) (*entity.FeatureToggle, error) {
	var toggle entity.FeatureToggle
	err := r.coll.FindOne(ctx, bson.M{"_id": featureName}).Decode(&toggle)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find toggle %s: %w", featureName, err)
	}
	return &toggle, nil
}
