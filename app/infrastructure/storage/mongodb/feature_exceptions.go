package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/mark47B/browser-data-service/app/domain/entity"
	"github.com/mark47B/browser-data-service/app/domain/repository"
)

type mongoFeatureExceptions struct {
	coll *mongo.Collection
}

func NewMongoFeatureExceptions(db *mongo.Database) repository.FeatureExceptionsRepository {
	return &mongoFeatureExceptions{coll: db.Collection(featureExceptionCollection)}
}

type exceptionDoc struct {
	entity.FeatureException `bson:",inline"`
	Position                int `bson:"position"`
}

// UpdateAll replaces every exception of the feature. Readers may briefly see
// an empty list between the delete and the insert.
func (r *mongoFeatureExceptions) UpdateAll(ctx context.Context, featureName string, exceptions []entity.FeatureException) error {
	if _, err := r.coll.DeleteMany(ctx, bson.M{"feature": featureName}); err != nil {
		return fmt.Errorf("delete %s exceptions: %w", featureName, err)
	}
	if len(exceptions) == 0 {
		return nil
	}

	docs := make([]interface{}, 0, len(exceptions))
	for i, e := range exceptions {
		e.Feature = featureName
		docs = append(docs, exceptionDoc{FeatureException: e, Position: i})
	}
	if _, err := r.coll.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("insert %s exceptions: %w", featureName, err)
	}
	return nil
}

func (r *mongoFeatureExceptions) List(ctx context.Context, featureName string) ([]entity.FeatureException, error) {
	opts := options.Find().SetSort(bson.D{{Key: "position", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.M{"feature": featureName}, opts)
	if err != nil {
		return nil, fmt.Errorf("find %s exceptions: %w", featureName, err)
	}
	defer cur.Close(ctx)

	var out []entity.FeatureException
	for cur.Next(ctx) {
		var doc exceptionDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode %s exception: %w", featureName, err)
		}
		out = append(out, doc.FeatureException)
	}
	return out, cur.Err()
}
