package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/mark47B/browser-data-service/app/domain/entity"
	"github.com/mark47B/browser-data-service/app/domain/repository"
)

type mongoCredentialStore struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewMongoCredentialStore(db *mongo.Database) repository.CredentialStore {
	return &mongoCredentialStore{coll: db.Collection(credentialsCollection), now: time.Now}
}

func (r *mongoCredentialStore) UpdateCredentials(ctx context.Context, c entity.LoginCredentials, refreshLastUpdated bool) error {
	set := bson.M{
		"domain":    c.Domain,
		"username":  c.Username,
		"password":  c.Password,
		"notes":     c.Notes,
		"last_used": c.LastUsed.UTC(),
	}
	if refreshLastUpdated {
		set["last_updated"] = r.now().UTC()
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": c.ID}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update credentials %d: %w", c.ID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("credentials with ID %d not found", c.ID)
	}
	return nil
}
