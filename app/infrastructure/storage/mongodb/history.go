package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/mark47B/browser-data-service/app/domain/entity"
	"github.com/mark47B/browser-data-service/app/domain/repository"
)

type mongoHistoryStore struct {
	coll *mongo.Collection
}

func NewMongoHistoryStore(db *mongo.Database) repository.HistoryStore {
	return &mongoHistoryStore{coll: db.Collection(historyCollection)}
}

func (r *mongoHistoryStore) GetHistoryEntriesWithVisits(ctx context.Context) ([]entity.HistoryRecord, error) {
	cur, err := r.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "first_visit", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find history entries: %w", err)
	}
	defer cur.Close(ctx)

	var records []entity.HistoryRecord
	for cur.Next(ctx) {
		var rec entity.HistoryRecord
		if err := cur.Decode(&rec); err != nil {
			return nil, fmt.Errorf("decode history entry: %w", err)
		}
		records = append(records, rec)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("cursor history entries: %w", err)
	}
	return records, nil
}

// UpdateOrInsertVisit upserts the page keyed by url and appends the visit.
// Title and SERP data always reflect the latest visit.
func (r *mongoHistoryStore) UpdateOrInsertVisit(ctx context.Context, url, title, query string, isSerp bool, visitedAt time.Time) error {
	visitedAt = visitedAt.UTC()
	update := bson.M{
		"$set":         bson.M{"title": title, "query": query, "is_serp": isSerp},
		"$push":        bson.M{"visits": visitedAt},
		"$setOnInsert": bson.M{"first_visit": visitedAt},
	}
	_, err := r.coll.UpdateOne(ctx, bson.M{"_id": url}, update, options.UpdateOne().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert visit %s: %w", url, err)
	}
	return nil
}
