package repository

import (
	"context"
	"time"

	"github.com/mark47B/browser-data-service/app/domain/entity"
)

type HistoryStore interface {
	GetHistoryEntriesWithVisits(ctx context.Context) ([]entity.HistoryRecord, error)
	UpdateOrInsertVisit(ctx context.Context, url, title, query string, isSerp bool, visitedAt time.Time) error
}
