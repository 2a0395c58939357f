package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/mark47B/browser-data-service/app/domain/entity"
	"github.com/mark47B/browser-data-service/app/domain/repository"
	"github.com/mark47B/browser-data-service/app/infrastructure/metrics"
)

// HistoryService serves browsing history through a memoized slot that is
// invalidated after every saved visit. See Slot for its consistency contract.
type HistoryService struct {
	store  repository.HistoryStore
	clock  Clock
	logger *zap.Logger

	cache Slot[[]entity.HistoryEntry]
}

func NewHistoryService(store repository.HistoryStore, clock Clock, logger *zap.Logger) *HistoryService {
	return &HistoryService{
		store:  store,
		clock:  clock,
		logger: logger.Named("HistoryService"),
	}
}

// GetHistory returns the memoized entries. The slice and the entries in it
// are shared by every reader until the next invalidation and must be treated
// as read-only.
func (hs *HistoryService) GetHistory(ctx context.Context) ([]entity.HistoryEntry, error) {
	if entries, ok := hs.cache.Load(); ok {
		metrics.HistoryCacheHits.Inc()
		return entries, nil
	}
	metrics.HistoryCacheMisses.Inc()
	hs.logger.Debug("cache miss, loading history")

	entries, err := hs.cache.Get(ctx, hs.fetchHistoryEntries)
	if err != nil {
		metrics.ErrorsTotal.WithLabelValues("history_fetch").Inc()
		return nil, err
	}
	return entries, nil
}

func (hs *HistoryService) SaveToHistory(ctx context.Context, url, title, query string, isSerp bool) error {
	if err := hs.store.UpdateOrInsertVisit(ctx, url, title, query, isSerp, hs.clock.Now()); err != nil {
		metrics.ErrorsTotal.WithLabelValues("history_write").Inc()
		return err
	}
	metrics.VisitsSaved.Inc()
	hs.cache.Invalidate()
	return nil
}

func (hs *HistoryService) fetchHistoryEntries(ctx context.Context) ([]entity.HistoryEntry, error) {
	start := time.Now()
	records, err := hs.store.GetHistoryEntriesWithVisits(ctx)
	metrics.HistoryFetchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}

	entries := make([]entity.HistoryEntry, 0, len(records))
	for _, r := range records {
		entry, ok := r.ToHistoryEntry()
		if !ok {
			hs.logger.Warn("skipping history record with bad url", zap.String("url", r.URL))
			continue
		}
		entries = append(entries, entry)
	}
	hs.logger.Debug("history loaded", zap.Int("entries", len(entries)))
	return entries, nil
}
