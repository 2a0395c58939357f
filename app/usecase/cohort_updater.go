package usecase

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mark47B/browser-data-service/app/domain/entity"
	"github.com/mark47B/browser-data-service/app/domain/repository"
)

// CohortUpdater assigns the network protection cohort the first time the
// VPN starts with network protection registered. The cohort is the calendar
// day in loc at that moment.
type CohortUpdater struct {
	registry repository.VPNFeaturesRegistry
	store    repository.CohortStore
	clock    Clock
	loc      *time.Location
	logger   *zap.Logger
}

// NewCohortUpdater uses UTC when loc is nil.
func NewCohortUpdater(registry repository.VPNFeaturesRegistry, store repository.CohortStore, clock Clock, loc *time.Location, logger *zap.Logger) *CohortUpdater {
	if loc == nil {
		loc = time.UTC
	}
	return &CohortUpdater{registry: registry, store: store, clock: clock, loc: loc, logger: logger.Named("CohortUpdater")}
}

func (u *CohortUpdater) OnVPNStarted(ctx context.Context) error {
	registered, err := u.registry.IsFeatureRegistered(ctx, entity.FeatureNetPVpn)
	if err != nil {
		return fmt.Errorf("check netp registration: %w", err)
	}
	if !registered {
		return nil
	}

	cohort, err := u.store.CohortDate(ctx)
	if err != nil {
		return fmt.Errorf("get cohort: %w", err)
	}
	if cohort != nil {
		return nil
	}

	now := u.clock.Now().In(u.loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, u.loc)
	if err := u.store.SetCohortDate(ctx, today); err != nil {
		return fmt.Errorf("set cohort: %w", err)
	}
	u.logger.Info("netp cohort assigned", zap.String("cohort", today.Format(time.DateOnly)))
	return nil
}
