package repository

import (
	"context"
	"time"
)

type CohortStore interface {
	// CohortDate returns nil when no cohort was assigned yet.
	CohortDate(ctx context.Context) (*time.Time, error)
	SetCohortDate(ctx context.Context, date time.Time) error
}

type VPNFeaturesRegistry interface {
	IsFeatureRegistered(ctx context.Context, feature string) (bool, error)
	RegisterFeature(ctx context.Context, feature string) error
	UnregisterFeature(ctx context.Context, feature string) error
}
