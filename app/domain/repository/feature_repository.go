package repository

import (
	"context"

	"github.com/mark47B/browser-data-service/app/domain/entity"
)

type FeatureTogglesRepository interface {
	Insert(ctx context.Context, toggle entity.FeatureToggle) error
	// Get returns nil when the feature was never stored.
	Get(ctx context.Context, featureName string) (*entity.FeatureToggle, error)
}

type FeatureExceptionsRepository interface {
	UpdateAll(ctx context.Context, featureName string, exceptions []entity.FeatureException) error
	List(ctx context.Context, featureName string) ([]entity.FeatureException, error)
}

type PrivacyConfigDownloader interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}
