package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/mark47B/browser-data-service/app/domain/repository"
	"github.com/mark47B/browser-data-service/app/infrastructure/metrics"
)

type PrivacyFeaturePlugin interface {
	Store(ctx context.Context, featureName, rawJSON string) (bool, error)
}

// LeaderChecker is satisfied by ReplicaLeaderService. WhoLeader runs an
// election when nobody holds the lock.
type LeaderChecker interface {
	AmILeader() bool
	WhoLeader(ctx context.Context) (string, error)
}

type PrivacyConfigService struct {
	downloader repository.PrivacyConfigDownloader
	plugins    []PrivacyFeaturePlugin
	leader     LeaderChecker
	configURL  string
	logger     *zap.Logger
}

func NewPrivacyConfigService(
	downloader repository.PrivacyConfigDownloader,
	configURL string,
	leader LeaderChecker,
	logger *zap.Logger,
	plugins ...PrivacyFeaturePlugin) *PrivacyConfigService {

	return &PrivacyConfigService{
		downloader: downloader,
		plugins:    plugins,
		leader:     leader,
		configURL:  configURL,
		logger:     logger.Named("PrivacyConfigService"),
	}
}

// Refresh downloads the remote config and offers every feature to every
// plugin. It returns how many features a plugin accepted.
func (s *PrivacyConfigService) Refresh(ctx context.Context) (int, error) {
	data, err := s.downloader.Fetch(ctx, s.configURL)
	if err != nil {
		return 0, fmt.Errorf("download privacy config: %w", err)
	}
	if !gjson.ValidBytes(data) {
		metrics.ErrorsTotal.WithLabelValues("privacy_config_parse").Inc()
		return 0, fmt.Errorf("privacy config from %s is not valid json", s.configURL)
	}

	config := gjson.ParseBytes(data)
	s.logger.Info("privacy config downloaded", zap.Int64("version", config.Get("version").Int()))

	stored := 0
	var storeErr error
	config.Get("features").ForEach(func(name, feature gjson.Result) bool {
		for _, p := range s.plugins {
			ok, err := p.Store(ctx, name.String(), feature.Raw)
			if err != nil {
				storeErr = fmt.Errorf("store feature %s: %w", name.String(), err)
				return false
			}
			if ok {
				stored++
			}
		}
		return true
	})
	if storeErr != nil {
		metrics.ErrorsTotal.WithLabelValues("privacy_config_store").Inc()
		return stored, storeErr
	}

	s.logger.Info("privacy config stored", zap.Int("features", stored))
	return stored, nil
}

// Run refreshes on every tick while this replica holds leadership. A
// replica that is not the leader checks the lock on each tick and takes it
// over when the previous leader is gone.
func (s *PrivacyConfigService) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if !s.leader.AmILeader() {
			if _, err := s.leader.WhoLeader(ctx); err != nil && ctx.Err() == nil {
				s.logger.Warn("who leader", zap.Error(err))
			}
		}
		if s.leader.AmILeader() {
			if _, err := s.Refresh(ctx); err != nil {
				s.logger.Error("privacy config refresh", zap.Error(err))
			}
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
