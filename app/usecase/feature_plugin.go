package usecase

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/mark47B/browser-data-service/app/domain/entity"
	"github.com/mark47B/browser-data-service/app/domain/repository"
	"github.com/mark47B/browser-data-service/app/infrastructure/metrics"
)

// FeaturePlugin persists one feature of the remote privacy config.
type FeaturePlugin struct {
	featureName string
	toggles     repository.FeatureTogglesRepository
	exceptions  repository.FeatureExceptionsRepository
}

func NewFeaturePlugin(featureName string, toggles repository.FeatureTogglesRepository, exceptions repository.FeatureExceptionsRepository) *FeaturePlugin {
	return &FeaturePlugin{featureName: featureName, toggles: toggles, exceptions: exceptions}
}

func NewUserAgentPlugin(toggles repository.FeatureTogglesRepository, exceptions repository.FeatureExceptionsRepository) *FeaturePlugin {
	return NewFeaturePlugin(entity.FeatureUserAgent, toggles, exceptions)
}

// Store reports whether featureName belongs to this plugin. Features owned by
// other plugins are ignored without touching the repositories.
func (p *FeaturePlugin) Store(ctx context.Context, featureName, rawJSON string) (bool, error) {
	if featureName != p.featureName {
		return false, nil
	}

	feature := gjson.Parse(rawJSON)
	toggle := entity.FeatureToggle{
		Name:    p.featureName,
		Enabled: feature.Get("state").String() == "enabled",
	}
	if v := feature.Get("minSupportedVersion"); v.Exists() {
		version := int(v.Int())
		toggle.MinSupportedVersion = &version
	}

	var exceptions []entity.FeatureException
	feature.Get("exceptions").ForEach(func(_, e gjson.Result) bool {
		exceptions = append(exceptions, entity.FeatureException{
			Feature: p.featureName,
			Domain:  e.Get("domain").String(),
			Reason:  e.Get("reason").String(),
		})
		return true
	})

	if err := p.exceptions.UpdateAll(ctx, p.featureName, exceptions); err != nil {
		return true, fmt.Errorf("update %s exceptions: %w", p.featureName, err)
	}
	if err := p.toggles.Insert(ctx, toggle); err != nil {
		return true, fmt.Errorf("insert %s toggle: %w", p.featureName, err)
	}
	metrics.FeaturesStored.WithLabelValues(p.featureName).Inc()
	return true, nil
}

// FeatureGate answers whether a stored feature applies to this app version
// and to a given page.
type FeatureGate struct {
	toggles    repository.FeatureTogglesRepository
	exceptions repository.FeatureExceptionsRepository
	appVersion int
}

func NewFeatureGate(toggles repository.FeatureTogglesRepository, exceptions repository.FeatureExceptionsRepository, appVersion int) *FeatureGate {
	return &FeatureGate{toggles: toggles, exceptions: exceptions, appVersion: appVersion}
}

func (g *FeatureGate) IsEnabled(ctx context.Context, featureName string) (bool, error) {
	toggle, err := g.toggles.Get(ctx, featureName)
	if err != nil {
		return false, fmt.Errorf("get %s toggle: %w", featureName, err)
	}
	if toggle == nil || !toggle.Enabled {
		return false, nil
	}
	if toggle.MinSupportedVersion != nil && g.appVersion < *toggle.MinSupportedVersion {
		return false, nil
	}
	return true, nil
}

// IsAnException matches the page host against the feature's exception
// domains, subdomains included.
func (g *FeatureGate) IsAnException(ctx context.Context, featureName, pageURL string) (bool, error) {
	host := hostOf(pageURL)
	if host == "" {
		return false, nil
	}
	exceptions, err := g.exceptions.List(ctx, featureName)
	if err != nil {
		return false, fmt.Errorf("list %s exceptions: %w", featureName, err)
	}
	for _, e := range exceptions {
		domain := strings.ToLower(e.Domain)
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return true, nil
		}
	}
	return false, nil
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		u, err = url.Parse("https://" + rawURL)
		if err != nil {
			return ""
		}
	}
	return strings.ToLower(u.Hostname())
}
