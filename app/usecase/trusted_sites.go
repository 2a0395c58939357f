package usecase

import (
	"slices"
	"sync"
)

// TrustedSites remembers domains whose certificate errors the user chose to
// bypass. Add keeps duplicates; lookups are a linear scan in insertion order.
type TrustedSites struct {
	mu    sync.RWMutex
	sites []string
}

func NewTrustedSites() *TrustedSites {
	return &TrustedSites{}
}

func (ts *TrustedSites) Add(domain string) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.sites = append(ts.sites, domain)
}

func (ts *TrustedSites) Contains(domain string) bool {
	ts.mu.RLock()
	defer ts.mu.RUnlock()
	return slices.Contains(ts.sites, domain)
}

func (ts *TrustedSites) List() []string {
	ts.mu.RLock()
	defer ts.mu.RUnlock()
	return slices.Clone(ts.sites)
}
