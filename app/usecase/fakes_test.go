package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/mark47B/browser-data-service/app/domain/entity"
)

type fakeClock struct{ now time.Time }

func (c fakeClock) Now() time.Time { return c.now }

type fakeHistoryStore struct {
	records  []entity.HistoryRecord
	fetchErr error
	writeErr error
	fetches  int
	writes   []time.Time
}

func (s *fakeHistoryStore) GetHistoryEntriesWithVisits(context.Context) ([]entity.HistoryRecord, error) {
	s.fetches++
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	out := make([]entity.HistoryRecord, len(s.records))
	copy(out, s.records)
	return out, nil
}

func (s *fakeHistoryStore) UpdateOrInsertVisit(_ context.Context, url, title, query string, isSerp bool, visitedAt time.Time) error {
	if s.writeErr != nil {
		return s.writeErr
	}
	s.writes = append(s.writes, visitedAt)
	for i := range s.records {
		if s.records[i].URL == url {
			s.records[i].Title = title
			s.records[i].Visits = append(s.records[i].Visits, visitedAt)
			return nil
		}
	}
	s.records = append(s.records, entity.HistoryRecord{
		URL: url, Title: title, Query: query, IsSerp: isSerp, Visits: []time.Time{visitedAt},
	})
	return nil
}

type fakeToggles struct {
	toggles  map[string]entity.FeatureToggle
	inserted []entity.FeatureToggle
	err      error
}

func newFakeToggles() *fakeToggles {
	return &fakeToggles{toggles: map[string]entity.FeatureToggle{}}
}

func (f *fakeToggles) Insert(_ context.Context, toggle entity.FeatureToggle) error {
	if f.err != nil {
		return f.err
	}
	f.inserted = append(f.inserted, toggle)
	f.toggles[toggle.Name] = toggle
	return nil
}

func (f *fakeToggles) Get(_ context.Context, name string) (*entity.FeatureToggle, error) {
	if f.err != nil {
		return nil, f.err
	}
	t, ok := f.toggles[name]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

type fakeExceptions struct {
	byFeature map[string][]entity.FeatureException
	updates   int
}

func newFakeExceptions() *fakeExceptions {
	return &fakeExceptions{byFeature: map[string][]entity.FeatureException{}}
}

func (f *fakeExceptions) UpdateAll(_ context.Context, feature string, exceptions []entity.FeatureException) error {
	f.updates++
	f.byFeature[feature] = exceptions
	return nil
}

func (f *fakeExceptions) List(_ context.Context, feature string) ([]entity.FeatureException, error) {
	return f.byFeature[feature], nil
}

type fakeDownloader struct {
	body []byte
	err  error
	urls []string
}

func (d *fakeDownloader) Fetch(_ context.Context, url string) ([]byte, error) {
	d.urls = append(d.urls, url)
	return d.body, d.err
}

type postedMessage struct {
	message   string
	requestID string
}

type fakePoster struct {
	mu     sync.Mutex
	posted []postedMessage
}

func (p *fakePoster) PostMessage(_ context.Context, message, requestID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.posted = append(p.posted, postedMessage{message: message, requestID: requestID})
	return nil
}

type fakeCredentialStore struct {
	updated            []entity.LoginCredentials
	refreshLastUpdated []bool
}

func (s *fakeCredentialStore) UpdateCredentials(_ context.Context, c entity.LoginCredentials, refresh bool) error {
	s.updated = append(s.updated, c)
	s.refreshLastUpdated = append(s.refreshLastUpdated, refresh)
	return nil
}

type fakeAuthenticator struct {
	result entity.AuthResult
	calls  int
}

func (a *fakeAuthenticator) Authenticate(context.Context) entity.AuthResult {
	a.calls++
	return a.result
}

type fakePixels struct{ fired []string }

func (p *fakePixels) Fire(name string) { p.fired = append(p.fired, name) }

type fakeEmailStore struct{ neverAsk bool }

func (s *fakeEmailStore) OnUserChoseNeverAskAgain(context.Context) error {
	s.neverAsk = true
	return nil
}

func (s *fakeEmailStore) HasUserChosenNeverAskAgain(context.Context) (bool, error) {
	return s.neverAsk, nil
}

type fakeListener struct {
	signUps []entity.AutofillURLRequest
	prompts []entity.AutofillURLRequest
}

func (l *fakeListener) OnSelectedToSignUpForInContextEmailProtection(_ context.Context, req entity.AutofillURLRequest) {
	l.signUps = append(l.signUps, req)
}

func (l *fakeListener) ShowNativeChooseEmailAddressPrompt(_ context.Context, req entity.AutofillURLRequest) {
	l.prompts = append(l.prompts, req)
}

type fakeReply struct {
	messages []string
	err      error
}

func (r *fakeReply) PostMessage(message string) error {
	r.messages = append(r.messages, message)
	return r.err
}

type fakeCohortStore struct {
	date   *time.Time
	gets   int
	sets   []time.Time
	getErr error
}

func (s *fakeCohortStore) CohortDate(context.Context) (*time.Time, error) {
	s.gets++
	return s.date, s.getErr
}

func (s *fakeCohortStore) SetCohortDate(_ context.Context, date time.Time) error {
	s.sets = append(s.sets, date)
	s.date = &date
	return nil
}

type fakeVPNRegistry struct{ features map[string]bool }

func (r *fakeVPNRegistry) IsFeatureRegistered(_ context.Context, feature string) (bool, error) {
	return r.features[feature], nil
}

func (r *fakeVPNRegistry) RegisterFeature(_ context.Context, feature string) error {
	r.features[feature] = true
	return nil
}

func (r *fakeVPNRegistry) UnregisterFeature(_ context.Context, feature string) error {
	delete(r.features, feature)
	return nil
}

type fakeLeaderLock struct {
	mu       sync.Mutex
	holder   string
	released int
}

func (l *fakeLeaderLock) Holder(context.Context, string) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.holder == "" {
		return "", entity.ErrNoLeader
	}
	return l.holder, nil
}

func (l *fakeLeaderLock) TryAcquire(_ context.Context, _ string, replicaID string, _ time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.holder != "" && l.holder != replicaID {
		return false, nil
	}
	l.holder = replicaID
	return true, nil
}

func (l *fakeLeaderLock) Renew(_ context.Context, _ string, replicaID string, _ time.Duration) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.holder != replicaID {
		return entity.ErrNotLeader
	}
	return nil
}

func (l *fakeLeaderLock) Release(_ context.Context, _ string, replicaID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.holder == replicaID {
		l.holder = ""
		l.released++
	}
	return nil
}
