package entity

import (
	"net/url"
	"time"
)

type HistoryEntryKind string

const (
	VisitedPage HistoryEntryKind = "page"
	VisitedSERP HistoryEntryKind = "serp"
)

// HistoryRecord is a stored page together with every visit to it.
type HistoryRecord struct {
	URL    string      `bson:"_id"`
	Title  string      `bson:"title"`
	Query  string      `bson:"query,omitempty"`
	IsSerp bool        `bson:"is_serp"`
	Visits []time.Time `bson:"visits"`
}

type HistoryEntry struct {
	Kind   HistoryEntryKind
	URL    *url.URL
	Title  string
	Query  string
	Visits []time.Time
}

// ToHistoryEntry maps a stored record to the entry served to readers.
// Records whose URL does not parse are reported as not ok.
func (r HistoryRecord) ToHistoryEntry() (HistoryEntry, bool) {
	u, err := url.Parse(r.URL)
	if err != nil {
		return HistoryEntry{}, false
	}
	entry := HistoryEntry{
		Kind:   VisitedPage,
		URL:    u,
		Title:  r.Title,
		Visits: r.Visits,
	}
	if r.IsSerp {
		entry.Kind = VisitedSERP
		entry.Query = r.Query
	}
	return entry, true
}
