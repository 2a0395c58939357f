package metrics

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HistoryFetchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name: "history_fetch_duration_seconds",
		Help: "Time spent loading history entries from the store",
	})
	HistoryCacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "history_cache_hits_total",
		Help: "History reads served from the memoized slot",
	})
	HistoryCacheMisses = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "history_cache_misses_total",
		Help: "History reads that went to the store",
	})
	VisitsSaved = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "history_visits_saved_total",
		Help: "Visits written to the history store",
	})
	PrivacyConfigDownloadDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name: "privacy_config_download_duration_seconds",
		Help: "Time spent downloading the remote privacy config",
	})
	FeaturesStored = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "privacy_config_features_stored_total",
		Help: "Privacy features persisted by a plugin",
	}, []string{"feature"})
	AutofillMessagesPosted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "autofill_messages_posted_total",
		Help: "Messages delivered back to a page",
	})
	Pixels = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pixels_fired_total",
		Help: "Pixels fired by name",
	}, []string{"pixel"})
	ErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "browser_data_errors_total",
		Help: "Errors by type",
	}, []string{"type"})
)

func init() {
	prometheus.MustRegister(
		HistoryFetchDuration,
		HistoryCacheHits,
		HistoryCacheMisses,
		VisitsSaved,
		PrivacyConfigDownloadDuration,
		FeaturesStored,
		AutofillMessagesPosted,
		Pixels,
		ErrorsTotal,
	)
}

// NewPendingRepliesGauge reports how many page replies wait for an autofill
// answer. The caller registers it.
func NewPendingRepliesGauge(pending func() int) prometheus.GaugeFunc {
	return prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "autofill_replies_pending",
		Help: "Page replies waiting for an autofill answer",
	}, func() float64 { return float64(pending()) })
}

// PixelSender counts fired pixels instead of sending them anywhere.
type PixelSender struct{}

func (PixelSender) Fire(pixelName string) {
	Pixels.WithLabelValues(pixelName).Inc()
}

func StartMetricsServer(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	if err := http.ListenAndServe(addr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
