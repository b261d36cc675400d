package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ballpark_http_requests_total",
			Help: "Total HTTP requests by route, method and status",
		},
		[]string{"route", "method", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ballpark_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	// ExploreDuration covers feed, trending and suggestion composition.
	ExploreDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ballpark_explore_duration_seconds",
			Help:    "Time spent composing explore results",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	ExploreResults = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ballpark_explore_results",
			Help:    "Number of items returned by explore composition",
			Buckets: []float64{0, 1, 5, 10, 20, 50},
		},
		[]string{"kind"},
	)

	ScheduledPostsPublished = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ballpark_scheduled_posts_published_total",
			Help: "Scheduled posts moved to published state",
		},
	)

	PublishSweeps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ballpark_publish_sweeps_total",
			Help: "Scheduled publish sweeps by result",
		},
		[]string{"result"},
	)
)

// RecordHTTPRequest records one finished request.
func RecordHTTPRequest(route, method string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	HTTPRequestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

// ObserveExplore records composition latency and result size for kind.
func ObserveExplore(kind string, started time.Time, results int) {
	ExploreDuration.WithLabelValues(kind).Observe(time.Since(started).Seconds())
	ExploreResults.WithLabelValues(kind).Observe(float64(results))
}

// RecordPublishSweep records the outcome of one publisher sweep.
func RecordPublishSweep(published int64, err error) {
	if err != nil {
		PublishSweeps.WithLabelValues("error").Inc()
		return
	}
	PublishSweeps.WithLabelValues("ok").Inc()
	ScheduledPostsPublished.Add(float64(published))
}
