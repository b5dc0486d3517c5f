// Package metrics exposes the Prometheus collectors of the application.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "yatube_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "yatube_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	HTTPActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "yatube_http_active_requests",
			Help: "Number of HTTP requests currently being served",
		},
	)

	// Index page cache
	IndexCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "yatube_index_cache_hits_total",
			Help: "Index pages served from cache",
		},
	)

	IndexCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "yatube_index_cache_misses_total",
			Help: "Index pages loaded from the database",
		},
	)

	// Domain events
	PostsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "yatube_posts_created_total",
		Help: "Posts created",
	})

	CommentsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "yatube_comments_created_total",
		Help: "Comments created",
	})

	LikeToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yatube_like_toggles_total",
		Help: "Like toggles by resulting state",
	}, []string{"state"}) // "liked", "unliked"

	ExpiredSessionsDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "yatube_expired_sessions_deleted_total",
		Help: "Expired sessions removed by the janitor",
	})
)

// RecordHTTPRequest records one finished request.
func RecordHTTPRequest(method, route, status string, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func TrackActiveRequest(inc bool) {
	if inc {
		HTTPActiveRequests.Inc()
	} else {
		HTTPActiveRequests.Dec()
	}
}

func RecordLikeToggle(liked bool) {
	if liked {
		LikeToggles.WithLabelValues("liked").Inc()
	} else {
		LikeToggles.WithLabelValues("unliked").Inc()
	}
}
