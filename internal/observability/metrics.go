package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// UsersRegistered counts successful registrations.
	UsersRegistered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "socialapp_users_registered_total",
		Help: "Total number of registered users",
	})

	// AuthFailures counts rejected logins and tokens by reason.
	AuthFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "socialapp_auth_failures_total",
		Help: "Total number of authentication failures by reason",
	}, []string{"reason"})

	// PostsCreated counts created posts.
	PostsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "socialapp_posts_created_total",
		Help: "Total number of posts created",
	})

	// PostReactions counts like, unlike, comment and uncomment operations.
	PostReactions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "socialapp_post_reactions_total",
		Help: "Total number of post reactions by action",
	}, []string{"action"})

	// PostWriteConflicts counts optimistic-lock conflicts on post mutations.
	PostWriteConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "socialapp_post_write_conflicts_total",
		Help: "Total number of version conflicts while mutating posts",
	})

	// CacheLookups counts cache-aside reads by result (hit or miss).
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "socialapp_cache_lookups_total",
		Help: "Total number of cache lookups by result",
	}, []string{"result"})

	// CacheErrors counts failed Redis commands by command name.
	CacheErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "socialapp_cache_errors_total",
		Help: "Total number of Redis command errors by command",
	}, []string{"command"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "socialapp_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
