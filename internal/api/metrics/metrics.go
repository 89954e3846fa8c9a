// Package metrics defines and registers all custom Prometheus metrics for the
// feed API. It is the single source of truth for metric names, labels, and
// help strings. Metrics register with the default registry at package init;
// the /metrics route is mounted by the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "feed"

// SignupsTotal counts successfully created accounts.
var SignupsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signups_total",
		Help:      "Total number of user accounts created.",
	},
)

// LoginsTotal counts login attempts by outcome.
// Label:
//   - result: "success", "rejected" (bad credentials), or "throttled"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, labelled by result.",
	},
	[]string{"result"},
)

// AuthRejectedTotal counts requests rejected by the auth middleware.
// Label:
//   - reason: "missing_header", "bad_header", "invalid_token", "expired_token"
var AuthRejectedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_rejected_total",
		Help:      "Total number of requests rejected by the auth middleware.",
	},
	[]string{"reason"},
)

// PostsCreatedTotal counts newly created posts.
var PostsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "posts_created_total",
		Help:      "Total number of posts created.",
	},
)

// PostsDeletedTotal counts deleted posts.
var PostsDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "posts_deleted_total",
		Help:      "Total number of posts deleted.",
	},
)

// ImageCleanupTotal counts background image-file removals.
// Label:
//   - result: "ok", "error", or "dropped" (queue full)
var ImageCleanupTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "image_cleanup_total",
		Help:      "Total number of background image cleanups, labelled by result.",
	},
	[]string{"result"},
)
