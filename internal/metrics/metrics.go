// Package metrics defines the Prometheus metrics of the forum. They're
// registered with the default registry on import and served on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "forum"

// PostsCreatedTotal counts created posts by tag
var PostsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "posts_created_total",
		Help:      "Total number of posts created, by tag.",
	},
	[]string{"tag"},
)

var PostsDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "posts_deleted_total",
		Help:      "Total number of posts deleted.",
	},
)

// LoginsTotal counts Discord logins. result is "new", "returning" or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of Discord logins, by result.",
	},
	[]string{"result"},
)

// UploadsRejectedTotal counts rejected attachments. reason is "type" or "name"
var UploadsRejectedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "uploads_rejected_total",
		Help:      "Total number of rejected attachments, by reason.",
	},
	[]string{"reason"},
)
