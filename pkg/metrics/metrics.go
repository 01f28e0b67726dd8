// Package metrics provides Prometheus metrics for the growzzy API.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "growzzy"

var (
	// OAuthFlowsTotal counts OAuth starts and callbacks by outcome
	OAuthFlowsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "oauth",
			Name:      "flows_total",
			Help:      "Total number of OAuth steps by platform, step and result",
		},
		[]string{"platform", "step", "result"},
	)

	// SyncConnectionsTotal counts connection syncs by final status
	SyncConnectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "connections_total",
			Help:      "Total number of connection syncs by platform and status",
		},
		[]string{"platform", "status"},
	)

	// SyncAttemptsTotal counts every getCampaigns attempt, retries included
	SyncAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "attempts_total",
			Help:      "Total number of sync attempts by platform and result",
		},
		[]string{"platform", "result"},
	)

	// SyncCampaignsUpserted counts campaign rows written by the sync
	SyncCampaignsUpserted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "campaigns_upserted_total",
			Help:      "Total number of campaigns upserted by platform",
		},
		[]string{"platform"},
	)

	// SyncUserDuration tracks how long one user's sync takes
	SyncUserDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "user_duration_seconds",
			Help:      "Duration of a user sync in seconds",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120, 300},
		},
	)

	// AutomationEvaluationsTotal counts automation evaluations
	AutomationEvaluationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "automation",
			Name:      "evaluations_total",
			Help:      "Total number of automation evaluations by trigger type and outcome",
		},
		[]string{"trigger_type", "outcome"},
	)

	// PlatformRequestsTotal tracks outbound ad platform API calls
	PlatformRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "platform_client",
			Name:      "requests_total",
			Help:      "Total number of outbound platform API requests",
		},
		[]string{"platform", "method", "status_code"},
	)

	// PlatformRequestDuration tracks outbound ad platform API latency
	PlatformRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "platform_client",
			Name:      "request_duration_seconds",
			Help:      "Duration of outbound platform API requests in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"platform"},
	)

	// HTTPRequestsTotal tracks inbound API requests
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of inbound HTTP requests",
		},
		[]string{"method", "status_code"},
	)
)
