// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TeamsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "teambuilder_teams_generated_total",
			Help: "Total number of team compositions generated",
		},
		[]string{"team_type"},
	)

	TeamGenerationFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "teambuilder_generation_failed_total",
			Help: "Total number of failed team generation requests",
		},
		[]string{"team_type", "error_code"},
	)

	AgentInvokeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "teambuilder_agent_invoke_duration_seconds",
			Help:    "Duration of Bedrock agent invocations in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 90, 120},
		},
		[]string{"status"},
	)

	SessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "teambuilder_sessions_active",
			Help: "Number of live sessions in the store",
		},
	)
)
