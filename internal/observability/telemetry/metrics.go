package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	VoiceCommandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "concierge_voice_commands_total",
		Help: "Voice commands processed by the pipeline",
	}, []string{"intent", "status"})

	PipelineStageLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "concierge_pipeline_stage_seconds",
		Help:    "Latency of each pipeline stage",
		Buckets: prometheus.DefBuckets,
	}, []string{"stage"})

	GatewayTokenRefreshTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "concierge_gateway_token_refresh_total",
		Help: "Gateway credential fetches and renewals",
	}, []string{"kind", "status"})

	SceneActionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "concierge_scene_actions_total",
		Help: "Device actions issued by scene executions",
	}, []string{"scene", "outcome"})

	TranslationLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "concierge_translation_lookups_total",
		Help: "Translation lookups by resolution source",
	}, []string{"source"})
)
