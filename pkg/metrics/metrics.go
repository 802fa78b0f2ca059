// Package metrics holds the prometheus collectors shared by the assistant pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	LLMCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "haruhi",
		Name:      "llm_calls_total",
		Help:      "Language model gateway calls by outcome.",
	}, []string{"outcome"})

	Interpretations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "haruhi",
		Name:      "interpretations_total",
		Help:      "Plan interpreter results by kind.",
	}, []string{"kind"})

	PlanSteps = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "haruhi",
		Name:      "plan_steps_total",
		Help:      "Executed plan steps by action and result.",
	}, []string{"action", "ok"})

	HelperDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "haruhi",
		Name:      "helper_duration_seconds",
		Help:      "Latency of concurrent helper agent calls.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"helper", "ok"})
)

func BoolLabel(ok bool) string {
	if ok {
		return "true"
	}
	return "false"
}
