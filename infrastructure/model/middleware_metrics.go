package model

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RequestMetrics holds the Prometheus instruments for model requests.
// One instance is shared by every middleware wrapping the same run.
type RequestMetrics struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

// NewRequestMetrics registers the model request instruments with the
// given registerer.
func NewRequestMetrics(reg prometheus.Registerer) *RequestMetrics {
	m := &RequestMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shopbench_model_requests_total",
			Help: "Model prediction requests by model and outcome.",
		}, []string{"model", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "shopbench_model_request_duration_seconds",
			Help:    "Model prediction latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"model"}),
	}
	reg.MustRegister(m.requests, m.latency)
	return m
}

// metricsCore records request counts and latency around predictions.
type metricsCore struct {
	next    Core
	metrics *RequestMetrics
}

// MetricsMiddleware creates middleware that records request metrics.
func MetricsMiddleware(metrics *RequestMetrics) Middleware {
	return func(next Core) Core {
		return &metricsCore{next: next, metrics: metrics}
	}
}

func (m *metricsCore) ModelName() string { return m.next.ModelName() }

func (m *metricsCore) Predict(ctx context.Context, prompt string, isMultipleChoice bool) (string, error) {
	start := time.Now()
	response, err := m.next.Predict(ctx, prompt, isMultipleChoice)

	status := "success"
	if err != nil {
		status = "error"
		if ctx.Err() == context.DeadlineExceeded {
			status = "timeout"
		}
	}

	modelName := m.next.ModelName()
	m.metrics.latency.WithLabelValues(modelName).Observe(time.Since(start).Seconds())
	m.metrics.requests.WithLabelValues(modelName, status).Inc()

	return response, err
}
