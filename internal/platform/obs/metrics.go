package obs

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"geo-calculator-service/internal/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the Prometheus collectors for calculation requests and the
// outbound operations timed by Time.
type Metrics struct {
	gatherer prometheus.Gatherer

	Requests    *prometheus.CounterVec
	OpDurations *prometheus.HistogramVec
}

// NewMetrics registers the collectors against reg, defaulting to the global
// Prometheus registry when nil.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "geo_calculations_total",
		Help: "Handled calculation requests, labeled by type and outcome (ok or error kind).",
	}, []string{"type", "outcome"})
	if err := reg.Register(requests); err != nil {
		are, ok := err.(prometheus.AlreadyRegisteredError)
		if !ok {
			return nil, err
		}
		existing, ok := are.ExistingCollector.(*prometheus.CounterVec)
		if !ok {
			return nil, fmt.Errorf("collector geo_calculations_total already registered with incompatible type")
		}
		requests = existing
	}

	durations := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "geo_operation_duration_seconds",
		Help:    "Latency of timed operations (database, secrets, maps) in seconds.",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	}, []string{"op", "result"})
	if err := reg.Register(durations); err != nil {
		are, ok := err.(prometheus.AlreadyRegisteredError)
		if !ok {
			return nil, err
		}
		existing, ok := are.ExistingCollector.(*prometheus.HistogramVec)
		if !ok {
			return nil, fmt.Errorf("collector geo_operation_duration_seconds already registered with incompatible type")
		}
		durations = existing
	}

	return &Metrics{
		gatherer:    gatherer,
		Requests:    requests,
		OpDurations: durations,
	}, nil
}

const metricsKey ctxKey = "metrics"

// WithMetrics attaches m to ctx for Time and RecordRequest. The entry point
// owns m; a nil m disables recording.
func WithMetrics(ctx context.Context, m *Metrics) context.Context {
	return context.WithValue(ctx, metricsKey, m)
}

// MetricsFrom returns the collectors attached by WithMetrics, or nil.
func MetricsFrom(ctx context.Context) *Metrics {
	m, _ := ctx.Value(metricsKey).(*Metrics)
	return m
}

// RecordRequest counts one dispatched request on the collectors carried by ctx.
func RecordRequest(ctx context.Context, calcType string, err error) {
	MetricsFrom(ctx).recordRequest(calcType, err)
}

func (m *Metrics) recordRequest(calcType string, err error) {
	if m == nil || m.Requests == nil {
		return
	}
	if calcType == "" {
		calcType = "none"
	}
	outcome := "ok"
	if err != nil {
		outcome = domain.KindOf(err).String()
	}
	m.Requests.WithLabelValues(calcType, outcome).Inc()
}

func (m *Metrics) observeOp(op string, dur time.Duration, err error) {
	if m == nil || m.OpDurations == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.OpDurations.WithLabelValues(op, result).Observe(dur.Seconds())
}

// Handler exposes a ready-to-use /metrics handler.
func (m *Metrics) Handler() http.Handler {
	gatherer := m.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
