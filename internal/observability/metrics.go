// Package observability provides Prometheus metrics for monitoring the
// platform. Error telemetry is handled in the telemetry package.
package observability

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all metric collectors for the application.
type Metrics struct {
	registry *prometheus.Registry

	HTTP       *HTTPMetrics
	Classify   *ClassifyMetrics
	Moderation *ModerationMetrics
	Messaging  *MessagingMetrics
}

// NewMetrics creates a Metrics instance with all collectors registered on a
// private registry.
func NewMetrics() (*Metrics, error) {
	registry := prometheus.NewRegistry()

	httpMetrics, err := NewHTTPMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP metrics: %w", err)
	}
	classifyMetrics, err := NewClassifyMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to create classify metrics: %w", err)
	}
	moderationMetrics, err := NewModerationMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to create moderation metrics: %w", err)
	}
	messagingMetrics, err := NewMessagingMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to create messaging metrics: %w", err)
	}

	return &Metrics{
		registry:   registry,
		HTTP:       httpMetrics,
		Classify:   classifyMetrics,
		Moderation: moderationMetrics,
		Messaging:  messagingMetrics,
	}, nil
}

// RegisterHandlers registers the metrics endpoint on the provided mux.
func (m *Metrics) RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc("/metrics", m.metricsHandler)
}

func (m *Metrics) metricsHandler(w http.ResponseWriter, r *http.Request) {
	h := promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		ErrorLog:      log.New(os.Stderr, "metrics handler: ", log.LstdFlags),
		ErrorHandling: promhttp.HTTPErrorOnError,
	})
	h.ServeHTTP(w, r)
}

// HTTPMetrics contains request-level metrics for the API server.
type HTTPMetrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// NewHTTPMetrics creates and registers the HTTP metrics.
func NewHTTPMetrics(registry *prometheus.Registry) (*HTTPMetrics, error) {
	m := &HTTPMetrics{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mediplant_http_requests_total",
				Help: "Total HTTP requests partitioned by method, path and status code.",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mediplant_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
	}
	for _, collector := range []prometheus.Collector{m.RequestsTotal, m.RequestDuration} {
		if err := registry.Register(collector); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// ClassifyMetrics contains metrics for the identification pipeline.
type ClassifyMetrics struct {
	IdentificationsTotal *prometheus.CounterVec
	ProviderErrors       *prometheus.CounterVec
	IdentifyDuration     *prometheus.HistogramVec
}

// NewClassifyMetrics creates and registers the identification metrics.
func NewClassifyMetrics(registry *prometheus.Registry) (*ClassifyMetrics, error) {
	m := &ClassifyMetrics{
		IdentificationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mediplant_identifications_total",
				Help: "Total identifications partitioned by provider and outcome.",
			},
			[]string{"provider", "outcome"},
		),
		ProviderErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mediplant_identification_provider_errors_total",
				Help: "Total identification provider failures.",
			},
			[]string{"provider"},
		),
		IdentifyDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mediplant_identification_duration_seconds",
				Help:    "Identification latency in seconds per provider.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"provider"},
		),
	}
	for _, collector := range []prometheus.Collector{m.IdentificationsTotal, m.ProviderErrors, m.IdentifyDuration} {
		if err := registry.Register(collector); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// ModerationMetrics contains metrics for the review workflow.
type ModerationMetrics struct {
	DecisionsTotal *prometheus.CounterVec
	BadgesAwarded  *prometheus.CounterVec
}

// NewModerationMetrics creates and registers the moderation metrics.
func NewModerationMetrics(registry *prometheus.Registry) (*ModerationMetrics, error) {
	m := &ModerationMetrics{
		DecisionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mediplant_moderation_decisions_total",
				Help: "Moderation decisions partitioned by entity and decision.",
			},
			[]string{"entity", "decision"},
		),
		BadgesAwarded: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mediplant_badges_awarded_total",
				Help: "Badges awarded partitioned by badge name.",
			},
			[]string{"badge"},
		),
	}
	for _, collector := range []prometheus.Collector{m.DecisionsTotal, m.BadgesAwarded} {
		if err := registry.Register(collector); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// MessagingMetrics contains metrics for outbound message dispatch.
type MessagingMetrics struct {
	MessagesTotal *prometheus.CounterVec
}

// NewMessagingMetrics creates and registers the messaging metrics.
func NewMessagingMetrics(registry *prometheus.Registry) (*MessagingMetrics, error) {
	m := &MessagingMetrics{
		MessagesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mediplant_messages_total",
				Help: "Outbound messages partitioned by channel and delivery status.",
			},
			[]string{"channel", "status"},
		),
	}
	if err := registry.Register(m.MessagesTotal); err != nil {
		return nil, err
	}
	return m, nil
}
