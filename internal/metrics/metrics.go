package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Pipeline metrics
	PipelineMessagesTotal   *prometheus.CounterVec
	PipelineDurationSeconds *prometheus.HistogramVec
	IntentTotal             *prometheus.CounterVec

	// Generation metrics
	GenerationRequestsTotal   *prometheus.CounterVec
	GenerationDurationSeconds *prometheus.HistogramVec

	// Delivery metrics
	DeliveryTotal           *prometheus.CounterVec
	DeliveryDurationSeconds prometheus.Histogram
	ChunkedRepliesTotal     prometheus.Counter
	ChunksPerReply          prometheus.Histogram

	// Debounce metrics
	DebounceSuppressedTotal prometheus.Counter
	DebounceEntries         prometheus.Gauge

	// Webhook metrics
	WebhookRequestsTotal   *prometheus.CounterVec
	WebhookQueueDropsTotal prometheus.Counter

	// HTTP metrics
	HTTPErrorsTotal *prometheus.CounterVec
}

// New creates a new Metrics instance with all metrics registered
func New(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		// Pipeline metrics
		PipelineMessagesTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "atiendebot_pipeline_messages_total",
				Help: "Total number of processed inbound messages by intent and outcome",
			},
			[]string{"intent", "outcome"}, // outcome: replied, dropped, suppressed, error, unregistered, misconfigured
		),

		PipelineDurationSeconds: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "atiendebot_pipeline_duration_seconds",
				Help:    "End-to-end inbound message processing duration by reply path",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30}, // template replies are fast, generation is slow
			},
			[]string{"path"}, // path: template, generative, catalog
		),

		IntentTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "atiendebot_intent_total",
				Help: "Total number of classified intents by intent and language",
			},
			[]string{"intent", "lang"}, // lang: es, en
		),

		// Generation metrics
		GenerationRequestsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "atiendebot_generation_requests_total",
				Help: "Total number of completion-service calls by provider and status",
			},
			[]string{"provider", "status"}, // status: success, error, fallback
		),

		GenerationDurationSeconds: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "atiendebot_generation_duration_seconds",
				Help:    "Completion-service call duration by provider",
				Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30}, // matches 30s generation timeout
			},
			[]string{"provider"},
		),

		// Delivery metrics
		DeliveryTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "atiendebot_delivery_total",
				Help: "Total number of outbound sends by status",
			},
			[]string{"status"}, // status: success, error
		),

		DeliveryDurationSeconds: promauto.With(registry).NewHistogram(
			prometheus.HistogramOpts{
				Name:    "atiendebot_delivery_duration_seconds",
				Help:    "Twilio REST call duration",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 15},
			},
		),

		ChunkedRepliesTotal: promauto.With(registry).NewCounter(
			prometheus.CounterOpts{
				Name: "atiendebot_chunked_replies_total",
				Help: "Total number of replies split into multiple chunks",
			},
		),

		ChunksPerReply: promauto.With(registry).NewHistogram(
			prometheus.HistogramOpts{
				Name:    "atiendebot_chunks_per_reply",
				Help:    "Number of chunks per chunked reply",
				Buckets: []float64{2, 3, 4, 6, 8, 12, 16},
			},
		),

		// Debounce metrics
		DebounceSuppressedTotal: promauto.With(registry).NewCounter(
			prometheus.CounterOpts{
				Name: "atiendebot_debounce_suppressed_total",
				Help: "Total number of greetings suppressed by the debounce policy",
			},
		),

		DebounceEntries: promauto.With(registry).NewGauge(
			prometheus.GaugeOpts{
				Name: "atiendebot_debounce_entries",
				Help: "Current number of sender records in the debounce store",
			},
		),

		// Webhook metrics
		WebhookRequestsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "atiendebot_webhook_requests_total",
				Help: "Total number of inbound webhook callbacks by status",
			},
			[]string{"status"}, // status: accepted, bad_request, queue_full
		),

		WebhookQueueDropsTotal: promauto.With(registry).NewCounter(
			prometheus.CounterOpts{
				Name: "atiendebot_webhook_queue_drops_total",
				Help: "Total number of inbound messages dropped because the worker queue was full",
			},
		),

		// HTTP metrics
		HTTPErrorsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "atiendebot_http_errors_total",
				Help: "Total HTTP errors by type and module",
			},
			[]string{"error_type", "module"}, // error_type: bad_request, not_found, internal
		),
	}

	return m
}

// RecordPipelineOutcome records a processed message with its classified intent and outcome
func (m *Metrics) RecordPipelineOutcome(intent, outcome string) {
	m.PipelineMessagesTotal.WithLabelValues(intent, outcome).Inc()
}

// RecordPipelineDuration records end-to-end processing duration for a reply path
func (m *Metrics) RecordPipelineDuration(path string, duration float64) {
	m.PipelineDurationSeconds.WithLabelValues(path).Observe(duration)
}

// RecordIntent records a classified intent with its detected language
func (m *Metrics) RecordIntent(intent, lang string) {
	m.IntentTotal.WithLabelValues(intent, lang).Inc()
}

// RecordGeneration records a completion-service call
func (m *Metrics) RecordGeneration(provider, status string, duration float64) {
	m.GenerationRequestsTotal.WithLabelValues(provider, status).Inc()
	m.GenerationDurationSeconds.WithLabelValues(provider).Observe(duration)
}

// RecordDelivery records an outbound send
func (m *Metrics) RecordDelivery(status string, duration float64) {
	m.DeliveryTotal.WithLabelValues(status).Inc()
	m.DeliveryDurationSeconds.Observe(duration)
}

// RecordChunkedReply records a reply that was split for delivery
func (m *Metrics) RecordChunkedReply(chunks int) {
	m.ChunkedRepliesTotal.Inc()
	m.ChunksPerReply.Observe(float64(chunks))
}

// RecordDebounceSuppressed records a greeting suppressed by the debounce policy
func (m *Metrics) RecordDebounceSuppressed() {
	m.DebounceSuppressedTotal.Inc()
}

// SetDebounceEntries updates the debounce store size gauge
func (m *Metrics) SetDebounceEntries(count int) {
	m.DebounceEntries.Set(float64(count))
}

// RecordWebhook records an inbound webhook callback
func (m *Metrics) RecordWebhook(status string) {
	m.WebhookRequestsTotal.WithLabelValues(status).Inc()
}

// RecordQueueDrop records an inbound message dropped due to a full worker queue
func (m *Metrics) RecordQueueDrop() {
	m.WebhookQueueDropsTotal.Inc()
}

// RecordHTTPError records HTTP error metrics
func (m *Metrics) RecordHTTPError(errorType, module string) {
	m.HTTPErrorsTotal.WithLabelValues(errorType, module).Inc()
}
