package metrics

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Webhook pipeline metrics
	webhooksReceived = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "walletalert_webhooks_received_total",
			Help: "Total number of webhook deliveries received",
		},
	)

	webhookSignatureFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "walletalert_webhook_signature_failures_total",
			Help: "Total number of webhook deliveries rejected for bad signatures",
		},
	)

	emailsSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "walletalert_emails_sent_total",
			Help: "Total number of alert emails successfully sent",
		},
	)

	emailsFailed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "walletalert_emails_failed_total",
			Help: "Total number of alert emails that failed to send",
		},
	)

	dedupSkips = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "walletalert_dedup_skips_total",
			Help: "Total number of activities skipped because the hash was already notified on",
		},
	)

	// HTTP metrics
	httpRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "walletalert_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"path", "method", "status"},
	)

	httpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "walletalert_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)

	// RPC metrics
	rpcRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "walletalert_rpc_retries_total",
			Help: "Total number of RPC retry attempts",
		},
		[]string{"operation"},
	)

	// System metrics
	goroutines = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "walletalert_goroutines",
			Help: "Current number of goroutines",
		},
	)

	memoryAlloc = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "walletalert_memory_alloc_bytes",
			Help: "Current heap allocation in bytes",
		},
	)
)

func WebhooksReceivedInc() {
	webhooksReceived.Inc()
}

func WebhookSignatureFailuresInc() {
	webhookSignatureFailures.Inc()
}

func EmailsSentInc() {
	emailsSent.Inc()
}

func EmailsFailedInc() {
	emailsFailed.Inc()
}

func DedupSkipsInc() {
	dedupSkips.Inc()
}

func HTTPRequestInc(path, method, status string) {
	httpRequests.WithLabelValues(path, method, status).Inc()
}

func HTTPRequestDurationLog(path, method string, duration time.Duration) {
	httpDuration.WithLabelValues(path, method).Observe(duration.Seconds())
}

func RPCRetryInc(operation string) {
	rpcRetries.WithLabelValues(operation).Inc()
}

// UpdateSystemMetrics refreshes process-level gauges.
func UpdateSystemMetrics() {
	goroutines.Set(float64(runtime.NumGoroutine()))

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	memoryAlloc.Set(float64(m.Alloc))
}
