package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	VendorCallDuration    *prometheus.HistogramVec
	SecondaryFallbacks    prometheus.Counter
	DuplicatesSuppressed  prometheus.Counter
	ReconcileOutcomes     *prometheus.CounterVec
	LiteRegistrations     *prometheus.CounterVec
	NotificationFailures  prometheus.Counter
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		VendorCallDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cdc_vendor_call_duration_seconds",
			Help:    "Duration of vendor API calls by method, datacenter and status.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "datacenter", "status"}),
		SecondaryFallbacks: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cdc_secondary_datacenter_fallbacks_total",
			Help: "Searches that fell back to the secondary datacenter after an empty primary result.",
		}),
		DuplicatesSuppressed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cdc_duplicate_accounts_suppressed_total",
			Help: "Pre-existing accounts disabled during federated registration reconciliation.",
		}),
		ReconcileOutcomes: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "cdc_registration_reconciliations_total",
			Help: "Registration reconciliations by terminal state.",
		}, []string{"outcome"}),
		LiteRegistrations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "cdc_lite_registrations_total",
			Help: "Lite registration batch items by result.",
		}, []string{"result"}),
		NotificationFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cdc_notification_failures_total",
			Help: "Downstream notifications that failed to serialize or publish.",
		}),
	}
}

// ObserveVendorCall records one vendor API call.
func (m *Metrics) ObserveVendorCall(method, datacenter string, elapsed time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.VendorCallDuration.WithLabelValues(method, datacenter, status).Observe(elapsed.Seconds())
}

// IncSecondaryFallback counts one fallback query to the secondary datacenter.
func (m *Metrics) IncSecondaryFallback() {
	m.SecondaryFallbacks.Inc()
}

// IncDuplicateSuppressed counts one disabled duplicate account.
func (m *Metrics) IncDuplicateSuppressed() {
	m.DuplicatesSuppressed.Inc()
}

// IncReconcileOutcome counts one reconciliation reaching the given terminal state.
func (m *Metrics) IncReconcileOutcome(outcome string) {
	m.ReconcileOutcomes.WithLabelValues(outcome).Inc()
}

// IncLiteRegistration counts one batch item by result.
func (m *Metrics) IncLiteRegistration(result string) {
	m.LiteRegistrations.WithLabelValues(result).Inc()
}

// IncNotificationFailure counts one failed downstream notification.
func (m *Metrics) IncNotificationFailure() {
	m.NotificationFailures.Inc()
}
