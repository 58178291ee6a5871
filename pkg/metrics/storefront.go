package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "storefront"

// StorefrontMetrics records cart activity, toast churn and session lifecycle.
type StorefrontMetrics struct {
	cartActions    *prometheus.CounterVec
	checkouts      *prometheus.CounterVec
	toastEvents    *prometheus.CounterVec
	sessionsActive prometheus.Gauge
	sweepDuration  prometheus.Histogram
	evicted        prometheus.Counter
}

// NewStorefrontMetrics registers the storefront metrics on the provided registerer.
func NewStorefrontMetrics(reg prometheus.Registerer) *StorefrontMetrics {
	if reg == nil {
		return &StorefrontMetrics{}
	}
	cartActions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cart_actions_total",
		Help:      "Cart mutations by effect.",
	}, []string{"action"})
	checkouts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "checkouts_total",
		Help:      "Checkout attempts by outcome.",
	}, []string{"outcome"})
	toastEvents := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "toast_events_total",
		Help:      "Notification lifecycle events.",
	}, []string{"event"})
	sessionsActive := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "sessions_active",
		Help:      "Live storefront sessions.",
	})
	sweepDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "session_sweep_duration_seconds",
		Help:      "Duration of idle-session sweeps in seconds.",
		Buckets:   prometheus.DefBuckets,
	})
	evicted := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_evicted_total",
		Help:      "Sessions dropped for inactivity.",
	})
	reg.MustRegister(cartActions, checkouts, toastEvents, sessionsActive, sweepDuration, evicted)
	return &StorefrontMetrics{
		cartActions:    cartActions,
		checkouts:      checkouts,
		toastEvents:    toastEvents,
		sessionsActive: sessionsActive,
		sweepDuration:  sweepDuration,
		evicted:        evicted,
	}
}

// CartAction counts one cart mutation.
func (m *StorefrontMetrics) CartAction(action string) {
	if m == nil || m.cartActions == nil {
		return
	}
	m.cartActions.WithLabelValues(normalizeLabel(action)).Inc()
}

// Checkout counts one checkout attempt.
func (m *StorefrontMetrics) Checkout(outcome string) {
	if m == nil || m.checkouts == nil {
		return
	}
	m.checkouts.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// ToastEvent counts a notification lifecycle event. Message text is never recorded.
func (m *StorefrontMetrics) ToastEvent(event string) {
	if m == nil || m.toastEvents == nil {
		return
	}
	m.toastEvents.WithLabelValues(normalizeLabel(event)).Inc()
}

func (m *StorefrontMetrics) SessionsActive(n int) {
	if m == nil || m.sessionsActive == nil {
		return
	}
	m.sessionsActive.Set(float64(n))
}

// ObserveSweep records one sweep and the sessions it dropped.
func (m *StorefrontMetrics) ObserveSweep(duration time.Duration, evicted int) {
	if m == nil || m.sweepDuration == nil {
		return
	}
	m.sweepDuration.Observe(duration.Seconds())
	if evicted > 0 {
		m.evicted.Add(float64(evicted))
	}
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
