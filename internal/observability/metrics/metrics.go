package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics exposes counters/histograms for the appointment flows.
type BookingMetrics struct {
	createdTotal   *prometheus.CounterVec
	conflictsTotal prometheus.Counter
	slotGenLatency prometheus.Histogram
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		createdTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cliniify",
			Subsystem: "appointments",
			Name:      "created_total",
			Help:      "Total appointments created, by initial status",
		}, []string{"status"}),
		conflictsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cliniify",
			Subsystem: "appointments",
			Name:      "conflicts_total",
			Help:      "Total booking attempts rejected by the conflict guard",
		}),
		slotGenLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "cliniify",
			Subsystem: "appointments",
			Name:      "slot_generation_seconds",
			Help:      "Latency of availability computation per request",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.createdTotal, m.conflictsTotal, m.slotGenLatency)
	return m
}

func (m *BookingMetrics) ObserveCreated(status string) {
	if m == nil {
		return
	}
	m.createdTotal.WithLabelValues(status).Inc()
}

func (m *BookingMetrics) ObserveConflict() {
	if m == nil {
		return
	}
	m.conflictsTotal.Inc()
}

func (m *BookingMetrics) ObserveSlotGeneration(seconds float64) {
	if m == nil {
		return
	}
	m.slotGenLatency.Observe(seconds)
}

// SearchMetrics exposes counters/histograms for search and suggestions.
type SearchMetrics struct {
	queriesTotal  *prometheus.CounterVec
	searchLatency prometheus.Histogram
}

func NewSearchMetrics(reg prometheus.Registerer) *SearchMetrics {
	m := &SearchMetrics{
		queriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cliniify",
			Subsystem: "search",
			Name:      "queries_total",
			Help:      "Total search and suggestion requests",
		}, []string{"kind", "cache"}),
		searchLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "cliniify",
			Subsystem: "search",
			Name:      "latency_seconds",
			Help:      "Latency of the ranking aggregator",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.queriesTotal, m.searchLatency)
	return m
}

func (m *SearchMetrics) ObserveQuery(kind string, cacheHit bool) {
	if m == nil {
		return
	}
	label := "miss"
	if cacheHit {
		label = "hit"
	}
	m.queriesTotal.WithLabelValues(kind, label).Inc()
}

func (m *SearchMetrics) ObserveLatency(seconds float64) {
	if m == nil {
		return
	}
	m.searchLatency.Observe(seconds)
}
