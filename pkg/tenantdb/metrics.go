package tenantdb

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	resultOK      = "ok"
	resultError   = "error"
	resultCreated = "created"
	resultExisted = "existed"
)

// Metrics exposes registry and provisioner activity. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	handlesOpen       prometheus.Gauge
	opens             *prometheus.CounterVec
	openDuration      prometheus.Histogram
	provisions        *prometheus.CounterVec
	provisionDuration prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		handlesOpen: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "tenancy",
			Subsystem: "registry",
			Name:      "handles_open",
			Help:      "Number of tenant connection pools currently cached.",
		}),
		opens: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tenancy",
			Subsystem: "registry",
			Name:      "opens_total",
			Help:      "Tenant connection pool open attempts by result.",
		}, []string{"result"}),
		openDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "tenancy",
			Subsystem: "registry",
			Name:      "open_duration_seconds",
			Help:      "Time spent opening a tenant connection pool, provisioning included.",
			Buckets:   prometheus.DefBuckets,
		}),
		provisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tenancy",
			Subsystem: "provisioner",
			Name:      "runs_total",
			Help:      "Tenant database provisioning runs by result.",
		}, []string{"result"}),
		provisionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "tenancy",
			Subsystem: "provisioner",
			Name:      "duration_seconds",
			Help:      "Time spent creating and migrating a tenant database.",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}),
	}
	if reg != nil {
		reg.MustRegister(m.handlesOpen, m.opens, m.openDuration, m.provisions, m.provisionDuration)
	}
	return m
}

func (m *Metrics) observeOpen(start time.Time, err error, cached int) {
	if m == nil {
		return
	}
	m.openDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		m.opens.WithLabelValues(resultError).Inc()
		return
	}
	m.opens.WithLabelValues(resultOK).Inc()
	m.handlesOpen.Set(float64(cached))
}

func (m *Metrics) setHandles(n int) {
	if m == nil {
		return
	}
	m.handlesOpen.Set(float64(n))
}

func (m *Metrics) observeProvision(start time.Time, result string) {
	if m == nil {
		return
	}
	m.provisionDuration.Observe(time.Since(start).Seconds())
	m.provisions.WithLabelValues(result).Inc()
}
