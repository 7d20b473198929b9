package slot

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	reasonNoSpace       = "no_space"
	reasonInvalidOffset = "invalid_offset"
	reasonAlreadyFree   = "already_free"
	reasonReadFailed    = "read_failed"
	reasonWriteFailed   = "write_failed"
)

// Metrics are the Prometheus collectors of one allocator. A nil *Metrics records nothing.
type Metrics struct {
	Allocations prometheus.Counter
	Releases    prometheus.Counter
	Failures    *prometheus.CounterVec
	Occupied    prometheus.Gauge
	Slots       prometheus.Gauge
}

// NewMetrics creates the collectors labeled with region and registers them on reg
// when reg is not nil.
func NewMetrics(reg prometheus.Registerer, region string) (*Metrics, error) {
	labels := prometheus.Labels{"region": region}
	m := &Metrics{
		Allocations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "shmslot",
			Subsystem:   "slot",
			Name:        "allocations_total",
			Help:        "Total number of slot allocations.",
			ConstLabels: labels,
		}),
		Releases: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "shmslot",
			Subsystem:   "slot",
			Name:        "releases_total",
			Help:        "Total number of slot releases.",
			ConstLabels: labels,
		}),
		Failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "shmslot",
			Subsystem:   "slot",
			Name:        "failures_total",
			Help:        "Failed allocations and releases by reason.",
			ConstLabels: labels,
		}, []string{"reason"}),
		Occupied: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "shmslot",
			Subsystem:   "slot",
			Name:        "occupied",
			Help:        "Slots currently holding a record.",
			ConstLabels: labels,
		}),
		Slots: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "shmslot",
			Subsystem:   "slot",
			Name:        "slots",
			Help:        "Slots in the table.",
			ConstLabels: labels,
		}),
	}
	if reg == nil {
		return m, nil
	}
	collectors := []prometheus.Collector{m.Allocations, m.Releases, m.Failures, m.Occupied, m.Slots}
	for i, c := range collectors {
		if err := reg.Register(c); err != nil {
			for _, done := range collectors[:i] {
				reg.Unregister(done)
			}
			return nil, fmt.Errorf("slot: register metrics: %w", err)
		}
	}
	return m, nil
}

func (m *Metrics) setSlots(total, occupied int) {
	if m == nil {
		return
	}
	m.Slots.Set(float64(total))
	m.Occupied.Set(float64(occupied))
}

func (m *Metrics) allocated(occupied int) {
	if m == nil {
		return
	}
	m.Allocations.Inc()
	m.Occupied.Set(float64(occupied))
}

func (m *Metrics) released(occupied int) {
	if m == nil {
		return
	}
	m.Releases.Inc()
	m.Occupied.Set(float64(occupied))
}

func (m *Metrics) failed(reason string) {
	if m == nil {
		return
	}
	m.Failures.WithLabelValues(reason).Inc()
}
