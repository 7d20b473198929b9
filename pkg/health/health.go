// Package health exposes liveness and readiness of a region and its allocator.
package health

import (
	"errors"
	"fmt"

	"github.com/heptiolabs/healthcheck"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/srediag/shmslot/pkg/shm"
	"github.com/srediag/shmslot/pkg/slot"
)

// StatsProvider is satisfied by every slot.Allocator.
type StatsProvider interface {
	Stats() slot.Stats
}

// ErrRegionClosed is reported by RegionAlive once the region has been released.
var ErrRegionClosed = errors.New("health: region closed")

// ErrNoFreeSlot is reported by SlotsAvailable while every slot is occupied.
var ErrNoFreeSlot = errors.New("health: no free slot")

// RegionAlive fails once r is closed.
func RegionAlive(r *shm.Region) healthcheck.Check {
	return func() error {
		if r.Closed() {
			return fmt.Errorf("%w: %s", ErrRegionClosed, r)
		}
		return nil
	}
}

// SlotsAvailable fails while p has no free slot.
func SlotsAvailable(p StatsProvider) healthcheck.Check {
	return func() error {
		st := p.Stats()
		if st.Free == 0 {
			return fmt.Errorf("%w: %d/%d occupied", ErrNoFreeSlot, st.Occupied, st.Slots)
		}
		return nil
	}
}

// NewHandler returns a handler serving /live and /ready. Liveness follows the
// region, readiness follows slot availability. With a non-nil reg the check
// results are also exported as Prometheus gauges.
func NewHandler(reg prometheus.Registerer, r *shm.Region, p StatsProvider) healthcheck.Handler {
	var h healthcheck.Handler
	if reg != nil {
		h = healthcheck.NewMetricsHandler(reg, "shmslot")
	} else {
		h = healthcheck.NewHandler()
	}
	name := r.Name()
	if name == "" {
		name = "anonymous"
	}
	h.AddLivenessCheck("region-"+name, RegionAlive(r))
	h.AddReadinessCheck("slots-"+name, SlotsAvailable(p))
	return h
}
