//go:build linux

package health

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srediag/shmslot/pkg/shm"
	"github.com/srediag/shmslot/pkg/slot"
)

type counter struct {
	N uint64
}

func status(h http.Handler, path string) int {
	rw := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	h.ServeHTTP(rw, req)
	return rw.Code
}

func TestHandler(t *testing.T) {
	cfg := shm.DefaultConfig()
	cfg.Size = 16
	r, err := shm.Open(context.Background(), cfg)
	require.NoError(t, err)
	defer r.Close()

	a, err := slot.New[counter](r)
	require.NoError(t, err)
	require.NoError(t, a.Initialize())

	reg := prometheus.NewRegistry()
	h := NewHandler(reg, r, a)
	assert.Equal(t, http.StatusOK, status(h, "/live"))
	assert.Equal(t, http.StatusOK, status(h, "/ready"))

	_, err = a.Allocate(counter{N: 1})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status(h, "/live"))
	assert.Equal(t, http.StatusServiceUnavailable, status(h, "/ready"))

	require.NoError(t, r.Close())
	assert.Equal(t, http.StatusServiceUnavailable, status(h, "/live"))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestChecks(t *testing.T) {
	stats := fakeStats{Slots: 2, Occupied: 2}
	assert.True(t, errors.Is(SlotsAvailable(stats)(), ErrNoFreeSlot))
	stats.Occupied = 1
	stats.Free = 1
	assert.NoError(t, SlotsAvailable(stats)())
}

type fakeStats slot.Stats

func (f fakeStats) Stats() slot.Stats { return slot.Stats(f) }
