package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/srediag/shmslot/pkg/health"
	"github.com/srediag/shmslot/pkg/shm"
	"github.com/srediag/shmslot/pkg/slot"
)

// newServeMux wires metrics, health and the slot table of one allocator.
func newServeMux(reg *prometheus.Registry, r *shm.Region, a *slot.Allocator[event]) *http.ServeMux {
	checks := health.NewHandler(reg, r, a)
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	mux.Handle("/live", checks)
	mux.Handle("/ready", checks)
	mux.HandleFunc("/slots", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, a.Describe())
	})
	return mux
}

// runServe keeps a region and its allocator open and serves them on
// cfg.Serve.Addr until ctx is done.
func runServe(ctx context.Context, cfg Config, out io.Writer) error {
	rcfg, err := cfg.regionConfig(true)
	if err != nil {
		return err
	}
	return shm.With(ctx, rcfg, func(r *shm.Region) error {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		name := r.Name()
		if name == "" {
			name = "anonymous"
		}
		m, err := slot.NewMetrics(reg, name)
		if err != nil {
			return err
		}
		a, err := slot.New[event](r, slot.WithMetrics(m), slot.WithLogger(internalLogger.Named("slot")))
		if err != nil {
			return err
		}
		if err := a.Initialize(); err != nil {
			return err
		}

		srv := &http.Server{
			Addr:              cfg.Serve.Addr,
			Handler:           newServeMux(reg, r, a),
			ReadHeaderTimeout: 5 * time.Second,
		}
		errc := make(chan error, 1)
		go func() {
			errc <- srv.ListenAndServe()
		}()
		fmt.Fprintf(out, "serving region %s on %s\n", r, cfg.Serve.Addr)

		select {
		case err := <-errc:
			return err
		case <-ctx.Done():
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
}
