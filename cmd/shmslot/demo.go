package main

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/panjf2000/ants/v2"

	"github.com/srediag/shmslot/pkg/shm"
	"github.com/srediag/shmslot/pkg/slot"
)

type demoResult struct {
	Stored   int64
	Failed   int64
	Describe string
}

// runDemo has cfg.Demo.Workers goroutines store, verify and release
// cfg.Demo.Records events through one allocator.
func runDemo(ctx context.Context, cfg Config, out io.Writer) (demoResult, error) {
	var res demoResult
	rcfg, err := cfg.regionConfig(true)
	if err != nil {
		return res, err
	}
	err = shm.With(ctx, rcfg, func(r *shm.Region) error {
		a, err := slot.New[event](r, slot.WithLogger(internalLogger.Named("slot")))
		if err != nil {
			return err
		}
		if err := a.Initialize(); err != nil {
			return err
		}
		fmt.Fprintf(out, "region %s: %d slots of %d bytes\n", r, a.Stats().Slots, a.RecordSize())

		pool, err := ants.NewPool(cfg.Demo.Workers)
		if err != nil {
			return fmt.Errorf("create worker pool: %w", err)
		}
		defer pool.Release()

		var wg sync.WaitGroup
		var seq atomic.Uint64
		var stored, failed atomic.Int64
		for i := 0; i < cfg.Demo.Records; i++ {
			round, worker := uint32(i), uint32(i%cfg.Demo.Workers)
			wg.Add(1)
			task := func() {
				defer wg.Done()
				if err := demoOnce(ctx, a, cfg.Demo, event{
					Seq:    seq.Add(1),
					Worker: worker,
					Round:  round,
					Stamp:  time.Now().UnixNano(),
				}); err != nil {
					failed.Add(1)
					internalLogger.Warnf("demo round %d: %v", round, err)
					return
				}
				stored.Add(1)
			}
			if err := pool.Submit(task); err != nil {
				wg.Done()
				failed.Add(1)
				internalLogger.Errorf("submit round %d: %v", round, err)
			}
		}
		wg.Wait()

		res.Stored = stored.Load()
		res.Failed = failed.Load()
		res.Describe = a.Describe()
		return nil
	})
	if err != nil {
		return res, err
	}
	fmt.Fprintf(out, "stored=%d failed=%d\n%s", res.Stored, res.Failed, res.Describe)
	return res, nil
}

func demoOnce(ctx context.Context, a *slot.Allocator[event], cfg DemoConfig, ev event) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = time.Millisecond
	b.MaxInterval = 50 * time.Millisecond
	b.MaxElapsedTime = cfg.Wait
	off, err := slot.AllocateWithBackOff(ctx, a, ev, b)
	if err != nil {
		return err
	}
	got, err := a.Get(off)
	if err != nil {
		return err
	}
	if got != ev {
		return fmt.Errorf("offset %d holds %+v, stored %+v", off, got, ev)
	}
	if cfg.Hold > 0 {
		time.Sleep(cfg.Hold)
	}
	got, err = a.Release(off)
	if err != nil {
		return err
	}
	if got != ev {
		return fmt.Errorf("offset %d released %+v, stored %+v", off, got, ev)
	}
	return nil
}
