package main

import (
	"context"
	"fmt"
	"io"

	"github.com/srediag/shmslot/pkg/shm"
	"github.com/srediag/shmslot/pkg/slot"
)

// runInspect maps an existing named region read-only and prints every slot
// holding a non-zero event. Occupancy is not stored in the region, so a zero
// record is taken as empty.
func runInspect(ctx context.Context, name string, out io.Writer) error {
	cfg := shm.Config{Name: name, Access: shm.ReadOnly}
	return shm.With(ctx, cfg, func(r *shm.Region) error {
		fmt.Fprintf(out, "region %s\n", r)
		found := 0
		err := slot.Scan(r, func(off int, ev event) bool {
			if ev == (event{}) {
				return true
			}
			found++
			fmt.Fprintf(out, "%8d seq=%d worker=%d round=%d stamp=%d\n", off, ev.Seq, ev.Worker, ev.Round, ev.Stamp)
			return true
		})
		fmt.Fprintf(out, "%d non-zero records of %d bytes\n", found, shm.SizeOf[event]())
		return err
	})
}
