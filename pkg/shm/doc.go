// Package shm provides a bounds-checked handle over one mapped shared memory region.
//
// A Region is either named (a file under /dev/shm that other processes can open by
// name) or anonymous (a memfd whose descriptor can be handed to a child process).
// All access goes through ReadAt and WriteAt, or the typed Load and Store helpers,
// which check every offset against the mapped length.
//
// Reads outside the mapping report "nothing present" rather than an error, while
// writes outside the mapping fail with ErrOutOfBounds. Callers rely on this
// asymmetry to probe a region without tripping error paths.
//
// The package provides no synchronization. Concurrent writers to the same bytes
// race, and processes sharing a region must coordinate on their own.
//
// Example usage:
//
//	cfg := shm.DefaultConfig()
//	cfg.Name = "orders"
//	cfg.Size = 64 << 10
//	err := shm.With(ctx, cfg, func(r *shm.Region) error {
//		return shm.Store(r, 0, header{Version: 1})
//	})
//
// Open, Close and writes are instrumented with OpenTelemetry when Config.Meter and
// Config.Tracer are set.
package shm
