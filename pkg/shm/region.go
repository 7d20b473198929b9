package shm

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/srediag/shmslot/internal/logger"
	internalshm "github.com/srediag/shmslot/internal/shm"
)

var internalLogger = logger.New("shm", nil)

// Region is a mapped shared memory region. It is created by Open and released
// exactly once by Close; a Region must not be copied.
type Region struct {
	name     string
	fd       int
	data     []byte
	length   int
	access   Access
	owner    bool
	closed   atomic.Bool
	platform internalshm.Platform
	tel      *telemetry
}

// Open creates or opens the region described by cfg and maps it.
func Open(ctx context.Context, cfg Config) (r *Region, err error) {
	if err := VerifyConfig(cfg); err != nil {
		return nil, err
	}
	tel := newTelemetry(cfg.Meter, cfg.Tracer)
	_, span := tel.tracer.Start(ctx, "shm.Open")
	defer func() {
		if err != nil {
			span.RecordError(err)
		}
		span.End()
	}()

	p := cfg.platform
	if p == nil {
		p = internalshm.Native()
	}
	name := internalshm.CleanName(cfg.Name)
	owner := cfg.Create && name != ""
	if owner {
		if !owners.reserve(name) {
			return nil, fmt.Errorf("%w: %s", ErrRegionInUse, name)
		}
		defer func() {
			if err != nil {
				owners.remove(name, nil)
			}
		}()
		if !internalshm.CanCreateOnDevShm(uint64(cfg.Size), internalshm.DevShmPath(name)) {
			return nil, fmt.Errorf("%w: not enough space for %d bytes at %s",
				ErrCreateFailed, cfg.Size, internalshm.DevShmPath(name))
		}
	}

	fd, err := p.Open(name, cfg.Create)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCreateFailed, err)
	}
	abandon := func() {
		if cerr := p.Close(fd); cerr != nil {
			internalLogger.Warnf("region %q close fd:%d error: %v", name, fd, cerr)
		}
		if owner {
			if derr := p.Destroy(name); derr != nil {
				internalLogger.Warnf("region %q unlink error: %v", name, derr)
			}
		}
	}

	size := cfg.Size
	if cfg.Create {
		if err := p.Resize(fd, size); err != nil {
			abandon()
			return nil, fmt.Errorf("%w: %w", ErrResizeFailed, err)
		}
	} else {
		cur, err := p.Size(fd)
		if err != nil {
			abandon()
			return nil, fmt.Errorf("%w: %w", ErrMapFailed, err)
		}
		if size == 0 {
			size = cur
		}
		if size == 0 || size > cur {
			abandon()
			return nil, fmt.Errorf("%w: region %q is %d bytes, %d requested", ErrMapFailed, name, cur, size)
		}
	}

	data, err := p.Map(fd, size, cfg.Access == ReadWrite)
	if err != nil {
		abandon()
		return nil, fmt.Errorf("%w: %w", ErrMapFailed, err)
	}

	r = &Region{
		name:     name,
		fd:       fd,
		data:     data,
		length:   len(data),
		access:   cfg.Access,
		owner:    owner,
		platform: p,
		tel:      tel,
	}
	if owner {
		owners.set(name, r)
	}
	internalLogger.Debugf("region %s mapped", r)
	return r, nil
}

// With opens a region, runs fn and closes the region on every exit path,
// including a panic in fn.
func With(ctx context.Context, cfg Config, fn func(*Region) error) (err error) {
	r, err := Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := r.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(r)
}

// Destroy unlinks a named region, typically one left behind by an owner that
// exited without closing it. A region owned by this process must be closed instead.
func Destroy(name string) error {
	if !internalshm.ValidName(name) {
		return fmt.Errorf("%w: region name %q", ErrInvalidConfig, name)
	}
	name = internalshm.CleanName(name)
	if _, ok := owners.m.Get(name); ok {
		return fmt.Errorf("%w: %s", ErrRegionInUse, name)
	}
	if err := internalshm.Native().Destroy(name); err != nil {
		return fmt.Errorf("%w: %w", ErrUnlinkFailed, err)
	}
	return nil
}

// Name returns the region identifier, empty for anonymous regions.
func (r *Region) Name() string { return r.name }

// Len returns the mapped length in bytes. It never changes.
func (r *Region) Len() int { return r.length }

// Fd returns the descriptor backing the region. An anonymous region is shared
// with another process by passing it this descriptor.
func (r *Region) Fd() int { return r.fd }

// Access returns the protection the region was mapped with.
func (r *Region) Access() Access { return r.access }

// Owner reports whether Close unlinks the region.
func (r *Region) Owner() bool { return r.owner }

// Closed reports whether Close has been called.
func (r *Region) Closed() bool { return r.closed.Load() }

func (r *Region) String() string {
	name := r.name
	if name == "" {
		name = "<anonymous>"
	}
	return fmt.Sprintf("(name = %s, fd = %d, size = %d, access = %s)", name, r.fd, r.length, r.access)
}

// ReadAt returns a view of size bytes at off. It reports false, never an error,
// when the bytes do not fit in the mapping or the region is closed. The view is
// valid until Close.
func (r *Region) ReadAt(off, size int) ([]byte, bool) {
	if r.closed.Load() || !inBounds(r.length, off, size) {
		r.tel.missedRead()
		return nil, false
	}
	return r.data[off : off+size : off+size], true
}

// WriteAt copies p to off. p must be exactly size bytes. On error the region is
// left untouched.
func (r *Region) WriteAt(off, size int, p []byte) error {
	if r.closed.Load() {
		return ErrClosed
	}
	if err := checkWrite(r.length, off, size, p); err != nil {
		if errors.Is(err, ErrOutOfBounds) {
			r.tel.rejectedWrite()
		}
		return err
	}
	if r.access != ReadWrite {
		return ErrReadOnly
	}
	copy(r.data[off:off+size], p)
	r.tel.wrote(size)
	return nil
}

// Close unmaps the region, closes its descriptor and, for an owner, unlinks it.
// Every step is attempted even when an earlier one fails; failures are logged and
// returned joined. Calling Close again is a no-op.
func (r *Region) Close() error {
	if r.closed.Swap(true) {
		return nil
	}
	_, span := r.tel.tracer.Start(context.Background(), "shm.Close")
	defer span.End()

	var errs []error
	if err := r.platform.Unmap(r.data); err != nil {
		internalLogger.Warnf("region %s unmap error: %v", r, err)
		errs = append(errs, fmt.Errorf("%w: %w", ErrUnmapFailed, err))
	}
	r.data = nil
	if err := r.platform.Close(r.fd); err != nil {
		internalLogger.Warnf("region %s close fd error: %v", r, err)
		errs = append(errs, err)
	}
	if r.owner {
		if err := r.platform.Destroy(r.name); err != nil {
			internalLogger.Warnf("region %s unlink error: %v", r, err)
			errs = append(errs, fmt.Errorf("%w: %w", ErrUnlinkFailed, err))
		} else {
			internalLogger.Infof("region %s removed", r)
		}
		owners.remove(r.name, r)
	}
	err := errors.Join(errs...)
	if err != nil {
		span.RecordError(err)
	}
	return err
}
