package slot

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Workiva/go-datastructures/bitarray"

	"github.com/srediag/shmslot/internal/logger"
	"github.com/srediag/shmslot/pkg/shm"
)

// Slot is one record-sized range of the memory.
type Slot struct {
	Offset   int
	Occupied bool
}

// Stats summarizes the slot table.
type Stats struct {
	RecordSize int
	Slots      int
	Occupied   int
	Free       int
}

type options struct {
	log     *logger.Logger
	metrics *Metrics
}

// Option configures an Allocator.
type Option func(*options)

// WithLogger sends the allocator's log lines to l. A nil l keeps the default.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithMetrics records allocator activity in m.
func WithMetrics(m *Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// Allocator hands out slots sized for one T from a shm.Memory. T is fixed for
// the allocator's whole life. The allocator serializes goroutines of one
// process; it does not coordinate with other processes mapping the same memory.
type Allocator[T any] struct {
	mu          sync.Mutex
	mem         shm.Memory
	recordSize  int
	count       int
	occupied    bitarray.BitArray
	used        int
	initialized bool
	log         *logger.Logger
	metrics     *Metrics
}

// New returns an allocator over mem. Call Initialize before allocating.
// T must satisfy shm.ValidateRecord.
func New[T any](mem shm.Memory, opts ...Option) (*Allocator[T], error) {
	if mem == nil {
		return nil, errors.New("slot: nil memory")
	}
	if err := shm.ValidateRecord[T](); err != nil {
		return nil, err
	}
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = logger.New("slot", nil)
	}
	return &Allocator[T]{
		mem:        mem,
		recordSize: shm.SizeOf[T](),
		log:        o.log,
		metrics:    o.metrics,
	}, nil
}

// Initialize partitions [0, Len) into floor(Len / RecordSize) slots, all free.
// It may be called once; later calls return ErrAlreadyInitialized and change nothing.
func (a *Allocator[T]) Initialize() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.initialized {
		return ErrAlreadyInitialized
	}
	a.count = a.mem.Len() / a.recordSize
	if a.count > 0 {
		a.occupied = bitarray.NewBitArray(uint64(a.count))
	}
	a.initialized = true
	a.metrics.setSlots(a.count, 0)
	a.log.Debugf("initialized %d slots of %d bytes over %d bytes", a.count, a.recordSize, a.mem.Len())
	return nil
}

// RecordSize returns the size in bytes of one slot.
func (a *Allocator[T]) RecordSize() int {
	return a.recordSize
}

// Allocate stores v in the lowest free slot and returns its offset. When every
// slot is occupied it returns ErrNoSpace and writes nothing.
func (a *Allocator[T]) Allocate(v T) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i := 0; i < a.count; i++ {
		if a.isOccupied(i) {
			continue
		}
		off := i * a.recordSize
		if err := shm.Store(a.mem, off, v); err != nil {
			a.metrics.failed(reasonWriteFailed)
			return 0, fmt.Errorf("slot: write record at offset %d: %w", off, err)
		}
		if err := a.occupied.SetBit(uint64(i)); err != nil {
			return 0, fmt.Errorf("slot: mark offset %d: %w", off, err)
		}
		a.used++
		a.metrics.allocated(a.used)
		a.log.Tracef("allocate offset %d, %d/%d occupied", off, a.used, a.count)
		return off, nil
	}
	a.metrics.failed(reasonNoSpace)
	return 0, ErrNoSpace
}

// Release frees the slot at off and returns the record it held. Releasing a slot
// that is already free fails with ErrAlreadyFree.
func (a *Allocator[T]) Release(off int) (T, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	var zero T
	i, err := a.lookup(off)
	if err != nil {
		if errors.Is(err, ErrAlreadyFree) {
			a.metrics.failed(reasonAlreadyFree)
		} else {
			a.metrics.failed(reasonInvalidOffset)
		}
		return zero, err
	}
	v, ok := shm.Load[T](a.mem, off)
	if !ok {
		a.metrics.failed(reasonReadFailed)
		return zero, fmt.Errorf("%w: offset %d", ErrReadFailed, off)
	}
	if err := a.occupied.ClearBit(uint64(i)); err != nil {
		return zero, fmt.Errorf("slot: clear offset %d: %w", off, err)
	}
	a.used--
	a.metrics.released(a.used)
	a.log.Tracef("release offset %d, %d/%d occupied", off, a.used, a.count)
	return v, nil
}

// Get returns the record held by the slot at off without freeing it.
func (a *Allocator[T]) Get(off int) (T, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	var zero T
	if _, err := a.lookup(off); err != nil {
		return zero, err
	}
	v, ok := shm.Load[T](a.mem, off)
	if !ok {
		return zero, fmt.Errorf("%w: offset %d", ErrReadFailed, off)
	}
	return v, nil
}

// Occupied reports whether a slot starts at off and holds a record.
func (a *Allocator[T]) Occupied(off int) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, err := a.lookup(off)
	return err == nil
}

// Slots returns the slot table in ascending offset order.
func (a *Allocator[T]) Slots() []Slot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.slotsLocked()
}

func (a *Allocator[T]) slotsLocked() []Slot {
	slots := make([]Slot, a.count)
	for i := range slots {
		slots[i] = Slot{Offset: i * a.recordSize, Occupied: a.isOccupied(i)}
	}
	return slots
}

// Stats returns slot counts.
func (a *Allocator[T]) Stats() Stats {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.statsLocked()
}

func (a *Allocator[T]) statsLocked() Stats {
	return Stats{
		RecordSize: a.recordSize,
		Slots:      a.count,
		Occupied:   a.used,
		Free:       a.count - a.used,
	}
}

// lookup maps an occupied slot's offset to its index.
func (a *Allocator[T]) lookup(off int) (int, error) {
	if off < 0 || off%a.recordSize != 0 || off/a.recordSize >= a.count {
		return 0, fmt.Errorf("%w: %d", ErrInvalidOffset, off)
	}
	i := off / a.recordSize
	if !a.isOccupied(i) {
		return 0, fmt.Errorf("%w: offset %d", ErrAlreadyFree, off)
	}
	return i, nil
}

func (a *Allocator[T]) isOccupied(i int) bool {
	set, err := a.occupied.GetBit(uint64(i))
	return err == nil && set
}
