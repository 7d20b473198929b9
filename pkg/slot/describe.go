package slot

import (
	"fmt"

	"github.com/valyala/bytebufferpool"

	"github.com/srediag/shmslot/pkg/shm"
)

const mapWidth = 64

// Describe renders the slot table: a summary line followed by an occupancy map
// with one character per slot, '#' occupied and '.' free.
func (a *Allocator[T]) Describe() string {
	a.mu.Lock()
	slots := a.slotsLocked()
	st := a.statsLocked()
	a.mu.Unlock()

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	_, _ = fmt.Fprintf(buf, "slots=%d record=%dB occupied=%d free=%d length=%d\n",
		st.Slots, st.RecordSize, st.Occupied, st.Free, a.mem.Len())
	for i, s := range slots {
		if i%mapWidth == 0 {
			_, _ = fmt.Fprintf(buf, "%8d ", s.Offset)
		}
		if s.Occupied {
			_ = buf.WriteByte('#')
		} else {
			_ = buf.WriteByte('.')
		}
		if i%mapWidth == mapWidth-1 || i == len(slots)-1 {
			_ = buf.WriteByte('\n')
		}
	}
	return buf.String()
}

// Scan calls fn with the record at every slot offset of mem, in ascending order,
// until fn returns false. It keeps no occupancy state, so free slots are visited
// too; this is how another process inspects a region it does not allocate from.
func Scan[T any](mem shm.Memory, fn func(off int, v T) bool) error {
	if err := shm.ValidateRecord[T](); err != nil {
		return err
	}
	size := shm.SizeOf[T]()
	for off := 0; off+size <= mem.Len(); off += size {
		v, ok := shm.Load[T](mem, off)
		if !ok {
			return fmt.Errorf("%w: offset %d", ErrReadFailed, off)
		}
		if !fn(off, v) {
			return nil
		}
	}
	return nil
}
