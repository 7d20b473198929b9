package shm

import "fmt"

// Memory is a flat byte range addressed by offset. Region and Heap implement it.
type Memory interface {
	// Len returns the length in bytes.
	Len() int
	// ReadAt returns the size bytes at off, or false when they do not fit.
	// The returned slice aliases the memory.
	ReadAt(off, size int) ([]byte, bool)
	// WriteAt copies p, which must be exactly size bytes long, to off.
	WriteAt(off, size int, p []byte) error
}

var (
	_ Memory = (*Region)(nil)
	_ Memory = (*Heap)(nil)
)

func inBounds(length, off, size int) bool {
	return off >= 0 && size >= 0 && off <= length && size <= length-off
}

func checkWrite(length, off, size int, p []byte) error {
	if len(p) != size {
		return fmt.Errorf("%w: %d bytes for a %d-byte record", ErrSizeMismatch, len(p), size)
	}
	if !inBounds(length, off, size) {
		return fmt.Errorf("%w: %d bytes at offset %d, length %d", ErrOutOfBounds, size, off, length)
	}
	return nil
}

// Heap is process-private Memory on the Go heap, for heap-only mode and tests.
type Heap struct {
	data []byte
}

// NewHeap returns a zeroed Heap of size bytes.
func NewHeap(size int) *Heap {
	if size < 0 {
		size = 0
	}
	return &Heap{data: make([]byte, size)}
}

func (h *Heap) Len() int { return len(h.data) }

// Bytes returns the backing slice.
func (h *Heap) Bytes() []byte { return h.data }

func (h *Heap) ReadAt(off, size int) ([]byte, bool) {
	if !inBounds(len(h.data), off, size) {
		return nil, false
	}
	return h.data[off : off+size : off+size], true
}

func (h *Heap) WriteAt(off, size int, p []byte) error {
	if err := checkWrite(len(h.data), off, size, p); err != nil {
		return err
	}
	copy(h.data[off:off+size], p)
	return nil
}
