package shm

import (
	"errors"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type point struct {
	X, Y float64
}

type withArray struct {
	Points [4]point
	Count  uint8
}

type withString struct {
	ID   uint32
	Name string
}

type nested struct {
	Inner struct {
		Next *nested
	}
}

func TestValidateRecord(t *testing.T) {
	assert.NoError(t, ValidateRecord[uint64]())
	assert.NoError(t, ValidateRecord[point]())
	assert.NoError(t, ValidateRecord[withArray]())
	assert.NoError(t, ValidateRecord[[16]byte]())

	for name, err := range map[string]error{
		"string":    ValidateRecord[withString](),
		"pointer":   ValidateRecord[nested](),
		"slice":     ValidateRecord[[]byte](),
		"map":       ValidateRecord[map[int]int](),
		"interface": ValidateRecord[any](),
		"array":     ValidateRecord[[2]*int](),
		"zero":      ValidateRecord[struct{}](),
	} {
		assert.True(t, errors.Is(err, ErrRecordType), "%s: got %v", name, err)
	}
	assert.ErrorContains(t, ValidateRecord[withString](), "Name string")
}

func TestSizeOf(t *testing.T) {
	assert.Equal(t, 16, SizeOf[point]())
	assert.Equal(t, int(unsafe.Sizeof(withArray{})), SizeOf[withArray]())
}

func TestHeapLoadStore(t *testing.T) {
	h := NewHeap(64)
	require.Equal(t, 64, h.Len())

	p := point{X: 1.5, Y: -2}
	require.NoError(t, Store(h, 48, p))
	got, ok := Load[point](h, 48)
	require.True(t, ok)
	assert.Equal(t, p, got)

	// stored bit-for-bit
	assert.Equal(t, bytesOf(&p), h.Bytes()[48:64])

	// unaligned offsets go through copies
	require.NoError(t, Store(h, 3, p))
	got, ok = Load[point](h, 3)
	require.True(t, ok)
	assert.Equal(t, p, got)

	assert.True(t, errors.Is(Store(h, 49, p), ErrOutOfBounds))
	_, ok = Load[point](h, 49)
	assert.False(t, ok)
	_, ok = Load[point](h, -1)
	assert.False(t, ok)
}

func TestHeapWriteLeavesMemoryOnFailure(t *testing.T) {
	h := NewHeap(8)
	copy(h.Bytes(), []byte{1, 2, 3, 4, 5, 6, 7, 8})

	assert.True(t, errors.Is(h.WriteAt(4, 8, make([]byte, 8)), ErrOutOfBounds))
	assert.True(t, errors.Is(h.WriteAt(0, 8, make([]byte, 4)), ErrSizeMismatch))
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8}, h.Bytes())

	assert.Equal(t, 0, NewHeap(-1).Len())
}
