package shm

import (
	"fmt"
	"reflect"
	"unsafe"
)

// SizeOf returns the record size of T, the size Load and Store pass to the Memory.
func SizeOf[T any]() int {
	var v T
	return int(unsafe.Sizeof(v))
}

// ValidateRecord reports whether T can be stored verbatim in shared memory:
// it must have a non-zero size and hold no Go pointers anywhere in its layout.
func ValidateRecord[T any]() error {
	t := reflect.TypeOf((*T)(nil)).Elem()
	if t.Size() == 0 {
		return fmt.Errorf("%w: %s has zero size", ErrRecordType, t)
	}
	if p := pointerPath(t); p != "" {
		return fmt.Errorf("%w: %s holds %s", ErrRecordType, t, p)
	}
	return nil
}

// pointerPath returns a description of the first pointer-carrying part of t, or "".
func pointerPath(t reflect.Type) string {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return ""
	case reflect.Array:
		if p := pointerPath(t.Elem()); p != "" {
			return "[]" + p
		}
		return ""
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if p := pointerPath(f.Type); p != "" {
				return f.Name + " " + p
			}
		}
		return ""
	default:
		return t.Kind().String()
	}
}

// Load copies the record at off out of m. It reports false when the record does
// not fit, which callers treat as "nothing present".
func Load[T any](m Memory, off int) (T, bool) {
	var v T
	b, ok := m.ReadAt(off, SizeOf[T]())
	if !ok {
		return v, false
	}
	copy(bytesOf(&v), b)
	return v, true
}

// Store writes the bit pattern of v at off. On error m is left untouched.
func Store[T any](m Memory, off int, v T) error {
	return m.WriteAt(off, SizeOf[T](), bytesOf(&v))
}

func bytesOf[T any](v *T) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(v)), unsafe.Sizeof(*v))
}
