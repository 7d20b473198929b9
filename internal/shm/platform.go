// Package shm contains the platform-specific primitives behind a shared memory region:
// open/create, resize, map, unmap and unlink.
package shm

import (
	"errors"
	"strings"
)

// ErrUnsupported is returned by every primitive on platforms without an implementation.
var ErrUnsupported = errors.New("shared memory is not supported on this platform")

// MaxNameLength is the longest region name accepted (NAME_MAX).
const MaxNameLength = 255

// Platform is the capability contract the region handle consumes.
// A region whose name is empty is anonymous and has nothing to destroy.
type Platform interface {
	// Open creates (when create is set) or opens the region and returns its descriptor.
	Open(name string, create bool) (int, error)
	// Resize sets the byte length of the region. Called before Map.
	Resize(fd int, size int) error
	// Size reports the current byte length of an opened region.
	Size(fd int) (int, error)
	// Map maps size bytes of the region shared, read-write or read-only.
	Map(fd int, size int, writable bool) ([]byte, error)
	// Unmap releases a mapping returned by Map.
	Unmap(b []byte) error
	// Close releases the descriptor.
	Close(fd int) error
	// Destroy removes a named region from the OS namespace.
	Destroy(name string) error
}

// CleanName strips the leading slash POSIX shm names carry.
func CleanName(name string) string {
	return strings.TrimPrefix(name, "/")
}

// ValidName reports whether name can be used as a named region identifier.
func ValidName(name string) bool {
	name = CleanName(name)
	if name == "" || len(name) > MaxNameLength {
		return false
	}
	return !strings.ContainsRune(name, '/') && name != "." && name != ".."
}
