package shm

import "errors"

// Region lifecycle errors. Each wraps the underlying OS error as well.
var (
	ErrCreateFailed = errors.New("shm: create region failed")
	ErrResizeFailed = errors.New("shm: resize region failed")
	ErrMapFailed    = errors.New("shm: map region failed")
	ErrUnmapFailed  = errors.New("shm: unmap region failed")
	ErrUnlinkFailed = errors.New("shm: unlink region failed")
)

var (
	// ErrOutOfBounds is returned by writes that do not fit in the mapped length.
	ErrOutOfBounds = errors.New("shm: out of bounds")
	// ErrSizeMismatch is returned when the bytes written differ from the declared record size.
	ErrSizeMismatch = errors.New("shm: size mismatch")
	// ErrReadOnly is returned by writes to a region mapped read-only.
	ErrReadOnly = errors.New("shm: region is read-only")
	// ErrClosed is returned by writes to a released region.
	ErrClosed = errors.New("shm: region is closed")
	// ErrRegionInUse is returned when this process already owns a region with that name.
	ErrRegionInUse = errors.New("shm: region already owned by this process")
	// ErrInvalidConfig is returned by VerifyConfig.
	ErrInvalidConfig = errors.New("shm: invalid config")
	// ErrRecordType is returned for record types that cannot live in shared memory.
	ErrRecordType = errors.New("shm: invalid record type")
)
