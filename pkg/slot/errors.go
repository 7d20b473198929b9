package slot

import "errors"

var (
	// ErrNoSpace is returned by Allocate when every slot is occupied.
	ErrNoSpace = errors.New("slot: no free slot")
	// ErrInvalidOffset is returned when no slot starts at the given offset.
	ErrInvalidOffset = errors.New("slot: invalid offset")
	// ErrAlreadyFree is returned by Release and Get for a slot that holds no record.
	ErrAlreadyFree = errors.New("slot: slot is already free")
	// ErrReadFailed is returned when an occupied slot cannot be read back.
	ErrReadFailed = errors.New("slot: read failed")
	// ErrAlreadyInitialized is returned by a second call to Initialize.
	ErrAlreadyInitialized = errors.New("slot: allocator already initialized")
)
