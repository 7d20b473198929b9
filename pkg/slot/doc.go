// Package slot hands out fixed-size record slots from a flat shared memory range.
//
// An Allocator partitions a shm.Memory into floor(length / recordSize) slots at
// offsets 0, R, 2R, ... and tracks which are occupied. Allocate picks the
// lowest free offset (first-fit), Release frees a slot and returns the record it
// held. The slot table lives in process memory only: two processes mapping the
// same region with their own allocators do not see each other's occupancy unless
// they coordinate outside this package.
package slot
