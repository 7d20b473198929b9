//go:build !linux

package shm

// DevShmPath returns the name unchanged; there is no /dev/shm here.
func DevShmPath(name string) string {
	return CleanName(name)
}

// CanCreateOnDevShm always reports true.
func CanCreateOnDevShm(uint64, string) bool {
	return true
}
