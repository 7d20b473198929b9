//go:build linux

package shm

import (
	"path/filepath"
	"strings"

	"github.com/shirou/gopsutil/v3/disk"
)

// DevShmDir is where named regions live on Linux.
const DevShmDir = "/dev/shm"

// DevShmPath returns the backing file of a named region.
func DevShmPath(name string) string {
	return filepath.Join(DevShmDir, CleanName(name))
}

// CanCreateOnDevShm reports whether size bytes fit in the filesystem backing path.
// Paths outside /dev/shm are not checked.
func CanCreateOnDevShm(size uint64, path string) bool {
	if !strings.HasPrefix(path, DevShmDir) {
		return true
	}
	stat, err := disk.Usage(DevShmDir)
	if err != nil {
		return true
	}
	return stat.Free >= size
}
