//go:build linux

package shm

import (
	"fmt"

	"golang.org/x/sys/unix"
)

const anonymousName = "shmslot"

type nativePlatform struct{}

// Native returns the Linux implementation: named regions are files under /dev/shm,
// anonymous regions are memfds.
func Native() Platform {
	return nativePlatform{}
}

func (nativePlatform) Open(name string, create bool) (int, error) {
	if name == "" {
		if !create {
			return -1, fmt.Errorf("memfd_create: anonymous region must be created")
		}
		fd, err := unix.MemfdCreate(anonymousName, unix.MFD_CLOEXEC)
		if err != nil {
			return -1, fmt.Errorf("memfd_create: %w", err)
		}
		return fd, nil
	}
	flags := unix.O_RDWR | unix.O_CLOEXEC
	if create {
		flags |= unix.O_CREAT | unix.O_EXCL
	}
	fd, err := unix.Open(DevShmPath(name), flags, 0600)
	if err != nil {
		return -1, fmt.Errorf("open: %w", err)
	}
	return fd, nil
}

func (nativePlatform) Resize(fd int, size int) error {
	if err := unix.Ftruncate(fd, int64(size)); err != nil {
		return fmt.Errorf("ftruncate: %w", err)
	}
	return nil
}

func (nativePlatform) Size(fd int) (int, error) {
	var st unix.Stat_t
	if err := unix.Fstat(fd, &st); err != nil {
		return 0, fmt.Errorf("fstat: %w", err)
	}
	return int(st.Size), nil
}

func (nativePlatform) Map(fd int, size int, writable bool) ([]byte, error) {
	prot := unix.PROT_READ
	if writable {
		prot |= unix.PROT_WRITE
	}
	addr, err := unix.Mmap(fd, 0, size, prot, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("mmap: %w", err)
	}
	return addr, nil
}

func (nativePlatform) Unmap(b []byte) error {
	if b == nil {
		return nil
	}
	if err := unix.Munmap(b); err != nil {
		return fmt.Errorf("munmap: %w", err)
	}
	return nil
}

func (nativePlatform) Close(fd int) error {
	if fd < 0 {
		return nil
	}
	if err := unix.Close(fd); err != nil {
		return fmt.Errorf("close: %w", err)
	}
	return nil
}

func (nativePlatform) Destroy(name string) error {
	if name == "" {
		return nil
	}
	if err := unix.Unlink(DevShmPath(name)); err != nil {
		return fmt.Errorf("unlink: %w", err)
	}
	return nil
}
