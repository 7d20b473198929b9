//go:build linux

package shm

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"
	"testing"

	"github.com/shirou/gopsutil/v3/disk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestCanCreateOnDevShm(t *testing.T) {
	assert.Equal(t, true, CanCreateOnDevShm(math.MaxUint64, "sdffafds"))
	stat, err := disk.Usage(DevShmDir)
	if err != nil {
		t.Skipf("no %s: %v", DevShmDir, err)
	}
	assert.Equal(t, true, CanCreateOnDevShm(stat.Free, "/dev/shm/xxx"))
	assert.Equal(t, false, CanCreateOnDevShm(math.MaxUint64, "/dev/shm/yyy"))
}

func TestNativeNamedLifecycle(t *testing.T) {
	p := Native()
	name := fmt.Sprintf("shmslot-platform-%d", os.Getpid())

	fd, err := p.Open(name, true)
	require.NoError(t, err)
	require.GreaterOrEqual(t, fd, 0)

	_, err = p.Open(name, true)
	assert.True(t, errors.Is(err, unix.EEXIST), "second create must fail: %v", err)

	require.NoError(t, p.Resize(fd, 4096))
	size, err := p.Size(fd)
	require.NoError(t, err)
	assert.Equal(t, 4096, size)

	mem, err := p.Map(fd, size, true)
	require.NoError(t, err)
	mem[0] = 0xAB

	fd2, err := p.Open("/"+name, false)
	require.NoError(t, err)
	view, err := p.Map(fd2, size, false)
	require.NoError(t, err)
	assert.Equal(t, byte(0xAB), view[0])

	assert.NoError(t, p.Unmap(view))
	assert.NoError(t, p.Close(fd2))
	assert.NoError(t, p.Unmap(mem))
	assert.NoError(t, p.Close(fd))
	assert.NoError(t, p.Destroy(name))

	_, err = os.Stat(DevShmPath(name))
	assert.True(t, os.IsNotExist(err))
	assert.Error(t, p.Destroy(name))
}

func TestNativeAnonymous(t *testing.T) {
	p := Native()
	fd, err := p.Open("", true)
	require.NoError(t, err)
	defer func() { _ = p.Close(fd) }()

	require.NoError(t, p.Resize(fd, 64))
	mem, err := p.Map(fd, 64, true)
	require.NoError(t, err)
	assert.Len(t, mem, 64)
	assert.NoError(t, p.Unmap(mem))
	assert.NoError(t, p.Destroy(""))

	_, err = p.Open("", false)
	assert.Error(t, err)
}

func TestValidName(t *testing.T) {
	cases := []struct {
		name string
		want bool
	}{
		{"test", true},
		{"/test", true},
		{"", false},
		{"/", false},
		{"a/b", false},
		{"..", false},
		{strings.Repeat("a", MaxNameLength+1), false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ValidName(c.name), "name %q", c.name)
	}
}
