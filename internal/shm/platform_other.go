//go:build !linux

package shm

type unsupportedPlatform struct{}

// Native returns a platform whose every call fails with ErrUnsupported.
func Native() Platform {
	return unsupportedPlatform{}
}

func (unsupportedPlatform) Open(string, bool) (int, error) { return -1, ErrUnsupported }
func (unsupportedPlatform) Resize(int, int) error { return ErrUnsupported }
func (unsupportedPlatform) Size(int) (int, error) { return 0, ErrUnsupported }
func (unsupportedPlatform) Map(int, int, bool) ([]byte, error) { return nil, ErrUnsupported }
func (unsupportedPlatform) Unmap([]byte) error { return ErrUnsupported }
func (unsupportedPlatform) Close(int) error { return ErrUnsupported }
func (unsupportedPlatform) Destroy(string) error { return ErrUnsupported }
