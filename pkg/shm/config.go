package shm

import (
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	internalshm "github.com/srediag/shmslot/internal/shm"
)

// DefaultSize is the region size used by DefaultConfig.
const DefaultSize = 4096

// Access is the protection a region is mapped with.
type Access int

const (
	ReadWrite Access = iota
	ReadOnly
)

func (a Access) String() string {
	switch a {
	case ReadWrite:
		return "read-write"
	case ReadOnly:
		return "read-only"
	default:
		return fmt.Sprintf("Access(%d)", int(a))
	}
}

// ParseAccess accepts "rw", "read-write", "ro" and "read-only".
func ParseAccess(s string) (Access, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "rw", "read-write", "readwrite":
		return ReadWrite, nil
	case "ro", "read-only", "readonly":
		return ReadOnly, nil
	}
	return 0, fmt.Errorf("%w: unknown access mode %q", ErrInvalidConfig, s)
}

// Config holds region creation parameters.
type Config struct {
	// Name identifies a named region. Empty means anonymous.
	Name string
	// Size is the region length in bytes. When opening an existing region a zero
	// Size maps the whole region.
	Size int
	// Access selects a read-write or read-only mapping.
	Access Access
	// Create creates the region instead of opening an existing one. A handle that
	// creates a named region owns it and unlinks it on Close.
	Create bool
	Meter  metric.Meter
	Tracer trace.Tracer

	platform internalshm.Platform
}

// DefaultConfig returns the config of a fresh anonymous read-write region.
func DefaultConfig() Config {
	return Config{
		Size:   DefaultSize,
		Access: ReadWrite,
		Create: true,
	}
}

// VerifyConfig checks cfg before any OS call is made.
func VerifyConfig(cfg Config) error {
	if cfg.Name != "" && !internalshm.ValidName(cfg.Name) {
		return fmt.Errorf("%w: region name %q", ErrInvalidConfig, cfg.Name)
	}
	if cfg.Name == "" && !cfg.Create {
		return fmt.Errorf("%w: an anonymous region can only be created", ErrInvalidConfig)
	}
	if cfg.Size < 0 {
		return fmt.Errorf("%w: negative size %d", ErrInvalidConfig, cfg.Size)
	}
	if cfg.Create && cfg.Size == 0 {
		return fmt.Errorf("%w: size must be positive when creating a region", ErrInvalidConfig)
	}
	if cfg.Access != ReadWrite && cfg.Access != ReadOnly {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, cfg.Access)
	}
	return nil
}
