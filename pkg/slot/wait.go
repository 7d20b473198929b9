package slot

import (
	"context"
	"errors"

	"github.com/cenkalti/backoff/v4"
)

// AllocateWithBackOff retries Allocate while it fails with ErrNoSpace, waiting
// between attempts as b dictates, until a slot frees up, b gives up or ctx is
// done. Any other error is returned at once. The allocator itself never retries;
// this is for callers that would rather wait than fail.
func AllocateWithBackOff[T any](ctx context.Context, a *Allocator[T], v T, b backoff.BackOff) (int, error) {
	op := func() (int, error) {
		off, err := a.Allocate(v)
		if err != nil && !errors.Is(err, ErrNoSpace) {
			return 0, backoff.Permanent(err)
		}
		return off, err
	}
	return backoff.RetryWithData(op, backoff.WithContext(b, ctx))
}
