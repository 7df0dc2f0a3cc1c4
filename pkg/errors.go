package cache

// errors.go collects the one recoverable error surface this package has:
// an undersized capacity at construction. Every other precondition is
// enforced internally and is fatal, not recoverable. The sentinel +
// fmt.Errorf("%w: ...") wrapping idiom lets callers both errors.Is the
// sentinel and read the offending value.
//
// © 2025 clockpro-cache authors. MIT License.

import (
	"errors"
	"fmt"
)

// ErrCapacityTooSmall is returned by New / NewWithTestCapacity when the
// requested capacity is below MinCapacity. The CLOCK-Pro partitions
// (hot, cold, test) degenerate below this size and have no useful
// behaviour.
var ErrCapacityTooSmall = errors.New("clockpro: capacity must be >= 3")

// MinCapacity is the smallest resident capacity New will accept.
const MinCapacity = 3

func capacityError(capacity int) error {
	return fmt.Errorf("%w: got %d", ErrCapacityTooSmall, capacity)
}
