package container

import (
	"context"
	"errors"

	"github.com/Kazumiii-arch/VortexChestShop/internal/domain/shop"
)

// ErrGone signals that no container exists at the queried location anymore,
// typically because it was destroyed or replaced.
var ErrGone = errors.New("container: no container at location")

// Stack is one physical slot's worth of a good inside a container.
type Stack struct {
	Item  shop.ItemDescriptor
	Count int
}

// Source enumerates and mutates the physical contents of containers. It is
// the ground truth the cached shop stock is reconciled against.
type Source interface {
	// Exists reports whether a container is still present at the location.
	Exists(ctx context.Context, location shop.LocationKey) bool
	// CountMatching sums the units across all stacks matching the descriptor.
	CountMatching(ctx context.Context, location shop.LocationKey, item shop.ItemDescriptor) int
	// RemoveMatching removes up to count matching units and returns how many
	// were actually removed, which may be fewer than requested.
	RemoveMatching(ctx context.Context, location shop.LocationKey, item shop.ItemDescriptor, count int) int
}
