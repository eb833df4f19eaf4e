package memory

import (
	"context"
	"sync"

	"github.com/Kazumiii-arch/VortexChestShop/internal/domain/container"
	"github.com/Kazumiii-arch/VortexChestShop/internal/domain/shop"
)

// ContainerSource is an in-memory container world implementing
// container.Source. The demo binary and tests use it to stand in for the
// host's physical inventory.
type ContainerSource struct {
	mu         sync.Mutex
	containers map[shop.LocationKey][]container.Stack
}

func NewContainerSource() *ContainerSource {
	return &ContainerSource{containers: make(map[shop.LocationKey][]container.Stack)}
}

// Place creates (or replaces) a container at the location with the given stacks.
func (c *ContainerSource) Place(location shop.LocationKey, stacks ...container.Stack) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.containers[location] = append([]container.Stack(nil), stacks...)
}

// Add appends a stack to an existing container; it creates the container if absent.
func (c *ContainerSource) Add(location shop.LocationKey, stack container.Stack) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.containers[location] = append(c.containers[location], stack)
}

// Destroy removes the container at the location entirely.
func (c *ContainerSource) Destroy(location shop.LocationKey) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.containers, location)
}

func (c *ContainerSource) Exists(ctx context.Context, location shop.LocationKey) bool {
	_ = ctx

	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.containers[location]
	return ok
}

func (c *ContainerSource) CountMatching(ctx context.Context, location shop.LocationKey, item shop.ItemDescriptor) int {
	_ = ctx

	c.mu.Lock()
	defer c.mu.Unlock()

	total := 0
	for _, st := range c.containers[location] {
		if st.Item.Matches(item) {
			total += st.Count
		}
	}
	return total
}

func (c *ContainerSource) RemoveMatching(ctx context.Context, location shop.LocationKey, item shop.ItemDescriptor, count int) int {
	_ = ctx
	if count <= 0 {
		return 0
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	stacks, ok := c.containers[location]
	if !ok {
		return 0
	}

	removed := 0
	kept := stacks[:0]
	for _, st := range stacks {
		if removed < count && st.Item.Matches(item) {
			take := count - removed
			if take > st.Count {
				take = st.Count
			}
			st.Count -= take
			removed += take
		}
		if st.Count > 0 {
			kept = append(kept, st)
		}
	}
	c.containers[location] = kept
	return removed
}
