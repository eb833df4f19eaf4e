package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/Kazumiii-arch/VortexChestShop/internal/domain/shop"
)

// ShopRepository is the in-memory location-indexed shop store. Unlike a
// persistence-backed repository it hands out live records: the registry's
// per-location locks guard field mutation, the repository's own lock guards
// structure only.
type ShopRepository struct {
	mu         sync.RWMutex
	byLocation map[shop.LocationKey]*shop.Shop
	locationOf map[string]shop.LocationKey
}

func NewShopRepository() *ShopRepository {
	return &ShopRepository{
		byLocation: make(map[shop.LocationKey]*shop.Shop),
		locationOf: make(map[string]shop.LocationKey),
	}
}

func (r *ShopRepository) Insert(ctx context.Context, s *shop.Shop) error {
	_ = ctx
	if s == nil || s.ID == "" {
		return fmt.Errorf("shop repository: id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, occupied := r.byLocation[s.Location]; occupied {
		return shop.ErrAlreadyExists
	}
	if _, known := r.locationOf[s.ID]; known {
		return shop.ErrAlreadyExists
	}

	r.byLocation[s.Location] = s
	r.locationOf[s.ID] = s.Location
	return nil
}

func (r *ShopRepository) Delete(ctx context.Context, location shop.LocationKey) (*shop.Shop, error) {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.byLocation[location]
	if !ok {
		return nil, shop.ErrNotFound
	}
	delete(r.byLocation, location)
	delete(r.locationOf, s.ID)
	return s, nil
}

func (r *ShopRepository) Get(ctx context.Context, location shop.LocationKey) (*shop.Shop, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.byLocation[location]
	if !ok {
		return nil, shop.ErrNotFound
	}
	return s, nil
}

func (r *ShopRepository) List(ctx context.Context) []*shop.Shop {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*shop.Shop, 0, len(r.byLocation))
	for _, s := range r.byLocation {
		out = append(out, s)
	}
	return out
}

func (r *ShopRepository) ListByOwner(ctx context.Context, owner string) []*shop.Shop {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*shop.Shop
	for _, s := range r.byLocation {
		if s.Owner == owner {
			out = append(out, s)
		}
	}
	return out
}

func (r *ShopRepository) CountByOwner(ctx context.Context, owner string) int {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, s := range r.byLocation {
		if s.Owner == owner {
			n++
		}
	}
	return n
}

func (r *ShopRepository) Len(ctx context.Context) int {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byLocation)
}
