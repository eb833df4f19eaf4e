package shop

import "context"

// Repository is the location-indexed store backing the registry. It owns
// structural changes only; field mutation happens on the records it hands
// out, under the registry's per-location locks.
type Repository interface {
	// Insert adds a new record. ErrAlreadyExists when the location is
	// occupied or the id is already known.
	Insert(ctx context.Context, s *Shop) error
	// Delete removes and returns the record at the location.
	Delete(ctx context.Context, location LocationKey) (*Shop, error)
	// Get returns the live record at the location.
	Get(ctx context.Context, location LocationKey) (*Shop, error)
	// List returns a point-in-time snapshot of all live records.
	List(ctx context.Context) []*Shop
	// ListByOwner returns the live records owned by the principal.
	ListByOwner(ctx context.Context, owner string) []*Shop
	CountByOwner(ctx context.Context, owner string) int
	Len(ctx context.Context) int
}
