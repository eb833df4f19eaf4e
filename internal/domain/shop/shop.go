package shop

import (
	"errors"
	"time"
)

var (
	ErrNotFound        = errors.New("shop: not found")
	ErrAlreadyExists   = errors.New("shop: a shop already occupies this location")
	ErrQuotaExceeded   = errors.New("shop: owner shop quota exceeded")
	ErrNotOwner        = errors.New("shop: principal does not own this shop")
	ErrInvalidPrice    = errors.New("shop: price must be greater than zero")
	ErrInvalidQuantity = errors.New("shop: quantity must be greater than zero")
	ErrInvalidItem     = errors.New("shop: item descriptor is empty")
)

// Shop is a registered sale point: one container, one item kind, one
// price/quantity pair. Stock is a cached count of matching units physically
// present in the container; only the reconciler and the transaction
// processor may change it.
type Shop struct {
	ID             string
	Owner          string
	Location       LocationKey
	Item           ItemDescriptor
	Price          float64
	Quantity       int
	Stock          int
	DisplayEnabled bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func New(id, owner string, location LocationKey, item ItemDescriptor, price float64, quantity int, displayEnabled bool) (*Shop, error) {
	if item.IsZero() {
		return nil, ErrInvalidItem
	}
	if price <= 0 {
		return nil, ErrInvalidPrice
	}
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	now := time.Now().UTC()
	return &Shop{
		ID:             id,
		Owner:          owner,
		Location:       location,
		Item:           item,
		Price:          price,
		Quantity:       quantity,
		Stock:          0,
		DisplayEnabled: displayEnabled,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// SetItem replaces the advertised good and returns the previous descriptor.
func (s *Shop) SetItem(item ItemDescriptor) (ItemDescriptor, error) {
	if item.IsZero() {
		return s.Item, ErrInvalidItem
	}
	old := s.Item
	s.Item = item
	s.touch()
	return old, nil
}

// SetPrice replaces the per-transaction price and returns the previous one.
func (s *Shop) SetPrice(price float64) (float64, error) {
	if price <= 0 {
		return s.Price, ErrInvalidPrice
	}
	old := s.Price
	s.Price = price
	s.touch()
	return old, nil
}

// SetQuantity replaces the units-per-purchase count and returns the previous one.
func (s *Shop) SetQuantity(quantity int) (int, error) {
	if quantity <= 0 {
		return s.Quantity, ErrInvalidQuantity
	}
	old := s.Quantity
	s.Quantity = quantity
	s.touch()
	return old, nil
}

// SetDisplayEnabled toggles the cosmetic display flag and returns the previous value.
func (s *Shop) SetDisplayEnabled(enabled bool) bool {
	old := s.DisplayEnabled
	s.DisplayEnabled = enabled
	s.touch()
	return old
}

// SetStock overwrites the cached stock count and returns the previous value.
// Negative counts are clamped to zero.
func (s *Shop) SetStock(stock int) int {
	if stock < 0 {
		stock = 0
	}
	old := s.Stock
	s.Stock = stock
	s.touch()
	return old
}

func (s *Shop) Clone() *Shop {
	if s == nil {
		return nil
	}
	clone := *s
	clone.Item = s.Item.Clone()
	return &clone
}

// Snapshot returns a detached value copy, safe to hand to other goroutines.
func (s *Shop) Snapshot() Shop {
	return *s.Clone()
}

func (s *Shop) touch() {
	s.UpdatedAt = time.Now().UTC()
}
