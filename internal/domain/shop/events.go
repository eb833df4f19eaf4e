package shop

import "time"

// Removal reasons carried by ShopRemovedEvent.
const (
	RemoveReasonOwner         = "owner"
	RemoveReasonAdmin         = "admin"
	RemoveReasonContainerGone = "container_gone"
)

// ShopCreatedEvent is emitted after a shop is inserted into the registry.
// The embedded snapshot is detached from the live record.
type ShopCreatedEvent struct {
	Shop       Shop
	OccurredAt time.Time
}

func (ShopCreatedEvent) EventName() string { return "shop.created" }

func NewShopCreatedEvent(s *Shop) ShopCreatedEvent {
	return ShopCreatedEvent{Shop: s.Snapshot(), OccurredAt: time.Now().UTC()}
}

// ShopUpdatedEvent is emitted when an owner-facing setter actually changed a
// field. Field names the mutated attribute (item, price, quantity, display).
type ShopUpdatedEvent struct {
	Shop       Shop
	Field      string
	OccurredAt time.Time
}

func (ShopUpdatedEvent) EventName() string { return "shop.updated" }

func NewShopUpdatedEvent(s *Shop, field string) ShopUpdatedEvent {
	return ShopUpdatedEvent{Shop: s.Snapshot(), Field: field, OccurredAt: time.Now().UTC()}
}

// ShopRemovedEvent is emitted after a shop left the registry.
type ShopRemovedEvent struct {
	Shop       Shop
	Reason     string
	OccurredAt time.Time
}

func (ShopRemovedEvent) EventName() string { return "shop.removed" }

func NewShopRemovedEvent(s *Shop, reason string) ShopRemovedEvent {
	return ShopRemovedEvent{Shop: s.Snapshot(), Reason: reason, OccurredAt: time.Now().UTC()}
}

// ShopStockChangedEvent is emitted when reconciliation or a purchase moved
// the cached stock to a new value.
type ShopStockChangedEvent struct {
	Shop       Shop
	OldStock   int
	NewStock   int
	OccurredAt time.Time
}

func (ShopStockChangedEvent) EventName() string { return "shop.stock_changed" }

func NewShopStockChangedEvent(s *Shop, oldStock, newStock int) ShopStockChangedEvent {
	return ShopStockChangedEvent{
		Shop:       s.Snapshot(),
		OldStock:   oldStock,
		NewStock:   newStock,
		OccurredAt: time.Now().UTC(),
	}
}
