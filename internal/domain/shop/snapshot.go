package shop

import "context"

// Record is the storage shape of one shop at the load/save boundary. Stock
// is deliberately absent from the record: it is always recomputed from the
// container source when the registry loads.
type Record struct {
	ID             string         `yaml:"id"`
	Owner          string         `yaml:"owner"`
	Location       string         `yaml:"location"`
	Item           ItemDescriptor `yaml:"item"`
	Price          float64        `yaml:"price"`
	Quantity       int            `yaml:"quantity"`
	DisplayEnabled bool           `yaml:"display_enabled"`
}

func (s *Shop) Record() Record {
	return Record{
		ID:             s.ID,
		Owner:          s.Owner,
		Location:       s.Location.String(),
		Item:           s.Item.Clone(),
		Price:          s.Price,
		Quantity:       s.Quantity,
		DisplayEnabled: s.DisplayEnabled,
	}
}

// SnapshotStore persists and restores the registry's shop set.
type SnapshotStore interface {
	Save(ctx context.Context, records []Record) error
	Load(ctx context.Context) ([]Record, error)
}
