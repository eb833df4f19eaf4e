package registry

import (
	"context"
	"errors"
	"fmt"

	"github.com/Kazumiii-arch/VortexChestShop/internal/domain/container"
	domoutbox "github.com/Kazumiii-arch/VortexChestShop/internal/domain/outbox"
	domperm "github.com/Kazumiii-arch/VortexChestShop/internal/domain/permission"
	"github.com/Kazumiii-arch/VortexChestShop/internal/domain/shop"
	"github.com/Kazumiii-arch/VortexChestShop/internal/pkg/keymutex"
	"github.com/Kazumiii-arch/VortexChestShop/internal/pkg/logging"
	"go.uber.org/zap"
)

const componentRegistry = "shop_registry"

// IDGenerator hands out unique shop identifiers.
type IDGenerator interface {
	NewID() string
}

// Fields reported in ShopUpdatedEvent.
const (
	FieldItem     = "item"
	FieldPrice    = "price"
	FieldQuantity = "quantity"
	FieldDisplay  = "display"
)

// Service owns the shop set: it is the only component that inserts or
// deletes records. Field mutation by the reconciler and the transaction
// processor happens on records obtained through Lookup, under the same
// per-location locks this service uses.
type Service struct {
	repo       shop.Repository
	containers container.Source
	perms      domperm.Source
	quota      *QuotaResolver
	store      shop.SnapshotStore
	publisher  domoutbox.Publisher
	idGen      IDGenerator
	locks      *keymutex.KeyMutex

	defaultDisplayEnabled bool
}

func NewService(
	repo shop.Repository,
	containers container.Source,
	perms domperm.Source,
	quota *QuotaResolver,
	store shop.SnapshotStore,
	publisher domoutbox.Publisher,
	idGen IDGenerator,
	locks *keymutex.KeyMutex,
	defaultDisplayEnabled bool,
) *Service {
	return &Service{
		repo:                  repo,
		containers:            containers,
		perms:                 perms,
		quota:                 quota,
		store:                 store,
		publisher:             publisher,
		idGen:                 idGen,
		locks:                 locks,
		defaultDisplayEnabled: defaultDisplayEnabled,
	}
}

// Create registers a new shop at the location and returns a detached
// snapshot of it. The advertised stock is computed from the container's
// real contents before the record becomes visible, so a lookup immediately
// after creation never sees a stale count.
func (s *Service) Create(ctx context.Context, owner string, location shop.LocationKey, item shop.ItemDescriptor, price float64, quantity int) (shop.Shop, error) {
	logger := logging.Component(ctx, componentRegistry)

	s.locks.Lock(location.String())
	defer s.locks.Unlock(location.String())

	if _, err := s.repo.Get(ctx, location); err == nil {
		logger.Info("create_rejected_occupied", zap.String("location", location.String()), zap.String("owner", owner))
		return shop.Shop{}, shop.ErrAlreadyExists
	}

	limit := s.quota.QuotaFor(ctx, owner)
	if owned := s.repo.CountByOwner(ctx, owner); owned >= limit {
		logger.Info("create_rejected_quota",
			zap.String("owner", owner),
			zap.Int("owned", owned),
			zap.Int("limit", limit),
		)
		return shop.Shop{}, shop.ErrQuotaExceeded
	}

	record, err := shop.New(s.idGen.NewID(), owner, location, item, price, quantity, s.defaultDisplayEnabled)
	if err != nil {
		return shop.Shop{}, err
	}
	record.SetStock(s.containers.CountMatching(ctx, location, item))

	if err := s.repo.Insert(ctx, record); err != nil {
		return shop.Shop{}, fmt.Errorf("registry: insert: %w", err)
	}

	logger.Info("shop_created",
		zap.String("shop_id", record.ID),
		zap.String("owner", owner),
		zap.String("location", location.String()),
		zap.Float64("price", price),
		zap.Int("quantity", quantity),
		zap.Int("stock", record.Stock),
	)
	s.publish(ctx, shop.NewShopCreatedEvent(record))
	return record.Snapshot(), nil
}

// Remove deletes the shop at the location unconditionally. It reports
// whether a shop existed there. Reason tags the removal event.
func (s *Service) Remove(ctx context.Context, location shop.LocationKey, reason string) bool {
	s.locks.Lock(location.String())
	removed, err := s.repo.Delete(ctx, location)
	s.locks.Unlock(location.String())

	if err != nil {
		return false
	}

	logging.Component(ctx, componentRegistry).Info("shop_removed",
		zap.String("shop_id", removed.ID),
		zap.String("location", location.String()),
		zap.String("reason", reason),
	)
	s.publish(ctx, shop.NewShopRemovedEvent(removed, reason))
	return true
}

// RemoveOwned is the management removal path: the actor must own the shop
// or carry the admin node.
func (s *Service) RemoveOwned(ctx context.Context, actor string, location shop.LocationKey) error {
	s.locks.Lock(location.String())

	record, err := s.repo.Get(ctx, location)
	if err != nil {
		s.locks.Unlock(location.String())
		return shop.ErrNotFound
	}
	reason := shop.RemoveReasonOwner
	if record.Owner != actor {
		if !s.isAdmin(ctx, actor) {
			s.locks.Unlock(location.String())
			return shop.ErrNotOwner
		}
		reason = shop.RemoveReasonAdmin
	}
	removed, err := s.repo.Delete(ctx, location)
	s.locks.Unlock(location.String())
	if err != nil {
		return shop.ErrNotFound
	}

	logging.Component(ctx, componentRegistry).Info("shop_removed",
		zap.String("shop_id", removed.ID),
		zap.String("location", location.String()),
		zap.String("reason", reason),
		zap.String("actor", actor),
	)
	s.publish(ctx, shop.NewShopRemovedEvent(removed, reason))
	return nil
}

// Lookup returns the live record at the location. Callers that read or
// mutate its fields must hold the location lock; read-only consumers use
// SnapshotAt instead.
func (s *Service) Lookup(ctx context.Context, location shop.LocationKey) (*shop.Shop, bool) {
	record, err := s.repo.Get(ctx, location)
	if err != nil {
		return nil, false
	}
	return record, true
}

// SnapshotAt returns a detached copy of the shop at the location, taken
// under the location lock so a concurrent purchase or reconcile cannot
// tear the read.
func (s *Service) SnapshotAt(ctx context.Context, location shop.LocationKey) (shop.Shop, bool) {
	s.locks.Lock(location.String())
	defer s.locks.Unlock(location.String())

	record, err := s.repo.Get(ctx, location)
	if err != nil {
		return shop.Shop{}, false
	}
	return record.Snapshot(), true
}

// SnapshotsByOwner returns detached copies of the owner's shops, each
// taken under its own location lock.
func (s *Service) SnapshotsByOwner(ctx context.Context, owner string) []shop.Shop {
	owned := s.repo.ListByOwner(ctx, owner)
	out := make([]shop.Shop, 0, len(owned))
	for _, record := range owned {
		s.locks.Lock(record.Location.String())
		out = append(out, record.Snapshot())
		s.locks.Unlock(record.Location.String())
	}
	return out
}

func (s *Service) CountByOwner(ctx context.Context, owner string) int {
	return s.repo.CountByOwner(ctx, owner)
}

// OwnerStats summarizes an owner's shops for the stats surface.
type OwnerStats struct {
	Shops      int
	TotalStock int
	Quota      int
}

func (s *Service) Stats(ctx context.Context, owner string) OwnerStats {
	owned := s.repo.ListByOwner(ctx, owner)
	stats := OwnerStats{Shops: len(owned), Quota: s.quota.QuotaFor(ctx, owner)}
	for _, record := range owned {
		s.locks.Lock(record.Location.String())
		stats.TotalStock += record.Stock
		s.locks.Unlock(record.Location.String())
	}
	return stats
}

// SetItem replaces the advertised good. Owner-only unless the actor is an admin.
func (s *Service) SetItem(ctx context.Context, actor string, location shop.LocationKey, item shop.ItemDescriptor) error {
	return s.manage(ctx, actor, location, FieldItem, func(sh *shop.Shop) (bool, error) {
		if sh.Item.Matches(item) {
			return false, nil
		}
		if _, err := sh.SetItem(item); err != nil {
			return false, err
		}
		return true, nil
	})
}

func (s *Service) SetPrice(ctx context.Context, actor string, location shop.LocationKey, price float64) error {
	return s.manage(ctx, actor, location, FieldPrice, func(sh *shop.Shop) (bool, error) {
		if sh.Price == price {
			return false, nil
		}
		if _, err := sh.SetPrice(price); err != nil {
			return false, err
		}
		return true, nil
	})
}

func (s *Service) SetQuantity(ctx context.Context, actor string, location shop.LocationKey, quantity int) error {
	return s.manage(ctx, actor, location, FieldQuantity, func(sh *shop.Shop) (bool, error) {
		if sh.Quantity == quantity {
			return false, nil
		}
		if _, err := sh.SetQuantity(quantity); err != nil {
			return false, err
		}
		return true, nil
	})
}

func (s *Service) SetDisplay(ctx context.Context, actor string, location shop.LocationKey, enabled bool) error {
	return s.manage(ctx, actor, location, FieldDisplay, func(sh *shop.Shop) (bool, error) {
		if sh.DisplayEnabled == enabled {
			return false, nil
		}
		sh.SetDisplayEnabled(enabled)
		return true, nil
	})
}

// manage runs one owner-facing mutation under the location lock and
// publishes an update event only when the field actually changed.
func (s *Service) manage(ctx context.Context, actor string, location shop.LocationKey, field string, mutate func(*shop.Shop) (bool, error)) error {
	s.locks.Lock(location.String())
	defer s.locks.Unlock(location.String())

	record, err := s.repo.Get(ctx, location)
	if err != nil {
		return shop.ErrNotFound
	}
	if record.Owner != actor && !s.isAdmin(ctx, actor) {
		return shop.ErrNotOwner
	}

	changed, err := mutate(record)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}

	logging.Component(ctx, componentRegistry).Info("shop_updated",
		zap.String("shop_id", record.ID),
		zap.String("location", location.String()),
		zap.String("field", field),
		zap.String("actor", actor),
	)
	s.publish(ctx, shop.NewShopUpdatedEvent(record, field))
	return nil
}

// SaveSnapshot writes the current shop set to the snapshot store.
func (s *Service) SaveSnapshot(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	live := s.repo.List(ctx)
	records := make([]shop.Record, 0, len(live))
	for _, record := range live {
		s.locks.Lock(record.Location.String())
		records = append(records, record.Record())
		s.locks.Unlock(record.Location.String())
	}
	return s.store.Save(ctx, records)
}

// LoadSnapshot restores shops from the snapshot store. Records that fail
// validation, or whose container no longer exists, are skipped with a
// warning; stock is always recomputed from the container source.
func (s *Service) LoadSnapshot(ctx context.Context) (loaded, skipped int, err error) {
	if s.store == nil {
		return 0, 0, nil
	}
	logger := logging.Component(ctx, componentRegistry)

	records, err := s.store.Load(ctx)
	if err != nil {
		return 0, 0, err
	}

	for _, rec := range records {
		location, perr := shop.ParseLocationKey(rec.Location)
		if perr != nil {
			logger.Warn("snapshot_record_skipped", zap.String("shop_id", rec.ID), zap.Error(perr))
			skipped++
			continue
		}
		restored, nerr := shop.New(rec.ID, rec.Owner, location, rec.Item, rec.Price, rec.Quantity, rec.DisplayEnabled)
		if nerr != nil {
			logger.Warn("snapshot_record_skipped", zap.String("shop_id", rec.ID), zap.Error(nerr))
			skipped++
			continue
		}
		if !s.containers.Exists(ctx, location) {
			logger.Warn("snapshot_record_skipped",
				zap.String("shop_id", rec.ID),
				zap.String("location", rec.Location),
				zap.Error(container.ErrGone),
			)
			skipped++
			continue
		}

		s.locks.Lock(location.String())
		restored.SetStock(s.containers.CountMatching(ctx, location, restored.Item))
		ierr := s.repo.Insert(ctx, restored)
		if ierr == nil {
			loaded++
			s.publish(ctx, shop.NewShopCreatedEvent(restored))
		}
		s.locks.Unlock(location.String())

		if ierr != nil {
			if errors.Is(ierr, shop.ErrAlreadyExists) {
				logger.Warn("snapshot_record_skipped", zap.String("shop_id", rec.ID), zap.Error(ierr))
				skipped++
				continue
			}
			return loaded, skipped, fmt.Errorf("registry: restore %s: %w", rec.ID, ierr)
		}
	}

	logger.Info("snapshot_loaded", zap.Int("loaded", loaded), zap.Int("skipped", skipped))
	return loaded, skipped, nil
}

func (s *Service) isAdmin(ctx context.Context, actor string) bool {
	return s.perms != nil && s.perms.Has(ctx, actor, domperm.NodeAdmin)
}

func (s *Service) publish(ctx context.Context, e domoutbox.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, e); err != nil {
		logging.Component(ctx, componentRegistry).Warn("event_publish_failed",
			zap.String("event", e.EventName()),
			zap.Error(err),
		)
	}
}
