package stock

import (
	"context"
	"errors"

	"github.com/Kazumiii-arch/VortexChestShop/internal/domain/container"
	domoutbox "github.com/Kazumiii-arch/VortexChestShop/internal/domain/outbox"
	"github.com/Kazumiii-arch/VortexChestShop/internal/domain/shop"
	"github.com/Kazumiii-arch/VortexChestShop/internal/pkg/keymutex"
	"github.com/Kazumiii-arch/VortexChestShop/internal/pkg/logging"
	"go.uber.org/zap"
)

const componentReconciler = "stock_reconciler"

// Remover is the registry's removal surface the reconciliation path uses
// when a shop's container turns out to be gone.
type Remover interface {
	Remove(ctx context.Context, location shop.LocationKey, reason string) bool
}

// Reconciler keeps each shop's cached stock consistent with the container's
// real contents. It is the only component besides the transaction processor
// allowed to mutate stock.
type Reconciler struct {
	repo       shop.Repository
	containers container.Source
	remover    Remover
	publisher  domoutbox.Publisher
	locks      *keymutex.KeyMutex
	metrics    *Metrics
}

func NewReconciler(
	repo shop.Repository,
	containers container.Source,
	remover Remover,
	publisher domoutbox.Publisher,
	locks *keymutex.KeyMutex,
	metrics *Metrics,
) *Reconciler {
	return &Reconciler{
		repo:       repo,
		containers: containers,
		remover:    remover,
		publisher:  publisher,
		locks:      locks,
		metrics:    metrics,
	}
}

// Reconcile recomputes the cached stock for the shop at the location under
// its per-location lock. A missing shop is a silent no-op. When the
// container is gone the shop is removed from the registry and
// container.ErrGone is returned.
func (r *Reconciler) Reconcile(ctx context.Context, location shop.LocationKey) (newStock int, changed bool, err error) {
	r.locks.Lock(location.String())

	record, gerr := r.repo.Get(ctx, location)
	if gerr != nil {
		r.locks.Unlock(location.String())
		return 0, false, nil
	}
	newStock, changed, err = r.ReconcileShop(ctx, record)
	r.locks.Unlock(location.String())

	if errors.Is(err, container.ErrGone) {
		r.remover.Remove(ctx, location, shop.RemoveReasonContainerGone)
	}
	return newStock, changed, err
}

// ReconcileShop recomputes stock for a record the caller already holds the
// location lock for. It mutates the record in place and publishes a stock
// change event only when the count actually moved, so a no-op sweep never
// spams the presentation layer.
func (r *Reconciler) ReconcileShop(ctx context.Context, record *shop.Shop) (newStock int, changed bool, err error) {
	if !r.containers.Exists(ctx, record.Location) {
		logging.Component(ctx, componentReconciler).Warn("container_gone",
			zap.String("shop_id", record.ID),
			zap.String("location", record.Location.String()),
		)
		return 0, false, container.ErrGone
	}

	newStock = r.containers.CountMatching(ctx, record.Location, record.Item)
	if newStock == record.Stock {
		return newStock, false, nil
	}

	old := record.SetStock(newStock)
	r.metrics.ObserveDrift()
	logging.Component(ctx, componentReconciler).Debug("stock_reconciled",
		zap.String("shop_id", record.ID),
		zap.Int("old_stock", old),
		zap.Int("new_stock", newStock),
	)
	r.publish(ctx, shop.NewShopStockChangedEvent(record, old, newStock))
	return newStock, true, nil
}

// OnContainerClosed is the hook the host calls when a shop container's
// inventory was closed, after the owner possibly restocked or removed items.
func (r *Reconciler) OnContainerClosed(ctx context.Context, location shop.LocationKey) {
	_, _, _ = r.Reconcile(ctx, location)
}

func (r *Reconciler) publish(ctx context.Context, e domoutbox.Event) {
	if r.publisher == nil {
		return
	}
	if err := r.publisher.Publish(ctx, e); err != nil {
		logging.Component(ctx, componentReconciler).Warn("event_publish_failed",
			zap.String("event", e.EventName()),
			zap.Error(err),
		)
	}
}
