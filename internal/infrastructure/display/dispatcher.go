package display

import (
	"context"

	domdisplay "github.com/Kazumiii-arch/VortexChestShop/internal/domain/display"
	domoutbox "github.com/Kazumiii-arch/VortexChestShop/internal/domain/outbox"
	"github.com/Kazumiii-arch/VortexChestShop/internal/domain/shop"
	"go.uber.org/zap"
)

// Dispatcher bridges shop events from the bus to presentation gateways.
// The core publishes and moves on; gateway work happens on the bus's
// dispatch goroutines and can never block a transaction.
type Dispatcher struct {
	gateways []domdisplay.Gateway
	log      *zap.Logger
}

func NewDispatcher(logger *zap.Logger, gateways ...domdisplay.Gateway) *Dispatcher {
	if logger == nil {
		logger = zap.L()
	}
	return &Dispatcher{
		gateways: gateways,
		log:      logger.With(zap.String("component", "display_dispatcher")),
	}
}

// Register subscribes the dispatcher to every shop event the core emits.
func (d *Dispatcher) Register(sub domoutbox.Subscriber) {
	sub.Subscribe(shop.ShopCreatedEvent{}.EventName(), d.handle)
	sub.Subscribe(shop.ShopUpdatedEvent{}.EventName(), d.handle)
	sub.Subscribe(shop.ShopRemovedEvent{}.EventName(), d.handle)
	sub.Subscribe(shop.ShopStockChangedEvent{}.EventName(), d.handle)
}

func (d *Dispatcher) handle(ctx context.Context, e domoutbox.Event) error {
	_ = ctx
	switch ev := e.(type) {
	case shop.ShopCreatedEvent:
		for _, g := range d.gateways {
			g.OnCreated(ev.Shop)
		}
	case shop.ShopUpdatedEvent:
		for _, g := range d.gateways {
			g.OnUpdated(ev.Shop)
		}
	case shop.ShopRemovedEvent:
		for _, g := range d.gateways {
			g.OnRemoved(ev.Shop)
		}
	case shop.ShopStockChangedEvent:
		for _, g := range d.gateways {
			g.OnStockChanged(ev.Shop)
		}
	default:
		d.log.Debug("unhandled_event", zap.String("event", e.EventName()))
	}
	return nil
}
