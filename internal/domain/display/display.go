package display

import "github.com/Kazumiii-arch/VortexChestShop/internal/domain/shop"

// Gateway is notified of shop lifecycle and stock changes so cosmetic
// surfaces (floating items, holograms) can refresh. Calls are fire-and-forget:
// the core never awaits or depends on their outcome.
type Gateway interface {
	OnCreated(s shop.Shop)
	OnUpdated(s shop.Shop)
	OnRemoved(s shop.Shop)
	OnStockChanged(s shop.Shop)
}
