package display

import (
	"sync"

	"github.com/Kazumiii-arch/VortexChestShop/internal/domain/shop"
	"go.uber.org/zap"
)

// LogGateway is a presentation backend that renders nothing and logs what a
// visual backend (floating item marker, hologram) would do. Concrete
// packet-based backends replace it in a real host; it keeps the same
// contract: a marker exists only while the shop's display flag is on and
// the shop has stock.
type LogGateway struct {
	mu    sync.Mutex
	shown map[string]bool
	log   *zap.Logger
}

func NewLogGateway(logger *zap.Logger) *LogGateway {
	if logger == nil {
		logger = zap.L()
	}
	return &LogGateway{
		shown: make(map[string]bool),
		log:   logger.With(zap.String("component", "log_display")),
	}
}

func (g *LogGateway) OnCreated(s shop.Shop) {
	g.refresh(s, "created")
}

func (g *LogGateway) OnUpdated(s shop.Shop) {
	g.refresh(s, "updated")
}

func (g *LogGateway) OnStockChanged(s shop.Shop) {
	g.refresh(s, "stock_changed")
}

func (g *LogGateway) OnRemoved(s shop.Shop) {
	g.mu.Lock()
	wasShown := g.shown[s.ID]
	delete(g.shown, s.ID)
	g.mu.Unlock()

	if wasShown {
		g.log.Info("display_despawned",
			zap.String("shop_id", s.ID),
			zap.String("location", s.Location.String()),
		)
	}
}

func (g *LogGateway) refresh(s shop.Shop, cause string) {
	want := s.DisplayEnabled && s.Stock > 0

	g.mu.Lock()
	had := g.shown[s.ID]
	g.shown[s.ID] = want
	g.mu.Unlock()

	if want == had {
		return
	}
	if want {
		g.log.Info("display_spawned",
			zap.String("shop_id", s.ID),
			zap.String("location", s.Location.String()),
			zap.String("item", s.Item.String()),
			zap.Float64("price", s.Price),
			zap.Int("stock", s.Stock),
			zap.String("cause", cause),
		)
		return
	}
	g.log.Info("display_hidden",
		zap.String("shop_id", s.ID),
		zap.String("location", s.Location.String()),
		zap.String("cause", cause),
	)
}
