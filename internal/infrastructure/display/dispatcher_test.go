package display

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	domoutbox "github.com/Kazumiii-arch/VortexChestShop/internal/domain/outbox"
	"github.com/Kazumiii-arch/VortexChestShop/internal/domain/shop"
)

// recordingGateway captures every notification by kind.
type recordingGateway struct {
	mu    sync.Mutex
	calls []string
}

func (g *recordingGateway) record(kind string, s shop.Shop) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, kind+":"+s.ID)
}

func (g *recordingGateway) OnCreated(s shop.Shop)      { g.record("created", s) }
func (g *recordingGateway) OnUpdated(s shop.Shop)      { g.record("updated", s) }
func (g *recordingGateway) OnRemoved(s shop.Shop)      { g.record("removed", s) }
func (g *recordingGateway) OnStockChanged(s shop.Shop) { g.record("stock", s) }

// syncBus delivers synchronously, standing in for the buffered bus.
type syncBus struct {
	handlers map[string][]domoutbox.Handler
}

func newSyncBus() *syncBus {
	return &syncBus{handlers: make(map[string][]domoutbox.Handler)}
}

func (b *syncBus) Subscribe(eventName string, h domoutbox.Handler) {
	b.handlers[eventName] = append(b.handlers[eventName], h)
}

func (b *syncBus) publish(t *testing.T, e domoutbox.Event) {
	t.Helper()
	for _, h := range b.handlers[e.EventName()] {
		require.NoError(t, h(context.Background(), e))
	}
}

func testShop(t *testing.T, stock int, displayEnabled bool) *shop.Shop {
	t.Helper()
	s, err := shop.New("shop-1", "alice", shop.LocationKeyOf("world", 0, 64, 0),
		shop.ItemDescriptor{Kind: "BREAD"}, 10, 1, displayEnabled)
	require.NoError(t, err)
	s.SetStock(stock)
	return s
}

func TestDispatcherRoutesAllShopEvents(t *testing.T) {
	bus := newSyncBus()
	gw := &recordingGateway{}
	NewDispatcher(zap.NewNop(), gw).Register(bus)

	s := testShop(t, 5, true)
	bus.publish(t, shop.NewShopCreatedEvent(s))
	bus.publish(t, shop.NewShopUpdatedEvent(s, "price"))
	bus.publish(t, shop.NewShopStockChangedEvent(s, 5, 3))
	bus.publish(t, shop.NewShopRemovedEvent(s, shop.RemoveReasonOwner))

	assert.Equal(t, []string{
		"created:shop-1",
		"updated:shop-1",
		"stock:shop-1",
		"removed:shop-1",
	}, gw.calls)
}

func TestLogGatewayMarkerLifecycle(t *testing.T) {
	gw := NewLogGateway(zap.NewNop())

	// marker requires both the flag and stock
	gw.OnCreated(testShop(t, 0, true).Snapshot())
	assert.False(t, gw.shown["shop-1"])

	gw.OnStockChanged(testShop(t, 8, true).Snapshot())
	assert.True(t, gw.shown["shop-1"])

	gw.OnUpdated(testShop(t, 8, false).Snapshot())
	assert.False(t, gw.shown["shop-1"])

	gw.OnUpdated(testShop(t, 8, true).Snapshot())
	gw.OnRemoved(testShop(t, 8, true).Snapshot())
	_, tracked := gw.shown["shop-1"]
	assert.False(t, tracked)
}
