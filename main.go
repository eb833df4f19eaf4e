package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	appregistry "github.com/Kazumiii-arch/VortexChestShop/internal/application/registry"
	appstock "github.com/Kazumiii-arch/VortexChestShop/internal/application/stock"
	apptrade "github.com/Kazumiii-arch/VortexChestShop/internal/application/trade"
	"github.com/Kazumiii-arch/VortexChestShop/internal/config"
	infradisplay "github.com/Kazumiii-arch/VortexChestShop/internal/infrastructure/display"
	"github.com/Kazumiii-arch/VortexChestShop/internal/infrastructure/id"
	"github.com/Kazumiii-arch/VortexChestShop/internal/infrastructure/memory"
	"github.com/Kazumiii-arch/VortexChestShop/internal/infrastructure/outbox"
	infraperm "github.com/Kazumiii-arch/VortexChestShop/internal/infrastructure/permission"
	"github.com/Kazumiii-arch/VortexChestShop/internal/infrastructure/persist"
	"github.com/Kazumiii-arch/VortexChestShop/internal/pkg/keymutex"
	"github.com/Kazumiii-arch/VortexChestShop/internal/pkg/logging"
	httppresentation "github.com/Kazumiii-arch/VortexChestShop/internal/presentation/http"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	cfg := config.FromEnv()

	baseLogger := logging.MustNewLogger(cfg.ServiceName, cfg.Env)
	defer func() { _ = baseLogger.Sync() }()
	zap.ReplaceGlobals(baseLogger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logging.ContextWithLogger(ctx, baseLogger)

	tradeMetrics := apptrade.NewMetrics(prometheus.DefaultRegisterer)
	stockMetrics := appstock.NewMetrics(prometheus.DefaultRegisterer)

	// Infrastructure. The in-memory ledger and container world stand in for
	// the host's economy and physical inventory.
	shopRepo := memory.NewShopRepository()
	ledger := memory.NewLedger()
	containers := memory.NewContainerSource()
	perms := infraperm.NewStaticSource()
	taxPolicy := infraperm.NewTaxPolicy(perms, cfg.StandardTaxRate, cfg.PremiumTaxRate)
	snapshotStore := persist.NewStore(cfg.SnapshotPath)
	locks := keymutex.New()

	bus := outbox.NewBus(baseLogger)
	bus.Start(ctx)
	defer bus.Stop(context.Background())

	dispatcher := infradisplay.NewDispatcher(baseLogger, infradisplay.NewLogGateway(baseLogger))
	dispatcher.Register(bus)

	quota := appregistry.NewQuotaResolver(perms, cfg.BaselineQuota, cfg.QuotaTiers)
	registryService := appregistry.NewService(
		shopRepo, containers, perms, quota, snapshotStore, bus,
		id.NewUUIDGenerator(), locks, cfg.DefaultDisplayEnabled,
	)
	reconciler := appstock.NewReconciler(shopRepo, containers, registryService, bus, locks, stockMetrics)
	processor := apptrade.NewProcessor(shopRepo, ledger, containers, taxPolicy, reconciler, locks, tradeMetrics)

	if _, _, err := registryService.LoadSnapshot(ctx); err != nil {
		baseLogger.Error("snapshot_load_failed", zap.Error(err))
	}

	sweeper := appstock.NewSweeper(reconciler, shopRepo, cfg.SweepInterval, stockMetrics)
	sweeper.Start(ctx)
	defer sweeper.Stop()

	handler := httppresentation.NewHandler(registryService, processor, baseLogger)
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", handler.Router())

	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: mux,
	}

	go func() {
		baseLogger.Info("http_server_start", zap.String("addr", server.Addr))
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Error("http_server_error", zap.Error(err))
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("http_server_shutdown_error", zap.Error(err))
	} else {
		baseLogger.Info("http_server_stopped")
	}

	saveCtx := logging.ContextWithLogger(shutdownCtx, baseLogger)
	if err := registryService.SaveSnapshot(saveCtx); err != nil {
		baseLogger.Error("snapshot_save_failed", zap.Error(err))
	} else {
		baseLogger.Info("snapshot_saved", zap.String("path", cfg.SnapshotPath))
	}
}
