package stock

import (
	"context"
	"sync"
	"time"

	"github.com/Kazumiii-arch/VortexChestShop/internal/domain/shop"
	"github.com/Kazumiii-arch/VortexChestShop/internal/pkg/logging"
	"go.uber.org/zap"
)

const componentSweeper = "stock_sweeper"

// Sweeper periodically reconciles every registered shop. Each shop is
// locked only for the duration of its own reconcile, so a sweep never
// stalls purchases on unrelated locations.
type Sweeper struct {
	reconciler *Reconciler
	repo       shop.Repository
	interval   time.Duration
	metrics    *Metrics

	startOnce sync.Once
	stopOnce  sync.Once
	cancel    context.CancelFunc
	done      chan struct{}
}

func NewSweeper(reconciler *Reconciler, repo shop.Repository, interval time.Duration, metrics *Metrics) *Sweeper {
	return &Sweeper{
		reconciler: reconciler,
		repo:       repo,
		interval:   interval,
		metrics:    metrics,
		done:       make(chan struct{}),
	}
}

func (s *Sweeper) Start(ctx context.Context) {
	s.startOnce.Do(func() {
		bg, cancel := context.WithCancel(context.WithoutCancel(ctx))
		s.cancel = cancel
		go s.loop(bg)
		logging.Component(ctx, componentSweeper).Info("sweeper_started",
			zap.Duration("interval", s.interval),
		)
	})
}

func (s *Sweeper) Stop() {
	s.stopOnce.Do(func() {
		if s.cancel != nil {
			s.cancel()
		}
		<-s.done
	})
}

func (s *Sweeper) loop(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.SweepOnce(ctx)
		}
	}
}

// SweepOnce reconciles a snapshot of the current shop set. Shops removed
// after the snapshot was taken reconcile as silent no-ops.
func (s *Sweeper) SweepOnce(ctx context.Context) {
	start := time.Now()
	swept := 0
	for _, record := range s.repo.List(ctx) {
		if ctx.Err() != nil {
			return
		}
		_, _, _ = s.reconciler.Reconcile(ctx, record.Location)
		swept++
	}
	s.metrics.ObserveSweep(time.Since(start))
	logging.Component(ctx, componentSweeper).Debug("sweep_done",
		zap.Int("shops", swept),
		zap.Duration("elapsed", time.Since(start)),
	)
}
