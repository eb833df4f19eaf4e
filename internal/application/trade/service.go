package trade

import (
	"context"
	"time"

	"github.com/Kazumiii-arch/VortexChestShop/internal/domain/container"
	"github.com/Kazumiii-arch/VortexChestShop/internal/domain/economy"
	"github.com/Kazumiii-arch/VortexChestShop/internal/domain/shop"
	"github.com/Kazumiii-arch/VortexChestShop/internal/pkg/keymutex"
	"github.com/Kazumiii-arch/VortexChestShop/internal/pkg/logging"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const componentTrade = "transaction_processor"

// Reconciler refreshes a shop's cached stock. The processor calls it after
// a successful purchase, while still holding the location lock.
type Reconciler interface {
	ReconcileShop(ctx context.Context, record *shop.Shop) (newStock int, changed bool, err error)
}

// Receipt summarizes one completed purchase. Granting the bought units into
// the buyer's own holding space is the caller's job; Item and Quantity say
// what to grant.
type Receipt struct {
	Buyer       string
	Owner       string
	Location    shop.LocationKey
	Item        shop.ItemDescriptor
	Quantity    int
	TotalCost   float64
	Tax         float64
	OwnerAmount float64
}

// Processor executes single buy transactions end to end, moving money and
// goods across two independently failing subsystems with best-effort
// synchronous compensation on partial failure.
type Processor struct {
	repo       shop.Repository
	ledger     economy.Gateway
	containers container.Source
	tax        economy.TaxPolicy
	reconciler Reconciler
	locks      *keymutex.KeyMutex
	metrics    *Metrics
	tracer     trace.Tracer
}

func NewProcessor(
	repo shop.Repository,
	ledger economy.Gateway,
	containers container.Source,
	tax economy.TaxPolicy,
	reconciler Reconciler,
	locks *keymutex.KeyMutex,
	metrics *Metrics,
) *Processor {
	return &Processor{
		repo:       repo,
		ledger:     ledger,
		containers: containers,
		tax:        tax,
		reconciler: reconciler,
		locks:      locks,
		metrics:    metrics,
		tracer:     otel.Tracer("vortexchestshop/trade"),
	}
}

// Buy purchases one transaction's worth of the shop's good for the buyer.
// At most one buy is in flight per location; concurrent buyers on the same
// shop are serialized so there is a deterministic winner when stock runs out.
func (p *Processor) Buy(ctx context.Context, buyer string, location shop.LocationKey) (_ *Receipt, err error) {
	logger := logging.Component(ctx, componentTrade).With(
		zap.String("buyer", buyer),
		zap.String("location", location.String()),
	)

	ctx, span := p.tracer.Start(ctx, "Trade.Buy", trace.WithAttributes(
		attribute.String("shop.location", location.String()),
		attribute.String("buyer.id", buyer),
	))
	start := time.Now()
	outcome := outcomeSuccess

	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, outcome)
		} else {
			span.SetStatus(codes.Ok, outcome)
		}
		span.End()
		p.metrics.ObserveBuy(outcome, time.Since(start))
	}()

	p.locks.Lock(location.String())
	defer p.locks.Unlock(location.String())

	record, gerr := p.repo.Get(ctx, location)
	if gerr != nil {
		outcome = outcomeShopNotFound
		return nil, ErrShopNotFound
	}
	span.SetAttributes(attribute.String("shop.id", record.ID))

	if buyer == record.Owner {
		outcome = outcomeOwnPurchase
		return nil, ErrOwnPurchase
	}
	if record.Stock <= 0 {
		outcome = outcomeOutOfStock
		return nil, ErrOutOfStock
	}

	// price already covers one transaction of Quantity units
	totalCost := record.Price

	if !p.ledger.Has(ctx, buyer, totalCost) {
		outcome = outcomeInsufficientFunds
		return nil, ErrInsufficientFunds
	}

	if !p.ledger.Withdraw(ctx, buyer, totalCost) {
		// nothing mutated yet, safe to abort
		outcome = outcomeWithdrawFailed
		return nil, ErrWithdrawFailed
	}

	tax := totalCost * clampRate(p.rateFor(ctx, record.Owner))
	ownerAmount := totalCost - tax

	if !p.ledger.Deposit(ctx, record.Owner, ownerAmount) {
		outcome = outcomeOwnerDepositFailed
		if !p.ledger.Deposit(ctx, buyer, totalCost) {
			outcome = outcomeCompensationFailed
			return nil, p.fatal(ctx, logger, span, &CompensationError{
				Step:    "buyer_refund",
				Cause:   ErrOwnerDepositFailed,
				Failure: economy.ErrDepositFailed,
			})
		}
		logger.Warn("buy_owner_deposit_failed_refunded", zap.Float64("total_cost", totalCost))
		return nil, ErrOwnerDepositFailed
	}

	removed := p.containers.RemoveMatching(ctx, location, record.Item, record.Quantity)
	if removed < record.Quantity {
		// cached stock drifted from ground truth; revert both money moves
		outcome = outcomeStockDiscrepancy
		span.AddEvent("stock_discrepancy", trace.WithAttributes(
			attribute.Int("requested", record.Quantity),
			attribute.Int("removed", removed),
		))
		logger.Warn("buy_stock_discrepancy",
			zap.String("shop_id", record.ID),
			zap.Int("cached_stock", record.Stock),
			zap.Int("requested", record.Quantity),
			zap.Int("removed", removed),
		)

		if !p.ledger.Deposit(ctx, buyer, totalCost) {
			outcome = outcomeCompensationFailed
			return nil, p.fatal(ctx, logger, span, &CompensationError{
				Step:    "buyer_refund",
				Cause:   ErrStockDiscrepancy,
				Failure: economy.ErrDepositFailed,
			})
		}
		if !p.ledger.Withdraw(ctx, record.Owner, ownerAmount) {
			outcome = outcomeCompensationFailed
			return nil, p.fatal(ctx, logger, span, &CompensationError{
				Step:    "owner_reversal",
				Cause:   ErrStockDiscrepancy,
				Failure: economy.ErrWithdrawFailed,
			})
		}

		// bring the cache back in line with what the container really holds
		_, _, _ = p.reconciler.ReconcileShop(ctx, record)
		return nil, ErrStockDiscrepancy
	}

	if _, _, rerr := p.reconciler.ReconcileShop(ctx, record); rerr != nil {
		// stock already moved hands; a gone container here only means the
		// next sweep will retire the shop
		logger.Warn("post_buy_reconcile_failed", zap.Error(rerr))
	}

	p.metrics.ObserveVolume(totalCost)
	logger.Info("buy_completed",
		zap.String("shop_id", record.ID),
		zap.String("owner", record.Owner),
		zap.Int("quantity", record.Quantity),
		zap.Float64("total_cost", totalCost),
		zap.Float64("tax", tax),
		zap.Float64("owner_amount", ownerAmount),
		zap.Int("stock_left", record.Stock),
	)

	return &Receipt{
		Buyer:       buyer,
		Owner:       record.Owner,
		Location:    location,
		Item:        record.Item.Clone(),
		Quantity:    record.Quantity,
		TotalCost:   totalCost,
		Tax:         tax,
		OwnerAmount: ownerAmount,
	}, nil
}

func (p *Processor) rateFor(ctx context.Context, owner string) float64 {
	if p.tax == nil {
		return 0
	}
	return p.tax.RateFor(ctx, owner)
}

// fatal surfaces a failed compensation loudly: money state is now known
// inconsistent and no automatic retry is attempted.
func (p *Processor) fatal(ctx context.Context, logger *zap.Logger, span trace.Span, cerr *CompensationError) error {
	_ = ctx
	span.AddEvent("compensation_failed", trace.WithAttributes(
		attribute.String("step", cerr.Step),
	))
	logger.Error("compensation_failed",
		zap.String("step", cerr.Step),
		zap.NamedError("cause", cerr.Cause),
		zap.NamedError("failure", cerr.Failure),
	)
	return cerr
}

func clampRate(rate float64) float64 {
	if rate < 0 {
		return 0
	}
	if rate >= 1 {
		return 0.99
	}
	return rate
}
