package trade

import (
	"context"
	"testing"

	"pgregory.net/rapid"

	"github.com/Kazumiii-arch/VortexChestShop/internal/application/stock"
	"github.com/Kazumiii-arch/VortexChestShop/internal/domain/container"
	"github.com/Kazumiii-arch/VortexChestShop/internal/domain/economy"
	"github.com/Kazumiii-arch/VortexChestShop/internal/domain/shop"
	"github.com/Kazumiii-arch/VortexChestShop/internal/infrastructure/memory"
	"github.com/Kazumiii-arch/VortexChestShop/internal/pkg/keymutex"
)

// Whatever a buy attempt does, money is conserved, no balance goes
// negative, and a successful receipt splits the price exactly between tax
// and owner payout.
func TestBuyMoneyConservation(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ctx := context.Background()

		price := rapid.Float64Range(0.01, 10_000).Draw(t, "price")
		quantity := rapid.IntRange(1, 64).Draw(t, "quantity")
		stocked := rapid.IntRange(0, 256).Draw(t, "stocked")
		taxRate := rapid.Float64Range(0, 0.99).Draw(t, "taxRate")
		buyerFunds := rapid.Float64Range(0, 20_000).Draw(t, "buyerFunds")
		ownerFunds := rapid.Float64Range(0, 1_000).Draw(t, "ownerFunds")
		attempts := rapid.IntRange(1, 5).Draw(t, "attempts")

		repo := memory.NewShopRepository()
		ledger := memory.NewLedger()
		containers := memory.NewContainerSource()
		locks := keymutex.New()
		location := shop.LocationKeyOf("world", 0, 70, 0)

		containers.Place(location, container.Stack{Item: bread(), Count: stocked})

		record, err := shop.New("shop-1", "owner", location, bread(), price, quantity, true)
		if err != nil {
			t.Fatalf("shop.New: %v", err)
		}
		record.SetStock(stocked)
		if err := repo.Insert(ctx, record); err != nil {
			t.Fatalf("insert: %v", err)
		}

		ledger.SetBalance("buyer", buyerFunds)
		ledger.SetBalance("owner", ownerFunds)

		reconciler := stock.NewReconciler(repo, containers, nopRemover{}, nil, locks, nil)
		processor := NewProcessor(
			repo, ledger, containers,
			economy.TaxPolicyFunc(func(context.Context, string) float64 { return taxRate }),
			reconciler, locks, nil,
		)

		totalBefore := ledger.Balance(ctx, "buyer") + ledger.Balance(ctx, "owner")

		for i := 0; i < attempts; i++ {
			receipt, err := processor.Buy(ctx, "buyer", location)
			if err == nil {
				if got := receipt.Tax + receipt.OwnerAmount; !approxEqual(got, receipt.TotalCost) {
					t.Fatalf("receipt split %v+%v != %v", receipt.Tax, receipt.OwnerAmount, receipt.TotalCost)
				}
			}
		}

		buyerAfter := ledger.Balance(ctx, "buyer")
		ownerAfter := ledger.Balance(ctx, "owner")
		if buyerAfter < 0 || ownerAfter < 0 {
			t.Fatalf("negative balance: buyer=%v owner=%v", buyerAfter, ownerAfter)
		}

		// tax leaves the ledger; everything else stays between the parties
		totalAfter := buyerAfter + ownerAfter
		spent := buyerFunds - buyerAfter
		earned := ownerAfter - ownerFunds
		taxed := totalBefore - totalAfter
		if taxed < -1e-6 {
			t.Fatalf("money was created: before=%v after=%v", totalBefore, totalAfter)
		}
		if !approxEqual(spent, earned+taxed) {
			t.Fatalf("ledger imbalance: spent=%v earned=%v taxed=%v", spent, earned, taxed)
		}
	})
}

func approxEqual(a, b float64) bool {
	d := a - b
	return d < 1e-6 && d > -1e-6
}
