package permission

import (
	"context"

	"github.com/Kazumiii-arch/VortexChestShop/internal/domain/economy"
	domperm "github.com/Kazumiii-arch/VortexChestShop/internal/domain/permission"
)

// TaxPolicy resolves the transaction tax rate from permission grants:
// owners carrying the premium tax node pay the reduced rate, everyone else
// the standard rate.
type TaxPolicy struct {
	source       domperm.Source
	standardRate float64
	premiumRate  float64
}

var _ economy.TaxPolicy = (*TaxPolicy)(nil)

func NewTaxPolicy(source domperm.Source, standardRate, premiumRate float64) *TaxPolicy {
	return &TaxPolicy{
		source:       source,
		standardRate: clampRate(standardRate),
		premiumRate:  clampRate(premiumRate),
	}
}

func (p *TaxPolicy) RateFor(ctx context.Context, owner string) float64 {
	if p.source != nil && p.source.Has(ctx, owner, domperm.NodePremiumTaxReduced) {
		return p.premiumRate
	}
	return p.standardRate
}

func clampRate(rate float64) float64 {
	if rate < 0 {
		return 0
	}
	// rates are fractions in [0,1); 1 would tax the whole sale away
	if rate >= 1 {
		return 0.99
	}
	return rate
}
