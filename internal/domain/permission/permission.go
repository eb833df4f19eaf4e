package permission

import (
	"context"
	"fmt"
)

// Permission nodes consumed by the core. Slot nodes are numeric tiers; the
// quota resolver scans them in descending order.
const (
	NodeAdmin             = "vortexchestshop.admin"
	NodePremiumTaxReduced = "vortexchestshop.premium.tax.reduced"

	premiumSlotsFormat = "vortexchestshop.premium.slots.%d"
	baseSlotsFormat    = "vortexchestshop.player.maxshops.%d"
)

func PremiumSlotsNode(tier int) string { return fmt.Sprintf(premiumSlotsFormat, tier) }
func BaseSlotsNode(tier int) string    { return fmt.Sprintf(baseSlotsFormat, tier) }

// Source answers permission-node checks for a principal. The host typically
// bridges this to its permission plugin.
type Source interface {
	Has(ctx context.Context, principal, node string) bool
}

// SourceFunc adapts a plain function to Source.
type SourceFunc func(ctx context.Context, principal, node string) bool

func (f SourceFunc) Has(ctx context.Context, principal, node string) bool {
	return f(ctx, principal, node)
}
