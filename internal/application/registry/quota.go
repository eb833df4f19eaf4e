package registry

import (
	"context"
	"sort"

	domperm "github.com/Kazumiii-arch/VortexChestShop/internal/domain/permission"
)

// QuotaResolver resolves the maximum shop count for a principal from tiered
// permission grants. Two node families exist:
//
//   - premium slot tiers: the highest granted tier wins outright and ends
//     the scan, even when a larger base tier is also granted.
//   - base slot tiers: a granted tier only raises the configured baseline,
//     never lowers it, and never stops the scan.
//
// Tiers are scanned highest first over an explicit configured set rather
// than a brute-force descending loop over the whole numeric range.
type QuotaResolver struct {
	perms    domperm.Source
	baseline int
	tiers    []int
}

// DefaultTiers is the slot-tier space scanned when the host configures none.
var DefaultTiers = []int{1, 3, 5, 10, 15, 25, 50, 100, 200}

func NewQuotaResolver(perms domperm.Source, baseline int, tiers []int) *QuotaResolver {
	if len(tiers) == 0 {
		tiers = DefaultTiers
	}
	ordered := append([]int(nil), tiers...)
	sort.Sort(sort.Reverse(sort.IntSlice(ordered)))
	// drop duplicates and non-positive tiers
	dedup := ordered[:0]
	last := -1
	for _, t := range ordered {
		if t <= 0 || t == last {
			continue
		}
		dedup = append(dedup, t)
		last = t
	}
	return &QuotaResolver{perms: perms, baseline: baseline, tiers: dedup}
}

// QuotaFor returns the shop quota for the principal.
func (r *QuotaResolver) QuotaFor(ctx context.Context, principal string) int {
	limit := r.baseline
	if r.perms == nil {
		return limit
	}
	for _, tier := range r.tiers {
		if r.perms.Has(ctx, principal, domperm.PremiumSlotsNode(tier)) {
			return tier
		}
		if tier > limit && r.perms.Has(ctx, principal, domperm.BaseSlotsNode(tier)) {
			limit = tier
		}
	}
	return limit
}
