package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	domperm "github.com/Kazumiii-arch/VortexChestShop/internal/domain/permission"
	permsource "github.com/Kazumiii-arch/VortexChestShop/internal/infrastructure/permission"
)

func TestQuotaFor(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		baseline int
		grants   []string
		want     int
	}{
		{"no grants falls back to baseline", 5, nil, 5},
		{"base tier above baseline raises it", 5, []string{domperm.BaseSlotsNode(10)}, 10},
		{"base tier below baseline is ignored", 5, []string{domperm.BaseSlotsNode(3)}, 5},
		{"highest base tier wins", 5, []string{domperm.BaseSlotsNode(10), domperm.BaseSlotsNode(25)}, 25},
		{"premium tier wins outright", 5, []string{domperm.PremiumSlotsNode(15)}, 15},
		{
			"premium beats a larger base tier",
			5,
			[]string{domperm.BaseSlotsNode(50), domperm.PremiumSlotsNode(10)},
			10,
		},
		{
			"highest premium tier ends the scan",
			5,
			[]string{domperm.PremiumSlotsNode(10), domperm.PremiumSlotsNode(25)},
			25,
		},
		{"premium below baseline still wins", 5, []string{domperm.PremiumSlotsNode(3)}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			perms := permsource.NewStaticSource()
			perms.Grant("alice", tt.grants...)

			resolver := NewQuotaResolver(perms, tt.baseline, nil)
			assert.Equal(t, tt.want, resolver.QuotaFor(ctx, "alice"))
		})
	}
}

func TestQuotaForCustomTiers(t *testing.T) {
	ctx := context.Background()
	perms := permsource.NewStaticSource()
	perms.Grant("bob", domperm.BaseSlotsNode(7), domperm.PremiumSlotsNode(42))

	// unordered input with duplicates and junk
	resolver := NewQuotaResolver(perms, 2, []int{7, 42, 7, 0, -3, 12})
	assert.Equal(t, []int{42, 12, 7}, resolver.tiers)
	assert.Equal(t, 42, resolver.QuotaFor(ctx, "bob"))

	// a granted tier outside the configured set is invisible
	perms2 := permsource.NewStaticSource()
	perms2.Grant("bob", domperm.PremiumSlotsNode(42))
	resolver2 := NewQuotaResolver(perms2, 2, []int{7, 12})
	assert.Equal(t, 2, resolver2.QuotaFor(ctx, "bob"))
}

func TestQuotaForNilSource(t *testing.T) {
	resolver := NewQuotaResolver(nil, 4, nil)
	assert.Equal(t, 4, resolver.QuotaFor(context.Background(), "anyone"))
}
