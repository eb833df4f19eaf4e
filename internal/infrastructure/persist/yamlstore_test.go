package persist

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kazumiii-arch/VortexChestShop/internal/domain/shop"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "shops.yaml")
	store := NewStore(path)

	records := []shop.Record{
		{
			ID:       "zz-last",
			Owner:    "bob",
			Location: "world,2,64,0",
			Item:     shop.ItemDescriptor{Kind: "STONE"},
			Price:    1.5,
			Quantity: 16,
		},
		{
			ID:       "aa-first",
			Owner:    "alice",
			Location: "world,1,64,0",
			Item: shop.ItemDescriptor{
				Kind:        "DIAMOND_SWORD",
				DisplayName: "Excalibur",
				Lore:        []string{"forged in fire"},
				Enchants:    map[string]int{"sharpness": 5},
			},
			Price:          100,
			Quantity:       1,
			DisplayEnabled: true,
		},
	}
	require.NoError(t, store.Save(ctx, records))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 2)

	// records come back sorted by id
	assert.Equal(t, "aa-first", loaded[0].ID)
	assert.Equal(t, "zz-last", loaded[1].ID)
	assert.Equal(t, "Excalibur", loaded[0].Item.DisplayName)
	assert.Equal(t, map[string]int{"sharpness": 5}, loaded[0].Item.Enchants)
	assert.True(t, loaded[0].DisplayEnabled)
}

func TestSaveOverwritesAtomically(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "shops.yaml")
	store := NewStore(path)

	require.NoError(t, store.Save(ctx, []shop.Record{{ID: "a", Owner: "alice", Location: "world,0,0,0", Item: shop.ItemDescriptor{Kind: "BREAD"}, Price: 1, Quantity: 1}}))
	require.NoError(t, store.Save(ctx, nil))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, loaded)

	// no temp files left behind
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "shops.yaml", entries[0].Name())
}

func TestSaveCreatesParentDirectory(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "deeper", "shops.yaml")
	store := NewStore(path)

	require.NoError(t, store.Save(ctx, nil))
	_, err := os.Stat(path)
	require.NoError(t, err)
}

func TestLoadMissingFileIsEmpty(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "never-written.yaml"))

	loaded, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shops.yaml")
	require.NoError(t, os.WriteFile(path, []byte("shops: [not: {valid"), 0o644))

	_, err := NewStore(path).Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse snapshot")
}

func TestSaveHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := NewStore(filepath.Join(t.TempDir(), "shops.yaml"))
	require.ErrorIs(t, store.Save(ctx, nil), context.Canceled)
	_, err := store.Load(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
