package persist

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/Kazumiii-arch/VortexChestShop/internal/domain/shop"
	"gopkg.in/yaml.v3"
)

type snapshotFile struct {
	Shops []shop.Record `yaml:"shops"`
}

// Store persists the registry's shop set to a YAML file. Writes go through
// a temp file and rename so a crash mid-save never truncates the snapshot.
type Store struct {
	path string
}

var _ shop.SnapshotStore = (*Store)(nil)

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Save(ctx context.Context, records []shop.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	ordered := append([]shop.Record(nil), records...)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })

	data, err := yaml.Marshal(snapshotFile{Shops: ordered})
	if err != nil {
		return fmt.Errorf("persist: marshal snapshot: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("persist: prepare directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("persist: create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("persist: write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("persist: close snapshot: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("persist: replace snapshot: %w", err)
	}
	return nil
}

// Load reads the persisted records. A missing file is an empty registry,
// not an error.
func (s *Store) Load(ctx context.Context) ([]shop.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("persist: read snapshot: %w", err)
	}

	var file snapshotFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("persist: parse snapshot: %w", err)
	}
	return file.Shops, nil
}
