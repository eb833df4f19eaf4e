package permission

import (
	"context"
	"sync"

	domperm "github.com/Kazumiii-arch/VortexChestShop/internal/domain/permission"
)

// StaticSource is an in-memory permission table. The demo binary and tests
// use it where a real host bridges to its permission plugin.
type StaticSource struct {
	mu     sync.RWMutex
	grants map[string]map[string]struct{}
}

var _ domperm.Source = (*StaticSource)(nil)

func NewStaticSource() *StaticSource {
	return &StaticSource{grants: make(map[string]map[string]struct{})}
}

func (s *StaticSource) Grant(principal string, nodes ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.grants[principal]
	if !ok {
		set = make(map[string]struct{})
		s.grants[principal] = set
	}
	for _, n := range nodes {
		set[n] = struct{}{}
	}
}

func (s *StaticSource) Revoke(principal string, nodes ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.grants[principal]
	if !ok {
		return
	}
	for _, n := range nodes {
		delete(set, n)
	}
}

func (s *StaticSource) Has(ctx context.Context, principal, node string) bool {
	_ = ctx

	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.grants[principal][node]
	return ok
}
