package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/gogotex/gogotex/backend/doc-revisions/internal/document"
)

// MemoryRepo is an in-memory Repository used by tests and by the service
// when no MongoDB is configured. Revisions are copied on the way in and out.
type MemoryRepo struct {
	mu     sync.RWMutex
	chains map[string][]document.DocumentRevision
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{chains: make(map[string][]document.DocumentRevision)}
}

func (m *MemoryRepo) LoadChain(ctx context.Context, documentKey string) ([]document.DocumentRevision, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return document.CloneChain(m.chains[documentKey]), nil
}

func (m *MemoryRepo) Persist(ctx context.Context, revisions []document.DocumentRevision) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// validate the whole write set before touching anything
	staged := make(map[string][]document.DocumentRevision)
	for _, rev := range revisions {
		if rev.ID == "" || rev.Key == "" {
			return fmt.Errorf("persist revision: id and key are required")
		}
		chain, ok := staged[rev.Key]
		if !ok {
			chain = append([]document.DocumentRevision(nil), m.chains[rev.Key]...)
		}
		replaced := false
		for i := range chain {
			if chain[i].ID == rev.ID {
				if chain[i].Order != rev.Order {
					return fmt.Errorf("%w: revision %s cannot change order", document.ErrConflict, rev.ID)
				}
				chain[i] = rev.Clone()
				replaced = true
				break
			}
			if chain[i].Order == rev.Order {
				return fmt.Errorf("%w: document %s already has a revision at %d", document.ErrConflict, rev.Key, rev.Order)
			}
		}
		if !replaced {
			chain = append(chain, rev.Clone())
		}
		staged[rev.Key] = chain
	}

	for key, chain := range staged {
		sort.SliceStable(chain, func(i, j int) bool { return chain[i].Order < chain[j].Order })
		m.chains[key] = chain
	}
	return nil
}

func (m *MemoryRepo) ListDocumentKeys(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.chains))
	for k := range m.chains {
		out = append(out, k)
	}
	sort.Strings(out)
	return out, nil
}
