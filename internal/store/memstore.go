package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rcliao/memory-gate/internal/model"
)

// MemStore is an in-process Backend. It is not persistent and suits tests and
// single-process hosts. Records are scoped by owner, so ids only need to be
// unique per owner.
type MemStore struct {
	mu        sync.RWMutex
	items     map[string]map[string]model.MemoryItem
	proposals map[string]map[string]model.MemoryProposal
	now       func() time.Time
}

// NewMemStore creates an empty in-memory backend.
func NewMemStore() *MemStore {
	return &MemStore{
		items:     make(map[string]map[string]model.MemoryItem),
		proposals: make(map[string]map[string]model.MemoryProposal),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *MemStore) List(_ context.Context, ownerID string) ([]model.MemoryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []model.MemoryItem{}
	for _, it := range s.items[ownerID] {
		if it.Active() {
			out = append(out, cloneItem(it))
		}
	}
	sortItems(out)
	return out, nil
}

func (s *MemStore) Get(_ context.Context, ownerID, id string, includeDeleted bool) (*model.MemoryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	it, ok := s.items[ownerID][id]
	if !ok || (!it.Active() && !includeDeleted) {
		return nil, fmt.Errorf("memory %s: %w", id, ErrNotFound)
	}
	c := cloneItem(it)
	return &c, nil
}

func (s *MemStore) Create(_ context.Context, item model.MemoryItem) (*model.MemoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	owned, ok := s.items[item.OwnerID]
	if !ok {
		owned = make(map[string]model.MemoryItem)
		s.items[item.OwnerID] = owned
	}
	if _, exists := owned[item.ID]; exists {
		return nil, fmt.Errorf("memory %s already exists", item.ID)
	}
	owned[item.ID] = cloneItem(item)
	c := cloneItem(item)
	return &c, nil
}

func (s *MemStore) Delete(_ context.Context, ownerID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.items[ownerID][id]
	if !ok {
		return fmt.Errorf("memory %s: %w", id, ErrNotFound)
	}
	if !it.Active() {
		return nil
	}

	now := s.now()
	it.Status = model.StatusDeleted
	it.DeletedAt = &now
	it.UpdatedAt = now
	s.items[ownerID][id] = it
	return nil
}

func (s *MemStore) CreateProposal(_ context.Context, p model.MemoryProposal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	owned, ok := s.proposals[p.OwnerID]
	if !ok {
		owned = make(map[string]model.MemoryProposal)
		s.proposals[p.OwnerID] = owned
	}
	if _, exists := owned[p.ID]; exists {
		return fmt.Errorf("proposal %s already exists", p.ID)
	}
	owned[p.ID] = cloneProposal(p)
	return nil
}

func (s *MemStore) GetProposal(_ context.Context, ownerID, id string) (*model.MemoryProposal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.proposals[ownerID][id]
	if !ok {
		return nil, fmt.Errorf("proposal %s: %w", id, ErrNotFound)
	}
	c := cloneProposal(p)
	return &c, nil
}

func (s *MemStore) SaveProposal(_ context.Context, p model.MemoryProposal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.proposals[p.OwnerID][p.ID]; !ok {
		return fmt.Errorf("proposal %s: %w", p.ID, ErrNotFound)
	}
	s.proposals[p.OwnerID][p.ID] = cloneProposal(p)
	return nil
}

func (s *MemStore) ListProposals(_ context.Context, ownerID string, decision model.Decision) ([]model.MemoryProposal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []model.MemoryProposal{}
	for _, p := range s.proposals[ownerID] {
		if decision == "" || p.Decision == decision {
			out = append(out, cloneProposal(p))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// Close is a no-op.
func (s *MemStore) Close() error { return nil }

func sortItems(items []model.MemoryItem) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID < items[j].ID
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
}

func cloneItem(it model.MemoryItem) model.MemoryItem {
	if it.DeletedAt != nil {
		t := *it.DeletedAt
		it.DeletedAt = &t
	}
	return it
}

func cloneProposal(p model.MemoryProposal) model.MemoryProposal {
	if p.DecidedAt != nil {
		t := *p.DecidedAt
		p.DecidedAt = &t
	}
	return p
}
