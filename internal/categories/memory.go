package categories

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is the in-memory category store for tests and local runs.
type MemoryRepo struct {
	mu    sync.RWMutex
	store map[string]*Category
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{store: make(map[string]*Category)}
}

func (m *MemoryRepo) Insert(_ context.Context, cat *Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.store {
		if c.Slug == cat.Slug {
			return ErrExists
		}
	}
	cp := *cat
	m.store[cat.ID] = &cp
	return nil
}

func (m *MemoryRepo) Get(_ context.Context, id string) (*Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if c, ok := m.store[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, ErrNotFound
}

func (m *MemoryRepo) GetBySlug(_ context.Context, slug string) (*Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.store {
		if c.Slug == slug {
			cp := *c
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryRepo) List(_ context.Context) ([]*Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*Category{}
	for _, c := range m.store {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].Title < out[j].Title
	})
	return out, nil
}

func (m *MemoryRepo) Update(_ context.Context, cat *Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[cat.ID]; !ok {
		return ErrNotFound
	}
	for _, c := range m.store {
		if c.ID != cat.ID && c.Slug == cat.Slug {
			return ErrExists
		}
	}
	cp := *cat
	m.store[cat.ID] = &cp
	return nil
}

func (m *MemoryRepo) MoveOrder(_ context.Context, id string, dir Direction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cat, ok := m.store[id]
	if !ok {
		return ErrNotFound
	}

	var swap *Category
	for _, c := range m.store {
		if c.ID == id {
			continue
		}
		if dir == MoveUp {
			if c.Order < cat.Order && (swap == nil || c.Order > swap.Order) {
				swap = c
			}
		} else {
			if c.Order > cat.Order && (swap == nil || c.Order < swap.Order) {
				swap = c
			}
		}
	}
	if swap == nil {
		return ErrCannotMove
	}
	cat.Order, swap.Order = swap.Order, cat.Order
	return nil
}

func (m *MemoryRepo) Reorder(_ context.Context, items []OrderUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, item := range items {
		if c, ok := m.store[item.ID]; ok {
			c.Order = item.Order
		}
	}
	return nil
}

func (m *MemoryRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[id]; !ok {
		return ErrNotFound
	}
	delete(m.store, id)
	return nil
}
