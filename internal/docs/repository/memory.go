package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/primex/docs-cms/internal/editor"
)

// MemoryRepo is the in-memory store used for unit tests and local runs
// without MongoDB. Records are copied on the way in and out so callers only
// change the store through Save, mirroring the replace semantics of the
// Mongo implementation.
type MemoryRepo struct {
	mu    sync.RWMutex
	store map[string]*Record
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{store: make(map[string]*Record)}
}

func clone(r *Record) *Record {
	cp := *r
	cp.Blocks = make([]editor.Block, len(r.Blocks))
	copy(cp.Blocks, r.Blocks)
	return &cp
}

func (m *MemoryRepo) Insert(_ context.Context, rec *Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.store {
		if existing.Metadata.Category == rec.Metadata.Category &&
			existing.Metadata.Slug == rec.Metadata.Slug {
			return ErrConflict
		}
	}
	m.store[rec.Metadata.ID] = clone(rec)
	return nil
}

func (m *MemoryRepo) Get(_ context.Context, id string) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if r, ok := m.store[id]; ok {
		return clone(r), nil
	}
	return nil, ErrNotFound
}

func (m *MemoryRepo) GetBySlug(_ context.Context, category, slug string) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.store {
		if r.Metadata.Category == category && r.Metadata.Slug == slug {
			return clone(r), nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryRepo) List(_ context.Context) ([]*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.collect(func(*Record) bool { return true }), nil
}

func (m *MemoryRepo) ListVisible(_ context.Context, userID string) ([]*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.collect(func(r *Record) bool {
		return r.Metadata.Status == editor.StatusDraft || r.Metadata.CreatedBy == userID
	}), nil
}

func (m *MemoryRepo) ListByStatus(_ context.Context, status editor.DocStatus) ([]*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.collect(func(r *Record) bool { return r.Metadata.Status == status }), nil
}

// collect filters and sorts under the caller's lock.
func (m *MemoryRepo) collect(keep func(*Record) bool) []*Record {
	out := []*Record{}
	for _, r := range m.store {
		if keep(r) {
			out = append(out, clone(r))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Metadata, out[j].Metadata
		if a.Category != b.Category {
			return a.Category < b.Category
		}
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		return a.Title < b.Title
	})
	return out
}

func (m *MemoryRepo) GetDefault(_ context.Context) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	published := []*Record{}
	for _, r := range m.store {
		if r.Metadata.Status != editor.StatusPublished {
			continue
		}
		if r.Metadata.IsDefault {
			return clone(r), nil
		}
		published = append(published, r)
	}
	if len(published) == 0 {
		return nil, ErrNotFound
	}
	sort.Slice(published, func(i, j int) bool {
		a, b := published[i].Metadata, published[j].Metadata
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		return a.Title < b.Title
	})
	return clone(published[0]), nil
}

func (m *MemoryRepo) Save(_ context.Context, rec *Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[rec.Metadata.ID]; !ok {
		return ErrNotFound
	}
	for _, existing := range m.store {
		if existing.Metadata.ID != rec.Metadata.ID &&
			existing.Metadata.Category == rec.Metadata.Category &&
			existing.Metadata.Slug == rec.Metadata.Slug {
			return ErrConflict
		}
	}
	m.store[rec.Metadata.ID] = clone(rec)
	return nil
}

func (m *MemoryRepo) SetDefault(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	target, ok := m.store[id]
	if !ok {
		return ErrNotFound
	}
	for _, r := range m.store {
		r.Metadata.IsDefault = false
	}
	target.Metadata.IsDefault = true
	return nil
}

func (m *MemoryRepo) MoveOrder(_ context.Context, id string, dir Direction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.store[id]
	if !ok {
		return ErrNotFound
	}

	// Nearest neighbor in the same category on the requested side.
	var swap *Record
	for _, r := range m.store {
		if r.Metadata.ID == id || r.Metadata.Category != doc.Metadata.Category {
			continue
		}
		if dir == MoveUp {
			if r.Metadata.Order < doc.Metadata.Order && (swap == nil || r.Metadata.Order > swap.Metadata.Order) {
				swap = r
			}
		} else {
			if r.Metadata.Order > doc.Metadata.Order && (swap == nil || r.Metadata.Order < swap.Metadata.Order) {
				swap = r
			}
		}
	}
	if swap == nil {
		return ErrCannotMove
	}
	doc.Metadata.Order, swap.Metadata.Order = swap.Metadata.Order, doc.Metadata.Order
	return nil
}

func (m *MemoryRepo) Reorder(_ context.Context, items []OrderUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, item := range items {
		if r, ok := m.store[item.ID]; ok {
			r.Metadata.Order = item.Order
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

func (m *MemoryRepo) DeleteByCategory(_ context.Context, category string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, r := range m.store {
		if r.Metadata.Category == category {
			delete(m.store, id)
			n++
		}
	}
	return n, nil
}

func (m *MemoryRepo) RenameCategory(_ context.Context, oldSlug, newSlug string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.store {
		if r.Metadata.Category == oldSlug {
			r.Metadata.Category = newSlug
		}
	}
	return nil
}
