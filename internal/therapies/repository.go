package therapies

import (
	"context"
	"sort"
	"sync"
)

// Repository persists therapy offerings.
type Repository interface {
	Insert(ctx context.Context, t *Therapy) error
	GetByID(ctx context.Context, id string) (*Therapy, error)
	List(ctx context.Context) ([]*Therapy, error)
	Update(ctx context.Context, t *Therapy) error
	Delete(ctx context.Context, id string) (*Therapy, error)
}

// InMemoryRepository is a map-backed store used in tests.
type InMemoryRepository struct {
	mu   sync.RWMutex
	byID map[string]*Therapy
}

// NewInMemoryRepository creates an empty in-memory store.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{byID: make(map[string]*Therapy)}
}

var _ Repository = (*InMemoryRepository)(nil)

func (r *InMemoryRepository) Insert(ctx context.Context, t *Therapy) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *t
	r.byID[t.ID] = &stored
	return nil
}

func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Therapy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stored, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	t := *stored
	return &t, nil
}

func (r *InMemoryRepository) List(ctx context.Context) ([]*Therapy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Therapy, 0, len(r.byID))
	for _, stored := range r.byID {
		t := *stored
		out = append(out, &t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *InMemoryRepository) Update(ctx context.Context, t *Therapy) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[t.ID]; !ok {
		return ErrNotFound
	}
	stored := *t
	r.byID[t.ID] = &stored
	return nil
}

func (r *InMemoryRepository) Delete(ctx context.Context, id string) (*Therapy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	delete(r.byID, id)
	t := *stored
	return &t, nil
}
