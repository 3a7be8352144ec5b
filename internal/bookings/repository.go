package bookings

import (
	"context"
	"sort"
	"sync"
)

// Repository persists bookings. The store is the single owner of booking
// state; services hold only transient copies.
type Repository interface {
	Insert(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id string) (*Booking, error)
	List(ctx context.Context, filter ListFilter) ([]*Booking, error)
	// FindBySlot returns the booking occupying (date, time, therapyType),
	// or ErrNotFound when the slot is free.
	FindBySlot(ctx context.Context, date, timeOfDay, therapyType string) (*Booking, error)
	Update(ctx context.Context, b *Booking) error
	// Delete removes the booking and returns the removed record.
	Delete(ctx context.Context, id string) (*Booking, error)
}

// InMemoryRepository is a map-backed store used in tests and local
// development. It enforces the same slot uniqueness as the Postgres
// unique index.
type InMemoryRepository struct {
	mu    sync.RWMutex
	byID  map[string]*Booking
	slots map[string]string // slot key -> booking id
}

// NewInMemoryRepository creates an empty in-memory store.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		byID:  make(map[string]*Booking),
		slots: make(map[string]string),
	}
}

var _ Repository = (*InMemoryRepository)(nil)

func slotKey(date, timeOfDay, therapyType string) string {
	return date + "|" + timeOfDay + "|" + therapyType
}

// Insert stores a new booking, rejecting slot duplicates with ErrSlotTaken.
func (r *InMemoryRepository) Insert(ctx context.Context, b *Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := slotKey(b.Date, b.Time, b.TherapyType)
	if _, taken := r.slots[key]; taken {
		return ErrSlotTaken
	}
	stored := *b
	r.byID[b.ID] = &stored
	r.slots[key] = b.ID
	return nil
}

// GetByID returns a copy of the stored booking.
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	b := *stored
	return &b, nil
}

// List returns bookings matching the filter, ordered by date then time.
func (r *InMemoryRepository) List(ctx context.Context, filter ListFilter) ([]*Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Booking, 0, len(r.byID))
	for _, stored := range r.byID {
		if filter.Date != "" && stored.Date != filter.Date {
			continue
		}
		if filter.TherapyType != "" && stored.TherapyType != filter.TherapyType {
			continue
		}
		b := *stored
		out = append(out, &b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Time < out[j].Time
	})
	return out, nil
}

// FindBySlot looks up the booking holding a slot.
func (r *InMemoryRepository) FindBySlot(ctx context.Context, date, timeOfDay, therapyType string) (*Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.slots[slotKey(date, timeOfDay, therapyType)]
	if !ok {
		return nil, ErrNotFound
	}
	b := *r.byID[id]
	return &b, nil
}

// Update replaces the stored booking, keeping the slot index consistent.
func (r *InMemoryRepository) Update(ctx context.Context, b *Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.byID[b.ID]
	if !ok {
		return ErrNotFound
	}

	newKey := slotKey(b.Date, b.Time, b.TherapyType)
	oldKey := slotKey(current.Date, current.Time, current.TherapyType)
	if newKey != oldKey {
		if _, taken := r.slots[newKey]; taken {
			return ErrSlotTaken
		}
		delete(r.slots, oldKey)
		r.slots[newKey] = b.ID
	}

	stored := *b
	r.byID[b.ID] = &stored
	return nil
}

// Delete removes a booking and frees its slot.
func (r *InMemoryRepository) Delete(ctx context.Context, id string) (*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	delete(r.byID, id)
	delete(r.slots, slotKey(stored.Date, stored.Time, stored.TherapyType))
	b := *stored
	return &b, nil
}
