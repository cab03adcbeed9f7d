package repo

import (
	"context"
	"sync"

	"github.com/rogerio-castellano/stockly/internal/models"
)

// InMemoryNamedRepository keeps categories or suppliers in memory.
type InMemoryNamedRepository struct {
	mu      sync.RWMutex
	records []models.Named
}

func NewInMemoryNamedRepository() *InMemoryNamedRepository {
	return &InMemoryNamedRepository{records: []models.Named{}}
}

func (r *InMemoryNamedRepository) Create(_ context.Context, rec models.Named) (models.Named, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, rec)
	return rec, nil
}

func (r *InMemoryNamedRepository) ListByUser(_ context.Context, userID string) ([]models.Named, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []models.Named{}
	for _, rec := range r.records {
		if rec.UserID == userID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *InMemoryNamedRepository) GetByID(_ context.Context, userID, id string) (models.Named, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, rec := range r.records {
		if rec.ID == id && rec.UserID == userID {
			return rec, nil
		}
	}
	return models.Named{}, ErrRecordNotFound
}

func (r *InMemoryNamedRepository) Update(_ context.Context, rec models.Named) (models.Named, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, existing := range r.records {
		if existing.ID == rec.ID && existing.UserID == rec.UserID {
			existing.Name = rec.Name
			existing.UpdatedAt = rec.UpdatedAt
			r.records[i] = existing
			return existing, nil
		}
	}
	return models.Named{}, ErrRecordNotFound
}

func (r *InMemoryNamedRepository) Delete(_ context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, rec := range r.records {
		if rec.ID == id && rec.UserID == userID {
			r.records = append(r.records[:i], r.records[i+1:]...)
			return nil
		}
	}
	return ErrRecordNotFound
}

// Len returns the number of stored records across all users.
func (r *InMemoryNamedRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}

func (r *InMemoryNamedRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = []models.Named{}
}
