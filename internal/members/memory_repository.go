package members

import (
	"context"
	"sync"
)

type memoryRepository struct {
	mu      sync.RWMutex
	byEmail map[string]Member
}

// NewMemoryRepository builds an in-memory member store for tests and dev.
func NewMemoryRepository() Repository {
	return &memoryRepository{byEmail: make(map[string]Member)}
}

func (r *memoryRepository) Create(_ context.Context, m Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byEmail[m.Email]; exists {
		return ErrEmailTaken
	}
	r.byEmail[m.Email] = m
	return nil
}

func (r *memoryRepository) FindByID(_ context.Context, id string) (Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, m := range r.byEmail {
		if m.ID == id {
			return m, nil
		}
	}
	return Member{}, ErrNotFound
}

func (r *memoryRepository) FindByEmail(_ context.Context, email string) (Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.byEmail[email]
	if !ok {
		return Member{}, ErrNotFound
	}
	return m, nil
}

func (r *memoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for email, m := range r.byEmail {
		if m.ID == id {
			delete(r.byEmail, email)
		}
	}
	return nil
}
