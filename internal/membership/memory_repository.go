package membership

import (
	"context"
	"errors"
	"sync"
)

type memoryRepository struct {
	mu       sync.RWMutex
	byMember map[string]Subscription
}

// NewMemoryRepository constructs an in-memory repository for tests and dev.
func NewMemoryRepository() Repository {
	return &memoryRepository{byMember: make(map[string]Subscription)}
}

func (r *memoryRepository) Create(_ context.Context, sub Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byMember[sub.MemberID]; exists {
		return errors.New("subscription exists")
	}
	r.byMember[sub.MemberID] = sub
	return nil
}

func (r *memoryRepository) GetByMember(_ context.Context, memberID string) (Subscription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sub, ok := r.byMember[memberID]
	if !ok {
		return Subscription{}, ErrNotFound
	}
	return sub, nil
}
