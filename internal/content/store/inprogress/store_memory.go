package inprogress

import (
	"context"
	"slices"
	"sync"

	"newsdesk/internal/content/models"
)

// InMemory keeps opened-set records in process memory.
type InMemory struct {
	mu   sync.RWMutex
	sets map[string][]string
}

func NewInMemory() *InMemory {
	return &InMemory{sets: make(map[string][]string)}
}

func (s *InMemory) Get(_ context.Context, key string) (*models.OpenedSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return &models.OpenedSet{Opened: slices.Clone(s.sets[key])}, nil
}

func (s *InMemory) Save(_ context.Context, key string, set *models.OpenedSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sets[key] = slices.Clone(set.Opened)
	return nil
}
