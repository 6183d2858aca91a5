package item

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"newsdesk/internal/content/models"
	"newsdesk/pkg/platform/sentinel"
)

// InMemory keeps one collection in a map. It evaluates criteria the same
// way SQLStore does and is used by tests and local development.
type InMemory struct {
	mu    sync.RWMutex
	items map[string]*models.Item
}

func NewInMemory() *InMemory {
	return &InMemory{items: make(map[string]*models.Item)}
}

func (s *InMemory) Save(_ context.Context, it *models.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *it
	s.items[it.ID] = &stored
	return nil
}

func (s *InMemory) FindByID(_ context.Context, id string) (*models.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	it, ok := s.items[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	found := *it
	return &found, nil
}

func (s *InMemory) Query(_ context.Context, c models.Criteria) (*models.ResultSet, error) {
	keys, err := validate(c)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	matched := make([]*models.Item, 0, len(s.items))
	for _, it := range s.items {
		if matches(it, c.Filter, keys) {
			copied := *it
			matched = append(matched, &copied)
		}
	}
	s.mu.RUnlock()

	slices.SortFunc(matched, func(a, b *models.Item) int {
		order := compareField(a, b, c.Sort.Field)
		if order == 0 {
			order = cmp.Compare(a.ID, b.ID)
		}
		if c.Sort.Direction == models.Desc {
			return -order
		}
		return order
	})

	total := len(matched)
	start := max(0, min(c.Offset(), total))
	end := max(start, min(start+max(c.PageSize, 0), total))

	return &models.ResultSet{
		Items:    matched[start:end],
		Total:    total,
		Page:     c.WithPage(c.Page).Page,
		PageSize: c.PageSize,
	}, nil
}

func matches(it *models.Item, f models.Filter, keys []string) bool {
	for _, k := range keys {
		if fieldValue(it, k) != f[k] {
			return false
		}
	}
	return true
}

func compareField(a, b *models.Item, field string) int {
	switch field {
	case models.FieldFirstCreated:
		return a.FirstCreated.Compare(b.FirstCreated)
	case models.FieldVersionCreated:
		return a.VersionCreated.Compare(b.VersionCreated)
	default:
		return cmp.Compare(fieldValue(a, field), fieldValue(b, field))
	}
}
