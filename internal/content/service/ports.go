package service

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"newsdesk/internal/content/models"
)

// Repository is the store bound to one collection.
type Repository interface {
	FindByID(ctx context.Context, id string) (*models.Item, error)
	Query(ctx context.Context, c models.Criteria) (*models.ResultSet, error)
}

// ItemReader fetches single records; *Service satisfies it.
type ItemReader interface {
	ReadByID(ctx context.Context, c models.Collection, id string) (*models.Item, error)
}

// OpenedSetStore reads opened-set records. A missing record is returned as
// an empty set, not an error.
type OpenedSetStore interface {
	Get(ctx context.Context, key string) (*models.OpenedSet, error)
}
