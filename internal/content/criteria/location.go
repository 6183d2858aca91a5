package criteria

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"newsdesk/internal/content/models"
)

const cleanupInterval = 10 * time.Minute

// LocationParams keeps the list criteria last built for each navigation
// location, so paging controls can read back what the current view shows.
type LocationParams struct {
	cache *gocache.Cache
}

// NewLocationParams creates a store whose entries expire after ttl.
func NewLocationParams(ttl time.Duration) *LocationParams {
	return &LocationParams{cache: gocache.New(ttl, cleanupInterval)}
}

// Reset replaces whatever was stored for location with c and returns it.
func (p *LocationParams) Reset(location string, c models.Criteria) models.Criteria {
	p.cache.SetDefault(location, c.Clone())
	return c.Clone()
}

// Current returns the criteria stored for location.
func (p *LocationParams) Current(location string) (models.Criteria, bool) {
	v, ok := p.cache.Get(location)
	if !ok {
		return models.Criteria{}, false
	}
	c, ok := v.(models.Criteria)
	if !ok {
		return models.Criteria{}, false
	}
	return c.Clone(), true
}

// Forget drops the state of location.
func (p *LocationParams) Forget(location string) {
	p.cache.Delete(location)
}
