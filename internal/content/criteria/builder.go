// Package criteria turns route parameters into repository queries.
package criteria

import (
	"errors"
	"strconv"
	"strings"

	"newsdesk/internal/content/models"
)

// Route parameter names the builder reads.
const (
	ParamProvider = "provider"
	ParamPage     = "page"
)

// Builder derives list criteria from route parameters.
type Builder struct {
	params   *LocationParams
	defaults models.Criteria
}

// NewBuilder creates a builder using the list defaults: newest first, 25 per page.
func NewBuilder(params *LocationParams) *Builder {
	return &Builder{params: params, defaults: models.DefaultCriteria()}
}

// Build returns the criteria for location. A non-empty provider parameter
// constrains the filter to exactly that value; otherwise the filter is
// absent. Unparsable pages select page 1, out of range pages are clamped.
// The stored state for location is reset so criteria never carry over
// between navigations.
func (b *Builder) Build(location string, route map[string]string) models.Criteria {
	c := b.defaults.Clone()

	if provider := route[ParamProvider]; provider != "" {
		c = c.WithFilter(models.Filter{models.FieldProvider: provider})
	}
	if raw, ok := route[ParamPage]; ok {
		c = c.WithPage(parsePage(raw))
	}

	if b.params == nil {
		return c
	}
	return b.params.Reset(location, c)
}

// parsePage reads a page number. Numbers too large for an int saturate so
// they clamp to the last page instead of falling back to the first.
func parsePage(raw string) int {
	page, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 1
	}
	return page
}
