package models

import (
	"maps"
	"math"
)

// Field names understood by the repositories.
const (
	FieldProvider       = "provider"
	FieldFirstCreated   = "firstcreated"
	FieldVersionCreated = "versioncreated"
	FieldHeadline       = "headline"
)

// DefaultPageSize is the page size list activities resolve with.
const DefaultPageSize = 25

// MaxPage is the highest page a criteria can point at; larger requests are
// clamped to it.
const MaxPage = math.MaxInt32

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Sort orders a result set by a single field.
type Sort struct {
	Field     string    `json:"field"`
	Direction Direction `json:"direction"`
}

// Filter constrains results to records whose fields equal the given values.
type Filter map[string]string

// Criteria is a normalized repository query. A nil Filter means the query is
// unconstrained. Values are treated as immutable once built; use the With*
// helpers to derive new ones.
type Criteria struct {
	Filter   Filter `json:"where,omitempty"`
	Sort     Sort   `json:"sort"`
	PageSize int    `json:"max_results"`
	Page     int    `json:"page"`
}

// DefaultCriteria returns the list defaults: newest first, 25 per page.
func DefaultCriteria() Criteria {
	return Criteria{
		Sort:     Sort{Field: FieldFirstCreated, Direction: Desc},
		PageSize: DefaultPageSize,
		Page:     1,
	}
}

// HasFilter reports whether the criteria carries any constraint.
func (c Criteria) HasFilter() bool {
	return len(c.Filter) > 0
}

// Offset is the number of records skipped before the current page.
func (c Criteria) Offset() int {
	if c.Page <= 1 || c.PageSize <= 0 {
		return 0
	}
	if c.Page-1 > math.MaxInt/c.PageSize {
		return math.MaxInt
	}
	return (c.Page - 1) * c.PageSize
}

// WithFilter returns a copy of c constrained by f. An empty f clears the filter.
func (c Criteria) WithFilter(f Filter) Criteria {
	if len(f) == 0 {
		c.Filter = nil
		return c
	}
	c.Filter = maps.Clone(f)
	return c
}

// WithPage returns a copy of c pointing at page p; values below 1 select
// page 1 and values above MaxPage select MaxPage.
func (c Criteria) WithPage(p int) Criteria {
	p = max(1, min(p, MaxPage))
	c.Page = p
	return c
}

// Clone returns a deep copy so cached criteria cannot be mutated through a
// returned value.
func (c Criteria) Clone() Criteria {
	if c.Filter != nil {
		c.Filter = maps.Clone(c.Filter)
	}
	return c
}
