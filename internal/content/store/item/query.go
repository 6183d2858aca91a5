package item

import (
	"fmt"
	"sort"

	"newsdesk/internal/content/models"
	"newsdesk/pkg/platform/sentinel"
)

// Fields a Filter may constrain.
var filterable = map[string]bool{
	models.FieldProvider: true,
	"type":               true,
	"guid":               true,
}

// Fields a Sort may order by.
var sortable = map[string]bool{
	models.FieldFirstCreated:   true,
	models.FieldVersionCreated: true,
	models.FieldHeadline:       true,
}

// validate checks the criteria against what the stores can evaluate and
// returns the filter keys in a stable order.
func validate(c models.Criteria) ([]string, error) {
	keys := make([]string, 0, len(c.Filter))
	for k := range c.Filter {
		if !filterable[k] {
			return nil, fmt.Errorf("filter on %q: %w", k, sentinel.ErrUnsupported)
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	if !sortable[c.Sort.Field] {
		return nil, fmt.Errorf("sort by %q: %w", c.Sort.Field, sentinel.ErrUnsupported)
	}
	if c.Sort.Direction != models.Asc && c.Sort.Direction != models.Desc {
		return nil, fmt.Errorf("sort direction %q: %w", c.Sort.Direction, sentinel.ErrUnsupported)
	}
	if c.PageSize <= 0 {
		return nil, fmt.Errorf("page size %d: %w", c.PageSize, sentinel.ErrUnsupported)
	}
	return keys, nil
}

func fieldValue(it *models.Item, field string) string {
	switch field {
	case models.FieldProvider:
		return it.Provider
	case "type":
		return it.Type
	case "guid":
		return it.GUID
	case models.FieldHeadline:
		return it.Headline
	}
	return ""
}
