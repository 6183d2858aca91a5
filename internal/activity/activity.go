// Package activity is the catalog of route-bound views the desk exposes and
// the settings pages registered next to them. The content router mounts its
// routes from the catalog.
package activity

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"sync"

	"newsdesk/internal/content/models"
)

// ResolveKind says how an activity's data is resolved before display.
type ResolveKind string

const (
	// ResolveList queries a collection with criteria built from the route.
	ResolveList ResolveKind = "list"
	// ResolveArticles resolves the opened set plus the routed item.
	ResolveArticles ResolveKind = "articles"
)

// Activity is a named, route-bound view.
type Activity struct {
	ID         string            `json:"id"`
	Label      string            `json:"label"`
	Href       string            `json:"href"`
	MenuHref   string            `json:"menu_href,omitempty"`
	Priority   int               `json:"priority"`
	Menu       bool              `json:"menu"`
	Resolve    ResolveKind       `json:"resolve"`
	Collection models.Collection `json:"collection"`
}

// Routes expands the href into router patterns. A trailing optional
// parameter (":id?") yields both the bare prefix and the parameterised path.
func (a Activity) Routes() []string {
	segments := strings.Split(strings.Trim(a.Href, "/"), "/")
	trailingSlash := strings.HasSuffix(a.Href, "/")

	var (
		path     []string
		optional bool
	)
	for i, seg := range segments {
		name, ok := strings.CutPrefix(seg, ":")
		if !ok {
			path = append(path, seg)
			continue
		}
		if trimmed, opt := strings.CutSuffix(name, "?"); opt && i == len(segments)-1 {
			name = trimmed
			optional = true
		}
		path = append(path, "{"+name+"}")
	}

	full := "/" + strings.Join(path, "/")
	if trailingSlash && !optional {
		full += "/"
	}
	if !optional {
		return []string{full}
	}
	prefix := "/" + strings.Join(path[:len(path)-1], "/")
	if prefix != "/" {
		prefix += "/"
	}
	return []string{prefix, full}
}

// Setting is a settings page entry.
type Setting struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Catalog holds activities and settings. Populate it at startup.
type Catalog struct {
	mu         sync.RWMutex
	activities map[string]Activity
	settings   map[string]Setting
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		activities: make(map[string]Activity),
		settings:   make(map[string]Setting),
	}
}

// Register adds an activity, replacing any activity with the same ID.
func (c *Catalog) Register(a Activity) error {
	if a.ID == "" {
		return fmt.Errorf("activity id is required")
	}
	if !strings.HasPrefix(a.Href, "/") {
		return fmt.Errorf("activity %s: href %q must be absolute", a.ID, a.Href)
	}
	if !a.Collection.Valid() {
		return fmt.Errorf("activity %s: collection is required", a.ID)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.activities[a.ID] = a
	return nil
}

// RegisterSetting adds a settings entry, replacing one with the same ID.
func (c *Catalog) RegisterSetting(s Setting) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.settings[s.ID] = s
}

// Activity returns the activity registered under id.
func (c *Catalog) Activity(id string) (Activity, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	a, ok := c.activities[id]
	return a, ok
}

// Activities returns every activity ordered by priority, then ID.
func (c *Catalog) Activities() []Activity {
	c.mu.RLock()
	out := make([]Activity, 0, len(c.activities))
	for _, a := range c.activities {
		out = append(out, a)
	}
	c.mu.RUnlock()

	slices.SortFunc(out, func(a, b Activity) int {
		if p := cmp.Compare(a.Priority, b.Priority); p != 0 {
			return p
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

// Menu returns the activities shown in navigation.
func (c *Catalog) Menu() []Activity {
	return slices.DeleteFunc(c.Activities(), func(a Activity) bool { return !a.Menu })
}

// Settings returns every settings entry ordered by ID.
func (c *Catalog) Settings() []Setting {
	c.mu.RLock()
	out := make([]Setting, 0, len(c.settings))
	for _, s := range c.settings {
		out = append(out, s)
	}
	c.mu.RUnlock()

	slices.SortFunc(out, func(a, b Setting) int { return cmp.Compare(a.ID, b.ID) })
	return out
}
