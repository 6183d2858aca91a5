// Package permissions holds the permission descriptors the authorization
// component gates activities with. Descriptors are registered at startup and
// looked up by name; this package does not make access decisions.
package permissions

import (
	"cmp"
	"slices"
	"sync"

	pstrings "newsdesk/pkg/platform/strings"
)

// Access is the level of access a capability requires on a domain.
type Access string

const (
	AccessRead  Access = "read"
	AccessWrite Access = "write"
)

// Capability is one (domain, access level) requirement.
type Capability struct {
	Domain string `json:"domain"`
	Access Access `json:"access"`
}

// Descriptor names a bundle of required capabilities.
type Descriptor struct {
	Name         string       `json:"name"`
	Label        string       `json:"label"`
	Capabilities []Capability `json:"capabilities"`
}

// Requires reports whether the descriptor needs access on domain.
func (d Descriptor) Requires(domain string, access Access) bool {
	return slices.Contains(d.Capabilities, Capability{Domain: domain, Access: access})
}

// Registry stores descriptors by name. It is safe for concurrent use, but is
// meant to be populated once at startup and read afterwards.
type Registry struct {
	mu          sync.RWMutex
	descriptors map[string]Descriptor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{descriptors: make(map[string]Descriptor)}
}

// Register stores a descriptor under name, replacing any descriptor
// previously registered under the same name. Capabilities are stored as a
// set.
func (r *Registry) Register(name, label string, capabilities ...Capability) Descriptor {
	d := Descriptor{
		Name:         name,
		Label:        label,
		Capabilities: normalize(capabilities),
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.descriptors[name] = d
	return clone(d)
}

// Lookup returns the descriptor registered under name.
func (r *Registry) Lookup(name string) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.descriptors[name]
	if !ok {
		return Descriptor{}, false
	}
	return clone(d), true
}

// All returns every descriptor ordered by name.
func (r *Registry) All() []Descriptor {
	r.mu.RLock()
	out := make([]Descriptor, 0, len(r.descriptors))
	for _, d := range r.descriptors {
		out = append(out, clone(d))
	}
	r.mu.RUnlock()

	slices.SortFunc(out, func(a, b Descriptor) int {
		return cmp.Compare(a.Name, b.Name)
	})
	return out
}

// Len returns the number of registered descriptors.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.descriptors)
}

func normalize(capabilities []Capability) []Capability {
	out := pstrings.Dedupe(slices.Clone(capabilities))
	if out == nil {
		out = []Capability{}
	}
	slices.SortFunc(out, func(a, b Capability) int {
		if c := cmp.Compare(a.Domain, b.Domain); c != 0 {
			return c
		}
		return cmp.Compare(a.Access, b.Access)
	})
	return out
}

func clone(d Descriptor) Descriptor {
	d.Capabilities = slices.Clone(d.Capabilities)
	return d
}
