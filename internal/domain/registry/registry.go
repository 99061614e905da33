package registry

import (
	"github.com/matkoch/jetbrains-plugin-idebrowser/internal/domain/surface"
)

// ID identifies an addressable surface
type ID string

// Browser is the identifier of the browser tool window surface
const Browser ID = "Browser"

// Owner is the lifetime owner of a registered surface
type Owner interface {
	OnDispose(fn func())
}

// Registry holds at most one surface per identifier
type Registry struct {
	entries map[ID]*surface.Surface
}

// New creates an empty registry
func New() *Registry {
	return &Registry{entries: make(map[ID]*surface.Surface)}
}

// Register associates s with id, replacing any previous surface. When owner is
// disposed the entry is removed if it still refers to s.
func (r *Registry) Register(id ID, s *surface.Surface, owner Owner) {
	r.entries[id] = s
	if owner != nil {
		owner.OnDispose(func() {
			if r.entries[id] == s {
				delete(r.entries, id)
			}
		})
	}
}

// Resolve returns the surface registered under id
func (r *Registry) Resolve(id ID) (*surface.Surface, bool) {
	s, ok := r.entries[id]
	return s, ok
}

// Unregister removes the entry for id
func (r *Registry) Unregister(id ID) {
	delete(r.entries, id)
}

// Len returns the number of registered surfaces
func (r *Registry) Len() int {
	return len(r.entries)
}
