// Package registry maps surface identifiers to live surfaces.
//
// The registry replaces the back-reference a tool window's content would
// otherwise hold to its surface. Entries are non-owning: the content container
// that owns a surface is passed to Register, and disposing that container
// removes the entry, but only while it still points at the same surface.
//
// Components:
//   - Registry: Register, Resolve, Unregister
//   - ID: surface identifier, canonical value Browser
//
// The registry is confined to the UI loop and takes no locks.
//
// Example Usage:
//
//	reg := registry.New()
//	reg.Register(registry.Browser, s, content)
//	s, ok := reg.Resolve(registry.Browser)
package registry
