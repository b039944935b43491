// Package endpoint holds the base address shared by the remote feed clients.
package endpoint

// Context is the immutable base address used to build absolute endpoint
// URLs. The zero value has an empty base.
type Context struct {
	base string
}

// New returns a Context for base. The value is stored as given; malformed
// addresses surface when a request is built from it.
func New(base string) Context {
	return Context{base: base}
}

// Base returns the base address.
func (c Context) Base() string {
	return c.base
}

// URL joins the base with a component-specific relative path by plain
// concatenation.
func (c Context) URL(rel string) string {
	return c.base + rel
}
