// Package catalog provides a small library model: shelves of books with
// labels, plus a plain Container of numbers.
package catalog

import (
	"github.com/vk/objgraph/internal/reflectschema"
)

// Namespace is the namespace the catalog types are registered in.
const Namespace = "urn:objgraph:catalog"

// Module implements the reflectschema.Module interface.
type Module struct{}

// Register registers the catalog types, Book before Shelf.
func (m *Module) Register(r *reflectschema.Registry) {
	r.Register(Namespace, Container{})
	r.Register(Namespace, Book{},
		reflectschema.WithNameProperty("Title"),
		reflectschema.WithFactory("Untitled", Untitled),
	)
	r.Register(Namespace, Shelf{},
		reflectschema.WithNameProperty("Name"),
	)
}
