// Package geometry provides plane geometry types: a constructor-only Point,
// a plain Size, an immutable Rect built through RectBuilder and a Polygon
// holding a list of points.
package geometry

import (
	"github.com/vk/objgraph/internal/reflectschema"
)

// Namespace is the namespace the geometry types are registered in.
const Namespace = "urn:objgraph:geometry"

// Module implements the reflectschema.Module interface.
type Module struct{}

// Register registers the geometry types. Point and Size come first because
// Rect and Polygon refer to them.
func (m *Module) Register(r *reflectschema.Registry) {
	r.Register(Namespace, Point{},
		reflectschema.WithConstructor(NewPoint, "X", "Y"),
		reflectschema.WithConverter(ParsePoint),
	)
	r.Register(Namespace, Size{},
		reflectschema.WithConverter(ParseSize),
	)
	r.Register(Namespace, Rect{},
		reflectschema.WithStandIn(toBuilder, (*RectBuilder).Build),
		reflectschema.WithFactory("FromCorners", FromCorners),
	)
	r.Register(Namespace, Polygon{},
		reflectschema.WithNameProperty("Name"),
	)
}
