package geometry

import "fmt"

// Rect is immutable once built; documents fill a RectBuilder that is turned
// into a Rect when the object is closed.
type Rect struct {
	Origin Point `json:"origin"`
	Size   Size  `json:"size"`
}

// RectBuilder is the mutable stand-in of Rect.
type RectBuilder struct {
	Origin Point
	Size   Size
}

func toBuilder(r *Rect) *RectBuilder {
	if r == nil {
		return &RectBuilder{}
	}
	return &RectBuilder{Origin: r.Origin, Size: r.Size}
}

// Build validates the builder and returns the Rect.
func (b *RectBuilder) Build() (Rect, error) {
	if b.Size.Width < 0 || b.Size.Height < 0 {
		return Rect{}, fmt.Errorf("rect size %dx%d is negative", b.Size.Width, b.Size.Height)
	}
	return Rect{Origin: b.Origin, Size: b.Size}, nil
}

// FromCorners builds the Rect spanning two opposite corners.
func FromCorners(x1, y1, x2, y2 int) Rect {
	return Rect{
		Origin: NewPoint(min(x1, x2), min(y1, y2)),
		Size:   Size{Width: max(x1, x2) - min(x1, x2), Height: max(y1, y2) - min(y1, y2)},
	}
}
