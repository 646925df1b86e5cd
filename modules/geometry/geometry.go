package geometry

import (
	"fmt"
	"strconv"
	"strings"
)

// Point is a position on the plane. It can only be built through NewPoint.
type Point struct {
	X int `xaml:",ctor" json:"x"`
	Y int `xaml:",ctor" json:"y"`
}

func NewPoint(x, y int) Point { return Point{X: x, Y: y} }

func (p Point) String() string { return fmt.Sprintf("%d,%d", p.X, p.Y) }

// ParsePoint converts "x,y" into a *Point.
func ParsePoint(v any) (any, error) {
	x, y, err := parsePair(v, "point")
	if err != nil {
		return nil, err
	}
	p := NewPoint(x, y)
	return &p, nil
}

// Size is a width and height.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ParseSize converts "w,h" into a *Size.
func ParseSize(v any) (any, error) {
	w, h, err := parsePair(v, "size")
	if err != nil {
		return nil, err
	}
	return &Size{Width: w, Height: h}, nil
}

// Polygon is a named list of points.
type Polygon struct {
	Name   string  `json:"name,omitempty"`
	Points []Point `json:"points"`
	Closed bool    `json:"closed"`
}

func parsePair(v any, what string) (int, int, error) {
	s, ok := v.(string)
	if !ok {
		return 0, 0, fmt.Errorf("cannot convert %T to a %s", v, what)
	}
	first, second, ok := strings.Cut(s, ",")
	if !ok {
		return 0, 0, fmt.Errorf("%s '%s' must have the form a,b", what, s)
	}
	a, err := strconv.Atoi(strings.TrimSpace(first))
	if err != nil {
		return 0, 0, fmt.Errorf("%s '%s': %w", what, s, err)
	}
	b, err := strconv.Atoi(strings.TrimSpace(second))
	if err != nil {
		return 0, 0, fmt.Errorf("%s '%s': %w", what, s, err)
	}
	return a, b, nil
}
