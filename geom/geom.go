// Package geom provides the small geometric value types that configuration
// sections persist: points, sizes, rectangles, and ARGB colors. All
// components are plain integers so values round-trip through text without
// loss.
package geom

import "fmt"

// Point is an x,y coordinate pair.
type Point struct {
	X int
	Y int
}

// String returns the components joined by commas, in x,y order.
func (p Point) String() string {
	return fmt.Sprintf("%d,%d", p.X, p.Y)
}

// Size is a width,height pair.
type Size struct {
	Width  int
	Height int
}

// String returns the components joined by commas, in width,height order.
func (s Size) String() string {
	return fmt.Sprintf("%d,%d", s.Width, s.Height)
}

// Rect is a rectangle anchored at X,Y with the given extent.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// String returns the components joined by commas, in x,y,width,height order.
func (r Rect) String() string {
	return fmt.Sprintf("%d,%d,%d,%d", r.X, r.Y, r.Width, r.Height)
}

// Color is an ARGB color. Components are kept as integers rather than a
// packed value so that any persisted component survives a round trip
// unchanged, even out-of-range ones.
type Color struct {
	A int
	R int
	G int
	B int
}

// String returns the components joined by commas, in a,r,g,b order.
func (c Color) String() string {
	return fmt.Sprintf("%d,%d,%d,%d", c.A, c.R, c.G, c.B)
}
