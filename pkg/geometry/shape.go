// Package geometry computes frame polygons for the poster grid.
//
// A Shape is a closed tagged variant (kind plus shape-specific angles)
// rather than an open interface: adding a shape means a new kind constant
// and one new case in Vertices. Unknown kinds are a configuration error;
// this package never substitutes a default shape silently.
package geometry

import (
	"math"

	"github.com/mhuels/posterforge/pkg/errors"
)

// ShapeKind identifies a frame shape.
type ShapeKind string

// Supported frame shapes.
const (
	Parallelogram ShapeKind = "parallelogram"
	Rhombus       ShapeKind = "rhombus"
	Rectangle     ShapeKind = "rectangle"
	Hexagon       ShapeKind = "hexagon"
)

// ParseShapeKind converts a configuration string into a ShapeKind.
// Unrecognized kinds are rejected with an INVALID_SHAPE error.
func ParseShapeKind(s string) (ShapeKind, error) {
	switch ShapeKind(s) {
	case Parallelogram, Rhombus, Rectangle, Hexagon:
		return ShapeKind(s), nil
	}
	return "", errors.New(errors.ErrCodeInvalidShape,
		"unknown shape kind: %q (must be one of: parallelogram, rhombus, rectangle, hexagon)", s)
}

// Shape is the immutable geometric description of a frame shape.
// SkewDeg applies to parallelograms only; RotationDeg to rhombi only.
type Shape struct {
	Kind        ShapeKind
	SkewDeg     float64
	RotationDeg float64
}

// Vertices returns the polygon for the shape centered at (cx, cy) with the
// given width and height in figure units.
//
// Vertex order per kind:
//   - Parallelogram, Rectangle: bottom-left, bottom-right, top-right, top-left
//   - Rhombus: top, right, bottom, left (before rotation)
//   - Hexagon: counter-clockwise from the top point
func (s Shape) Vertices(cx, cy, width, height float64) (Polygon, error) {
	if err := errors.ValidateDimension("width", width); err != nil {
		return nil, err
	}
	if err := errors.ValidateDimension("height", height); err != nil {
		return nil, err
	}

	halfW, halfH := width/2, height/2

	switch s.Kind {
	case Parallelogram:
		// Top edge shifts right, bottom edge left, for positive skew.
		skew := halfH * math.Tan(s.SkewDeg*math.Pi/180)
		return Polygon{
			{cx - halfW - skew, cy - halfH},
			{cx + halfW - skew, cy - halfH},
			{cx + halfW + skew, cy + halfH},
			{cx - halfW + skew, cy + halfH},
		}, nil

	case Rhombus:
		poly := Polygon{
			{cx, cy + halfH},
			{cx + halfW, cy},
			{cx, cy - halfH},
			{cx - halfW, cy},
		}
		if s.RotationDeg != 0 {
			poly = poly.rotate(cx, cy, s.RotationDeg)
		}
		return poly, nil

	case Rectangle:
		return Polygon{
			{cx - halfW, cy - halfH},
			{cx + halfW, cy - halfH},
			{cx + halfW, cy + halfH},
			{cx - halfW, cy + halfH},
		}, nil

	case Hexagon:
		// Point-top hexagon constrained to the requested height. A regular
		// hexagon's natural half-width is (h/2)/sqrt(3); clamp it so the
		// shape never exceeds the requested width.
		hw := math.Min(halfW, halfH/math.Sqrt(3))
		return Polygon{
			{cx, cy + halfH},
			{cx - hw, cy + height/4},
			{cx - hw, cy - height/4},
			{cx, cy - halfH},
			{cx + hw, cy - height/4},
			{cx + hw, cy + height/4},
		}, nil
	}

	return nil, errors.New(errors.ErrCodeInvalidShape, "unknown shape kind: %q", s.Kind)
}
