package geometry

import "math"

// Point is a 2D point in figure units.
type Point struct {
	X, Y float64
}

// Polygon is an ordered list of vertices, closed implicitly (the last
// vertex connects back to the first). Each shape produces its vertices in
// a fixed order so rasterization and clipping are deterministic.
type Polygon []Point

// Translate returns a copy of the polygon shifted by (dx, dy).
func (p Polygon) Translate(dx, dy float64) Polygon {
	out := make(Polygon, len(p))
	for i, pt := range p {
		out[i] = Point{X: pt.X + dx, Y: pt.Y + dy}
	}
	return out
}

// Bounds returns the axis-aligned bounding box of the polygon.
// For an empty polygon all values are zero.
func (p Polygon) Bounds() (minX, minY, maxX, maxY float64) {
	if len(p) == 0 {
		return 0, 0, 0, 0
	}
	minX, maxX = p[0].X, p[0].X
	minY, maxY = p[0].Y, p[0].Y
	for _, pt := range p[1:] {
		minX = math.Min(minX, pt.X)
		maxX = math.Max(maxX, pt.X)
		minY = math.Min(minY, pt.Y)
		maxY = math.Max(maxY, pt.Y)
	}
	return minX, minY, maxX, maxY
}

// Width returns the horizontal extent of the polygon's bounding box.
func (p Polygon) Width() float64 {
	minX, _, maxX, _ := p.Bounds()
	return maxX - minX
}

// Height returns the vertical extent of the polygon's bounding box.
func (p Polygon) Height() float64 {
	_, minY, _, maxY := p.Bounds()
	return maxY - minY
}

// rotate rotates the polygon about (cx, cy) by deg degrees using the
// standard 2D rotation matrix.
func (p Polygon) rotate(cx, cy, deg float64) Polygon {
	rad := deg * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)
	out := make(Polygon, len(p))
	for i, pt := range p {
		dx, dy := pt.X-cx, pt.Y-cy
		out[i] = Point{
			X: cx + dx*cos - dy*sin,
			Y: cy + dx*sin + dy*cos,
		}
	}
	return out
}
