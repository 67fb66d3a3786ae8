package poster

import "math"

// RenderContext carries the canvas geometry for one render pass. It is
// derived once from the layout plan and a pixels-per-unit scalar, then
// passed read-only to every layer producer.
type RenderContext struct {
	Width         int     // canvas width in pixels
	Height        int     // canvas height in pixels
	PixelsPerUnit float64 // figure-unit to pixel scalar
	FigWidth      float64 // canvas width in figure units
	FigHeight     float64 // canvas height in figure units
}

// NewRenderContext derives the pixel canvas from figure-unit dimensions.
func NewRenderContext(figWidth, figHeight, pixelsPerUnit float64) RenderContext {
	return RenderContext{
		Width:         int(figWidth * pixelsPerUnit),
		Height:        int(figHeight * pixelsPerUnit),
		PixelsPerUnit: pixelsPerUnit,
		FigWidth:      figWidth,
		FigHeight:     figHeight,
	}
}

// ToPixel maps a figure-unit point to pixel coordinates. Figure units use
// a y-up origin at the bottom-left; pixels are y-down from the top-left.
func (rc RenderContext) ToPixel(x, y float64) (float64, float64) {
	return x * rc.PixelsPerUnit, float64(rc.Height) - y*rc.PixelsPerUnit
}

// Pixels converts a figure-unit length to pixels.
func (rc RenderContext) Pixels(units float64) float64 {
	return units * rc.PixelsPerUnit
}

// PointsToPixels converts a length in typographic points to pixels. The
// pixels-per-unit scalar doubles as DPI, so one point is ppu/72 pixels.
func (rc RenderContext) PointsToPixels(points float64) float64 {
	return math.Max(1, points*rc.PixelsPerUnit/72.0)
}
