package poster

import (
	"fmt"
	"image/color"

	"github.com/fogleman/gg"

	"github.com/mhuels/posterforge/pkg/geometry"
)

// shadowOffset is the diagonal drop-shadow displacement in figure units,
// applied rightward and downward.
const shadowOffset = 0.15

// borderStrokePoints is the frame outline stroke width in typographic
// points.
const borderStrokePoints = 4.0

// tracePolygon appends the polygon to the drawing path in pixel space.
func tracePolygon(dc *gg.Context, rc RenderContext, poly geometry.Polygon) {
	for i, p := range poly {
		x, y := rc.ToPixel(p.X, p.Y)
		if i == 0 {
			dc.MoveTo(x, y)
		} else {
			dc.LineTo(x, y)
		}
	}
	dc.ClosePath()
}

// shadowLayer fills the polygon, displaced diagonally, with black at the
// given alpha.
func shadowLayer(rc RenderContext, volume int, poly geometry.Polygon, alpha float64) Layer {
	layer := NewLayer(fmt.Sprintf("shadow_vol%d", volume), rc)
	shifted := poly.Translate(shadowOffset, -shadowOffset)

	dc := gg.NewContextForRGBA(layer.Image)
	tracePolygon(dc, rc, shifted)
	dc.SetRGBA(0, 0, 0, alpha)
	dc.Fill()
	return layer
}

// borderLayer strokes the polygon outline with the border color.
func borderLayer(rc RenderContext, volume int, poly geometry.Polygon, col color.Color) Layer {
	layer := NewLayer(fmt.Sprintf("border_vol%d", volume), rc)

	dc := gg.NewContextForRGBA(layer.Image)
	tracePolygon(dc, rc, poly)
	dc.SetColor(col)
	dc.SetLineWidth(rc.PointsToPixels(borderStrokePoints))
	dc.Stroke()
	return layer
}

// maskLayer fills the polygon opaque white. It never enters the layer
// stack itself; its alpha clips the cover layer to the frame silhouette.
func maskLayer(rc RenderContext, poly geometry.Polygon) Layer {
	layer := NewLayer("mask", rc)

	dc := gg.NewContextForRGBA(layer.Image)
	tracePolygon(dc, rc, poly)
	dc.SetRGB(1, 1, 1)
	dc.Fill()
	return layer
}
