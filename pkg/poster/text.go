package poster

import (
	"image/color"

	"github.com/fogleman/gg"

	"github.com/mhuels/posterforge/pkg/fonts"
)

// textSpec describes one centered text draw call.
type textSpec struct {
	Text         string
	X, Y         float64 // center position in figure units
	SizePoints   float64
	Family       string
	Bold         bool
	Color        color.Color
	OutlineColor color.Color // nil disables the outline
	OutlineWidth int         // pixels
}

// textLayer renders one string centered on spec's position. The outline
// is built by stamping the glyphs at every integer offset inside a disc of
// the outline radius, then drawing the fill on top.
func textLayer(rc RenderContext, name string, spec textSpec) Layer {
	layer := NewLayer(name, rc)
	if spec.Text == "" {
		return layer
	}

	dc := gg.NewContextForRGBA(layer.Image)
	dc.SetFontFace(fonts.Face(spec.Family, rc.PointsToPixels(spec.SizePoints), spec.Bold))

	x, y := rc.ToPixel(spec.X, spec.Y)

	if spec.OutlineColor != nil && spec.OutlineWidth > 0 {
		w := spec.OutlineWidth
		dc.SetColor(spec.OutlineColor)
		for dx := -w; dx <= w; dx++ {
			for dy := -w; dy <= w; dy++ {
				if dx*dx+dy*dy <= w*w {
					dc.DrawStringAnchored(spec.Text, x+float64(dx), y+float64(dy), 0.5, 0.5)
				}
			}
		}
	}

	dc.SetColor(spec.Color)
	dc.DrawStringAnchored(spec.Text, x, y, 0.5, 0.5)
	return layer
}
