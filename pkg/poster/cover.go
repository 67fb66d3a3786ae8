package poster

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/disintegration/imaging"

	"github.com/mhuels/posterforge/pkg/geometry"
)

// coverPadding widens cover art slightly past the frame bounding box so
// skewed corners stay covered after mask clipping.
const coverPadding = 1.05

// centerCropZoom crops a symmetric border so the remaining center fills
// the frame magnified by the zoom factor. Factors at or below 1 leave the
// image untouched.
func centerCropZoom(img image.Image, zoom float64) image.Image {
	if zoom <= 1 {
		return img
	}
	b := img.Bounds()
	w := int(float64(b.Dx()) / zoom)
	h := int(float64(b.Dy()) / zoom)
	if w < 1 || h < 1 {
		return img
	}
	return imaging.CropCenter(img, w, h)
}

// coverLayer places one volume's art centered on the frame, cropped by the
// zoom factor, resized to the frame bounding-box width plus padding, and
// shifted down by the configured fraction of its own height. Clipping to
// the polygon happens afterwards via the mask.
func coverLayer(rc RenderContext, volume int, img image.Image, poly geometry.Polygon,
	centerX, centerY, zoom, verticalOffset float64) Layer {

	layer := NewLayer(fmt.Sprintf("cover_vol%d", volume), rc)

	cropped := centerCropZoom(img, zoom)
	b := cropped.Bounds()
	if b.Dx() < 1 || b.Dy() < 1 {
		return layer
	}

	targetW := int(rc.Pixels(poly.Width()) * coverPadding)
	if targetW < 1 {
		return layer
	}
	aspect := float64(b.Dx()) / float64(b.Dy())
	targetH := int(float64(targetW) / aspect)
	if targetH < 1 {
		return layer
	}

	resized := imaging.Resize(cropped, targetW, targetH, imaging.Lanczos)

	shift := float64(targetH) * verticalOffset
	cx, cy := rc.ToPixel(centerX, centerY)
	x := int(cx - float64(targetW)/2)
	y := int(cy - float64(targetH)/2 - shift)

	rect := image.Rect(x, y, x+targetW, y+targetH)
	draw.Draw(layer.Image, rect, resized, image.Point{}, draw.Over)
	return layer
}
