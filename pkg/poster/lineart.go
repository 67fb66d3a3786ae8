package poster

import (
	"image"
	"image/draw"

	"github.com/disintegration/imaging"
)

// lineartLayer scales background line art to the canvas width, applies the
// configured alpha factor, and centers it vertically. A nil image yields
// an empty layer.
func lineartLayer(rc RenderContext, img image.Image, alpha float64) Layer {
	layer := NewLayer("background_lineart", rc)
	if img == nil || rc.Width < 1 {
		return layer
	}

	b := img.Bounds()
	if b.Dx() < 1 || b.Dy() < 1 {
		return layer
	}
	targetH := int(float64(rc.Width) * float64(b.Dy()) / float64(b.Dx()))
	if targetH < 1 {
		return layer
	}

	resized := imaging.Resize(img, rc.Width, targetH, imaging.Lanczos)
	faded := fadeAlpha(resized, alpha)

	y := (rc.Height - targetH) / 2
	rect := image.Rect(0, y, rc.Width, y+targetH)
	draw.Draw(layer.Image, rect, faded, image.Point{}, draw.Over)
	return layer
}

// fadeAlpha multiplies every pixel's alpha by factor.
func fadeAlpha(img *image.NRGBA, factor float64) *image.NRGBA {
	if factor >= 1 {
		return img
	}
	if factor < 0 {
		factor = 0
	}
	out := imaging.Clone(img)
	for i := 3; i < len(out.Pix); i += 4 {
		out.Pix[i] = uint8(float64(out.Pix[i]) * factor)
	}
	return out
}
