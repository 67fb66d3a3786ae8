package poster

import (
	"context"
	"image"
	"image/color"
	"image/draw"
)

// Layer is one full-canvas RGBA buffer in the compositor's ordered stack.
// Layers exist only for the duration of a single render call; their list
// position is their z-order.
type Layer struct {
	Name  string
	Image *image.RGBA
}

// NewLayer allocates a transparent full-canvas layer.
func NewLayer(name string, rc RenderContext) Layer {
	return Layer{
		Name:  name,
		Image: image.NewRGBA(image.Rect(0, 0, rc.Width, rc.Height)),
	}
}

// ImageLoader supplies cover art for a volume number. Implementations may
// fetch over the network or read a cache; the compositor only requires
// that a miss reports ok=false instead of an error.
type ImageLoader interface {
	Load(ctx context.Context, volume int) (image.Image, bool)
}

// LoaderFunc adapts a function to the ImageLoader interface.
type LoaderFunc func(ctx context.Context, volume int) (image.Image, bool)

// Load implements ImageLoader.
func (f LoaderFunc) Load(ctx context.Context, volume int) (image.Image, bool) {
	return f(ctx, volume)
}

// applyMask multiplies dst's alpha channel by the mask's alpha, pixel by
// pixel. Pixels outside the mask polygon end up fully transparent, which
// is what clips cover art to the frame silhouette.
func applyMask(dst *image.RGBA, mask *image.RGBA) {
	b := dst.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			di := dst.PixOffset(x, y)
			mi := mask.PixOffset(x, y)
			ma := uint32(mask.Pix[mi+3])
			if ma == 0xff {
				continue
			}
			if ma == 0 {
				dst.Pix[di] = 0
				dst.Pix[di+1] = 0
				dst.Pix[di+2] = 0
				dst.Pix[di+3] = 0
				continue
			}
			// Premultiplied alpha: scale every channel.
			dst.Pix[di] = uint8(uint32(dst.Pix[di]) * ma / 0xff)
			dst.Pix[di+1] = uint8(uint32(dst.Pix[di+1]) * ma / 0xff)
			dst.Pix[di+2] = uint8(uint32(dst.Pix[di+2]) * ma / 0xff)
			dst.Pix[di+3] = uint8(uint32(dst.Pix[di+3]) * ma / 0xff)
		}
	}
}

// Flatten composites the layer stack bottom to top with standard over
// blending, then once more over the opaque background color so the output
// carries no residual transparency.
func Flatten(rc RenderContext, layers []Layer, background color.Color) *image.RGBA {
	if background == nil {
		background = color.White
	}
	stacked := image.NewRGBA(image.Rect(0, 0, rc.Width, rc.Height))
	for _, l := range layers {
		if l.Image == nil {
			continue
		}
		draw.Draw(stacked, stacked.Bounds(), l.Image, image.Point{}, draw.Over)
	}

	out := image.NewRGBA(stacked.Bounds())
	draw.Draw(out, out.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)
	draw.Draw(out, out.Bounds(), stacked, image.Point{}, draw.Over)
	return out
}
