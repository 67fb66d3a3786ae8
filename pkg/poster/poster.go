// Package poster turns a schedule plus frame geometry into a single
// flattened raster image.
//
// Rendering is a pure function of its inputs: the layout plan fixes the
// canvas, every visual element becomes one transparent full-canvas layer,
// and the ordered layer stack is composited bottom to top. Cover art is
// the only external dependency and is supplied through an ImageLoader.
package poster

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/mhuels/posterforge/pkg/errors"
	"github.com/mhuels/posterforge/pkg/geometry"
	"github.com/mhuels/posterforge/pkg/layout"
	"github.com/mhuels/posterforge/pkg/schedule"
	"github.com/mhuels/posterforge/pkg/stagger"
)

// Style holds the visual parameters that do not affect geometry.
type Style struct {
	BackgroundColor color.Color
	TitleColor      color.Color
	TextColor       color.Color
	BorderColor     color.Color

	FontFamily string
	TitleBold  bool

	TitleFontSize   float64 // points
	DateFontSize    float64 // points
	CaptionFontSize float64 // points

	ShadowAlpha    float64 // shadow opacity in [0, 1]
	ZoomFactor     float64 // cover center-crop factor, >1 crops in
	VerticalOffset float64 // cover shift as a fraction of its height
	LineArtAlpha   float64 // line art opacity in [0, 1]
}

// Options is the full input to one render pass.
type Options struct {
	Title   string
	Shape   geometry.Shape
	Frame   layout.FrameSize
	Stagger stagger.Policy
	Layout  layout.Params
	Style   Style

	// PixelsPerUnit maps figure units to pixels and doubles as the
	// output DPI.
	PixelsPerUnit float64

	// LineArt is an optional background image; nil disables the layer.
	LineArt image.Image
}

// ValidateAndSetDefaults rejects configurations that cannot produce a
// render and fills in usable defaults for unset style values. It runs
// before any layer work so a bad request never yields a partial image.
func (o *Options) ValidateAndSetDefaults() error {
	if o.PixelsPerUnit == 0 {
		o.PixelsPerUnit = 100
	}
	if o.Style.BackgroundColor == nil {
		o.Style.BackgroundColor = color.White
	}
	if o.Style.TitleColor == nil {
		o.Style.TitleColor = color.Black
	}
	if o.Style.TextColor == nil {
		o.Style.TextColor = color.Black
	}
	if o.Style.BorderColor == nil {
		o.Style.BorderColor = color.White
	}
	if o.Style.TitleFontSize == 0 {
		o.Style.TitleFontSize = 48
	}
	if o.Style.DateFontSize == 0 {
		o.Style.DateFontSize = 16
	}
	if o.Style.CaptionFontSize == 0 {
		o.Style.CaptionFontSize = 12
	}

	if err := errors.ValidateDimension("pixels per unit", o.PixelsPerUnit); err != nil {
		return err
	}
	if err := errors.ValidateFraction("shadow alpha", o.Style.ShadowAlpha); err != nil {
		return err
	}
	if err := errors.ValidateFraction("line art alpha", o.Style.LineArtAlpha); err != nil {
		return err
	}
	if o.Layout.Columns <= 0 {
		return errors.New(errors.ErrCodeInvalidLayout, "columns must be positive, got %d", o.Layout.Columns)
	}
	// A dry-run vertex computation validates the shape kind and the
	// frame dimensions in one step.
	if _, err := o.Shape.Vertices(0, 0, o.Frame.Width, o.Frame.Height); err != nil {
		return err
	}
	return nil
}

// Render produces the flattened opaque poster image.
func Render(ctx context.Context, entries []schedule.Entry, opts Options, loader ImageLoader) (*image.RGBA, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	layers, rc, err := RenderLayers(ctx, entries, opts, loader)
	if err != nil {
		return nil, err
	}
	return Flatten(rc, layers, opts.Style.BackgroundColor), nil
}

// RenderLayers produces the ordered layer stack without flattening it.
// Callers that export layered formats consume this directly.
//
// Per-entry layers are produced in parallel; the returned slice is always
// in canonical z-order regardless of completion order.
func RenderLayers(ctx context.Context, entries []schedule.Entry, opts Options, loader ImageLoader) ([]Layer, RenderContext, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, RenderContext{}, err
	}
	if loader == nil {
		loader = LoaderFunc(func(context.Context, int) (image.Image, bool) { return nil, false })
	}

	plan, err := layout.Compute(entries, opts.Frame, opts.Layout)
	if err != nil {
		return nil, RenderContext{}, err
	}
	rc := NewRenderContext(plan.CanvasWidth, plan.CanvasHeight, opts.PixelsPerUnit)

	layers := []Layer{backgroundLayer(rc, opts.Style.BackgroundColor)}

	if opts.LineArt != nil {
		layers = append(layers, lineartLayer(rc, opts.LineArt, opts.Style.LineArtAlpha))
	}

	layers = append(layers, textLayer(rc, "title", textSpec{
		Text:         opts.Title,
		X:            plan.CanvasWidth / 2,
		Y:            plan.CanvasHeight - opts.Layout.TitleRowHeight/2,
		SizePoints:   opts.Style.TitleFontSize,
		Family:       opts.Style.FontFamily,
		Bold:         opts.Style.TitleBold,
		Color:        opts.Style.TitleColor,
		OutlineColor: opts.Style.BackgroundColor,
		OutlineWidth: 3,
	}))

	entryLayers := make([][]Layer, len(entries))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, entry := range entries {
		i, entry := i, entry
		g.Go(func() error {
			produced, err := renderEntry(gctx, rc, plan, i, entry, opts, loader)
			if err != nil {
				return err
			}
			entryLayers[i] = produced
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, RenderContext{}, err
	}
	for _, produced := range entryLayers {
		layers = append(layers, produced...)
	}

	return layers, rc, nil
}

// renderEntry produces the layers for one schedule entry: its date and
// caption text, then shadow, border, and mask-clipped cover per volume.
func renderEntry(ctx context.Context, rc RenderContext, plan layout.Plan, index int,
	entry schedule.Entry, opts Options, loader ImageLoader) ([]Layer, error) {

	row := index / opts.Layout.Columns
	col := index % opts.Layout.Columns

	cellX := float64(col)*(plan.CellWidth+opts.Layout.ColumnSpacing) + plan.CellWidth/2
	startY := plan.CanvasHeight - opts.Layout.TitleRowHeight
	cellY := startY - float64(row)*(plan.CellHeight+opts.Layout.VerticalPadding) - plan.CellHeight/2

	layers := []Layer{
		textLayer(rc, "date_"+entry.Label, textSpec{
			Text:         entry.Label,
			X:            cellX,
			Y:            cellY + opts.Frame.Height/2 + 0.4,
			SizePoints:   opts.Style.DateFontSize,
			Family:       opts.Style.FontFamily,
			Bold:         true,
			Color:        opts.Style.TextColor,
			OutlineColor: opts.Style.BackgroundColor,
			OutlineWidth: 2,
		}),
		textLayer(rc, "caption_"+entry.Label, textSpec{
			Text:         schedule.FormatCaption(entry.Volumes),
			X:            cellX,
			Y:            cellY + opts.Frame.Height/2 + 0.15,
			SizePoints:   opts.Style.CaptionFontSize,
			Family:       opts.Style.FontFamily,
			Color:        opts.Style.TextColor,
			OutlineColor: opts.Style.BackgroundColor,
			OutlineWidth: 2,
		}),
	}

	group := layout.GroupFor(len(entry.Volumes), opts.Frame)
	for j, vol := range entry.Volumes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		centerX := group.CenterX(cellX, j)
		centerY := cellY + opts.Stagger.Offset(j, group.Count)

		poly, err := opts.Shape.Vertices(centerX, centerY, group.FrameWidth, group.FrameHeight)
		if err != nil {
			return nil, err
		}

		layers = append(layers,
			shadowLayer(rc, vol, poly, opts.Style.ShadowAlpha),
			borderLayer(rc, vol, poly, opts.Style.BorderColor),
		)

		// A missing cover is non-fatal: the frame renders empty.
		img, ok := loader.Load(ctx, vol)
		if !ok || img == nil {
			continue
		}
		cover := coverLayer(rc, vol, img, poly, centerX, centerY, opts.Style.ZoomFactor, opts.Style.VerticalOffset)
		mask := maskLayer(rc, poly)
		applyMask(cover.Image, mask.Image)
		layers = append(layers, cover)
	}

	return layers, nil
}

func backgroundLayer(rc RenderContext, bg color.Color) Layer {
	layer := NewLayer("background", rc)
	if bg == nil {
		bg = color.White
	}
	draw.Draw(layer.Image, layer.Image.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	return layer
}
