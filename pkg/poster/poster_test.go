package poster

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/draw"
	"strings"
	"testing"

	"github.com/mhuels/posterforge/pkg/errors"
	"github.com/mhuels/posterforge/pkg/geometry"
	"github.com/mhuels/posterforge/pkg/layout"
	"github.com/mhuels/posterforge/pkg/schedule"
	"github.com/mhuels/posterforge/pkg/stagger"
)

func testOptions() Options {
	return Options{
		Title: "Release Schedule",
		Shape: geometry.Shape{Kind: geometry.Parallelogram, SkewDeg: 15},
		Frame: layout.FrameSize{Width: 2.8, Height: 3.5, Spacing: 0.5},
		Stagger: stagger.Policy{
			Kind: stagger.Alternating,
			Step: 0.3,
		},
		Layout: layout.Params{
			Columns:           2,
			TitleRowHeight:    3,
			VerticalPadding:   1,
			BottomMargin:      1,
			HorizontalPadding: 0.5,
			ColumnSpacing:     0.2,
		},
		Style: Style{
			ShadowAlpha:    0.4,
			ZoomFactor:     1.2,
			VerticalOffset: 0.05,
			LineArtAlpha:   0.15,
		},
		PixelsPerUnit: 20,
	}
}

func solidImage(w, h int, c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

func solidLoader(c color.Color) ImageLoader {
	return LoaderFunc(func(ctx context.Context, volume int) (image.Image, bool) {
		return solidImage(120, 180, c), true
	})
}

func emptyLoader() ImageLoader {
	return LoaderFunc(func(ctx context.Context, volume int) (image.Image, bool) {
		return nil, false
	})
}

func TestRenderLayersOrder(t *testing.T) {
	entries := []schedule.Entry{
		{Label: "June 3", Volumes: []int{1, 2}},
		{Label: "July 1", Volumes: []int{3}},
	}

	layers, _, err := RenderLayers(context.Background(), entries, testOptions(), solidLoader(color.RGBA{200, 40, 40, 255}))
	if err != nil {
		t.Fatalf("RenderLayers() error = %v", err)
	}

	var names []string
	for _, l := range layers {
		names = append(names, l.Name)
	}

	want := []string{
		"background",
		"title",
		"date_June 3", "caption_June 3",
		"shadow_vol1", "border_vol1", "cover_vol1",
		"shadow_vol2", "border_vol2", "cover_vol2",
		"date_July 1", "caption_July 1",
		"shadow_vol3", "border_vol3", "cover_vol3",
	}
	if len(names) != len(want) {
		t.Fatalf("layer names = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("layer %d = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestRenderLayersMissingCoversNonFatal(t *testing.T) {
	entries := []schedule.Entry{{Label: "June 3", Volumes: []int{1, 2}}}

	layers, _, err := RenderLayers(context.Background(), entries, testOptions(), emptyLoader())
	if err != nil {
		t.Fatalf("RenderLayers() error = %v", err)
	}

	for _, l := range layers {
		if strings.HasPrefix(l.Name, "cover_") {
			t.Errorf("unexpected cover layer %q for missing art", l.Name)
		}
	}
}

func TestRenderLayersNilLoader(t *testing.T) {
	entries := []schedule.Entry{{Label: "June 3", Volumes: []int{1}}}
	if _, _, err := RenderLayers(context.Background(), entries, testOptions(), nil); err != nil {
		t.Fatalf("RenderLayers() with nil loader error = %v", err)
	}
}

func TestRenderLayersIncludesLineArt(t *testing.T) {
	opts := testOptions()
	opts.LineArt = solidImage(40, 60, color.Black)

	layers, _, err := RenderLayers(context.Background(), nil, opts, emptyLoader())
	if err != nil {
		t.Fatalf("RenderLayers() error = %v", err)
	}
	if len(layers) < 2 || layers[1].Name != "background_lineart" {
		t.Errorf("second layer = %v, want background_lineart", layers[1].Name)
	}
}

func TestRenderRejectsInvalidConfig(t *testing.T) {
	entries := []schedule.Entry{{Label: "June 3", Volumes: []int{1}}}

	opts := testOptions()
	opts.Layout.Columns = 0
	_, err := Render(context.Background(), entries, opts, emptyLoader())
	if !errors.Is(err, errors.ErrCodeInvalidLayout) {
		t.Errorf("zero columns error = %v, want INVALID_LAYOUT", err)
	}

	opts = testOptions()
	opts.Frame.Width = -1
	if _, err := Render(context.Background(), entries, opts, emptyLoader()); err == nil {
		t.Error("negative frame width accepted, want error")
	}

	opts = testOptions()
	opts.Shape.Kind = geometry.ShapeKind("triangle")
	if _, err := Render(context.Background(), entries, opts, emptyLoader()); !errors.Is(err, errors.ErrCodeInvalidShape) {
		t.Errorf("unknown shape error = %v, want INVALID_SHAPE", err)
	}
}

func TestRenderOpaqueOutput(t *testing.T) {
	entries := []schedule.Entry{{Label: "June 3", Volumes: []int{1}}}

	img, err := Render(context.Background(), entries, testOptions(), solidLoader(color.RGBA{10, 120, 30, 255}))
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		t.Fatalf("empty output bounds %v", b)
	}
	for _, p := range []image.Point{
		{b.Min.X, b.Min.Y},
		{b.Max.X - 1, b.Max.Y - 1},
		{b.Dx() / 2, b.Dy() / 2},
	} {
		if a := img.RGBAAt(p.X, p.Y).A; a != 0xff {
			t.Errorf("alpha at %v = %d, want 255", p, a)
		}
	}
}

func TestRenderDeterministic(t *testing.T) {
	entries := []schedule.Entry{
		{Label: "June 3", Volumes: []int{1, 2, 3}},
		{Label: "July 1", Volumes: []int{4}},
	}
	loader := solidLoader(color.RGBA{60, 60, 200, 255})

	first, err := Render(context.Background(), entries, testOptions(), loader)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	second, err := Render(context.Background(), entries, testOptions(), loader)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !bytes.Equal(first.Pix, second.Pix) {
		t.Error("identical inputs produced different pixels")
	}
}

func TestRenderEmptySchedule(t *testing.T) {
	img, err := Render(context.Background(), nil, testOptions(), emptyLoader())
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if img.Bounds().Dx() <= 0 || img.Bounds().Dy() <= 0 {
		t.Errorf("empty schedule produced empty canvas %v", img.Bounds())
	}
}

func TestRenderCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	entries := []schedule.Entry{{Label: "June 3", Volumes: []int{1}}}
	if _, err := Render(ctx, entries, testOptions(), emptyLoader()); err == nil {
		t.Error("cancelled context accepted, want error")
	}
}

func TestApplyMask(t *testing.T) {
	cover := image.NewRGBA(image.Rect(0, 0, 2, 1))
	cover.SetRGBA(0, 0, color.RGBA{100, 50, 25, 200})
	cover.SetRGBA(1, 0, color.RGBA{100, 50, 25, 200})

	mask := image.NewRGBA(image.Rect(0, 0, 2, 1))
	mask.SetRGBA(0, 0, color.RGBA{255, 255, 255, 255})
	// (1,0) stays transparent.

	applyMask(cover, mask)

	if got := cover.RGBAAt(0, 0); got.A != 200 {
		t.Errorf("inside-mask alpha = %d, want 200", got.A)
	}
	if got := cover.RGBAAt(1, 0); got != (color.RGBA{}) {
		t.Errorf("outside-mask pixel = %v, want fully transparent", got)
	}
}

func TestApplyMaskPartial(t *testing.T) {
	cover := image.NewRGBA(image.Rect(0, 0, 1, 1))
	cover.SetRGBA(0, 0, color.RGBA{200, 100, 50, 200})

	mask := image.NewRGBA(image.Rect(0, 0, 1, 1))
	mask.SetRGBA(0, 0, color.RGBA{127, 127, 127, 127})

	applyMask(cover, mask)

	got := cover.RGBAAt(0, 0)
	if got.A != 200*127/255 {
		t.Errorf("partial-mask alpha = %d, want %d", got.A, 200*127/255)
	}
	if got.R != 200*127/255 {
		t.Errorf("partial-mask red = %d, want %d", got.R, 200*127/255)
	}
}

func TestCenterCropZoom(t *testing.T) {
	img := solidImage(100, 80, color.White)

	cropped := centerCropZoom(img, 2)
	if b := cropped.Bounds(); b.Dx() != 50 || b.Dy() != 40 {
		t.Errorf("zoom 2 bounds = %v, want 50x40", b)
	}

	same := centerCropZoom(img, 1)
	if same != img {
		t.Error("zoom 1 should leave the image untouched")
	}
	same = centerCropZoom(img, 0.5)
	if same != img {
		t.Error("zoom below 1 should leave the image untouched")
	}
}

func TestRenderContextToPixel(t *testing.T) {
	rc := NewRenderContext(10, 8, 100)

	if rc.Width != 1000 || rc.Height != 800 {
		t.Fatalf("canvas = %dx%d, want 1000x800", rc.Width, rc.Height)
	}

	x, y := rc.ToPixel(0, 0)
	if x != 0 || y != 800 {
		t.Errorf("ToPixel(0,0) = (%v,%v), want (0,800)", x, y)
	}
	x, y = rc.ToPixel(5, 8)
	if x != 500 || y != 0 {
		t.Errorf("ToPixel(5,8) = (%v,%v), want (500,0)", x, y)
	}
}

func TestPointsToPixels(t *testing.T) {
	rc := NewRenderContext(10, 8, 144)
	if got := rc.PointsToPixels(36); got != 72 {
		t.Errorf("PointsToPixels(36) = %v, want 72", got)
	}
	// Tiny scalars still produce a drawable stroke.
	rc = NewRenderContext(10, 8, 1)
	if got := rc.PointsToPixels(4); got != 1 {
		t.Errorf("PointsToPixels(4) = %v, want clamp to 1", got)
	}
}
