// Package layout computes poster grid dimensions from a schedule.
//
// All values are in figure units; the renderer maps them to pixels via a
// single pixels-per-unit scalar. Planning is pure arithmetic: the same
// inputs always produce bit-identical output.
package layout

import (
	"math"

	"github.com/mhuels/posterforge/pkg/errors"
	"github.com/mhuels/posterforge/pkg/schedule"
)

// rowUnit is the fixed per-row height allowance in figure units. Row
// height is derived from this allowance, not from content height.
const rowUnit = 5.0

// FrameSize holds the base frame dimensions shared by every entry.
type FrameSize struct {
	Width   float64 // frame width
	Height  float64 // frame height
	Spacing float64 // horizontal gap between frames in an entry
}

// ReferenceWidth returns the footprint width of a 2-frame entry. Entries
// with three or more frames are scaled down to fit this footprint.
func (f FrameSize) ReferenceWidth() float64 {
	return 2*f.Width + f.Spacing
}

// Params holds the grid parameters, all in figure units.
type Params struct {
	Columns           int     // grid column count
	TitleRowHeight    float64 // height reserved for the title row
	VerticalPadding   float64 // padding between content rows
	BottomMargin      float64 // bottom margin
	HorizontalPadding float64 // padding on each side of a cell
	ColumnSpacing     float64 // spacing between columns
}

// Plan is the computed grid geometry for one render pass.
type Plan struct {
	CanvasWidth  float64
	CanvasHeight float64
	CellWidth    float64
	CellHeight   float64
	Rows         int
}

// ScaleFactor returns the factor applied to frame dimensions so n frames
// fit the reference width. It is capped at 1: one- and two-frame entries
// render at full size, never larger.
func ScaleFactor(n int, f FrameSize) float64 {
	if n <= 0 {
		return 1
	}
	unscaled := float64(n)*f.Width + float64(n-1)*f.Spacing
	if unscaled <= 0 {
		return 1
	}
	return math.Min(1, f.ReferenceWidth()/unscaled)
}

// MaxItemWidth returns the widest footprint any entry occupies. Entries
// with one or two frames use their natural width; entries with three or
// more are clamped to the reference width because their frames get scaled
// down to that footprint.
func MaxItemWidth(entries []schedule.Entry, f FrameSize) float64 {
	ref := f.ReferenceWidth()
	maxW := 0.0
	for _, e := range entries {
		n := len(e.Volumes)
		if n == 0 {
			continue
		}
		w := ref
		if n <= 2 {
			w = float64(n)*f.Width + float64(n-1)*f.Spacing
		}
		maxW = math.Max(maxW, w)
	}
	return maxW
}

// Compute derives the canvas and cell dimensions for the schedule.
//
// An empty schedule yields a minimal title-row-only canvas with zero rows;
// the cell height division is guarded so no degenerate schedule can fault.
func Compute(entries []schedule.Entry, f FrameSize, p Params) (Plan, error) {
	if p.Columns <= 0 {
		return Plan{}, errors.New(errors.ErrCodeInvalidLayout, "columns must be positive, got %d", p.Columns)
	}
	if err := errors.ValidateDimension("frame width", f.Width); err != nil {
		return Plan{}, err
	}
	if err := errors.ValidateDimension("frame height", f.Height); err != nil {
		return Plan{}, err
	}
	if err := errors.ValidateNonNegative("frame spacing", f.Spacing); err != nil {
		return Plan{}, err
	}

	rows := (len(entries) + p.Columns - 1) / p.Columns

	// Horizontal padding may be negative (cells overlapping their frame
	// footprint), so an empty schedule could otherwise yield a degenerate
	// canvas. Clamp to a single reference-width cell in that case.
	cellWidth := MaxItemWidth(entries, f) + 2*p.HorizontalPadding
	if len(entries) == 0 {
		cellWidth = math.Max(cellWidth, f.ReferenceWidth())
	}
	canvasWidth := float64(p.Columns)*cellWidth + float64(p.Columns-1)*p.ColumnSpacing
	canvasHeight := p.TitleRowHeight + float64(rows)*rowUnit

	plan := Plan{
		CanvasWidth:  canvasWidth,
		CanvasHeight: canvasHeight,
		CellWidth:    cellWidth,
		Rows:         rows,
	}

	if rows > 0 {
		contentHeight := canvasHeight - p.TitleRowHeight - p.BottomMargin
		plan.CellHeight = (contentHeight - float64(rows-1)*p.VerticalPadding) / float64(rows)
	}

	return plan, nil
}
