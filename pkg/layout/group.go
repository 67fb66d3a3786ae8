package layout

// Group holds the scaled frame geometry shared by every frame in one
// schedule entry. Scaling is applied once per entry: frames beyond two are
// shrunk so the whole group fits the reference width, and the leftover
// horizontal budget is spread evenly across the gaps.
type Group struct {
	Count       int     // number of frames in the entry
	Scale       float64 // applied scale factor, capped at 1
	FrameWidth  float64 // scaled frame width
	FrameHeight float64 // scaled frame height
	Spacing     float64 // scaled gap between adjacent frames
}

// GroupFor computes the scaled geometry for an entry with n frames.
func GroupFor(n int, f FrameSize) Group {
	scale := ScaleFactor(n, f)
	g := Group{
		Count:       n,
		Scale:       scale,
		FrameWidth:  f.Width * scale,
		FrameHeight: f.Height * scale,
	}
	if n > 1 {
		// Whatever the scaled frames leave of the reference width becomes
		// gap budget, divided evenly. For n = 2 the scale is 1 and this
		// recovers exactly the configured spacing.
		available := f.ReferenceWidth() - float64(n)*g.FrameWidth
		g.Spacing = available / float64(n-1)
	}
	return g
}

// TotalWidth returns the full footprint of the group.
func (g Group) TotalWidth() float64 {
	if g.Count <= 0 {
		return 0
	}
	return float64(g.Count)*g.FrameWidth + float64(g.Count-1)*g.Spacing
}

// CenterX returns the horizontal center of the frame at index, with the
// group centered on cellCenterX.
func (g Group) CenterX(cellCenterX float64, index int) float64 {
	left := cellCenterX - g.TotalWidth()/2
	return left + float64(index)*(g.FrameWidth+g.Spacing) + g.FrameWidth/2
}
