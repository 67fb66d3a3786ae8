// Package stagger computes per-frame vertical offsets within a multi-frame
// schedule entry.
//
// A Policy is a pure function of (index, groupSize): the same inputs always
// produce the same offset, and offsets are centered so a group has no net
// vertical drift. Positive offsets move a frame down, negative up, in
// figure units.
package stagger

import "github.com/mhuels/posterforge/pkg/errors"

// Kind identifies a stagger pattern.
type Kind string

// Supported stagger patterns.
const (
	// None applies no vertical offset.
	None Kind = "none"
	// Alternating zig-zags frames: even indices up, odd indices down,
	// centered so realized offsets sum to zero across the group.
	Alternating Kind = "alternating"
	// Staircase slides frames along a linear ramp centered on the group.
	Staircase Kind = "staircase"
)

// ParseKind converts a configuration string into a Kind.
// Unrecognized kinds are rejected with an INVALID_STAGGER error.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case None, Alternating, Staircase:
		return Kind(s), nil
	}
	return "", errors.New(errors.ErrCodeInvalidStagger,
		"unknown stagger kind: %q (must be one of: none, alternating, staircase)", s)
}

// Policy is an immutable stagger configuration.
// Step is the vertical distance per stagger step in figure units.
type Policy struct {
	Kind Kind
	Step float64
}

// Offset returns the vertical offset for the frame at index within a group
// of total frames. A non-positive total is treated as "no offset".
func (p Policy) Offset(index, total int) float64 {
	if total <= 0 {
		return 0
	}

	switch p.Kind {
	case Alternating:
		base := p.Step
		if index%2 == 0 {
			base = -p.Step
		}
		// Center the pattern: for odd group sizes one extra member shifts
		// up, so the raw mean is -step/total; subtract it out.
		mean := 0.0
		if total%2 != 0 {
			mean = -p.Step / float64(total)
		}
		return base - mean

	case Staircase:
		center := float64(total-1) / 2
		return (float64(index) - center) * p.Step
	}

	return 0
}
