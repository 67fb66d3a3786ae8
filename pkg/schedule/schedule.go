// Package schedule defines the release schedule data model.
//
// A schedule is an ordered list of entries. Each entry pairs a display
// label (typically a date) with the volumes released on that date. Entry
// order is grid reading order and is never reordered by downstream layout.
package schedule

import (
	"fmt"
	"sort"
	"strings"
)

// Entry is one scheduled slot: a label plus the ordered volumes it contains.
// An entry with no volumes still occupies a grid cell but renders no frames.
type Entry struct {
	Label   string
	Volumes []int
}

// Volumes returns the unique volume numbers across all entries, sorted
// ascending. Used to decide which covers need fetching.
func Volumes(entries []Entry) []int {
	seen := make(map[int]struct{})
	for _, e := range entries {
		for _, v := range e.Volumes {
			seen[v] = struct{}{}
		}
	}
	vols := make([]int, 0, len(seen))
	for v := range seen {
		vols = append(vols, v)
	}
	sort.Ints(vols)
	return vols
}

// FormatCaption formats volume numbers into the caption drawn under each
// entry's date label.
//
// The punctuation contract is exact:
//
//	[5]          -> "Volume 5"
//	[5, 8]       -> "Volumes 5 & 8"
//	[5, 8, 10]   -> "Volumes 5, 8 & 10"
func FormatCaption(vols []int) string {
	switch len(vols) {
	case 0:
		return ""
	case 1:
		return fmt.Sprintf("Volume %d", vols[0])
	case 2:
		return fmt.Sprintf("Volumes %d & %d", vols[0], vols[1])
	default:
		head := make([]string, len(vols)-1)
		for i, v := range vols[:len(vols)-1] {
			head[i] = fmt.Sprintf("%d", v)
		}
		return fmt.Sprintf("Volumes %s & %d", strings.Join(head, ", "), vols[len(vols)-1])
	}
}
