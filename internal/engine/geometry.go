// Package engine holds the placement geometry: clamping, collision tests,
// the nearest-free-cell search and the shelf packer.
package engine

import (
	"math"

	"github.com/piwi3910/drawerfit/internal/model"
)

// ClampPosition clamps (x, y) so a bin of the given size stays inside the
// drawer. When the bin is larger than the drawer the range is inverted and
// the result is meaningless; check Fits first.
func ClampPosition(x, y float64, size model.Size, drawerWidth, drawerLength float64) (float64, float64) {
	return clamp(x, 0, drawerWidth-size.Width), clamp(y, 0, drawerLength-size.Length)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}

// Fits reports whether a bin of the given size can lie inside the drawer.
func Fits(size model.Size, drawerWidth, drawerLength float64) bool {
	return size.Width <= drawerWidth && size.Length <= drawerLength
}

// InBounds reports whether r lies fully inside [0, W] x [0, L].
func InBounds(r model.Rect, drawerWidth, drawerLength float64) bool {
	return r.X >= 0 && r.Y >= 0 &&
		r.X+r.Width <= drawerWidth && r.Y+r.Length <= drawerLength
}

// HasCollision reports whether the rectangle (x, y, size) overlaps the
// effective rectangle of any placement other than ignoreID. Placements whose
// bin cannot be resolved are skipped.
func HasCollision(size model.Size, x, y float64, placements []model.Placement, catalog *model.Catalog, ignoreID string) bool {
	candidate := model.Rect{X: x, Y: y, Width: size.Width, Length: size.Length}
	for _, p := range placements {
		if ignoreID != "" && p.ID == ignoreID {
			continue
		}
		r, ok := catalog.EffectiveRect(p)
		if !ok {
			continue
		}
		if candidate.Overlaps(r) {
			return true
		}
	}
	return false
}

// Conflict names two placements whose rectangles overlap.
type Conflict struct {
	A, B string
}

// Overlapping returns every overlapping pair in list order. It is used to
// flag layouts that violate the no-overlap invariant without rejecting them.
func Overlapping(placements []model.Placement, catalog *model.Catalog) []Conflict {
	var out []Conflict
	for i := 0; i < len(placements); i++ {
		ri, ok := catalog.EffectiveRect(placements[i])
		if !ok {
			continue
		}
		for j := i + 1; j < len(placements); j++ {
			rj, ok := catalog.EffectiveRect(placements[j])
			if !ok {
				continue
			}
			if ri.Overlaps(rj) {
				out = append(out, Conflict{A: placements[i].ID, B: placements[j].ID})
			}
		}
	}
	return out
}

// OutOfBounds returns the IDs of resolvable placements that stick out of the drawer.
func OutOfBounds(placements []model.Placement, catalog *model.Catalog, drawerWidth, drawerLength float64) []string {
	var out []string
	for _, p := range placements {
		r, ok := catalog.EffectiveRect(p)
		if !ok {
			continue
		}
		if !InBounds(r, drawerWidth, drawerLength) {
			out = append(out, p.ID)
		}
	}
	return out
}
