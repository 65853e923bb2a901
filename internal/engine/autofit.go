package engine

import (
	"math"
	"sort"

	"github.com/piwi3910/drawerfit/internal/model"
)

// point is a candidate origin together with its squared distance to the start.
type point struct {
	x, y float64
	dist float64
}

// FindFirstFit returns the grid cell nearest to (startX, startY) where a bin
// of the given size fits without colliding, or ok=false when none exists.
//
// The grid step is half an inch when any placement or the start point is off
// the whole-inch grid, otherwise one inch. This is a heuristic: a fractional
// gap that only the new bin could use is missed when everything else is
// integer-aligned.
func FindFirstFit(size model.Size, startX, startY float64, placements []model.Placement, catalog *model.Catalog, drawerWidth, drawerLength float64) (x, y float64, ok bool) {
	if size.Width <= 0 || size.Length <= 0 || !Fits(size, drawerWidth, drawerLength) {
		return 0, 0, false
	}

	step := gridStep(startX, startY, placements, catalog)
	maxX := drawerWidth - size.Width
	maxY := drawerLength - size.Length

	// Sweep order (y outer, x inner) is the tie-break; the sort below is stable.
	var candidates []point
	for cy := 0.0; cy <= maxY; cy += step {
		for cx := 0.0; cx <= maxX; cx += step {
			dx, dy := cx-startX, cy-startY
			candidates = append(candidates, point{x: cx, y: cy, dist: dx*dx + dy*dy})
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].dist < candidates[j].dist
	})

	for _, c := range candidates {
		if !HasCollision(size, c.x, c.y, placements, catalog, "") {
			return c.x, c.y, true
		}
	}
	return 0, 0, false
}

// gridStep picks the search granularity.
func gridStep(startX, startY float64, placements []model.Placement, catalog *model.Catalog) float64 {
	if !isWhole(startX) || !isWhole(startY) {
		return 0.5
	}
	for _, p := range placements {
		if _, ok := catalog.EffectiveSize(p); !ok {
			continue
		}
		if !isWhole(p.X) || !isWhole(p.Y) {
			return 0.5
		}
	}
	return 1
}

func isWhole(v float64) bool {
	return v == math.Trunc(v)
}
