package engine

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/piwi3910/drawerfit/internal/model"
)

// Mode selects the ordering the shelf packer places bins in.
type Mode string

const (
	ModePack   Mode = "pack"   // Largest area first
	ModeRandom Mode = "random" // Uniform random permutation
)

// ParseMode converts a user-supplied name into a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModePack, ModeRandom:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("unknown layout mode %q (want %q or %q)", s, ModePack, ModeRandom)
	}
}

// PackStatus is the whole-operation outcome of SuggestLayout.
type PackStatus string

const (
	PackApplied PackStatus = "applied"
	PackBlocked PackStatus = "blocked"
)

// PackResult holds the outcome of a packing run. Placements is nil when the
// run was blocked; Moved is then informational only.
type PackResult struct {
	Status     PackStatus
	Moved      int
	Placements []model.Placement
}

// item is one resolvable placement queued for the shelf.
type item struct {
	index int // Index into the caller's placements slice
	size  model.Size
}

// SuggestLayout recomputes non-overlapping positions for every resolvable
// placement. The returned list keeps the input order; unresolvable placements
// are carried through unchanged. rng is only used by ModeRandom; nil means a
// time-seeded source.
func SuggestLayout(placements []model.Placement, catalog *model.Catalog, drawerWidth, drawerLength float64, mode Mode, rng *rand.Rand) PackResult {
	if len(placements) == 0 {
		return PackResult{Status: PackApplied, Placements: []model.Placement{}}
	}

	var items []item
	for i, p := range placements {
		size, ok := catalog.EffectiveSize(p)
		if !ok {
			continue
		}
		items = append(items, item{index: i, size: size})
	}

	switch mode {
	case ModeRandom:
		if rng == nil {
			rng = rand.New(rand.NewSource(time.Now().UnixNano()))
		}
		perm := rng.Perm(len(items))
		shuffled := make([]item, len(items))
		for i, j := range perm {
			shuffled[i] = items[j]
		}
		items = shuffled
	default:
		// Largest area first; ties keep list order
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].size.Area() > items[j].size.Area()
		})
	}

	return shelfPack(placements, items, drawerWidth, drawerLength)
}

// shelfPack fills rows left to right, wrapping to a new row under the
// tallest bin of the previous one.
func shelfPack(placements []model.Placement, items []item, drawerWidth, drawerLength float64) PackResult {
	out := model.ClonePlacements(placements)
	var cursorX, cursorY, rowHeight float64
	moved := 0

	for _, it := range items {
		w, l := it.size.Width, it.size.Length
		if w > drawerWidth {
			return PackResult{Status: PackBlocked, Moved: moved}
		}
		if cursorX+w > drawerWidth {
			cursorX = 0
			cursorY += rowHeight
			rowHeight = 0
		}
		if cursorY+l > drawerLength {
			return PackResult{Status: PackBlocked, Moved: moved}
		}

		p := &out[it.index]
		if p.X != cursorX || p.Y != cursorY {
			moved++
		}
		p.X, p.Y = cursorX, cursorY

		cursorX += w
		if l > rowHeight {
			rowHeight = l
		}
	}

	return PackResult{Status: PackApplied, Moved: moved, Placements: out}
}
