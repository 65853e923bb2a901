// Package editor exposes the layout operations a front end calls. Each
// operation builds a complete candidate state and commits it to the history
// store only when it succeeds; failures are reported through Result values.
package editor

import (
	"math"
	"math/rand"
	"time"

	"github.com/piwi3910/drawerfit/internal/engine"
	"github.com/piwi3910/drawerfit/internal/history"
	"github.com/piwi3910/drawerfit/internal/model"
)

// Editor owns the layout history and applies domain operations to it.
type Editor struct {
	catalog *model.Catalog
	limits  model.Limits
	store   *history.Store
	rng     *rand.Rand
}

// Option configures an Editor.
type Option func(*Editor)

// WithRand sets the random source used by the random layout mode.
func WithRand(rng *rand.Rand) Option {
	return func(e *Editor) {
		e.rng = rng
	}
}

// New creates an editor over initial. A nil catalog is a programming error.
func New(catalog *model.Catalog, limits model.Limits, initial model.LayoutState, opts ...Option) *Editor {
	if catalog == nil {
		panic("editor: nil catalog")
	}
	e := &Editor{
		catalog: catalog,
		limits:  limits,
		store:   history.New(initial, limits.HistoryDepth),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return e
}

// SetRand replaces the random source used by the random layout mode.
func (e *Editor) SetRand(rng *rand.Rand) {
	if rng != nil {
		e.rng = rng
	}
}

// State returns a copy of the present layout.
func (e *Editor) State() model.LayoutState {
	return e.store.Present()
}

// Catalog returns the bin catalog the editor resolves against.
func (e *Editor) Catalog() *model.Catalog {
	return e.catalog
}

// Add places a new bin at (x, y), moving it to the nearest free cell when
// the requested spot collides.
func (e *Editor) Add(binID string, x, y float64) Result {
	if !finite(x, y) {
		return blocked("", ReasonInvalidPosition)
	}
	spec, ok := e.catalog.Lookup(binID)
	if !ok {
		return blocked("", ReasonUnknownBin)
	}
	state := e.store.Present()
	size := spec.Size()
	if !engine.Fits(size, state.DrawerWidth, state.DrawerLength) {
		return blocked("", ReasonTooLarge)
	}

	px, py, kind, ok := e.locate(size, x, y, state, "")
	if !ok {
		return blocked("", ReasonNoSpace)
	}

	p := e.newPlacement(binID, px, py, state)
	state.Placements = append(state.Placements, p)
	e.store.Push(state)
	return Result{Kind: kind, PlacementID: p.ID, X: px, Y: py}
}

// AddAuto places a new bin in the free cell nearest the drawer origin.
func (e *Editor) AddAuto(binID string) Result {
	spec, ok := e.catalog.Lookup(binID)
	if !ok {
		return blocked("", ReasonUnknownBin)
	}
	state := e.store.Present()
	size := spec.Size()
	if !engine.Fits(size, state.DrawerWidth, state.DrawerLength) {
		return blocked("", ReasonTooLarge)
	}
	x, y, ok := engine.FindFirstFit(size, 0, 0, state.Placements, e.catalog, state.DrawerWidth, state.DrawerLength)
	if !ok {
		return blocked("", ReasonNoSpace)
	}

	p := e.newPlacement(binID, x, y, state)
	state.Placements = append(state.Placements, p)
	e.store.Push(state)
	return Result{Kind: Placed, PlacementID: p.ID, X: x, Y: y}
}

// Move relocates a placement to (x, y), or to the nearest free cell when
// that spot collides with another bin.
func (e *Editor) Move(id string, x, y float64) Result {
	if !finite(x, y) {
		return blocked(id, ReasonInvalidPosition)
	}
	state := e.store.Present()
	i, ok := state.Find(id)
	if !ok {
		return blocked(id, ReasonNotFound)
	}
	size, ok := e.catalog.EffectiveSize(state.Placements[i])
	if !ok {
		return blocked(id, ReasonUnresolvable)
	}
	if !engine.Fits(size, state.DrawerWidth, state.DrawerLength) {
		return blocked(id, ReasonTooLarge)
	}

	px, py, kind, ok := e.locate(size, x, y, state, id)
	if !ok {
		return blocked(id, ReasonNoSpace)
	}

	cur := state.Placements[i]
	if cur.X != px || cur.Y != py {
		state.Placements[i].X, state.Placements[i].Y = px, py
		e.store.Push(state)
	}
	return Result{Kind: kind, PlacementID: id, X: px, Y: py}
}

// locate clamps and snaps the requested origin, then falls back to the
// nearest free cell. ignoreID excludes the placement being moved.
func (e *Editor) locate(size model.Size, x, y float64, state model.LayoutState, ignoreID string) (float64, float64, Kind, bool) {
	cx, cy := engine.ClampPosition(x, y, size, state.DrawerWidth, state.DrawerLength)
	cx, cy = model.RoundQuarter(cx), model.RoundQuarter(cy)
	cx, cy = engine.ClampPosition(cx, cy, size, state.DrawerWidth, state.DrawerLength)

	if !engine.HasCollision(size, cx, cy, state.Placements, e.catalog, ignoreID) {
		return cx, cy, Placed, true
	}

	others := state.Placements
	if ignoreID != "" {
		others = make([]model.Placement, 0, len(state.Placements))
		for _, p := range state.Placements {
			if p.ID != ignoreID {
				others = append(others, p)
			}
		}
	}
	fx, fy, ok := engine.FindFirstFit(size, cx, cy, others, e.catalog, state.DrawerWidth, state.DrawerLength)
	if !ok {
		return 0, 0, Blocked, false
	}
	return fx, fy, Autofit, true
}

// newPlacement creates a placement whose ID is unique within state.
func (e *Editor) newPlacement(binID string, x, y float64, state model.LayoutState) model.Placement {
	for {
		p := model.NewPlacement(binID, x, y)
		if _, taken := state.Find(p.ID); !taken {
			return p
		}
	}
}

// Resize overrides a placement's footprint. The new size is rounded to the
// nearest quarter inch and is never shrunk to make it fit.
func (e *Editor) Resize(id string, width, length float64) Result {
	if !finite(width, length) {
		return blocked(id, ReasonInvalidPosition)
	}
	state := e.store.Present()
	i, ok := state.Find(id)
	if !ok {
		return blocked(id, ReasonNotFound)
	}
	p := state.Placements[i]
	spec, ok := e.catalog.Lookup(p.BinID)
	if !ok {
		return blocked(id, ReasonUnresolvable)
	}

	w, l := model.RoundQuarter(width), model.RoundQuarter(length)
	if !e.binDimOK(w) || !e.binDimOK(l) {
		return blocked(id, ReasonSizeRange)
	}
	r := model.Rect{X: p.X, Y: p.Y, Width: w, Length: l}
	if !engine.InBounds(r, state.DrawerWidth, state.DrawerLength) {
		return blocked(id, ReasonOutOfBounds)
	}
	if engine.HasCollision(model.Size{Width: w, Length: l}, p.X, p.Y, state.Placements, e.catalog, id) {
		return blocked(id, ReasonCollision)
	}

	next := p.Clone()
	next.Width, next.Length = nil, nil
	if w != spec.Width {
		next.Width = &w
	}
	if l != spec.Length {
		next.Length = &l
	}
	if sameSize(p, next) {
		return Result{Kind: Placed, PlacementID: id, X: p.X, Y: p.Y}
	}
	state.Placements[i] = next
	e.store.Push(state)
	return Result{Kind: Placed, PlacementID: id, X: p.X, Y: p.Y}
}

func (e *Editor) binDimOK(v float64) bool {
	return v >= e.limits.MinBinDim && v <= e.limits.MaxBinDim
}

// finite reports whether every value is a real number.
func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func sameSize(a, b model.Placement) bool {
	eq := func(x, y *float64) bool {
		if x == nil || y == nil {
			return x == nil && y == nil
		}
		return *x == *y
	}
	return eq(a.Width, b.Width) && eq(a.Length, b.Length)
}

// Recolor sets a placement's color. An empty color restores the default.
func (e *Editor) Recolor(id, color string) Result {
	if color != "" && !model.ValidColor(color) {
		return blocked(id, ReasonInvalidColor)
	}
	return e.update(id, func(p *model.Placement) {
		p.Color = color
	})
}

// Relabel sets a placement's label, truncated to the label limit.
func (e *Editor) Relabel(id, label string) Result {
	label = model.TruncateRunes(label, e.limits.MaxLabelLen)
	return e.update(id, func(p *model.Placement) {
		p.Label = label
	})
}

// update applies fn to one placement and pushes the result if it changed.
func (e *Editor) update(id string, fn func(p *model.Placement)) Result {
	state := e.store.Present()
	i, ok := state.Find(id)
	if !ok {
		return blocked(id, ReasonNotFound)
	}
	before := state.Placements[i]
	fn(&state.Placements[i])
	after := state.Placements[i]
	if before.Color != after.Color || before.Label != after.Label {
		e.store.Push(state)
	}
	return Result{Kind: Placed, PlacementID: id, X: after.X, Y: after.Y}
}

// Remove deletes a placement.
func (e *Editor) Remove(id string) Result {
	state := e.store.Present()
	i, ok := state.Find(id)
	if !ok {
		return blocked(id, ReasonNotFound)
	}
	state.Placements = append(state.Placements[:i], state.Placements[i+1:]...)
	e.store.Push(state)
	return Result{Kind: Placed, PlacementID: id}
}

// Clear removes every placement, keeping the drawer and title.
func (e *Editor) Clear() Result {
	state := e.store.Present()
	if len(state.Placements) == 0 {
		return blocked("", ReasonEmpty)
	}
	state.Placements = []model.Placement{}
	e.store.Push(state)
	return Result{Kind: Placed}
}

// SetTitle renames the layout.
func (e *Editor) SetTitle(title string) Result {
	state := e.store.Present()
	title = model.TruncateRunes(title, e.limits.MaxTitleLen)
	if state.LayoutTitle != title {
		state.LayoutTitle = title
		e.store.Push(state)
	}
	return Result{Kind: Placed}
}

// ResizeDrawer changes the drawer dimensions. It is blocked when the size is
// out of range or any bin would end up outside the drawer.
func (e *Editor) ResizeDrawer(width, length float64) Result {
	if !finite(width, length) {
		return blocked("", ReasonInvalidPosition)
	}
	w, l := model.RoundQuarter(width), model.RoundQuarter(length)
	if !(w >= e.limits.MinDrawerDim && w <= e.limits.MaxDrawerDim) ||
		!(l >= e.limits.MinDrawerDim && l <= e.limits.MaxDrawerDim) {
		return blocked("", ReasonDrawerRange)
	}
	state := e.store.Present()
	if out := engine.OutOfBounds(state.Placements, e.catalog, w, l); len(out) > 0 {
		return blocked(out[0], ReasonOutOfBounds)
	}
	if state.DrawerWidth != w || state.DrawerLength != l {
		state.DrawerWidth, state.DrawerLength = w, l
		e.store.Push(state)
	}
	return Result{Kind: Placed}
}

// Suggest re-packs every bin. Blocked runs and runs that move nothing leave
// the history untouched.
func (e *Editor) Suggest(mode engine.Mode) engine.PackResult {
	state := e.store.Present()
	if len(state.Placements) == 0 {
		return engine.PackResult{Status: engine.PackApplied, Placements: state.Placements}
	}
	res := engine.SuggestLayout(state.Placements, e.catalog, state.DrawerWidth, state.DrawerLength, mode, e.rng)
	if res.Status != engine.PackApplied || res.Moved == 0 {
		return res
	}
	state.Placements = res.Placements
	e.store.Push(state)
	return res
}

// Import replaces the present layout with a state that has already been
// through the normalizer. The previous layout stays undoable.
func (e *Editor) Import(state model.LayoutState) {
	e.store.Push(state)
}

// Undo steps back one state; it reports false when there is nothing to undo.
func (e *Editor) Undo() bool { return e.store.Undo() }

// Redo steps forward one state; it reports false when there is nothing to redo.
func (e *Editor) Redo() bool { return e.store.Redo() }

// CanUndo reports whether Undo would change the state.
func (e *Editor) CanUndo() bool { return e.store.CanUndo() }

// CanRedo reports whether Redo would change the state.
func (e *Editor) CanRedo() bool { return e.store.CanRedo() }

// Flags lists invariant violations present in a layout. They are tolerated
// in the editor and shown to the user.
type Flags struct {
	Overlaps    []engine.Conflict
	OutOfBounds []string
	Unresolved  []string
}

// Empty reports whether the layout has no violations.
func (f Flags) Empty() bool {
	return len(f.Overlaps) == 0 && len(f.OutOfBounds) == 0 && len(f.Unresolved) == 0
}

// Conflicts inspects the present layout for overlaps, out-of-drawer bins and
// placements whose bin is missing from the catalog.
func (e *Editor) Conflicts() Flags {
	state := e.store.Present()
	f := Flags{
		Overlaps:    engine.Overlapping(state.Placements, e.catalog),
		OutOfBounds: engine.OutOfBounds(state.Placements, e.catalog, state.DrawerWidth, state.DrawerLength),
	}
	for _, p := range state.Placements {
		if _, ok := e.catalog.Lookup(p.BinID); !ok {
			f.Unresolved = append(f.Unresolved, p.ID)
		}
	}
	return f
}
