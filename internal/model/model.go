package model

import (
	"math"

	"github.com/google/uuid"
)

// Size is a width x length pair in inches.
type Size struct {
	Width  float64 `json:"width"`
	Length float64 `json:"length"`
}

// Area returns width * length.
func (s Size) Area() float64 {
	return s.Width * s.Length
}

// Rect is an axis-aligned rectangle measured from the drawer's top-left corner.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Length float64
}

// Overlaps reports whether two rectangles share interior area.
// Rectangles that only touch along an edge do not overlap.
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.X+o.Width && r.X+r.Width > o.X &&
		r.Y < o.Y+o.Length && r.Y+r.Length > o.Y
}

// Placement is one bin instance positioned inside the drawer.
type Placement struct {
	ID     string   `json:"id"`
	BinID  string   `json:"binId"`
	X      float64  `json:"x"`                // Inches from the drawer's left edge
	Y      float64  `json:"y"`                // Inches from the drawer's top edge
	Width  *float64 `json:"width,omitempty"`  // Override; nil inherits the catalog width
	Length *float64 `json:"length,omitempty"` // Override; nil inherits the catalog length
	Color  string   `json:"color,omitempty"`  // "#rgb" or "#rrggbb"
	Label  string   `json:"label,omitempty"`
}

// NewPlacement creates a placement with a generated ID.
func NewPlacement(binID string, x, y float64) Placement {
	return Placement{
		ID:    uuid.New().String()[:8],
		BinID: binID,
		X:     x,
		Y:     y,
	}
}

// Clone returns a copy that shares no pointers with p.
func (p Placement) Clone() Placement {
	cp := p
	if p.Width != nil {
		w := *p.Width
		cp.Width = &w
	}
	if p.Length != nil {
		l := *p.Length
		cp.Length = &l
	}
	return cp
}

// LayoutState is a full snapshot of one drawer arrangement.
type LayoutState struct {
	LayoutTitle  string      `json:"layoutTitle"`
	DrawerWidth  float64     `json:"drawerWidth"`
	DrawerLength float64     `json:"drawerLength"`
	Placements   []Placement `json:"placements"`
}

// NewLayoutState returns an empty layout for a drawer of the given size.
func NewLayoutState(drawerWidth, drawerLength float64) LayoutState {
	return LayoutState{
		DrawerWidth:  drawerWidth,
		DrawerLength: drawerLength,
		Placements:   []Placement{},
	}
}

// Clone returns a deep copy of the layout.
func (s LayoutState) Clone() LayoutState {
	cp := s
	cp.Placements = ClonePlacements(s.Placements)
	if cp.Placements == nil {
		cp.Placements = []Placement{}
	}
	return cp
}

// Find returns the index of the placement with the given ID.
func (s LayoutState) Find(id string) (int, bool) {
	for i, p := range s.Placements {
		if p.ID == id {
			return i, true
		}
	}
	return -1, false
}

// ClonePlacements returns a deep copy of a placements slice.
func ClonePlacements(placements []Placement) []Placement {
	if placements == nil {
		return nil
	}
	cp := make([]Placement, len(placements))
	for i, p := range placements {
		cp[i] = p.Clone()
	}
	return cp
}

// RoundQuarter rounds v to the nearest quarter inch.
func RoundQuarter(v float64) float64 {
	return math.Round(v*4) / 4
}
