package model

import (
	"errors"
	"fmt"
	"math"
)

// BinSpec is a catalog entry describing one bin type.
type BinSpec struct {
	ID     string  `json:"id" toml:"id"`
	Name   string  `json:"name" toml:"name"`
	Width  float64 `json:"width" toml:"width"`   // inches
	Length float64 `json:"length" toml:"length"` // inches
	Height float64 `json:"height" toml:"height"` // inches, cosmetic only
}

// Size returns the nominal footprint of the bin.
func (b BinSpec) Size() Size {
	return Size{Width: b.Width, Length: b.Length}
}

// ErrEmptyCatalog is returned when a catalog is built from no entries.
var ErrEmptyCatalog = errors.New("catalog has no bins")

// Catalog is an immutable, ordered index of bin specs keyed by ID.
type Catalog struct {
	specs []BinSpec
	byID  map[string]int
}

// NewCatalog validates specs and builds an index over them.
func NewCatalog(specs []BinSpec) (*Catalog, error) {
	if len(specs) == 0 {
		return nil, ErrEmptyCatalog
	}
	c := &Catalog{
		specs: make([]BinSpec, len(specs)),
		byID:  make(map[string]int, len(specs)),
	}
	copy(c.specs, specs)
	for i, s := range c.specs {
		if s.ID == "" {
			return nil, fmt.Errorf("bin %d: missing id", i+1)
		}
		if !positive(s.Width) || !positive(s.Length) {
			return nil, fmt.Errorf("bin %q: width and length must be > 0", s.ID)
		}
		if _, dup := c.byID[s.ID]; dup {
			return nil, fmt.Errorf("bin %q: duplicate id", s.ID)
		}
		c.byID[s.ID] = i
	}
	return c, nil
}

// positive reports whether v is a finite number above zero.
func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

// MustCatalog is like NewCatalog but panics on invalid input.
// It is intended for built-in tables and tests.
func MustCatalog(specs []BinSpec) *Catalog {
	c, err := NewCatalog(specs)
	if err != nil {
		panic(err)
	}
	return c
}

// Lookup returns the spec with the given ID.
func (c *Catalog) Lookup(id string) (BinSpec, bool) {
	i, ok := c.byID[id]
	if !ok {
		return BinSpec{}, false
	}
	return c.specs[i], true
}

// Specs returns the catalog entries in their original order.
func (c *Catalog) Specs() []BinSpec {
	out := make([]BinSpec, len(c.specs))
	copy(out, c.specs)
	return out
}

// Len returns the number of bins in the catalog.
func (c *Catalog) Len() int {
	return len(c.specs)
}

// EffectiveSize resolves the footprint of a placement: its overrides when
// set, otherwise the catalog size. It returns false when the bin ID is unknown.
func (c *Catalog) EffectiveSize(p Placement) (Size, bool) {
	spec, ok := c.Lookup(p.BinID)
	if !ok {
		return Size{}, false
	}
	size := spec.Size()
	if p.Width != nil {
		size.Width = *p.Width
	}
	if p.Length != nil {
		size.Length = *p.Length
	}
	return size, true
}

// EffectiveRect is EffectiveSize positioned at the placement's origin.
func (c *Catalog) EffectiveRect(p Placement) (Rect, bool) {
	size, ok := c.EffectiveSize(p)
	if !ok {
		return Rect{}, false
	}
	return Rect{X: p.X, Y: p.Y, Width: size.Width, Length: size.Length}, true
}

// DefaultBins returns the built-in bin table: every whole-inch footprint from
// 1x1 to 6x6, two inches tall.
func DefaultBins() []BinSpec {
	var specs []BinSpec
	for w := 1; w <= 6; w++ {
		for l := 1; l <= 6; l++ {
			specs = append(specs, BinSpec{
				ID:     fmt.Sprintf("bin-%dx%d", w, l),
				Name:   fmt.Sprintf("%d\" x %d\" bin", w, l),
				Width:  float64(w),
				Length: float64(l),
				Height: 2,
			})
		}
	}
	return specs
}

// DefaultCatalog returns a catalog over DefaultBins.
func DefaultCatalog() *Catalog {
	return MustCatalog(DefaultBins())
}
